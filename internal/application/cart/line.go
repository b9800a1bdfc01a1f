package cart

import (
	"github.com/shopspring/decimal"

	"github.com/merrysway/storefront/internal/domain/catalog"
	"github.com/merrysway/storefront/internal/domain/order"
)

// Line is one product in the cart. ProductName is the line identity; a cart
// never holds two lines with the same name, and Quantity is always >= 1.
type Line struct {
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
	ImageRef    string
	Category    string
	// LineTotal is the server computed total, nil after a local edit
	LineTotal *decimal.Decimal
}

// Total returns the server computed total when known, otherwise
// UnitPrice * Quantity.
func (l Line) Total() decimal.Decimal {
	if l.LineTotal != nil {
		return *l.LineTotal
	}
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is an immutable snapshot of the engine state handed to callers and
// subscribers.
type Cart struct {
	Lines []Line
	// Pending is true while a debounced push is scheduled but not yet sent
	Pending bool
	// Version increases with every local mutation
	Version uint64
}

// Find returns the line for a product name
func (c Cart) Find(name string) (Line, bool) {
	for _, l := range c.Lines {
		if l.ProductName == name {
			return l, true
		}
	}
	return Line{}, false
}

// Len returns the number of distinct products
func (c Cart) Len() int {
	return len(c.Lines)
}

// ItemCount returns the sum of all quantities
func (c Cart) ItemCount() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// Subtotal sums all line totals
func (c Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Total())
	}
	return total
}

// IsEmpty reports whether the cart has no lines
func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

func cloneLines(lines []Line) []Line {
	if len(lines) == 0 {
		return nil
	}
	out := make([]Line, len(lines))
	copy(out, lines)
	return out
}

func indexOf(lines []Line, name string) int {
	for i, l := range lines {
		if l.ProductName == name {
			return i
		}
	}
	return -1
}

// toLineInputs converts cart lines to the full replacement payload
func toLineInputs(lines []Line) []order.LineInput {
	if len(lines) == 0 {
		return nil
	}
	out := make([]order.LineInput, 0, len(lines))
	for _, l := range lines {
		out = append(out, order.LineInput{
			Name:         l.ProductName,
			Quantity:     l.Quantity,
			PerUnitPrice: l.UnitPrice,
		})
	}
	return out
}

// linesFromOrder builds cart lines from server state, joining display
// metadata from the catalog by name. Items sharing a name are merged and
// non-positive quantities are dropped so the cart invariants hold whatever
// the server returns.
func linesFromOrder(active *order.ActiveOrder, menu map[string]catalog.Product) []Line {
	if active == nil || len(active.Items) == 0 {
		return nil
	}
	lines := make([]Line, 0, len(active.Items))
	for _, item := range active.Items {
		if item.Quantity < 1 {
			continue
		}
		if i := indexOf(lines, item.Name); i >= 0 {
			lines[i].Quantity += item.Quantity
			lines[i].LineTotal = nil
			continue
		}
		total := item.TotalPrice
		line := Line{
			ProductName: item.Name,
			UnitPrice:   item.PerUnitPrice,
			Quantity:    item.Quantity,
			LineTotal:   &total,
		}
		if p, ok := menu[item.Name]; ok {
			line.ImageRef = p.ImageURL
			line.Category = p.Category
		}
		lines = append(lines, line)
	}
	return lines
}
