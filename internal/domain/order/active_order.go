// Package order models the single in-progress order a customer builds up
// through the storefront cart or the ordering assistant.
package order

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/merrysway/storefront/internal/domain/shared"
)

// Status represents the lifecycle state of an order
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
)

// IsValid checks if the status is a known Status
func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusConfirmed
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// OrderItem is a priced line of an order. Name identifies the product and
// is unique within an order.
type OrderItem struct {
	Name         string
	Quantity     int
	PerUnitPrice decimal.Decimal
	TotalPrice   decimal.Decimal // PerUnitPrice * Quantity, rounded to 2 places
}

// LineInput is a requested line as sent by a client that replaces the whole
// order. Prices come from the client the way the storefront displays them.
type LineInput struct {
	Name         string          `json:"name" validate:"required,max=100"`
	Quantity     int             `json:"quantity" validate:"gte=1"`
	PerUnitPrice decimal.Decimal `json:"per_unit_price"`
}

// NewOrderItem creates a validated order item and computes its total
func NewOrderItem(name string, quantity int, perUnitPrice decimal.Decimal) (OrderItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return OrderItem{}, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity < 1 {
		return OrderItem{}, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	if perUnitPrice.IsNegative() {
		return OrderItem{}, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	return OrderItem{
		Name:         name,
		Quantity:     quantity,
		PerUnitPrice: perUnitPrice,
		TotalPrice:   perUnitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2),
	}, nil
}

// ActiveOrder is the aggregate holding a user's order. At most one PENDING
// order exists per user; confirmed orders are kept as history.
type ActiveOrder struct {
	ID          uuid.UUID
	UserEmail   string
	Items       []OrderItem
	Total       decimal.Decimal
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ConfirmedAt *time.Time
}

// NewActiveOrder creates an empty pending order for a user
func NewActiveOrder(userEmail string) (*ActiveOrder, error) {
	userEmail = strings.TrimSpace(userEmail)
	if userEmail == "" {
		return nil, shared.NewDomainError("INVALID_USER", "User email cannot be empty")
	}
	now := time.Now()
	return &ActiveOrder{
		ID:        uuid.New(),
		UserEmail: userEmail,
		Items:     []OrderItem{},
		Total:     decimal.Zero,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ReplaceItems replaces the full item list. Lines sharing a name are merged
// by summing quantities; the first line's price wins.
func (o *ActiveOrder) ReplaceItems(lines []LineInput) error {
	if o.Status != StatusPending {
		return shared.NewDomainError("ORDER_NOT_PENDING", "Only a pending order can be modified")
	}

	index := make(map[string]int, len(lines))
	merged := make([]LineInput, 0, len(lines))
	for _, line := range lines {
		key := strings.TrimSpace(line.Name)
		if i, ok := index[key]; ok {
			merged[i].Quantity += line.Quantity
			continue
		}
		index[key] = len(merged)
		merged = append(merged, line)
	}

	items := make([]OrderItem, 0, len(merged))
	for _, line := range merged {
		item, err := NewOrderItem(line.Name, line.Quantity, line.PerUnitPrice)
		if err != nil {
			return err
		}
		items = append(items, item)
	}

	o.Items = items
	o.recalculateTotal()
	o.UpdatedAt = time.Now()
	return nil
}

// Confirm moves the order out of the pending state
func (o *ActiveOrder) Confirm() error {
	if o.Status != StatusPending {
		return shared.NewDomainError("ORDER_NOT_PENDING", "Only a pending order can be confirmed")
	}
	if o.IsEmpty() {
		return shared.NewDomainError("EMPTY_ORDER", "Cannot confirm an empty order")
	}
	now := time.Now()
	o.Status = StatusConfirmed
	o.ConfirmedAt = &now
	o.UpdatedAt = now
	return nil
}

// IsEmpty reports whether the order has no items
func (o *ActiveOrder) IsEmpty() bool {
	return len(o.Items) == 0
}

// FindItem returns the item with the given name
func (o *ActiveOrder) FindItem(name string) (OrderItem, bool) {
	for _, item := range o.Items {
		if item.Name == name {
			return item, true
		}
	}
	return OrderItem{}, false
}

func (o *ActiveOrder) recalculateTotal() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.TotalPrice)
	}
	o.Total = total.Round(2)
}
