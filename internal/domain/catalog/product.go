// Package catalog holds the coffee shop menu.
package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/merrysway/storefront/internal/domain/shared"
)

// Product is a menu entry. Name is the identity the cart and the ordering
// assistant use; it is unique across the catalog.
type Product struct {
	ID          uuid.UUID
	Name        string
	Category    string
	Description string
	Price       decimal.Decimal
	Rating      float64
	Ingredients []string
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewProduct creates a validated product
func NewProduct(name, category string, price decimal.Decimal) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot exceed 100 characters")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	now := time.Now()
	return &Product{
		ID:        uuid.New(),
		Name:      name,
		Category:  strings.TrimSpace(category),
		Price:     price,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Filter narrows a catalog listing. Empty fields match everything.
type Filter struct {
	Category string
	Search   string
}

// IsZero reports whether the filter matches the whole catalog
func (f Filter) IsZero() bool {
	return f.Category == "" && f.Search == ""
}

// Matches applies the filter in memory: exact category, case-insensitive
// substring on name.
func (f Filter) Matches(p Product) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

// IndexByName builds a name lookup for joining order lines to menu entries
func IndexByName(products []Product) map[string]Product {
	index := make(map[string]Product, len(products))
	for _, p := range products {
		index[p.Name] = p
	}
	return index
}
