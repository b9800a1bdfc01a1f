package catalog

import "context"

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindAll lists products matching the filter, ordered by name
	FindAll(ctx context.Context, filter Filter) ([]Product, error)

	// FindByName finds a product by its unique name
	FindByName(ctx context.Context, name string) (*Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error
}
