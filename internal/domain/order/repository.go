package order

import "context"

// Repository defines persistence for orders. Pending orders are keyed by
// user email; saving a pending order replaces the previous one.
type Repository interface {
	// FindActive returns the user's pending order or shared.ErrNotFound
	FindActive(ctx context.Context, userEmail string) (*ActiveOrder, error)

	// ReplaceActive stores order as the user's only pending order
	ReplaceActive(ctx context.Context, order *ActiveOrder) error

	// DeleteActive removes the user's pending order; a missing order is not an error
	DeleteActive(ctx context.Context, userEmail string) error

	// SaveConfirmed removes the pending order and stores it as confirmed
	SaveConfirmed(ctx context.Context, order *ActiveOrder) error

	// FindConfirmed lists confirmed orders, newest first
	FindConfirmed(ctx context.Context, userEmail string) ([]ActiveOrder, error)
}
