// Package order manages the customer's active order and order history.
package order

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/merrysway/storefront/internal/domain/order"
	"github.com/merrysway/storefront/internal/domain/shared"
	"github.com/merrysway/storefront/internal/infrastructure/logger"
)

// Service handles active order operations. Every call is scoped to the
// authenticated user's email.
type Service struct {
	repo   order.Repository
	logger *zap.Logger
}

// NewService creates a new order service
func NewService(repo order.Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Active returns the user's pending order, or nil when there is none
func (s *Service) Active(ctx context.Context, userEmail string) (*order.ActiveOrder, error) {
	active, err := s.repo.FindActive(ctx, userEmail)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return active, nil
}

// Replace sets the full item list of the user's pending order, creating it
// when needed. An empty list deletes the pending order and returns nil.
func (s *Service) Replace(ctx context.Context, userEmail string, lines []order.LineInput) (*order.ActiveOrder, error) {
	if len(lines) == 0 {
		return nil, s.repo.DeleteActive(ctx, userEmail)
	}

	active, err := s.Active(ctx, userEmail)
	if err != nil {
		return nil, err
	}
	if active == nil {
		if active, err = order.NewActiveOrder(userEmail); err != nil {
			return nil, err
		}
	}
	if err := active.ReplaceItems(lines); err != nil {
		return nil, err
	}
	if err := s.repo.ReplaceActive(ctx, active); err != nil {
		return nil, err
	}

	logger.L(ctx).Debug("Active order replaced",
		zap.Int("items", len(active.Items)),
		zap.String("total", active.Total.StringFixed(2)))
	return active, nil
}

// GetActive returns the pending order; no order is an empty response
func (s *Service) GetActive(ctx context.Context, userEmail string) (*ActiveOrderResponse, error) {
	active, err := s.Active(ctx, userEmail)
	if err != nil {
		return nil, err
	}
	return ToActiveOrderResponse(active), nil
}

// ReplaceActive replaces the pending order with req
func (s *Service) ReplaceActive(ctx context.Context, userEmail string, req UpdateActiveOrderRequest) (*ActiveOrderResponse, error) {
	active, err := s.Replace(ctx, userEmail, req.Lines())
	if err != nil {
		return nil, err
	}
	return ToActiveOrderResponse(active), nil
}

// ClearActive deletes the pending order. Clearing nothing succeeds.
func (s *Service) ClearActive(ctx context.Context, userEmail string) error {
	if err := s.repo.DeleteActive(ctx, userEmail); err != nil {
		return err
	}
	logger.L(ctx).Debug("Active order cleared")
	return nil
}

// Confirm moves the pending order into the history
func (s *Service) Confirm(ctx context.Context, userEmail string) (*OrderHistoryResponse, error) {
	active, err := s.Active(ctx, userEmail)
	if err != nil {
		return nil, err
	}
	if active == nil {
		return nil, shared.NewDomainError("NO_ACTIVE_ORDER", "There is no order to confirm")
	}
	if err := active.Confirm(); err != nil {
		return nil, err
	}
	if err := s.repo.SaveConfirmed(ctx, active); err != nil {
		return nil, err
	}

	s.logger.Info("Order confirmed",
		zap.String("order_id", active.ID.String()),
		zap.String("user_email", userEmail),
		zap.String("total", active.Total.StringFixed(2)))
	resp := ToOrderHistoryResponse(*active)
	return &resp, nil
}

// History lists confirmed orders, newest first
func (s *Service) History(ctx context.Context, userEmail string) ([]OrderHistoryResponse, error) {
	orders, err := s.repo.FindConfirmed(ctx, userEmail)
	if err != nil {
		return nil, err
	}
	out := make([]OrderHistoryResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, ToOrderHistoryResponse(o))
	}
	return out, nil
}
