package order

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/merrysway/storefront/internal/domain/order"
	"github.com/merrysway/storefront/internal/domain/shared"
)

const email = "ana@example.com"

// MockOrderRepository is a mock implementation of order.Repository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindActive(ctx context.Context, userEmail string) (*order.ActiveOrder, error) {
	args := m.Called(ctx, userEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.ActiveOrder), args.Error(1)
}

func (m *MockOrderRepository) ReplaceActive(ctx context.Context, o *order.ActiveOrder) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) DeleteActive(ctx context.Context, userEmail string) error {
	args := m.Called(ctx, userEmail)
	return args.Error(0)
}

func (m *MockOrderRepository) SaveConfirmed(ctx context.Context, o *order.ActiveOrder) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) FindConfirmed(ctx context.Context, userEmail string) ([]order.ActiveOrder, error) {
	args := m.Called(ctx, userEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.ActiveOrder), args.Error(1)
}

func pendingOrder(t *testing.T, lines ...order.LineInput) *order.ActiveOrder {
	t.Helper()
	o, err := order.NewActiveOrder(email)
	require.NoError(t, err)
	require.NoError(t, o.ReplaceItems(lines))
	return o
}

func latte(qty int) order.LineInput {
	return order.LineInput{Name: "Latte", Quantity: qty, PerUnitPrice: decimal.RequireFromString("4.75")}
}

func TestService_GetActive(t *testing.T) {
	ctx := context.Background()

	t.Run("no pending order is empty", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("FindActive", ctx, email).Return(nil, shared.ErrNotFound)

		resp, err := NewService(repo, zap.NewNop()).GetActive(ctx, email)
		require.NoError(t, err)
		assert.Empty(t, resp.Items)
		assert.NotNil(t, resp.Items)
		assert.True(t, resp.Total.IsZero())
	})

	t.Run("returns priced items", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("FindActive", ctx, email).Return(pendingOrder(t, latte(2)), nil)

		resp, err := NewService(repo, zap.NewNop()).GetActive(ctx, email)
		require.NoError(t, err)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, "9.5", resp.Items[0].TotalPrice.String())
		assert.Equal(t, "9.5", resp.Total.String())
	})

	t.Run("repository failure", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("FindActive", ctx, email).Return(nil, errors.New("db down"))

		_, err := NewService(repo, zap.NewNop()).GetActive(ctx, email)
		assert.Error(t, err)
	})
}

func TestService_ReplaceActive(t *testing.T) {
	ctx := context.Background()

	t.Run("creates order when none is pending", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("FindActive", ctx, email).Return(nil, shared.ErrNotFound)
		repo.On("ReplaceActive", ctx, mock.MatchedBy(func(o *order.ActiveOrder) bool {
			return o.UserEmail == email && len(o.Items) == 1 && o.Status == order.StatusPending
		})).Return(nil)

		req := UpdateActiveOrderRequest{Items: []UpdateOrderItemRequest{{Name: "Latte", Quantity: 3, PerUnitPrice: decimal.RequireFromString("4.75")}}}
		resp, err := NewService(repo, zap.NewNop()).ReplaceActive(ctx, email, req)
		require.NoError(t, err)
		assert.Equal(t, "14.25", resp.Total.String())
		repo.AssertExpectations(t)
	})

	t.Run("keeps identity of existing order", func(t *testing.T) {
		repo := new(MockOrderRepository)
		existing := pendingOrder(t, latte(1))
		repo.On("FindActive", ctx, email).Return(existing, nil)
		repo.On("ReplaceActive", ctx, mock.MatchedBy(func(o *order.ActiveOrder) bool {
			return o.ID == existing.ID
		})).Return(nil)

		_, err := NewService(repo, zap.NewNop()).Replace(ctx, email, []order.LineInput{latte(2)})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("empty list deletes", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("DeleteActive", ctx, email).Return(nil)

		resp, err := NewService(repo, zap.NewNop()).ReplaceActive(ctx, email, UpdateActiveOrderRequest{})
		require.NoError(t, err)
		assert.Empty(t, resp.Items)
		repo.AssertNotCalled(t, "ReplaceActive", mock.Anything, mock.Anything)
	})

	t.Run("invalid line is rejected before saving", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("FindActive", ctx, email).Return(nil, shared.ErrNotFound)

		req := UpdateActiveOrderRequest{Items: []UpdateOrderItemRequest{{Name: "Latte", Quantity: 1, PerUnitPrice: decimal.NewFromInt(-1)}}}
		_, err := NewService(repo, zap.NewNop()).ReplaceActive(ctx, email, req)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_PRICE", domainErr.Code)
		repo.AssertNotCalled(t, "ReplaceActive", mock.Anything, mock.Anything)
	})
}

func TestService_ClearActive(t *testing.T) {
	ctx := context.Background()
	repo := new(MockOrderRepository)
	repo.On("DeleteActive", ctx, email).Return(nil).Twice()

	svc := NewService(repo, zap.NewNop())
	require.NoError(t, svc.ClearActive(ctx, email))
	require.NoError(t, svc.ClearActive(ctx, email))
	repo.AssertExpectations(t)
}

func TestService_Confirm(t *testing.T) {
	ctx := context.Background()

	t.Run("confirms pending order", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("FindActive", ctx, email).Return(pendingOrder(t, latte(1)), nil)
		repo.On("SaveConfirmed", ctx, mock.MatchedBy(func(o *order.ActiveOrder) bool {
			return o.Status == order.StatusConfirmed && o.ConfirmedAt != nil
		})).Return(nil)

		resp, err := NewService(repo, zap.NewNop()).Confirm(ctx, email)
		require.NoError(t, err)
		assert.Equal(t, "CONFIRMED", resp.Status)
	})

	t.Run("nothing to confirm", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("FindActive", ctx, email).Return(nil, shared.ErrNotFound)

		_, err := NewService(repo, zap.NewNop()).Confirm(ctx, email)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NO_ACTIVE_ORDER", domainErr.Code)
	})
}

func TestService_History(t *testing.T) {
	ctx := context.Background()
	repo := new(MockOrderRepository)
	confirmed := pendingOrder(t, latte(1))
	require.NoError(t, confirmed.Confirm())
	repo.On("FindConfirmed", ctx, email).Return([]order.ActiveOrder{*confirmed}, nil)

	got, err := NewService(repo, zap.NewNop()).History(ctx, email)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, confirmed.ID, got[0].ID)
	assert.Equal(t, "CONFIRMED", got[0].Status)
}
