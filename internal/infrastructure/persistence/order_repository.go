package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/merrysway/storefront/internal/domain/order"
	"github.com/merrysway/storefront/internal/domain/shared"
	"github.com/merrysway/storefront/internal/infrastructure/persistence/models"
)

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// FindActive finds the user's pending order with its items
func (r *GormOrderRepository) FindActive(ctx context.Context, userEmail string) (*order.ActiveOrder, error) {
	var model models.OrderModel
	err := r.db.WithContext(ctx).
		Preload("Items", orderedItems).
		Where("user_email = ? AND status = ?", userEmail, order.StatusPending).
		Order("updated_at DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ReplaceActive drops any pending order of the user and inserts o in one
// transaction
func (r *GormOrderRepository) ReplaceActive(ctx context.Context, o *order.ActiveOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deletePending(tx, o.UserEmail); err != nil {
			return err
		}
		return tx.Create(models.OrderModelFromDomain(o)).Error
	})
}

// DeleteActive removes the user's pending order
func (r *GormOrderRepository) DeleteActive(ctx context.Context, userEmail string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deletePending(tx, userEmail)
	})
}

// SaveConfirmed replaces the pending order with its confirmed copy
func (r *GormOrderRepository) SaveConfirmed(ctx context.Context, o *order.ActiveOrder) error {
	if o.Status != order.StatusConfirmed {
		return shared.ErrInvalidState
	}
	return r.ReplaceActive(ctx, o)
}

// FindConfirmed lists confirmed orders newest first
func (r *GormOrderRepository) FindConfirmed(ctx context.Context, userEmail string) ([]order.ActiveOrder, error) {
	var rows []models.OrderModel
	err := r.db.WithContext(ctx).
		Preload("Items", orderedItems).
		Where("user_email = ? AND status = ?", userEmail, order.StatusConfirmed).
		Order("confirmed_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	orders := make([]order.ActiveOrder, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, nil
}

// deletePending removes items explicitly since sqlite may run without
// foreign key enforcement
func deletePending(tx *gorm.DB, userEmail string) error {
	var ids []string
	if err := tx.Model(&models.OrderModel{}).
		Where("user_email = ? AND status = ?", userEmail, order.StatusPending).
		Pluck("id", &ids).Error; err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("order_id IN ?", ids).Delete(&models.OrderItemModel{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", ids).Delete(&models.OrderModel{}).Error
}

var _ order.Repository = (*GormOrderRepository)(nil)
