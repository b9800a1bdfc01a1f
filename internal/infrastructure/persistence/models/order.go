package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/merrysway/storefront/internal/domain/order"
)

// OrderModel is a pending or confirmed order
type OrderModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserEmail   string          `gorm:"type:varchar(255);not null;index:idx_orders_user_status,priority:1"`
	Status      order.Status    `gorm:"type:varchar(20);not null;index:idx_orders_user_status,priority:2"`
	Total       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
	ConfirmedAt *time.Time
	Items       []OrderItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel is one line of an order; Position keeps insertion order
type OrderItemModel struct {
	ID           uint            `gorm:"primaryKey;autoIncrement"`
	OrderID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position     int             `gorm:"not null"`
	Name         string          `gorm:"type:varchar(100);not null"`
	Quantity     int             `gorm:"not null"`
	PerUnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the model and its preloaded items
func (m *OrderModel) ToDomain() *order.ActiveOrder {
	items := make([]order.OrderItem, len(m.Items))
	for i, item := range m.Items {
		items[i] = order.OrderItem{
			Name:         item.Name,
			Quantity:     item.Quantity,
			PerUnitPrice: item.PerUnitPrice,
			TotalPrice:   item.TotalPrice,
		}
	}
	return &order.ActiveOrder{
		ID:          m.ID,
		UserEmail:   m.UserEmail,
		Items:       items,
		Total:       m.Total,
		Status:      m.Status,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		ConfirmedAt: m.ConfirmedAt,
	}
}

// OrderModelFromDomain converts a domain order, numbering its items
func OrderModelFromDomain(o *order.ActiveOrder) *OrderModel {
	items := make([]OrderItemModel, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemModel{
			OrderID:      o.ID,
			Position:     i,
			Name:         item.Name,
			Quantity:     item.Quantity,
			PerUnitPrice: item.PerUnitPrice,
			TotalPrice:   item.TotalPrice,
		}
	}
	return &OrderModel{
		ID:          o.ID,
		UserEmail:   o.UserEmail,
		Status:      o.Status,
		Total:       o.Total,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
		ConfirmedAt: o.ConfirmedAt,
		Items:       items,
	}
}
