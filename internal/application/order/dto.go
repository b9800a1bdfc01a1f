package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/merrysway/storefront/internal/domain/order"
)

// UpdateOrderItemRequest is one requested line of a full order replacement
type UpdateOrderItemRequest struct {
	Name         string          `json:"name" binding:"required,max=100"`
	Quantity     int             `json:"quantity" binding:"gte=1,lte=99"`
	PerUnitPrice decimal.Decimal `json:"per_unit_price"`
}

// UpdateActiveOrderRequest replaces the active order. An empty item list
// clears it.
type UpdateActiveOrderRequest struct {
	Items []UpdateOrderItemRequest `json:"items" binding:"dive"`
}

// Lines converts the request into domain line inputs
func (r UpdateActiveOrderRequest) Lines() []order.LineInput {
	lines := make([]order.LineInput, 0, len(r.Items))
	for _, item := range r.Items {
		lines = append(lines, order.LineInput{
			Name:         item.Name,
			Quantity:     item.Quantity,
			PerUnitPrice: item.PerUnitPrice,
		})
	}
	return lines
}

// OrderItemResponse is a priced order line
type OrderItemResponse struct {
	Name         string          `json:"name"`
	Quantity     int             `json:"quantity"`
	PerUnitPrice decimal.Decimal `json:"per_unit_price"`
	TotalPrice   decimal.Decimal `json:"total_price"`
}

// ActiveOrderResponse is the pending order as the cart sees it
type ActiveOrderResponse struct {
	Items []OrderItemResponse `json:"items"`
	Total decimal.Decimal     `json:"total"`
}

// OrderHistoryResponse is a confirmed order
type OrderHistoryResponse struct {
	ID        uuid.UUID           `json:"id"`
	Items     []OrderItemResponse `json:"items"`
	Total     decimal.Decimal     `json:"total"`
	Status    string              `json:"status"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// EmptyActiveOrder is the response when no order is pending
func EmptyActiveOrder() *ActiveOrderResponse {
	return &ActiveOrderResponse{Items: []OrderItemResponse{}, Total: decimal.Zero}
}

// ToActiveOrderResponse converts a pending order; nil yields an empty order
func ToActiveOrderResponse(o *order.ActiveOrder) *ActiveOrderResponse {
	if o == nil {
		return EmptyActiveOrder()
	}
	return &ActiveOrderResponse{Items: toItemResponses(o.Items), Total: o.Total}
}

// ToOrderHistoryResponse converts a confirmed order
func ToOrderHistoryResponse(o order.ActiveOrder) OrderHistoryResponse {
	return OrderHistoryResponse{
		ID:        o.ID,
		Items:     toItemResponses(o.Items),
		Total:     o.Total,
		Status:    o.Status.String(),
		UpdatedAt: o.UpdatedAt,
	}
}

func toItemResponses(items []order.OrderItem) []OrderItemResponse {
	out := make([]OrderItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, OrderItemResponse{
			Name:         item.Name,
			Quantity:     item.Quantity,
			PerUnitPrice: item.PerUnitPrice,
			TotalPrice:   item.TotalPrice,
		})
	}
	return out
}
