package storefrontapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/merrysway/storefront/internal/domain/order"
)

// OrdersClient reads and replaces the caller's active order
type OrdersClient struct {
	client *Client
}

// GetActive returns the active order; an order with no items when none exists
func (c *OrdersClient) GetActive(ctx context.Context) (*order.ActiveOrder, error) {
	var body activeOrderBody
	if err := c.client.do(ctx, request{method: http.MethodGet, path: pathActiveOrder, auth: true}, &body); err != nil {
		return nil, err
	}
	return body.toDomain(), nil
}

// UpdateActive replaces the whole active order with lines and returns the
// order as stored, with server computed totals.
func (c *OrdersClient) UpdateActive(ctx context.Context, lines []order.LineInput) (*order.ActiveOrder, error) {
	payload := updateOrderBody{Items: lines}
	if payload.Items == nil {
		payload.Items = []order.LineInput{}
	}
	if err := c.client.validate.Struct(payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	var body activeOrderBody
	req := request{method: http.MethodPut, path: pathActiveOrder, body: payload, auth: true}
	if err := c.client.do(ctx, req, &body); err != nil {
		return nil, err
	}
	return body.toDomain(), nil
}

// ClearActive deletes the active order
func (c *OrdersClient) ClearActive(ctx context.Context) error {
	return c.client.do(ctx, request{method: http.MethodDelete, path: pathActiveOrder, auth: true}, nil)
}

// History lists confirmed orders, newest first
func (c *OrdersClient) History(ctx context.Context) ([]order.ActiveOrder, error) {
	var body []orderHistoryBody
	if err := c.client.do(ctx, request{method: http.MethodGet, path: pathOrderHistory, auth: true}, &body); err != nil {
		return nil, err
	}
	orders := make([]order.ActiveOrder, 0, len(body))
	for _, o := range body {
		orders = append(orders, o.toDomain())
	}
	return orders, nil
}
