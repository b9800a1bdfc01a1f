package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	orderapp "github.com/merrysway/storefront/internal/application/order"
)

// OrderHandler serves the customer's active order and order history
type OrderHandler struct {
	BaseHandler
	orderService *orderapp.Service
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *orderapp.Service) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// GetActive returns the pending order, or an empty order when there is none
// GET /api/v1/orders/active
func (h *OrderHandler) GetActive(c *gin.Context) {
	email, ok := h.userEmail(c)
	if !ok {
		return
	}
	resp, err := h.orderService.GetActive(c.Request.Context(), email)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Resource(c, http.StatusOK, resp)
}

// ReplaceActive replaces the pending order's items wholesale. An empty list
// deletes the order.
// PUT /api/v1/orders/active
func (h *OrderHandler) ReplaceActive(c *gin.Context) {
	email, ok := h.userEmail(c)
	if !ok {
		return
	}
	var req orderapp.UpdateActiveOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}
	resp, err := h.orderService.ReplaceActive(c.Request.Context(), email, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Resource(c, http.StatusOK, resp)
}

// ClearActive deletes the pending order
// DELETE /api/v1/orders/active
func (h *OrderHandler) ClearActive(c *gin.Context) {
	email, ok := h.userEmail(c)
	if !ok {
		return
	}
	if err := h.orderService.ClearActive(c.Request.Context(), email); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Confirm places the pending order
// POST /api/v1/orders/active/confirm
func (h *OrderHandler) Confirm(c *gin.Context) {
	email, ok := h.userEmail(c)
	if !ok {
		return
	}
	resp, err := h.orderService.Confirm(c.Request.Context(), email)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Resource(c, http.StatusOK, resp)
}

// History lists confirmed orders, newest first
// GET /api/v1/orders/history
func (h *OrderHandler) History(c *gin.Context) {
	email, ok := h.userEmail(c)
	if !ok {
		return
	}
	resp, err := h.orderService.History(c.Request.Context(), email)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Resource(c, http.StatusOK, resp)
}
