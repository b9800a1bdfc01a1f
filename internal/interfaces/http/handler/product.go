package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	catalogapp "github.com/merrysway/storefront/internal/application/catalog"
)

// ProductHandler serves the public menu
type ProductHandler struct {
	BaseHandler
	catalogService *catalogapp.Service
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(catalogService *catalogapp.Service) *ProductHandler {
	return &ProductHandler{catalogService: catalogService}
}

// List returns the products matching the optional category and search terms
// GET /api/v1/products
func (h *ProductHandler) List(c *gin.Context) {
	var query catalogapp.ListProductsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err)
		return
	}
	products, err := h.catalogService.List(c.Request.Context(), query.Filter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Resource(c, http.StatusOK, products)
}
