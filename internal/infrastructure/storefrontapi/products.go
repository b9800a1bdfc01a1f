package storefrontapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/merrysway/storefront/internal/domain/catalog"
)

// ProductsClient lists the public menu
type ProductsClient struct {
	client *Client
}

// ListProducts returns the products matching filter, ordered by name
func (c *ProductsClient) ListProducts(ctx context.Context, filter catalog.Filter) ([]catalog.Product, error) {
	query := url.Values{}
	if filter.Category != "" {
		query.Set("category", filter.Category)
	}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}

	var body []productBody
	if err := c.client.do(ctx, request{method: http.MethodGet, path: pathProducts, query: query}, &body); err != nil {
		return nil, err
	}
	products := make([]catalog.Product, 0, len(body))
	for _, p := range body {
		products = append(products, p.toDomain())
	}
	return products, nil
}
