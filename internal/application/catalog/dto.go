package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/merrysway/storefront/internal/domain/catalog"
)

// ListProductsQuery holds the public catalog query parameters
type ListProductsQuery struct {
	Category string `form:"category" binding:"max=50"`
	Search   string `form:"search" binding:"max=100"`
}

// Filter converts the query into a domain filter
func (q ListProductsQuery) Filter() catalog.Filter {
	return catalog.Filter{Category: q.Category, Search: q.Search}
}

// ProductResponse represents a menu entry in API responses
type ProductResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Rating      float64         `json:"rating"`
	Ingredients []string        `json:"ingredients"`
	ImageURL    string          `json:"image_url"`
}

// ToProductResponse converts a domain product; imageURL is the signed URL
func ToProductResponse(p catalog.Product, imageURL string) ProductResponse {
	ingredients := p.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	}
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Description: p.Description,
		Price:       p.Price,
		Rating:      p.Rating,
		Ingredients: ingredients,
		ImageURL:    imageURL,
	}
}

// SeedProduct is one line of a products JSONL seed file
type SeedProduct struct {
	Name        string          `json:"name" validate:"required,max=100"`
	Category    string          `json:"category" validate:"max=50"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Rating      *float64        `json:"rating" validate:"omitempty,gte=0,lte=5"`
	Ingredients []string        `json:"ingredients"`
	ImagePath   string          `json:"image_path"`
}

// ImageRef is the reference stored on the product for a seed image path
func (s SeedProduct) ImageRef() string {
	if s.ImagePath == "" {
		return ""
	}
	return "/images/" + s.ImagePath
}
