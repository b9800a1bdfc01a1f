package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/merrysway/storefront/internal/domain/catalog"
)

// ProductModel is a menu entry
type ProductModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name        string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	Category    string          `gorm:"type:varchar(50);not null;default:'';index"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Rating      float64         `gorm:"not null;default:0"`
	Ingredients []string        `gorm:"serializer:json"`
	ImageURL    string          `gorm:"type:varchar(500)"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product
func (m *ProductModel) ToDomain() catalog.Product {
	ingredients := m.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	}
	return catalog.Product{
		ID:          m.ID,
		Name:        m.Name,
		Category:    m.Category,
		Description: m.Description,
		Price:       m.Price,
		Rating:      m.Rating,
		Ingredients: ingredients,
		ImageURL:    m.ImageURL,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// FromDomain populates the model from a domain Product
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.ID = p.ID
	m.Name = p.Name
	m.Category = p.Category
	m.Description = p.Description
	m.Price = p.Price
	m.Rating = p.Rating
	m.Ingredients = p.Ingredients
	m.ImageURL = p.ImageURL
	m.CreatedAt = p.CreatedAt
	m.UpdatedAt = p.UpdatedAt
}
