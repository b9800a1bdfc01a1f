package persistence

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/merrysway/storefront/internal/domain/catalog"
	"github.com/merrysway/storefront/internal/domain/shared"
)

func seedProducts(t *testing.T, repo *GormProductRepository) {
	t.Helper()
	for _, p := range []struct {
		name, category string
		price          int64
	}{
		{"Latte", "Coffee", 150},
		{"Mocha", "Coffee", 180},
		{"Chocolate Croissant", "Bakery", 120},
		{"100% Juice", "Drinks", 100},
	} {
		product, err := catalog.NewProduct(p.name, p.category, decimal.NewFromInt(p.price))
		require.NoError(t, err)
		product.Ingredients = []string{"love"}
		require.NoError(t, repo.Save(context.Background(), product))
	}
}

func TestGormProductRepository_FindAll(t *testing.T) {
	repo := NewGormProductRepository(newTestDatabase(t).DB)
	seedProducts(t, repo)

	tests := []struct {
		name   string
		filter catalog.Filter
		want   []string
	}{
		{"everything ordered by name", catalog.Filter{}, []string{"100% Juice", "Chocolate Croissant", "Latte", "Mocha"}},
		{"by category", catalog.Filter{Category: "Coffee"}, []string{"Latte", "Mocha"}},
		{"search is case insensitive", catalog.Filter{Search: "CHOC"}, []string{"Chocolate Croissant"}},
		{"category and search", catalog.Filter{Category: "Coffee", Search: "moc"}, []string{"Mocha"}},
		{"wildcards are literal", catalog.Filter{Search: "%"}, []string{"100% Juice"}},
		{"no match", catalog.Filter{Category: "Tea"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, err := repo.FindAll(context.Background(), tt.filter)
			require.NoError(t, err)
			var names []string
			for _, p := range products {
				names = append(names, p.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestGormProductRepository_FindByName(t *testing.T) {
	ctx := context.Background()
	repo := NewGormProductRepository(newTestDatabase(t).DB)
	seedProducts(t, repo)

	p, err := repo.FindByName(ctx, "Latte")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(150).Equal(p.Price))
	assert.Equal(t, []string{"love"}, p.Ingredients)

	_, err = repo.FindByName(ctx, "Espresso")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormProductRepository_SaveUpserts(t *testing.T) {
	ctx := context.Background()
	repo := NewGormProductRepository(newTestDatabase(t).DB)
	seedProducts(t, repo)

	updated, err := catalog.NewProduct("Latte", "Coffee", decimal.NewFromInt(160))
	require.NoError(t, err)
	updated.ImageURL = "products/latte.png"
	require.NoError(t, repo.Save(ctx, updated))

	p, err := repo.FindByName(ctx, "Latte")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(160).Equal(p.Price))
	assert.Equal(t, "products/latte.png", p.ImageURL)

	all, err := repo.FindAll(ctx, catalog.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)
}
