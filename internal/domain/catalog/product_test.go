package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	p, err := NewProduct(" Latte ", "Coffee", decimal.NewFromInt(150))
	require.NoError(t, err)
	assert.Equal(t, "Latte", p.Name)
	assert.Equal(t, "Coffee", p.Category)

	_, err = NewProduct("", "Coffee", decimal.NewFromInt(1))
	assert.Error(t, err)

	_, err = NewProduct("Latte", "Coffee", decimal.NewFromInt(-1))
	assert.Error(t, err)
}

func TestFilter_Matches(t *testing.T) {
	latte := Product{Name: "Latte", Category: "Coffee"}
	croissant := Product{Name: "Chocolate Croissant", Category: "Bakery"}

	tests := []struct {
		name    string
		filter  Filter
		product Product
		want    bool
	}{
		{"zero filter matches", Filter{}, latte, true},
		{"category match", Filter{Category: "Coffee"}, latte, true},
		{"category mismatch", Filter{Category: "Bakery"}, latte, false},
		{"search is case insensitive", Filter{Search: "croiss"}, croissant, true},
		{"search miss", Filter{Search: "mocha"}, latte, false},
		{"both must match", Filter{Category: "Coffee", Search: "croissant"}, croissant, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(tt.product))
		})
	}
}

func TestIndexByName(t *testing.T) {
	index := IndexByName([]Product{{Name: "Latte"}, {Name: "Mocha"}})
	assert.Len(t, index, 2)
	_, ok := index["Mocha"]
	assert.True(t, ok)
}
