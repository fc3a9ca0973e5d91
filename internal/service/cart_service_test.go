package service

import (
	"testing"

	"ecommerce-api/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCartTotalsUseLivePrices(t *testing.T) {
	// Line totals come from the current catalog price, not from
	// anything stored on the cart row.
	price := decimal.RequireFromString("25.00")
	product := &models.Product{Name: "Headphones", Price: price}

	items := []CartItemResponse{
		{Quantity: 2, Product: toProductResponse(product)},
		{Quantity: 1, Product: nil}, // vanished product
	}

	total := decimal.Zero
	count := 0
	for _, item := range items {
		count += item.Quantity
		if item.Product != nil {
			total = total.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
	}

	assert.Equal(t, 3, count)
	assert.True(t, total.Equal(decimal.RequireFromString("50.00")))
}

func TestAddToCartMergesQuantities(t *testing.T) {
	// Quantity merge happens in a single upsert statement; covered by
	// the store integration suite.
	t.Skip("Integration test - requires database")
}

func TestUpdateCartItemZeroQuantityRemovesLine(t *testing.T) {
	t.Skip("Integration test - requires database")
}

func TestReconcileOutOfStock(t *testing.T) {
	t.Skip("Integration test - requires database and MongoDB")
}
