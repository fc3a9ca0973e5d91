package service

import (
	"testing"

	"ecommerce-api/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDescribeVariation(t *testing.T) {
	assert.Equal(t, "Color: Black, Size: L",
		describeVariation(&models.ProductVariation{Color: "Black", Size: "L"}))
	assert.Equal(t, "Color: Red",
		describeVariation(&models.ProductVariation{Color: "Red"}))
	assert.Equal(t, "Size: 42",
		describeVariation(&models.ProductVariation{Size: "42"}))
	assert.Equal(t, "",
		describeVariation(&models.ProductVariation{}))
}

func TestOrderItemSubtotals(t *testing.T) {
	unit := decimal.RequireFromString("19.99")
	subtotal := unit.Mul(decimal.NewFromInt(3))

	assert.True(t, subtotal.Equal(decimal.RequireFromString("59.97")))
}

func TestCreateOrderSkipsUnresolvableLines(t *testing.T) {
	// Resolution against the live catalog needs MongoDB; the silent-skip
	// behavior is covered end to end by the integration suite.
	t.Skip("Integration test - requires MongoDB and database")
}

func TestCancelOrder(t *testing.T) {
	t.Skip("Integration test - requires database")
}
