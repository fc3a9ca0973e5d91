package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func boolPtr(b bool) *bool { return &b }

func TestTotalStockIncludesActiveVariationsOnly(t *testing.T) {
	p := &Product{
		StockQuantity: 5,
		Variations: []ProductVariation{
			{SKU: "V1", StockQuantity: 3},
			{SKU: "V2", StockQuantity: 7, IsActive: boolPtr(false)},
			{SKU: "V3", StockQuantity: 2, IsActive: boolPtr(true)},
		},
	}

	// 5 own + 3 (flag missing counts as active) + 2 active
	assert.Equal(t, 10, p.TotalStock())
}

func TestTotalStockNoVariations(t *testing.T) {
	p := &Product{StockQuantity: 4}
	assert.Equal(t, 4, p.TotalStock())
}

func TestAverageRatingApprovedOnly(t *testing.T) {
	p := &Product{
		Reviews: []ProductReview{
			{Rating: 5, IsApproved: true},
			{Rating: 4, IsApproved: true},
			{Rating: 1, IsApproved: false},
		},
	}

	assert.Equal(t, 4.5, p.AverageRating())
	assert.Equal(t, 2, p.TotalReviews())
}

func TestAverageRatingNoApprovedReviews(t *testing.T) {
	p := &Product{
		Reviews: []ProductReview{
			{Rating: 3, IsApproved: false},
		},
	}

	assert.Equal(t, 0.0, p.AverageRating())
	assert.Equal(t, 0, p.TotalReviews())
}

func TestProductActiveDefaultsToTrue(t *testing.T) {
	assert.True(t, (&Product{}).Active())
	assert.True(t, (&Product{IsActive: boolPtr(true)}).Active())
	assert.False(t, (&Product{IsActive: boolPtr(false)}).Active())
}

func TestFindVariation(t *testing.T) {
	p := &Product{
		Variations: []ProductVariation{
			{SKU: "A"},
			{SKU: "B"},
		},
	}

	v := p.FindVariation("B")
	assert.NotNil(t, v)
	assert.Equal(t, "B", v.SKU)
	assert.Nil(t, p.FindVariation("C"))
}

func TestSpecialPropertiesAny(t *testing.T) {
	assert.False(t, SpecialProperties{}.Any())
	assert.True(t, SpecialProperties{HasOffer: true}.Any())
}
