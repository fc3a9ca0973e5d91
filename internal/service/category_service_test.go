package service

import (
	"errors"
	"testing"

	"ecommerce-api/internal/models"

	"github.com/stretchr/testify/assert"
)

func floatPtr(f float64) *float64 { return &f }

func TestCategoryFilterRequestValidate(t *testing.T) {
	valid := &CategoryFilterRequest{
		Category: "Electronics",
		Filters: []models.FilterOption{
			{Name: "brand", Type: models.FilterTypeString, Options: []string{"Sony", "LG"}},
			{Name: "screen", Type: models.FilterTypeRange, MinValue: floatPtr(10), MaxValue: floatPtr(85), Unit: "inch"},
		},
	}
	assert.NoError(t, valid.validate())
}

func TestCategoryFilterRequestValidateRejectsBadOptions(t *testing.T) {
	cases := map[string]*CategoryFilterRequest{
		"empty name": {
			Category: "Electronics",
			Filters:  []models.FilterOption{{Type: models.FilterTypeString, Options: []string{"x"}}},
		},
		"string filter without options": {
			Category: "Electronics",
			Filters:  []models.FilterOption{{Name: "brand", Type: models.FilterTypeString}},
		},
		"inverted range": {
			Category: "Electronics",
			Filters:  []models.FilterOption{{Name: "screen", Type: models.FilterTypeRange, MinValue: floatPtr(50), MaxValue: floatPtr(10)}},
		},
		"unknown type": {
			Category: "Electronics",
			Filters:  []models.FilterOption{{Name: "brand", Type: "enum"}},
		},
	}

	for name, req := range cases {
		err := req.validate()
		assert.True(t, errors.Is(err, ErrValidation), name)
	}
}
