package service

import (
	"context"
	"fmt"
	"strings"

	"ecommerce-api/internal/catalog"
	"ecommerce-api/internal/models"
	"ecommerce-api/internal/util"

	"go.uber.org/zap"
)

// CategoryService manages the per-category facet schemas that clients
// use to render filter UI and build attribute filter queries.
type CategoryService struct {
	catalog *catalog.Catalog
	logger  *zap.Logger
}

// NewCategoryService creates a new category service
func NewCategoryService(cat *catalog.Catalog) *CategoryService {
	return &CategoryService{
		catalog: cat,
		logger:  util.NamedLogger("category"),
	}
}

// CategoryFilterRequest creates or replaces a facet schema.
type CategoryFilterRequest struct {
	Category string                `json:"category" binding:"required"`
	Filters  []models.FilterOption `json:"filters" binding:"required,dive"`
}

func (r *CategoryFilterRequest) validate() error {
	for _, f := range r.Filters {
		if f.Name == "" {
			return fmt.Errorf("%w: filter option name must not be empty", ErrValidation)
		}
		switch f.Type {
		case models.FilterTypeString:
			if len(f.Options) == 0 {
				return fmt.Errorf("%w: string filter %q needs options", ErrValidation, f.Name)
			}
		case models.FilterTypeRange:
			if f.MinValue != nil && f.MaxValue != nil && *f.MinValue > *f.MaxValue {
				return fmt.Errorf("%w: range filter %q has minValue above maxValue", ErrValidation, f.Name)
			}
		default:
			return fmt.Errorf("%w: filter option %q has unknown type %q", ErrValidation, f.Name, f.Type)
		}
	}
	return nil
}

// GetCategoryFilters returns every facet schema.
func (s *CategoryService) GetCategoryFilters(ctx context.Context) ([]models.CategoryFilter, error) {
	filters, err := s.catalog.FindCategoryFilters(ctx)
	return filters, translate(err)
}

// GetCategoryNames lists the categories that have a schema.
func (s *CategoryService) GetCategoryNames(ctx context.Context) ([]string, error) {
	names, err := s.catalog.FindCategoryNames(ctx)
	return names, translate(err)
}

// GetCategoryFilter returns one category's schema, matched case-insensitively.
func (s *CategoryService) GetCategoryFilter(ctx context.Context, category string) (*models.CategoryFilter, error) {
	cf, err := s.catalog.FindCategoryFilter(ctx, category)
	return cf, translate(err)
}

// CreateCategoryFilter stores a schema for a new category. A schema for
// an existing category is rejected as a conflict.
func (s *CategoryService) CreateCategoryFilter(ctx context.Context, req *CategoryFilterRequest) (*models.CategoryFilter, error) {
	if strings.TrimSpace(req.Category) == "" {
		return nil, fmt.Errorf("%w: category must not be blank", ErrValidation)
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	cf := &models.CategoryFilter{
		Category: strings.TrimSpace(req.Category),
		Filters:  req.Filters,
	}
	if err := s.catalog.InsertCategoryFilter(ctx, cf); err != nil {
		return nil, translate(err)
	}

	s.logger.Info("Category filter created", zap.String("category", cf.Category))
	return cf, nil
}

// UpdateCategoryFilter replaces a schema by ID.
func (s *CategoryService) UpdateCategoryFilter(ctx context.Context, id string, req *CategoryFilterRequest) (*models.CategoryFilter, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	cf := &models.CategoryFilter{
		Category: strings.TrimSpace(req.Category),
		Filters:  req.Filters,
	}
	if err := s.catalog.ReplaceCategoryFilter(ctx, id, cf); err != nil {
		return nil, translate(err)
	}
	return cf, nil
}

// DeleteCategoryFilter removes a schema by ID.
func (s *CategoryService) DeleteCategoryFilter(ctx context.Context, id string) error {
	return translate(s.catalog.DeleteCategoryFilterByID(ctx, id))
}

// DeleteCategoryFilterByName removes a schema by category name.
func (s *CategoryService) DeleteCategoryFilterByName(ctx context.Context, category string) error {
	return translate(s.catalog.DeleteCategoryFilterByName(ctx, category))
}
