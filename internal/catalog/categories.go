package catalog

import (
	"context"
	"fmt"
	"sort"

	"ecommerce-api/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FindCategoryFilters returns every category facet schema.
func (c *Catalog) FindCategoryFilters(ctx context.Context) ([]models.CategoryFilter, error) {
	cur, err := c.categories.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "category", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	filters := []models.CategoryFilter{}
	if err := cur.All(ctx, &filters); err != nil {
		return nil, err
	}
	return filters, nil
}

// FindCategoryNames lists all category names that have a facet schema.
func (c *Catalog) FindCategoryNames(ctx context.Context) ([]string, error) {
	raw, err := c.categories.Distinct(ctx, "category", bson.M{})
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			names = append(names, s)
		}
	}
	sort.Strings(names)
	return names, nil
}

// FindCategoryFilter retrieves the facet schema for one category,
// matched case-insensitively.
func (c *Catalog) FindCategoryFilter(ctx context.Context, category string) (*models.CategoryFilter, error) {
	var cf models.CategoryFilter
	err := c.categories.FindOne(ctx, bson.M{"category": exactFold(category)}).Decode(&cf)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("category %s: %w", category, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &cf, nil
}

// InsertCategoryFilter stores a new facet schema. The category name is
// unique; a second schema for the same category is rejected.
func (c *Catalog) InsertCategoryFilter(ctx context.Context, cf *models.CategoryFilter) error {
	res, err := c.categories.InsertOne(ctx, cf)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("category %s: %w", cf.Category, ErrDuplicate)
	}
	if err != nil {
		return err
	}
	cf.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// ReplaceCategoryFilter overwrites a facet schema by ID.
func (c *Catalog) ReplaceCategoryFilter(ctx context.Context, id string, cf *models.CategoryFilter) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("category filter %s: %w", id, ErrNotFound)
	}
	cf.ID = oid

	res, err := c.categories.ReplaceOne(ctx, bson.M{"_id": oid}, cf)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("category %s: %w", cf.Category, ErrDuplicate)
	}
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("category filter %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteCategoryFilterByID removes a facet schema by ID.
func (c *Catalog) DeleteCategoryFilterByID(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("category filter %s: %w", id, ErrNotFound)
	}

	res, err := c.categories.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("category filter %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteCategoryFilterByName removes a facet schema by category name.
func (c *Catalog) DeleteCategoryFilterByName(ctx context.Context, category string) error {
	res, err := c.categories.DeleteOne(ctx, bson.M{"category": exactFold(category)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("category %s: %w", category, ErrNotFound)
	}
	return nil
}
