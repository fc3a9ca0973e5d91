package catalog

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"time"

	"ecommerce-api/internal/models"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const maxPageSize = 100

// Page describes the caller's paging and sorting request.
type Page struct {
	Number  int
	Size    int
	SortBy  string
	SortDir string
}

// Normalize fills defaults and caps the page size.
func (p Page) Normalize() Page {
	if p.Size <= 0 {
		p.Size = 10
	}
	if p.Size > maxPageSize {
		p.Size = maxPageSize
	}
	if p.Number < 0 {
		p.Number = 0
	}
	if p.SortBy == "" {
		p.SortBy = "name"
	}
	if p.SortDir != "desc" {
		p.SortDir = "asc"
	}
	return p
}

func (p Page) findOptions() *options.FindOptions {
	dir := 1
	if p.SortDir == "desc" {
		dir = -1
	}
	return options.Find().
		SetSort(bson.D{{Key: p.SortBy, Value: dir}}).
		SetSkip(int64(p.Number * p.Size)).
		SetLimit(int64(p.Size))
}

func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	return oid, nil
}

// InsertProduct stores a new product document.
func (c *Catalog) InsertProduct(ctx context.Context, p *models.Product) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.IsActive == nil {
		active := true
		p.IsActive = &active
	}

	res, err := c.products.InsertOne(ctx, p)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("sku %s: %w", p.SKU, ErrDuplicate)
	}
	if err != nil {
		return err
	}
	p.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindProductByID retrieves one product by its hex ID.
func (c *Catalog) FindProductByID(ctx context.Context, id string) (*models.Product, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	var p models.Product
	err = c.products.FindOne(ctx, bson.M{"_id": oid}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindProductBySKU retrieves one product by SKU.
func (c *Catalog) FindProductBySKU(ctx context.Context, sku string) (*models.Product, error) {
	var p models.Product
	err := c.products.FindOne(ctx, bson.M{"sku": sku}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("product sku %s: %w", sku, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ReplaceProduct overwrites a product document, keeping its creation time.
func (c *Catalog) ReplaceProduct(ctx context.Context, p *models.Product) error {
	p.UpdatedAt = time.Now().UTC()

	res, err := c.products.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("product %s: %w", p.ID.Hex(), ErrNotFound)
	}
	return nil
}

// SoftDeleteProduct marks a product inactive rather than removing it.
func (c *Catalog) SoftDeleteProduct(ctx context.Context, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}

	res, err := c.products.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now().UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	return nil
}

// ListFilter narrows the plain product listing.
type ListFilter struct {
	Category    string
	SubCategory string
	Brand       string
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
}

func (f ListFilter) toBSON() bson.M {
	and := bson.A{activeFilter()}
	if f.Category != "" {
		and = append(and, bson.M{"category": exactFold(f.Category)})
	}
	if f.SubCategory != "" {
		and = append(and, bson.M{"subCategory": exactFold(f.SubCategory)})
	}
	if f.Brand != "" {
		and = append(and, bson.M{"brand": exactFold(f.Brand)})
	}
	bounds := bson.M{}
	if f.MinPrice != nil {
		bounds["$gte"] = *f.MinPrice
	}
	if f.MaxPrice != nil {
		bounds["$lte"] = *f.MaxPrice
	}
	if len(bounds) > 0 {
		and = append(and, bson.M{"price": bounds})
	}
	return bson.M{"$and": and}
}

// FindActiveProducts returns a page of active products narrowed by the
// optional list filter, plus the total match count.
func (c *Catalog) FindActiveProducts(ctx context.Context, f ListFilter, page Page) ([]models.Product, int64, error) {
	return c.findPage(ctx, f.toBSON(), page)
}

// FindProductsByAttributeFilters runs the attribute filter builder and
// returns the matching page plus the total count computed with the same
// predicate and no pagination.
func (c *Catalog) FindProductsByAttributeFilters(ctx context.Context, category string, params url.Values, page Page) ([]models.Product, int64, error) {
	return c.findPage(ctx, BuildAttributeFilter(category, params), page)
}

// SearchProducts matches the query as a case-insensitive substring across
// name, description, brand, category, and subCategory of active products.
func (c *Catalog) SearchProducts(ctx context.Context, query string, page Page) ([]models.Product, int64, error) {
	re := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	filter := bson.M{"$and": bson.A{
		activeFilter(),
		bson.M{"$or": bson.A{
			bson.M{"name": re},
			bson.M{"description": re},
			bson.M{"brand": re},
			bson.M{"category": re},
			bson.M{"subCategory": re},
		}},
	}}
	return c.findPage(ctx, filter, page)
}

func (c *Catalog) findPage(ctx context.Context, filter bson.M, page Page) ([]models.Product, int64, error) {
	page = page.Normalize()

	cur, err := c.products.Find(ctx, filter, page.findOptions())
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	products := []models.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, 0, err
	}

	total, err := c.products.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (c *Catalog) findAll(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Product, error) {
	cur, err := c.products.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	products := []models.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// FindProductsByCategory returns all active products in a category.
func (c *Catalog) FindProductsByCategory(ctx context.Context, category string) ([]models.Product, error) {
	filter := bson.M{"$and": bson.A{activeFilter(), bson.M{"category": exactFold(category)}}}
	return c.findAll(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
}

// FindProductsBySubCategory returns all active products in a category/subcategory pair.
func (c *Catalog) FindProductsBySubCategory(ctx context.Context, category, subCategory string) ([]models.Product, error) {
	filter := bson.M{"$and": bson.A{
		activeFilter(),
		bson.M{"category": exactFold(category)},
		bson.M{"subCategory": exactFold(subCategory)},
	}}
	return c.findAll(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
}

// FindProductsByBrand returns all active products of a brand.
func (c *Catalog) FindProductsByBrand(ctx context.Context, brand string) ([]models.Product, error) {
	filter := bson.M{"$and": bson.A{activeFilter(), bson.M{"brand": exactFold(brand)}}}
	return c.findAll(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
}

// FindProductsByPriceRange returns active products priced inside the
// inclusive range, cheapest first.
func (c *Catalog) FindProductsByPriceRange(ctx context.Context, min, max decimal.Decimal) ([]models.Product, error) {
	filter := bson.M{"$and": bson.A{
		activeFilter(),
		bson.M{"price": bson.M{"$gte": min, "$lte": max}},
	}}
	return c.findAll(ctx, filter, options.Find().SetSort(bson.D{{Key: "price", Value: 1}}))
}

// DistinctCategories lists the distinct categories across active products.
func (c *Catalog) DistinctCategories(ctx context.Context) ([]string, error) {
	return c.distinctStrings(ctx, "category", activeFilter())
}

// DistinctSubCategories lists the distinct subcategories of one category.
func (c *Catalog) DistinctSubCategories(ctx context.Context, category string) ([]string, error) {
	filter := bson.M{"$and": bson.A{activeFilter(), bson.M{"category": exactFold(category)}}}
	return c.distinctStrings(ctx, "subCategory", filter)
}

// DistinctBrands lists the distinct brands across active products.
func (c *Catalog) DistinctBrands(ctx context.Context) ([]string, error) {
	return c.distinctStrings(ctx, "brand", activeFilter())
}

func (c *Catalog) distinctStrings(ctx context.Context, field string, filter bson.M) ([]string, error) {
	raw, err := c.products.Distinct(ctx, field, filter)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out, nil
}

// AddReview appends an embedded review to a product.
func (c *Catalog) AddReview(ctx context.Context, productID string, review models.ProductReview) error {
	oid, err := parseObjectID(productID)
	if err != nil {
		return err
	}

	res, err := c.products.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{
			"$push": bson.M{"reviews": review},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("product %s: %w", productID, ErrNotFound)
	}
	return nil
}

// UpdateProductStock sets the product's own stock quantity. Negative
// values are rejected by the service layer.
func (c *Catalog) UpdateProductStock(ctx context.Context, productID string, stock int) error {
	oid, err := parseObjectID(productID)
	if err != nil {
		return err
	}

	res, err := c.products.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"stockQuantity": stock, "updatedAt": time.Now().UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("product %s: %w", productID, ErrNotFound)
	}
	return nil
}

// UpdateVariationStock sets the stock of one variation, matched by SKU.
func (c *Catalog) UpdateVariationStock(ctx context.Context, productID, variationSKU string, stock int) error {
	oid, err := parseObjectID(productID)
	if err != nil {
		return err
	}

	res, err := c.products.UpdateOne(ctx,
		bson.M{"_id": oid, "variations.sku": variationSKU},
		bson.M{"$set": bson.M{
			"variations.$.stockQuantity": stock,
			"updatedAt":                  time.Now().UTC(),
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("product %s variation %s: %w", productID, variationSKU, ErrNotFound)
	}
	return nil
}

// FindFeaturedProducts returns active products flagged with any special
// property, newest first, capped by limit.
func (c *Catalog) FindFeaturedProducts(ctx context.Context, limit int) ([]models.Product, error) {
	filter := bson.M{"$and": bson.A{
		activeFilter(),
		bson.M{"$or": bson.A{
			bson.M{"specialProperties.newArrival": true},
			bson.M{"specialProperties.hasOffer": true},
			bson.M{"specialProperties.bestSeller": true},
		}},
	}}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))
	return c.findAll(ctx, filter, opts)
}

// FindLowStockProducts returns active products whose own stock is below
// the threshold.
func (c *Catalog) FindLowStockProducts(ctx context.Context, threshold int) ([]models.Product, error) {
	filter := bson.M{"$and": bson.A{
		activeFilter(),
		bson.M{"stockQuantity": bson.M{"$lt": threshold}},
	}}
	return c.findAll(ctx, filter, options.Find().SetSort(bson.D{{Key: "stockQuantity", Value: 1}}))
}

// FindTopRatedProducts computes the approved-review average in an
// aggregation pipeline and returns the best-rated actives at or above
// minRating.
func (c *Catalog) FindTopRatedProducts(ctx context.Context, limit int, minRating float64) ([]models.Product, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: activeFilter()}},
		{{Key: "$addFields", Value: bson.M{
			"avgRating": bson.M{"$ifNull": bson.A{
				bson.M{"$avg": bson.M{"$map": bson.M{
					"input": bson.M{"$filter": bson.M{
						"input": bson.M{"$ifNull": bson.A{"$reviews", bson.A{}}},
						"as":    "r",
						"cond":  bson.M{"$eq": bson.A{"$$r.isApproved", true}},
					}},
					"as": "r",
					"in": "$$r.rating",
				}}},
				0.0,
			}},
		}}},
		{{Key: "$match", Value: bson.M{"avgRating": bson.M{"$gte": minRating}}}},
		{{Key: "$sort", Value: bson.D{{Key: "avgRating", Value: -1}, {Key: "name", Value: 1}}}},
		{{Key: "$limit", Value: int64(limit)}},
	}

	cur, err := c.products.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	products := []models.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}
