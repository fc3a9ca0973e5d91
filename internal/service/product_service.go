package service

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"time"

	"ecommerce-api/internal/catalog"
	"ecommerce-api/internal/models"
	"ecommerce-api/internal/redisclient"
	"ecommerce-api/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductService handles catalog business logic.
type ProductService struct {
	catalog *catalog.Catalog
	cache   *redisclient.Client
	logger  *zap.Logger
}

// NewProductService creates a new product service
func NewProductService(cat *catalog.Catalog, cache *redisclient.Client) *ProductService {
	return &ProductService{
		catalog: cat,
		cache:   cache,
		logger:  util.NamedLogger("product"),
	}
}

// ProductResponse is a product plus its derived aggregates. The stored
// document never carries these; they are recomputed on every read.
type ProductResponse struct {
	models.Product
	AverageRating float64 `json:"averageRating"`
	TotalReviews  int     `json:"totalReviews"`
	TotalStock    int     `json:"totalStock"`
}

func toProductResponse(p *models.Product) *ProductResponse {
	return &ProductResponse{
		Product:       *p,
		AverageRating: p.AverageRating(),
		TotalReviews:  p.TotalReviews(),
		TotalStock:    p.TotalStock(),
	}
}

func toProductResponses(products []models.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, *toProductResponse(&products[i]))
	}
	return out
}

// ProductPage is one page of products plus the total match count.
type ProductPage struct {
	Content       []ProductResponse `json:"content"`
	Page          int               `json:"page"`
	Size          int               `json:"size"`
	TotalElements int64             `json:"totalElements"`
	TotalPages    int               `json:"totalPages"`
}

func newProductPage(products []models.Product, page catalog.Page, total int64) *ProductPage {
	page = page.Normalize()
	totalPages := int((total + int64(page.Size) - 1) / int64(page.Size))
	return &ProductPage{
		Content:       toProductResponses(products),
		Page:          page.Number,
		Size:          page.Size,
		TotalElements: total,
		TotalPages:    totalPages,
	}
}

// ProductRequest carries the writable product fields.
type ProductRequest struct {
	SKU               string                       `json:"sku" binding:"required"`
	Name              string                       `json:"name" binding:"required"`
	Description       string                       `json:"description"`
	Category          string                       `json:"category" binding:"required"`
	SubCategory       string                       `json:"subCategory"`
	Brand             string                       `json:"brand"`
	Price             decimal.Decimal              `json:"price" binding:"required"`
	Currency          string                       `json:"currency"`
	StockQuantity     int                          `json:"stockQuantity" binding:"gte=0"`
	Images            []string                     `json:"images"`
	Specifications    models.ProductSpecifications `json:"specifications"`
	Attributes        map[string]any               `json:"attributes"`
	Variations        []models.ProductVariation    `json:"variations"`
	SpecialProperties models.SpecialProperties     `json:"specialProperties"`
	IsActive          *bool                        `json:"isActive"`
}

func (r *ProductRequest) toProduct() *models.Product {
	return &models.Product{
		SKU:               r.SKU,
		Name:              r.Name,
		Description:       r.Description,
		Category:          r.Category,
		SubCategory:       r.SubCategory,
		Brand:             r.Brand,
		Price:             r.Price,
		Currency:          r.Currency,
		StockQuantity:     r.StockQuantity,
		Images:            r.Images,
		Specifications:    r.Specifications,
		Attributes:        r.Attributes,
		Variations:        r.Variations,
		SpecialProperties: r.SpecialProperties,
		IsActive:          r.IsActive,
	}
}

// GetProducts returns a page of active products narrowed by the optional
// listing filter.
func (s *ProductService) GetProducts(ctx context.Context, f catalog.ListFilter, page catalog.Page) (*ProductPage, error) {
	products, total, err := s.catalog.FindActiveProducts(ctx, f, page)
	if err != nil {
		return nil, translate(err)
	}
	return newProductPage(products, page, total), nil
}

// GetProductsWithFilters runs the attribute filter builder against the
// catalog and returns the matching page plus an independently computed
// total.
func (s *ProductService) GetProductsWithFilters(ctx context.Context, category string, params url.Values, page catalog.Page) (*ProductPage, error) {
	ctx, span := util.StartSpan(ctx, "ProductService.GetProductsWithFilters")
	defer span.End()

	util.ProductFilterQueriesTotal.Inc()
	start := time.Now()
	defer func() {
		util.ProductFilterLatency.Observe(time.Since(start).Seconds())
	}()

	products, total, err := s.catalog.FindProductsByAttributeFilters(ctx, category, params, page)
	if err != nil {
		return nil, translate(err)
	}
	return newProductPage(products, page, total), nil
}

// GetProductByID returns one product, consulting the Redis snapshot
// cache before the catalog.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*ProductResponse, error) {
	if cached, err := s.cache.GetProduct(ctx, id); err == nil && cached != nil {
		util.CacheHitsTotal.WithLabelValues("product").Inc()
		return toProductResponse(cached), nil
	} else if err != nil {
		s.logger.Warn("Product cache read failed", zap.String("id", id), zap.Error(err))
	}
	util.CacheMissesTotal.WithLabelValues("product").Inc()

	p, err := s.catalog.FindProductByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}

	if err := s.cache.SetProduct(ctx, p); err != nil {
		s.logger.Warn("Product cache write failed", zap.String("id", id), zap.Error(err))
	}
	return toProductResponse(p), nil
}

// GetProductBySKU returns one product by SKU.
func (s *ProductService) GetProductBySKU(ctx context.Context, sku string) (*ProductResponse, error) {
	p, err := s.catalog.FindProductBySKU(ctx, sku)
	if err != nil {
		return nil, translate(err)
	}
	return toProductResponse(p), nil
}

// CreateProduct stores a new product.
func (s *ProductService) CreateProduct(ctx context.Context, req *ProductRequest) (*ProductResponse, error) {
	p := req.toProduct()
	if err := s.catalog.InsertProduct(ctx, p); err != nil {
		return nil, translate(err)
	}

	s.logger.Info("Product created", zap.String("id", p.ID.Hex()), zap.String("sku", p.SKU))
	return toProductResponse(p), nil
}

// UpdateProduct overwrites the writable fields of a product, keeping its
// identity, reviews, and creation time.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, req *ProductRequest) (*ProductResponse, error) {
	existing, err := s.catalog.FindProductByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}

	p := req.toProduct()
	p.ID = existing.ID
	p.Reviews = existing.Reviews
	p.CreatedAt = existing.CreatedAt
	if p.IsActive == nil {
		p.IsActive = existing.IsActive
	}

	if err := s.catalog.ReplaceProduct(ctx, p); err != nil {
		return nil, translate(err)
	}
	s.invalidate(ctx, id)
	return toProductResponse(p), nil
}

// DeleteProduct soft-deletes a product.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.catalog.SoftDeleteProduct(ctx, id); err != nil {
		return translate(err)
	}
	s.invalidate(ctx, id)
	s.logger.Info("Product deactivated", zap.String("id", id))
	return nil
}

func (s *ProductService) invalidate(ctx context.Context, id string) {
	if err := s.cache.InvalidateProduct(ctx, id); err != nil {
		s.logger.Warn("Product cache invalidation failed", zap.String("id", id), zap.Error(err))
	}
}

// GetProductsByCategory lists active products in a category.
func (s *ProductService) GetProductsByCategory(ctx context.Context, category string) ([]ProductResponse, error) {
	products, err := s.catalog.FindProductsByCategory(ctx, category)
	if err != nil {
		return nil, translate(err)
	}
	return toProductResponses(products), nil
}

// GetProductsBySubCategory lists active products in a category/subcategory pair.
func (s *ProductService) GetProductsBySubCategory(ctx context.Context, category, subCategory string) ([]ProductResponse, error) {
	products, err := s.catalog.FindProductsBySubCategory(ctx, category, subCategory)
	if err != nil {
		return nil, translate(err)
	}
	return toProductResponses(products), nil
}

// GetProductsByBrand lists active products of a brand.
func (s *ProductService) GetProductsByBrand(ctx context.Context, brand string) ([]ProductResponse, error) {
	products, err := s.catalog.FindProductsByBrand(ctx, brand)
	if err != nil {
		return nil, translate(err)
	}
	return toProductResponses(products), nil
}

// SearchProducts matches the query as a case-insensitive substring
// across the descriptive fields of active products.
func (s *ProductService) SearchProducts(ctx context.Context, query string, page catalog.Page) (*ProductPage, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: query must not be empty", ErrValidation)
	}

	products, total, err := s.catalog.SearchProducts(ctx, query, page)
	if err != nil {
		return nil, translate(err)
	}
	return newProductPage(products, page, total), nil
}

// GetProductsByPriceRange lists active products within the inclusive range.
func (s *ProductService) GetProductsByPriceRange(ctx context.Context, min, max decimal.Decimal) ([]ProductResponse, error) {
	if min.GreaterThan(max) {
		return nil, fmt.Errorf("%w: minPrice exceeds maxPrice", ErrValidation)
	}

	products, err := s.catalog.FindProductsByPriceRange(ctx, min, max)
	if err != nil {
		return nil, translate(err)
	}
	return toProductResponses(products), nil
}

// GetCategories lists the distinct categories across active products.
func (s *ProductService) GetCategories(ctx context.Context) ([]string, error) {
	return s.catalog.DistinctCategories(ctx)
}

// GetSubCategories lists the distinct subcategories of one category.
func (s *ProductService) GetSubCategories(ctx context.Context, category string) ([]string, error) {
	return s.catalog.DistinctSubCategories(ctx, category)
}

// GetBrands lists the distinct brands across active products.
func (s *ProductService) GetBrands(ctx context.Context) ([]string, error) {
	return s.catalog.DistinctBrands(ctx)
}

// ReviewRequest is a submitted product review.
type ReviewRequest struct {
	UserID             int64  `json:"userId" binding:"required"`
	Rating             int    `json:"rating" binding:"required,min=1,max=5"`
	Comment            string `json:"comment"`
	IsVerifiedPurchase bool   `json:"isVerifiedPurchase"`
}

// ReviewPage is one page of approved reviews, newest first.
type ReviewPage struct {
	Content       []models.ProductReview `json:"content"`
	Page          int                    `json:"page"`
	Size          int                    `json:"size"`
	TotalElements int                    `json:"totalElements"`
	TotalPages    int                    `json:"totalPages"`
}

// AddReview appends a review to a product. Reviews are approved on
// submission; the aggregate rating is always recomputed from the stored
// list, never cached.
func (s *ProductService) AddReview(ctx context.Context, productID string, req *ReviewRequest) (*models.ProductReview, error) {
	review := models.ProductReview{
		UserID:             req.UserID,
		Rating:             req.Rating,
		Comment:            req.Comment,
		Date:               time.Now().UTC(),
		IsVerifiedPurchase: req.IsVerifiedPurchase,
		IsApproved:         true,
	}

	if err := s.catalog.AddReview(ctx, productID, review); err != nil {
		return nil, translate(err)
	}

	s.invalidate(ctx, productID)
	util.ReviewsAddedTotal.Inc()
	return &review, nil
}

// GetReviews returns a page of the product's approved reviews, newest first.
func (s *ProductService) GetReviews(ctx context.Context, productID string, pageNum, size int) (*ReviewPage, error) {
	p, err := s.catalog.FindProductByID(ctx, productID)
	if err != nil {
		return nil, translate(err)
	}

	approved := make([]models.ProductReview, 0, len(p.Reviews))
	for _, r := range p.Reviews {
		if r.IsApproved {
			approved = append(approved, r)
		}
	}
	sort.SliceStable(approved, func(i, j int) bool {
		return approved[i].Date.After(approved[j].Date)
	})

	if size <= 0 {
		size = 10
	}
	if pageNum < 0 {
		pageNum = 0
	}

	total := len(approved)
	start := pageNum * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	return &ReviewPage{
		Content:       approved[start:end],
		Page:          pageNum,
		Size:          size,
		TotalElements: total,
		TotalPages:    (total + size - 1) / size,
	}, nil
}

// RatingSummary aggregates a product's approved reviews.
type RatingSummary struct {
	ProductID          string      `json:"productId"`
	AverageRating      float64     `json:"averageRating"`
	TotalReviews       int         `json:"totalReviews"`
	RatingDistribution map[int]int `json:"ratingDistribution"`
}

// GetRatingSummary computes the average, count, and 1..5 distribution
// over approved reviews.
func (s *ProductService) GetRatingSummary(ctx context.Context, productID string) (*RatingSummary, error) {
	p, err := s.catalog.FindProductByID(ctx, productID)
	if err != nil {
		return nil, translate(err)
	}

	dist := map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	for _, r := range p.Reviews {
		if r.IsApproved && r.Rating >= 1 && r.Rating <= 5 {
			dist[r.Rating]++
		}
	}

	return &RatingSummary{
		ProductID:          productID,
		AverageRating:      p.AverageRating(),
		TotalReviews:       p.TotalReviews(),
		RatingDistribution: dist,
	}, nil
}

// UpdateStock sets a product's own stock quantity.
func (s *ProductService) UpdateStock(ctx context.Context, productID string, stock int) (*ProductResponse, error) {
	if stock < 0 {
		return nil, fmt.Errorf("%w: stock must not be negative", ErrValidation)
	}
	if err := s.catalog.UpdateProductStock(ctx, productID, stock); err != nil {
		return nil, translate(err)
	}
	s.invalidate(ctx, productID)

	p, err := s.catalog.FindProductByID(ctx, productID)
	if err != nil {
		return nil, translate(err)
	}
	return toProductResponse(p), nil
}

// UpdateVariationStock sets the stock of one variation.
func (s *ProductService) UpdateVariationStock(ctx context.Context, productID, variationSKU string, stock int) (*ProductResponse, error) {
	if stock < 0 {
		return nil, fmt.Errorf("%w: stock must not be negative", ErrValidation)
	}
	if err := s.catalog.UpdateVariationStock(ctx, productID, variationSKU, stock); err != nil {
		return nil, translate(err)
	}
	s.invalidate(ctx, productID)

	p, err := s.catalog.FindProductByID(ctx, productID)
	if err != nil {
		return nil, translate(err)
	}
	return toProductResponse(p), nil
}

// GetFeaturedProducts returns merchandised actives, newest first.
func (s *ProductService) GetFeaturedProducts(ctx context.Context, limit int) ([]ProductResponse, error) {
	if limit <= 0 {
		limit = 10
	}
	products, err := s.catalog.FindFeaturedProducts(ctx, limit)
	if err != nil {
		return nil, translate(err)
	}
	return toProductResponses(products), nil
}

// GetTopRatedProducts returns the best-rated actives at or above minRating.
func (s *ProductService) GetTopRatedProducts(ctx context.Context, limit int, minRating float64) ([]ProductResponse, error) {
	if limit <= 0 {
		limit = 10
	}
	products, err := s.catalog.FindTopRatedProducts(ctx, limit, minRating)
	if err != nil {
		return nil, translate(err)
	}
	return toProductResponses(products), nil
}

// GetLowStockProducts returns actives whose own stock is below the threshold.
func (s *ProductService) GetLowStockProducts(ctx context.Context, threshold int) ([]ProductResponse, error) {
	if threshold <= 0 {
		threshold = 10
	}
	products, err := s.catalog.FindLowStockProducts(ctx, threshold)
	if err != nil {
		return nil, translate(err)
	}
	return toProductResponses(products), nil
}
