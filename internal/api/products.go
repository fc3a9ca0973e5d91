package api

import (
	"net/http"

	"ecommerce-api/internal/catalog"
	"ecommerce-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func pageFromQuery(c *gin.Context) catalog.Page {
	return catalog.Page{
		Number:  intQuery(c, "page", 0),
		Size:    intQuery(c, "size", 10),
		SortBy:  c.DefaultQuery("sortBy", "name"),
		SortDir: c.DefaultQuery("sortDir", "asc"),
	}
}

// getProducts handles paginated product listing with optional
// category, subCategory, brand and price bound filters
func (h *Handler) getProducts(c *gin.Context) {
	f := catalog.ListFilter{
		Category:    c.Query("category"),
		SubCategory: c.Query("subCategory"),
		Brand:       c.Query("brand"),
	}
	if v := c.Query("minPrice"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			f.MinPrice = &d
		}
	}
	if v := c.Query("maxPrice"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			f.MaxPrice = &d
		}
	}

	page, err := h.productService.GetProducts(c.Request.Context(), f, pageFromQuery(c))
	if err != nil {
		respondError(c, err, "Failed to list products")
		return
	}
	c.JSON(http.StatusOK, page)
}

// filterProducts handles attribute-driven faceted filtering. Every
// non-reserved query parameter becomes a filter clause.
func (h *Handler) filterProducts(c *gin.Context) {
	category := c.Query("category")
	params := c.Request.URL.Query()

	page, err := h.productService.GetProductsWithFilters(c.Request.Context(), category, params, pageFromQuery(c))
	if err != nil {
		respondError(c, err, "Failed to filter products")
		return
	}
	c.JSON(http.StatusOK, page)
}

// searchProducts handles free-text product search
func (h *Handler) searchProducts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Missing search query",
		})
		return
	}

	page, err := h.productService.SearchProducts(c.Request.Context(), query, pageFromQuery(c))
	if err != nil {
		respondError(c, err, "Failed to search products")
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) getFeaturedProducts(c *gin.Context) {
	products, err := h.productService.GetFeaturedProducts(c.Request.Context(), intQuery(c, "limit", 10))
	if err != nil {
		respondError(c, err, "Failed to list featured products")
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) getTopRatedProducts(c *gin.Context) {
	minRating := 4.0
	if v := c.Query("minRating"); v != "" {
		if f, err := decimal.NewFromString(v); err == nil {
			minRating, _ = f.Float64()
		}
	}

	products, err := h.productService.GetTopRatedProducts(c.Request.Context(), intQuery(c, "limit", 10), minRating)
	if err != nil {
		respondError(c, err, "Failed to list top rated products")
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) getLowStockProducts(c *gin.Context) {
	products, err := h.productService.GetLowStockProducts(c.Request.Context(), intQuery(c, "threshold", 10))
	if err != nil {
		respondError(c, err, "Failed to list low stock products")
		return
	}
	c.JSON(http.StatusOK, products)
}

// getProductsByPriceRange handles listing by inclusive price bounds
func (h *Handler) getProductsByPriceRange(c *gin.Context) {
	min, err := decimal.NewFromString(c.Query("minPrice"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid minPrice"})
		return
	}
	max, err := decimal.NewFromString(c.Query("maxPrice"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid maxPrice"})
		return
	}

	products, err := h.productService.GetProductsByPriceRange(c.Request.Context(), min, max)
	if err != nil {
		respondError(c, err, "Failed to list products by price range")
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) getProductCategories(c *gin.Context) {
	categories, err := h.productService.GetCategories(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list categories")
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *Handler) getProductBrands(c *gin.Context) {
	brands, err := h.productService.GetBrands(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list brands")
		return
	}
	c.JSON(http.StatusOK, brands)
}

func (h *Handler) getProductsByCategory(c *gin.Context) {
	products, err := h.productService.GetProductsByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		respondError(c, err, "Failed to list products by category")
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) getSubCategories(c *gin.Context) {
	subCategories, err := h.productService.GetSubCategories(c.Request.Context(), c.Param("category"))
	if err != nil {
		respondError(c, err, "Failed to list subcategories")
		return
	}
	c.JSON(http.StatusOK, subCategories)
}

func (h *Handler) getProductsBySubCategory(c *gin.Context) {
	products, err := h.productService.GetProductsBySubCategory(
		c.Request.Context(), c.Param("category"), c.Param("subCategory"))
	if err != nil {
		respondError(c, err, "Failed to list products by subcategory")
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) getProductsByBrand(c *gin.Context) {
	products, err := h.productService.GetProductsByBrand(c.Request.Context(), c.Param("brand"))
	if err != nil {
		respondError(c, err, "Failed to list products by brand")
		return
	}
	c.JSON(http.StatusOK, products)
}

// getProduct handles get product by ID
func (h *Handler) getProduct(c *gin.Context) {
	product, err := h.productService.GetProductByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Product not found")
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) getProductBySKU(c *gin.Context) {
	product, err := h.productService.GetProductBySKU(c.Request.Context(), c.Param("sku"))
	if err != nil {
		respondError(c, err, "Product not found")
		return
	}
	c.JSON(http.StatusOK, product)
}

// createProduct handles product creation
func (h *Handler) createProduct(c *gin.Context) {
	var req service.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to create product")
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *Handler) updateProduct(c *gin.Context) {
	var req service.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err, "Failed to update product")
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) deleteProduct(c *gin.Context) {
	if err := h.productService.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete product")
		return
	}
	c.Status(http.StatusNoContent)
}

type stockRequest struct {
	Stock int `json:"stock" binding:"min=0"`
}

func (h *Handler) updateProductStock(c *gin.Context) {
	var req stockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	product, err := h.productService.UpdateStock(c.Request.Context(), c.Param("id"), req.Stock)
	if err != nil {
		respondError(c, err, "Failed to update stock")
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) updateVariationStock(c *gin.Context) {
	var req stockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	product, err := h.productService.UpdateVariationStock(
		c.Request.Context(), c.Param("id"), c.Param("sku"), req.Stock)
	if err != nil {
		respondError(c, err, "Failed to update variation stock")
		return
	}
	c.JSON(http.StatusOK, product)
}

// addReview handles posting a product review
func (h *Handler) addReview(c *gin.Context) {
	var req service.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	review, err := h.productService.AddReview(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err, "Failed to add review")
		return
	}
	c.JSON(http.StatusCreated, review)
}

func (h *Handler) getReviews(c *gin.Context) {
	page, err := h.productService.GetReviews(
		c.Request.Context(), c.Param("id"), intQuery(c, "page", 0), intQuery(c, "size", 10))
	if err != nil {
		respondError(c, err, "Failed to list reviews")
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) getRatingSummary(c *gin.Context) {
	summary, err := h.productService.GetRatingSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get rating summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}
