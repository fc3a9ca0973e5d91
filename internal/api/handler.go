package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"ecommerce-api/internal/service"
	"ecommerce-api/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	productService  *service.ProductService
	cartService     *service.CartService
	orderService    *service.OrderService
	authService     *service.AuthService
	userService     *service.UserService
	categoryService *service.CategoryService
	bannerService   *service.BannerService
}

// NewHandler creates a new HTTP handler
func NewHandler(
	productService *service.ProductService,
	cartService *service.CartService,
	orderService *service.OrderService,
	authService *service.AuthService,
	userService *service.UserService,
	categoryService *service.CategoryService,
	bannerService *service.BannerService,
) *Handler {
	return &Handler{
		productService:  productService,
		cartService:     cartService,
		orderService:    orderService,
		authService:     authService,
		userService:     userService,
		categoryService: categoryService,
		bannerService:   bannerService,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		products := api.Group("/products")
		{
			products.GET("", h.getProducts)
			products.GET("/filter", h.filterProducts)
			products.GET("/search", h.searchProducts)
			products.GET("/featured", h.getFeaturedProducts)
			products.GET("/top-rated", h.getTopRatedProducts)
			products.GET("/low-stock", h.getLowStockProducts)
			products.GET("/price-range", h.getProductsByPriceRange)
			products.GET("/categories", h.getProductCategories)
			products.GET("/brands", h.getProductBrands)
			products.GET("/category/:category", h.getProductsByCategory)
			products.GET("/category/:category/subcategories", h.getSubCategories)
			products.GET("/category/:category/subcategory/:subCategory", h.getProductsBySubCategory)
			products.GET("/brand/:brand", h.getProductsByBrand)
			products.GET("/sku/:sku", h.getProductBySKU)
			products.GET("/:id", h.getProduct)
			products.POST("", h.createProduct)
			products.PUT("/:id", h.updateProduct)
			products.DELETE("/:id", h.deleteProduct)
			products.PATCH("/:id/stock", h.updateProductStock)
			products.PATCH("/:id/variations/:sku/stock", h.updateVariationStock)
			products.GET("/:id/reviews", h.getReviews)
			products.POST("/:id/reviews", h.addReview)
			products.GET("/:id/reviews/summary", h.getRatingSummary)
		}

		cart := api.Group("/cart")
		{
			cart.GET("/:userId", h.getCart)
			cart.GET("/:userId/count", h.getCartItemCount)
			cart.GET("/:userId/total", h.getCartTotal)
			cart.POST("/add", h.addToCart)
			cart.PUT("/:userId/items/:itemId", h.updateCartItem)
			cart.DELETE("/:userId/items/:itemId", h.removeFromCart)
			cart.DELETE("/:userId", h.clearCart)
			cart.POST("/:userId/reconcile", h.reconcileCart)
		}

		orders := api.Group("/orders")
		{
			orders.GET("", h.getOrders)
			orders.GET("/:id", h.getOrder)
			orders.GET("/user/:userId", h.getOrdersByUser)
			orders.GET("/status/:status", h.getOrdersByStatus)
			orders.POST("", h.createOrder)
			orders.PATCH("/:id/status", h.updateOrderStatus)
			orders.POST("/:id/cancel", h.cancelOrder)
			orders.DELETE("/:id", h.deleteOrder)
		}

		auth := api.Group("/auth")
		{
			auth.POST("/register", h.register)
			auth.POST("/login", h.login)
			auth.POST("/logout", h.logout)
			auth.GET("/check-email", h.checkEmail)
		}

		users := api.Group("/users")
		{
			users.GET("", h.getUsers)
			users.GET("/:id", h.getUser)
			users.GET("/email/:email", h.getUserByEmail)
			users.GET("/role/:role", h.getUsersByRole)
			users.POST("", h.createUser)
			users.PUT("/:id", h.updateUser)
			users.DELETE("/:id", h.deleteUser)
		}

		categories := api.Group("/categories")
		{
			categories.GET("/filters", h.getCategoryFilters)
			categories.GET("/names", h.getCategoryNames)
			categories.GET("/filters/:category", h.getCategoryFilter)
			categories.POST("/filters", h.createCategoryFilter)
			categories.PUT("/filters/:id", h.updateCategoryFilter)
			categories.DELETE("/filters/:id", h.deleteCategoryFilter)
			categories.DELETE("/filters/name/:category", h.deleteCategoryFilterByName)
		}

		banners := api.Group("/hero-banners")
		{
			banners.GET("", h.getActiveBanners)
			banners.GET("/all", h.getAllBanners)
			banners.GET("/:id", h.getBanner)
			banners.POST("", h.createBanner)
			banners.PUT("/:id", h.updateBanner)
			banners.DELETE("/:id", h.deleteBanner)
		}
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// respondError maps service errors to HTTP status codes
func respondError(c *gin.Context, err error, message string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		status = http.StatusUnauthorized
	}

	c.JSON(status, gin.H{
		"error":   message,
		"details": err.Error(),
	})
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request body",
		"details": err.Error(),
	})
}

// intQuery reads an integer query parameter with a fallback
func intQuery(c *gin.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.DefaultQuery(name, strconv.Itoa(fallback)))
	if err != nil {
		return fallback
	}
	return v
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid " + name,
		})
		return 0, false
	}
	return id, true
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
