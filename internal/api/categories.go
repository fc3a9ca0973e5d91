package api

import (
	"net/http"

	"ecommerce-api/internal/service"

	"github.com/gin-gonic/gin"
)

// getCategoryFilters lists every category facet schema
func (h *Handler) getCategoryFilters(c *gin.Context) {
	filters, err := h.categoryService.GetCategoryFilters(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list category filters")
		return
	}
	c.JSON(http.StatusOK, filters)
}

func (h *Handler) getCategoryNames(c *gin.Context) {
	names, err := h.categoryService.GetCategoryNames(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list category names")
		return
	}
	c.JSON(http.StatusOK, names)
}

// getCategoryFilter returns one category's schema, matched
// case-insensitively
func (h *Handler) getCategoryFilter(c *gin.Context) {
	filter, err := h.categoryService.GetCategoryFilter(c.Request.Context(), c.Param("category"))
	if err != nil {
		respondError(c, err, "Category filter not found")
		return
	}
	c.JSON(http.StatusOK, filter)
}

func (h *Handler) createCategoryFilter(c *gin.Context) {
	var req service.CategoryFilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	filter, err := h.categoryService.CreateCategoryFilter(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to create category filter")
		return
	}
	c.JSON(http.StatusCreated, filter)
}

func (h *Handler) updateCategoryFilter(c *gin.Context) {
	var req service.CategoryFilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	filter, err := h.categoryService.UpdateCategoryFilter(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err, "Failed to update category filter")
		return
	}
	c.JSON(http.StatusOK, filter)
}

func (h *Handler) deleteCategoryFilter(c *gin.Context) {
	if err := h.categoryService.DeleteCategoryFilter(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete category filter")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) deleteCategoryFilterByName(c *gin.Context) {
	if err := h.categoryService.DeleteCategoryFilterByName(c.Request.Context(), c.Param("category")); err != nil {
		respondError(c, err, "Failed to delete category filter")
		return
	}
	c.Status(http.StatusNoContent)
}

// getActiveBanners lists storefront banners, optionally by locale
func (h *Handler) getActiveBanners(c *gin.Context) {
	banners, err := h.bannerService.GetActiveBanners(c.Request.Context(), c.Query("locale"))
	if err != nil {
		respondError(c, err, "Failed to list banners")
		return
	}
	c.JSON(http.StatusOK, banners)
}

func (h *Handler) getAllBanners(c *gin.Context) {
	banners, err := h.bannerService.GetAllBanners(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list banners")
		return
	}
	c.JSON(http.StatusOK, banners)
}

func (h *Handler) getBanner(c *gin.Context) {
	banner, err := h.bannerService.GetBanner(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Banner not found")
		return
	}
	c.JSON(http.StatusOK, banner)
}

func (h *Handler) createBanner(c *gin.Context) {
	var req service.BannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	banner, err := h.bannerService.CreateBanner(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to create banner")
		return
	}
	c.JSON(http.StatusCreated, banner)
}

func (h *Handler) updateBanner(c *gin.Context) {
	var req service.BannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	banner, err := h.bannerService.UpdateBanner(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		respondError(c, err, "Failed to update banner")
		return
	}
	c.JSON(http.StatusOK, banner)
}

func (h *Handler) deleteBanner(c *gin.Context) {
	if err := h.bannerService.DeleteBanner(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete banner")
		return
	}
	c.Status(http.StatusNoContent)
}
