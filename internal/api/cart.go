package api

import (
	"net/http"

	"ecommerce-api/internal/service"

	"github.com/gin-gonic/gin"
)

// getCart handles get cart by user ID
func (h *Handler) getCart(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	cart, err := h.cartService.GetCart(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to get cart")
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *Handler) getCartItemCount(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	count, err := h.cartService.GetCartItemCount(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to count cart items")
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *Handler) getCartTotal(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	total, err := h.cartService.GetCartTotal(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to get cart total")
		return
	}
	c.JSON(http.StatusOK, total)
}

// addToCart handles adding a product to a cart. Quantities for an
// existing line are merged atomically.
func (h *Handler) addToCart(c *gin.Context) {
	var req service.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	cart, err := h.cartService.AddToCart(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to add to cart")
		return
	}
	c.JSON(http.StatusOK, cart)
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// updateCartItem handles quantity changes. Zero or negative quantity
// removes the line.
func (h *Handler) updateCartItem(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}

	var req updateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	cart, err := h.cartService.UpdateCartItem(c.Request.Context(), userID, itemID, req.Quantity)
	if err != nil {
		respondError(c, err, "Failed to update cart item")
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *Handler) removeFromCart(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}

	cart, err := h.cartService.RemoveFromCart(c.Request.Context(), userID, itemID)
	if err != nil {
		respondError(c, err, "Failed to remove cart item")
		return
	}
	c.JSON(http.StatusOK, cart)
}

// reconcileCart sweeps cart lines whose quantity exceeds what is
// currently available. The worker runs the same sweep on order events.
func (h *Handler) reconcileCart(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	swept, err := h.cartService.ReconcileOutOfStock(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to reconcile cart")
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": swept})
}

func (h *Handler) clearCart(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	if err := h.cartService.ClearCart(c.Request.Context(), userID); err != nil {
		respondError(c, err, "Failed to clear cart")
		return
	}
	c.Status(http.StatusNoContent)
}
