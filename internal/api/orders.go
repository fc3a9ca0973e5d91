package api

import (
	"net/http"

	"ecommerce-api/internal/service"

	"github.com/gin-gonic/gin"
)

// createOrder handles order creation
func (h *Handler) createOrder(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to create order")
		return
	}
	c.JSON(http.StatusCreated, order)
}

// getOrders handles paginated order listing
func (h *Handler) getOrders(c *gin.Context) {
	page, err := h.orderService.GetOrders(c.Request.Context(), intQuery(c, "page", 0), intQuery(c, "size", 10))
	if err != nil {
		respondError(c, err, "Failed to list orders")
		return
	}
	c.JSON(http.StatusOK, page)
}

// getOrder handles get order by ID
func (h *Handler) getOrder(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err, "Order not found")
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) getOrdersByUser(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	orders, err := h.orderService.GetOrdersByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to list user orders")
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) getOrdersByStatus(c *gin.Context) {
	orders, err := h.orderService.GetOrdersByStatus(c.Request.Context(), c.Param("status"))
	if err != nil {
		respondError(c, err, "Failed to list orders by status")
		return
	}
	c.JSON(http.StatusOK, orders)
}

type updateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// updateOrderStatus handles status transitions
func (h *Handler) updateOrderStatus(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req updateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	order, err := h.orderService.UpdateOrderStatus(c.Request.Context(), orderID, req.Status)
	if err != nil {
		respondError(c, err, "Failed to update order status")
		return
	}
	c.JSON(http.StatusOK, order)
}

// cancelOrder handles cancellation of pending or confirmed orders
func (h *Handler) cancelOrder(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.CancelOrder(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err, "Failed to cancel order")
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) deleteOrder(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.orderService.DeleteOrder(c.Request.Context(), orderID); err != nil {
		respondError(c, err, "Failed to delete order")
		return
	}
	c.Status(http.StatusNoContent)
}
