package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ecommerce-api/internal/broker"
	"ecommerce-api/internal/models"
	"ecommerce-api/internal/store"
	"ecommerce-api/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderService handles order business logic
type OrderService struct {
	store          *store.Store
	products       *ProductService
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(st *store.Store, products *ProductService, eventPublisher *broker.EventPublisher) *OrderService {
	return &OrderService{
		store:          st,
		products:       products,
		eventPublisher: eventPublisher,
		logger:         util.NamedLogger("order"),
	}
}

// CreateOrderRequest represents a request to create an order
type CreateOrderRequest struct {
	UserID          int64              `json:"userId" binding:"required"`
	ShippingAddress string             `json:"shippingAddress"`
	BillingAddress  string             `json:"billingAddress"`
	PaymentMethod   string             `json:"paymentMethod"`
	Notes           string             `json:"notes"`
	Items           []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// OrderItemRequest represents an item in an order
type OrderItemRequest struct {
	ProductID    string `json:"productId" binding:"required"`
	VariationSKU string `json:"variationSku"`
	Quantity     int    `json:"quantity" binding:"required,min=1"`
}

// OrderResponse is an order with its denormalized line items.
type OrderResponse struct {
	models.Order
	Items []models.OrderItem `json:"orderItems"`
}

// CreateOrder validates the user, resolves each requested line against
// the live catalog into a denormalized snapshot, and persists the order
// with its items in one transaction. Lines whose product cannot be
// resolved are skipped rather than failing the order; an order where no
// line resolves is rejected.
func (s *OrderService) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*OrderResponse, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.CreateOrder")
	defer span.End()

	if _, err := s.store.GetUserByID(ctx, req.UserID); err != nil {
		util.OrdersFailedTotal.WithLabelValues("user_not_found").Inc()
		return nil, translate(err)
	}

	items, totalAmount := s.resolveItems(ctx, req.Items)
	if len(items) == 0 {
		util.OrdersFailedTotal.WithLabelValues("no_resolvable_items").Inc()
		return nil, fmt.Errorf("%w: no order line could be resolved", ErrValidation)
	}

	order := &models.Order{
		UserID:          req.UserID,
		Status:          models.OrderStatusPending,
		TotalAmount:     totalAmount,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
		PaymentMethod:   req.PaymentMethod,
		Notes:           req.Notes,
	}

	if err := s.store.CreateOrderWithItems(ctx, order, items); err != nil {
		util.OrdersFailedTotal.WithLabelValues("db_error").Inc()
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	util.OrdersCreatedTotal.Inc()
	s.logger.Info("Order created",
		zap.Int64("order_id", order.ID),
		zap.Int64("user_id", order.UserID),
		zap.String("total", order.TotalAmount.String()))

	s.publishOrderCreated(ctx, order, items)

	return &OrderResponse{Order: *order, Items: items}, nil
}

// resolveItems turns requested lines into denormalized snapshots,
// skipping lines whose product (or variation) does not resolve.
func (s *OrderService) resolveItems(ctx context.Context, reqs []OrderItemRequest) ([]models.OrderItem, decimal.Decimal) {
	items := make([]models.OrderItem, 0, len(reqs))
	total := decimal.Zero

	for _, r := range reqs {
		product, err := s.products.GetProductByID(ctx, r.ProductID)
		if err != nil {
			util.OrderLinesSkippedTotal.Inc()
			s.logger.Warn("Skipping unresolvable order line",
				zap.String("product_id", r.ProductID), zap.Error(err))
			continue
		}

		unitPrice := product.Price
		variationDesc := ""
		if r.VariationSKU != "" {
			v := product.FindVariation(r.VariationSKU)
			if v == nil {
				util.OrderLinesSkippedTotal.Inc()
				s.logger.Warn("Skipping order line with unknown variation",
					zap.String("product_id", r.ProductID),
					zap.String("variation_sku", r.VariationSKU))
				continue
			}
			unitPrice = v.Price
			variationDesc = describeVariation(v)
		}

		subtotal := unitPrice.Mul(decimal.NewFromInt(int64(r.Quantity)))
		items = append(items, models.OrderItem{
			ProductID:            r.ProductID,
			VariationSKU:         r.VariationSKU,
			ProductName:          product.Name,
			VariationDescription: variationDesc,
			ProductImageURL:      product.ImageURL(),
			Quantity:             r.Quantity,
			UnitPrice:            unitPrice,
			Subtotal:             subtotal,
		})
		total = total.Add(subtotal)
	}

	return items, total
}

func describeVariation(v *models.ProductVariation) string {
	var parts []string
	if v.Color != "" {
		parts = append(parts, "Color: "+v.Color)
	}
	if v.Size != "" {
		parts = append(parts, "Size: "+v.Size)
	}
	return strings.Join(parts, ", ")
}

func (s *OrderService) publishOrderCreated(ctx context.Context, order *models.Order, items []models.OrderItem) {
	eventItems := make([]models.OrderItemData, 0, len(items))
	for _, it := range items {
		eventItems = append(eventItems, models.OrderItemData{
			ProductID:    it.ProductID,
			VariationSKU: it.VariationSKU,
			Quantity:     it.Quantity,
			UnitPrice:    it.UnitPrice,
		})
	}

	event := &models.OrderCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderCreated,
			Timestamp: time.Now(),
		},
		OrderID:     order.ID,
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount,
		Items:       eventItems,
	}

	if err := s.eventPublisher.PublishOrderCreated(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderCreated event",
			zap.Int64("order_id", order.ID), zap.Error(err))
	}
}

func (s *OrderService) publishStatusChanged(ctx context.Context, order *models.Order, oldStatus, newStatus string) {
	event := &models.OrderStatusChangedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderStatusChanged,
			Timestamp: time.Now(),
		},
		OrderID:   order.ID,
		UserID:    order.UserID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
	}

	if err := s.eventPublisher.PublishOrderStatusChanged(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderStatusChanged event",
			zap.Int64("order_id", order.ID), zap.Error(err))
	}
}

// OrderPage is one page of orders.
type OrderPage struct {
	Content       []OrderResponse `json:"content"`
	Page          int             `json:"page"`
	Size          int             `json:"size"`
	TotalElements int64           `json:"totalElements"`
	TotalPages    int             `json:"totalPages"`
}

// GetOrders returns a page of orders with their items, newest first.
func (s *OrderService) GetOrders(ctx context.Context, pageNum, size int) (*OrderPage, error) {
	if size <= 0 {
		size = 10
	}
	if pageNum < 0 {
		pageNum = 0
	}

	orders, total, err := s.store.GetOrders(ctx, pageNum*size, size)
	if err != nil {
		return nil, translate(err)
	}

	content, err := s.withItems(ctx, orders)
	if err != nil {
		return nil, err
	}

	return &OrderPage{
		Content:       content,
		Page:          pageNum,
		Size:          size,
		TotalElements: total,
		TotalPages:    int((total + int64(size) - 1) / int64(size)),
	}, nil
}

// GetOrder retrieves an order and its items by ID.
func (s *OrderService) GetOrder(ctx context.Context, orderID int64) (*OrderResponse, error) {
	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, translate(err)
	}

	items, err := s.store.GetOrderItemsByOrderID(ctx, orderID)
	if err != nil {
		return nil, translate(err)
	}

	return &OrderResponse{Order: *order, Items: items}, nil
}

// GetOrdersByUser returns a user's orders, newest first.
func (s *OrderService) GetOrdersByUser(ctx context.Context, userID int64) ([]OrderResponse, error) {
	orders, err := s.store.GetOrdersByUserID(ctx, userID)
	if err != nil {
		return nil, translate(err)
	}
	return s.withItems(ctx, orders)
}

// GetOrdersByStatus returns all orders in one status, newest first.
func (s *OrderService) GetOrdersByStatus(ctx context.Context, status string) ([]OrderResponse, error) {
	status = strings.ToUpper(status)
	if !models.IsValidOrderStatus(status) {
		return nil, fmt.Errorf("%w: unknown order status %q", ErrValidation, status)
	}

	orders, err := s.store.GetOrdersByStatus(ctx, status)
	if err != nil {
		return nil, translate(err)
	}
	return s.withItems(ctx, orders)
}

func (s *OrderService) withItems(ctx context.Context, orders []models.Order) ([]OrderResponse, error) {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		items, err := s.store.GetOrderItemsByOrderID(ctx, o.ID)
		if err != nil {
			return nil, translate(err)
		}
		out = append(out, OrderResponse{Order: o, Items: items})
	}
	return out, nil
}

// UpdateOrderStatus transitions an order to the given status.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID int64, status string) (*OrderResponse, error) {
	status = strings.ToUpper(status)
	if !models.IsValidOrderStatus(status) {
		return nil, fmt.Errorf("%w: unknown order status %q", ErrValidation, status)
	}

	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, translate(err)
	}

	oldStatus := order.Status
	if err := s.store.UpdateOrderStatus(ctx, orderID, status); err != nil {
		return nil, translate(err)
	}
	order.Status = status

	s.publishStatusChanged(ctx, order, oldStatus, status)
	return s.GetOrder(ctx, orderID)
}

// CancelOrder cancels an order. Only PENDING and CONFIRMED orders can be
// cancelled; later stages are rejected.
func (s *OrderService) CancelOrder(ctx context.Context, orderID int64) (*OrderResponse, error) {
	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, translate(err)
	}

	if !models.CanCancel(order.Status) {
		return nil, fmt.Errorf("%w: order in status %s cannot be cancelled",
			ErrValidation, order.Status)
	}

	oldStatus := order.Status
	if err := s.store.UpdateOrderStatus(ctx, orderID, models.OrderStatusCancelled); err != nil {
		return nil, translate(err)
	}
	order.Status = models.OrderStatusCancelled

	util.OrdersCancelledTotal.Inc()
	s.logger.Info("Order cancelled", zap.Int64("order_id", orderID))
	s.publishStatusChanged(ctx, order, oldStatus, models.OrderStatusCancelled)

	return s.GetOrder(ctx, orderID)
}

// DeleteOrder removes an order and its items.
func (s *OrderService) DeleteOrder(ctx context.Context, orderID int64) error {
	return translate(s.store.DeleteOrder(ctx, orderID))
}
