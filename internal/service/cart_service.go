package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ecommerce-api/internal/models"
	"ecommerce-api/internal/redisclient"
	"ecommerce-api/internal/store"
	"ecommerce-api/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CartService handles cart business logic. Cart lines store only a
// product reference; prices and stock are resolved from the catalog at
// read time so price changes show up immediately.
type CartService struct {
	store    *store.Store
	products *ProductService
	cache    *redisclient.Client
	logger   *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(st *store.Store, products *ProductService, cache *redisclient.Client) *CartService {
	return &CartService{
		store:    st,
		products: products,
		cache:    cache,
		logger:   util.NamedLogger("cart"),
	}
}

// AddToCartRequest adds quantity of a product (or one of its variations)
// to a user's cart.
type AddToCartRequest struct {
	UserID       int64  `json:"userId" binding:"required"`
	ProductID    string `json:"productId" binding:"required"`
	VariationSKU string `json:"variationSku"`
	Quantity     int    `json:"quantity" binding:"required,min=1"`
}

// CartItemResponse is a cart line with a live product snapshot. Product
// is nil when the catalog entry has since disappeared.
type CartItemResponse struct {
	ID           int64            `json:"id"`
	ProductID    string           `json:"productId"`
	VariationSKU string           `json:"variationSku,omitempty"`
	Quantity     int              `json:"quantity"`
	CreatedAt    time.Time        `json:"createdAt"`
	Product      *ProductResponse `json:"product,omitempty"`
}

// CartResponse is a user's full cart with live totals.
type CartResponse struct {
	Items       []CartItemResponse `json:"items"`
	TotalItems  int                `json:"totalItems"`
	TotalAmount decimal.Decimal    `json:"totalAmount"`
}

// GetCart returns the user's cart with live product data and totals.
// Lines whose product no longer resolves contribute zero to the total.
func (s *CartService) GetCart(ctx context.Context, userID int64) (*CartResponse, error) {
	items, err := s.store.GetCartItemsByUserID(ctx, userID)
	if err != nil {
		return nil, translate(err)
	}

	resp := &CartResponse{
		Items:       make([]CartItemResponse, 0, len(items)),
		TotalAmount: decimal.Zero,
	}

	for _, item := range items {
		line := CartItemResponse{
			ID:           item.ID,
			ProductID:    item.ProductID,
			VariationSKU: item.VariationSKU,
			Quantity:     item.Quantity,
			CreatedAt:    item.CreatedAt,
		}

		if product, err := s.products.GetProductByID(ctx, item.ProductID); err == nil {
			line.Product = product
			price := product.Price
			if item.VariationSKU != "" {
				if v := product.FindVariation(item.VariationSKU); v != nil {
					price = v.Price
				}
			}
			resp.TotalAmount = resp.TotalAmount.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		} else if !errors.Is(err, ErrNotFound) {
			return nil, err
		}

		resp.TotalItems += item.Quantity
		resp.Items = append(resp.Items, line)
	}

	return resp, nil
}

// AddToCart resolves the product (and, when given, an active variation),
// checks stock, and inserts or merges the cart line. The merge is a
// single database upsert, so concurrent adds for the same line cannot
// lose quantity.
func (s *CartService) AddToCart(ctx context.Context, req *AddToCartRequest) (*CartResponse, error) {
	ctx, span := util.StartSpan(ctx, "CartService.AddToCart")
	defer span.End()

	if _, err := s.store.GetUserByID(ctx, req.UserID); err != nil {
		return nil, translate(err)
	}

	product, err := s.products.GetProductByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	available := product.StockQuantity
	if req.VariationSKU != "" {
		v := product.FindVariation(req.VariationSKU)
		if v == nil || !v.Active() {
			return nil, fmt.Errorf("%w: variation %s", ErrNotFound, req.VariationSKU)
		}
		available = v.StockQuantity
	}
	if req.Quantity > available {
		return nil, fmt.Errorf("%w: insufficient stock, available=%d requested=%d",
			ErrValidation, available, req.Quantity)
	}

	item := &models.CartItem{
		UserID:       req.UserID,
		ProductID:    req.ProductID,
		VariationSKU: req.VariationSKU,
		Quantity:     req.Quantity,
	}
	if err := s.store.UpsertCartItem(ctx, item); err != nil {
		return nil, translate(err)
	}

	util.CartItemsAddedTotal.Inc()
	s.invalidateCount(ctx, req.UserID)
	s.logger.Info("Cart item added",
		zap.Int64("user_id", req.UserID),
		zap.String("product_id", req.ProductID),
		zap.Int("quantity", item.Quantity))

	return s.GetCart(ctx, req.UserID)
}

// UpdateCartItem replaces a line's quantity. Setting quantity to zero or
// below removes the line.
func (s *CartService) UpdateCartItem(ctx context.Context, userID, cartItemID int64, quantity int) (*CartResponse, error) {
	item, err := s.store.GetCartItem(ctx, cartItemID)
	if err != nil {
		return nil, translate(err)
	}
	if item.UserID != userID {
		return nil, fmt.Errorf("%w: cart item %d", ErrNotFound, cartItemID)
	}

	if quantity <= 0 {
		err = s.store.DeleteCartItem(ctx, cartItemID)
	} else {
		err = s.store.SetCartItemQuantity(ctx, cartItemID, quantity)
	}
	if err != nil {
		return nil, translate(err)
	}

	s.invalidateCount(ctx, userID)
	return s.GetCart(ctx, userID)
}

// RemoveFromCart deletes one line from the user's cart.
func (s *CartService) RemoveFromCart(ctx context.Context, userID, cartItemID int64) (*CartResponse, error) {
	item, err := s.store.GetCartItem(ctx, cartItemID)
	if err != nil {
		return nil, translate(err)
	}
	if item.UserID != userID {
		return nil, fmt.Errorf("%w: cart item %d", ErrNotFound, cartItemID)
	}

	if err := s.store.DeleteCartItem(ctx, cartItemID); err != nil {
		return nil, translate(err)
	}

	s.invalidateCount(ctx, userID)
	return s.GetCart(ctx, userID)
}

// ClearCart removes every line from the user's cart.
func (s *CartService) ClearCart(ctx context.Context, userID int64) error {
	if err := s.store.ClearCart(ctx, userID); err != nil {
		return translate(err)
	}
	s.invalidateCount(ctx, userID)
	return nil
}

// GetCartItemCount sums quantities across the user's lines, serving from
// the Redis counter cache when possible.
func (s *CartService) GetCartItemCount(ctx context.Context, userID int64) (int, error) {
	if count, ok, err := s.cache.GetCartCount(ctx, userID); err == nil && ok {
		util.CacheHitsTotal.WithLabelValues("cart_count").Inc()
		return count, nil
	}
	util.CacheMissesTotal.WithLabelValues("cart_count").Inc()

	count, err := s.store.GetCartItemCount(ctx, userID)
	if err != nil {
		return 0, translate(err)
	}

	if err := s.cache.SetCartCount(ctx, userID, count); err != nil {
		s.logger.Warn("Cart count cache write failed", zap.Int64("user_id", userID), zap.Error(err))
	}
	return count, nil
}

// CartTotal summarizes a cart without its lines.
type CartTotal struct {
	TotalAmount decimal.Decimal `json:"totalAmount"`
	TotalItems  int             `json:"totalItems"`
	ItemCount   int             `json:"itemCount"`
}

// GetCartTotal returns the cart's live totals.
func (s *CartService) GetCartTotal(ctx context.Context, userID int64) (*CartTotal, error) {
	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &CartTotal{
		TotalAmount: cart.TotalAmount,
		TotalItems:  cart.TotalItems,
		ItemCount:   len(cart.Items),
	}, nil
}

// ReconcileOutOfStock removes the user's cart lines whose quantity
// exceeds current availability. Lines whose product or variation no
// longer resolves count as zero availability.
func (s *CartService) ReconcileOutOfStock(ctx context.Context, userID int64) (int, error) {
	items, err := s.store.GetCartItemsByUserID(ctx, userID)
	if err != nil {
		return 0, translate(err)
	}

	var stale []int64
	for _, item := range items {
		if item.Quantity > s.availability(ctx, item) {
			stale = append(stale, item.ID)
		}
	}
	if len(stale) == 0 {
		return 0, nil
	}

	if err := s.store.DeleteCartItems(ctx, stale); err != nil {
		return 0, translate(err)
	}

	util.CartLinesSweptTotal.Add(float64(len(stale)))
	s.invalidateCount(ctx, userID)
	s.logger.Info("Swept out-of-stock cart lines",
		zap.Int64("user_id", userID), zap.Int("removed", len(stale)))
	return len(stale), nil
}

// ClearPurchasedLines removes the cart lines covered by a completed
// order. Called by the worker when an OrderCreated event arrives.
func (s *CartService) ClearPurchasedLines(ctx context.Context, userID int64, items []models.OrderItemData) error {
	if err := s.store.DeleteCartLinesForProducts(ctx, userID, items); err != nil {
		return translate(err)
	}
	s.invalidateCount(ctx, userID)
	return nil
}

func (s *CartService) availability(ctx context.Context, item models.CartItem) int {
	product, err := s.products.GetProductByID(ctx, item.ProductID)
	if err != nil || !product.Active() {
		return 0
	}
	if item.VariationSKU != "" {
		v := product.FindVariation(item.VariationSKU)
		if v == nil || !v.Active() {
			return 0
		}
		return v.StockQuantity
	}
	return product.StockQuantity
}

func (s *CartService) invalidateCount(ctx context.Context, userID int64) {
	if err := s.cache.InvalidateCartCount(ctx, userID); err != nil {
		s.logger.Warn("Cart count invalidation failed", zap.Int64("user_id", userID), zap.Error(err))
	}
}
