package store

import (
	"context"
	"database/sql"
	"fmt"

	"ecommerce-api/internal/models"
)

// CreateOrder persists a shell order.
func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (user_id, status, total_amount, shipping_address, billing_address, payment_method, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	return s.db.GetContext(ctx, order, query,
		order.UserID, order.Status, order.TotalAmount,
		order.ShippingAddress, order.BillingAddress, order.PaymentMethod, order.Notes)
}

// CreateOrderWithItems persists an order and its line items in one
// transaction. The order's TotalAmount is expected to be final.
func (s *Store) CreateOrderWithItems(ctx context.Context, order *models.Order, items []models.OrderItem) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	orderQuery := `
		INSERT INTO orders (user_id, status, total_amount, shipping_address, billing_address, payment_method, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	if err := tx.GetContext(ctx, order, orderQuery,
		order.UserID, order.Status, order.TotalAmount,
		order.ShippingAddress, order.BillingAddress, order.PaymentMethod, order.Notes); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, product_id, variation_sku, product_name, variation_description, product_image_url, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	for i := range items {
		items[i].OrderID = order.ID
		if err := tx.GetContext(ctx, &items[i].ID, itemQuery,
			items[i].OrderID, items[i].ProductID, items[i].VariationSKU,
			items[i].ProductName, items[i].VariationDescription, items[i].ProductImageURL,
			items[i].Quantity, items[i].UnitPrice, items[i].Subtotal); err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	return tx.Commit()
}

// GetOrderByID retrieves an order by ID
func (s *Store) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("order %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrders retrieves a page of orders, newest first, plus the total count.
func (s *Store) GetOrders(ctx context.Context, offset, limit int) ([]models.Order, int64, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders ORDER BY created_at DESC OFFSET $1 LIMIT $2", offset, limit)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := s.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM orders"); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// GetOrdersByUserID retrieves a user's orders, newest first.
func (s *Store) GetOrdersByUserID(ctx context.Context, userID int64) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders WHERE user_id = $1 ORDER BY created_at DESC", userID)
	return orders, err
}

// GetOrdersByStatus retrieves all orders in the given status, newest first.
func (s *Store) GetOrdersByStatus(ctx context.Context, status string) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders WHERE status = $1 ORDER BY created_at DESC", status)
	return orders, err
}

// UpdateOrderStatus updates order status
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID int64, status string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2",
		status, orderID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("order %d: %w", orderID, ErrNotFound)
	}
	return nil
}

// DeleteOrder removes an order and, via cascade, its items.
func (s *Store) DeleteOrder(ctx context.Context, orderID int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM orders WHERE id = $1", orderID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("order %d: %w", orderID, ErrNotFound)
	}
	return nil
}

// GetOrderItemsByOrderID retrieves all items for an order
func (s *Store) GetOrderItemsByOrderID(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := s.db.SelectContext(ctx, &items,
		"SELECT * FROM order_items WHERE order_id = $1 ORDER BY id", orderID)
	return items, err
}
