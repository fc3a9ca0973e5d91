package store

import (
	"context"
	"database/sql"
	"fmt"

	"ecommerce-api/internal/models"

	"github.com/jmoiron/sqlx"
)

// UpsertCartItem inserts a cart line or, when a line for the same
// (user, product, variation) already exists, increments its quantity.
// The merge happens inside the database so concurrent adds cannot lose
// an update.
func (s *Store) UpsertCartItem(ctx context.Context, item *models.CartItem) error {
	query := `
		INSERT INTO cart_items (user_id, product_id, variation_sku, quantity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, product_id, variation_sku)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity,
		              updated_at = NOW()
		RETURNING id, quantity, created_at, updated_at`

	return s.db.GetContext(ctx, item, query,
		item.UserID, item.ProductID, item.VariationSKU, item.Quantity)
}

// GetCartItem retrieves one cart line by ID.
func (s *Store) GetCartItem(ctx context.Context, id int64) (*models.CartItem, error) {
	var item models.CartItem
	err := s.db.GetContext(ctx, &item, "SELECT * FROM cart_items WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("cart item %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetCartItemsByUserID retrieves all cart lines for a user, newest first.
func (s *Store) GetCartItemsByUserID(ctx context.Context, userID int64) ([]models.CartItem, error) {
	var items []models.CartItem
	err := s.db.SelectContext(ctx, &items,
		"SELECT * FROM cart_items WHERE user_id = $1 ORDER BY created_at DESC", userID)
	return items, err
}

// SetCartItemQuantity replaces a cart line's quantity.
func (s *Store) SetCartItemQuantity(ctx context.Context, id int64, quantity int) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE cart_items SET quantity = $1, updated_at = NOW() WHERE id = $2",
		quantity, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("cart item %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteCartItem removes one cart line.
func (s *Store) DeleteCartItem(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM cart_items WHERE id = $1", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("cart item %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteCartItems removes a set of cart lines by ID.
func (s *Store) DeleteCartItems(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := sqlx.In("DELETE FROM cart_items WHERE id IN (?)", ids)
	if err != nil {
		return err
	}
	query = s.db.Rebind(query)

	_, err = s.db.ExecContext(ctx, query, args...)
	return err
}

// ClearCart removes every cart line belonging to a user.
func (s *Store) ClearCart(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM cart_items WHERE user_id = $1", userID)
	return err
}

// DeleteCartLinesForProducts removes a user's cart lines that reference
// any of the given (product, variation) pairs. Used after checkout.
func (s *Store) DeleteCartLinesForProducts(ctx context.Context, userID int64, pairs []models.OrderItemData) error {
	if len(pairs) == 0 {
		return nil
	}

	for _, p := range pairs {
		_, err := s.db.ExecContext(ctx,
			"DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2 AND variation_sku = $3",
			userID, p.ProductID, p.VariationSKU)
		if err != nil {
			return err
		}
	}
	return nil
}

// GetCartItemCount sums quantities across a user's cart lines.
func (s *Store) GetCartItemCount(ctx context.Context, userID int64) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		"SELECT COALESCE(SUM(quantity), 0) FROM cart_items WHERE user_id = $1", userID)
	return count, err
}
