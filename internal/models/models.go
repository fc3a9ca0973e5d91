package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents a registered customer or admin
type User struct {
	ID           int64     `db:"id" json:"id"`
	FirstName    string    `db:"first_name" json:"firstName"`
	LastName     string    `db:"last_name" json:"lastName"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Phone        string    `db:"phone" json:"phone,omitempty"`
	Role         string    `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"isActive"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// User roles
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// CartItem represents a single cart line. At most one line exists per
// (user, product, variation SKU); a missing variation is stored as "".
type CartItem struct {
	ID           int64     `db:"id" json:"id"`
	UserID       int64     `db:"user_id" json:"userId"`
	ProductID    string    `db:"product_id" json:"productId"`
	VariationSKU string    `db:"variation_sku" json:"variationSku,omitempty"`
	Quantity     int       `db:"quantity" json:"quantity"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// Order represents a customer order
type Order struct {
	ID              int64           `db:"id" json:"id"`
	UserID          int64           `db:"user_id" json:"userId"`
	Status          string          `db:"status" json:"status"`
	TotalAmount     decimal.Decimal `db:"total_amount" json:"totalAmount"`
	ShippingAddress string          `db:"shipping_address" json:"shippingAddress,omitempty"`
	BillingAddress  string          `db:"billing_address" json:"billingAddress,omitempty"`
	PaymentMethod   string          `db:"payment_method" json:"paymentMethod,omitempty"`
	Notes           string          `db:"notes" json:"notes,omitempty"`
	CreatedAt       time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updatedAt"`
}

// OrderItem is a denormalized snapshot of the purchased product so order
// history stays stable when the catalog changes later.
type OrderItem struct {
	ID                   int64           `db:"id" json:"id"`
	OrderID              int64           `db:"order_id" json:"orderId"`
	ProductID            string          `db:"product_id" json:"productId"`
	VariationSKU         string          `db:"variation_sku" json:"variationSku,omitempty"`
	ProductName          string          `db:"product_name" json:"productName"`
	VariationDescription string          `db:"variation_description" json:"variationDescription,omitempty"`
	ProductImageURL      string          `db:"product_image_url" json:"productImageUrl,omitempty"`
	Quantity             int             `db:"quantity" json:"quantity"`
	UnitPrice            decimal.Decimal `db:"unit_price" json:"unitPrice"`
	Subtotal             decimal.Decimal `db:"subtotal" json:"subtotal"`
}

// Order statuses
const (
	OrderStatusPending    = "PENDING"
	OrderStatusConfirmed  = "CONFIRMED"
	OrderStatusProcessing = "PROCESSING"
	OrderStatusShipped    = "SHIPPED"
	OrderStatusDelivered  = "DELIVERED"
	OrderStatusCancelled  = "CANCELLED"
)

var validOrderStatuses = map[string]bool{
	OrderStatusPending:    true,
	OrderStatusConfirmed:  true,
	OrderStatusProcessing: true,
	OrderStatusShipped:    true,
	OrderStatusDelivered:  true,
	OrderStatusCancelled:  true,
}

// IsValidOrderStatus reports whether s is a known order status.
func IsValidOrderStatus(s string) bool {
	return validOrderStatuses[s]
}

// CanCancel reports whether an order in status s may still be cancelled.
// Only PENDING and CONFIRMED orders are cancellable.
func CanCancel(s string) bool {
	return s == OrderStatusPending || s == OrderStatusConfirmed
}
