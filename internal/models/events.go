package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types published to the order-events topic
const (
	EventTypeOrderCreated       = "order.created"
	EventTypeOrderStatusChanged = "order.status_changed"
)

// BaseEvent carries the envelope fields shared by every event.
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderItemData is the per-line payload carried in order events.
type OrderItemData struct {
	ProductID    string          `json:"product_id"`
	VariationSKU string          `json:"variation_sku,omitempty"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
}

// OrderCreatedEvent is published after an order and its items are persisted.
type OrderCreatedEvent struct {
	BaseEvent
	OrderID     int64           `json:"order_id"`
	UserID      int64           `json:"user_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Items       []OrderItemData `json:"items"`
}

// OrderStatusChangedEvent is published on every status transition,
// including cancellation.
type OrderStatusChangedEvent struct {
	BaseEvent
	OrderID   int64  `json:"order_id"`
	UserID    int64  `json:"user_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}
