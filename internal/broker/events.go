package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"ecommerce-api/internal/models"
	"ecommerce-api/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventPublisher publishes typed order events.
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishOrderCreated publishes an OrderCreated event keyed by order ID.
func (p *EventPublisher) PublishOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error {
	return p.producer.PublishEvent(ctx, fmt.Sprintf("order-%d", event.OrderID), event)
}

// PublishOrderStatusChanged publishes an OrderStatusChanged event.
func (p *EventPublisher) PublishOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error {
	return p.producer.PublishEvent(ctx, fmt.Sprintf("order-%d", event.OrderID), event)
}

// EventHandler dispatches consumed messages to registered callbacks by
// event type.
type EventHandler struct {
	onOrderCreated       func(ctx context.Context, event *models.OrderCreatedEvent) error
	onOrderStatusChanged func(ctx context.Context, event *models.OrderStatusChangedEvent) error
	logger               *zap.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{logger: util.NamedLogger("events")}
}

// OnOrderCreated registers the OrderCreated callback.
func (h *EventHandler) OnOrderCreated(fn func(ctx context.Context, event *models.OrderCreatedEvent) error) {
	h.onOrderCreated = fn
}

// OnOrderStatusChanged registers the OrderStatusChanged callback.
func (h *EventHandler) OnOrderStatusChanged(fn func(ctx context.Context, event *models.OrderStatusChangedEvent) error) {
	h.onOrderStatusChanged = fn
}

// HandleMessage decodes the event envelope and routes to the matching
// callback. Unknown event types are acknowledged and dropped.
func (h *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var base models.BaseEvent
	if err := json.Unmarshal(msg.Value, &base); err != nil {
		return fmt.Errorf("failed to unmarshal event envelope: %w", err)
	}

	switch base.EventType {
	case models.EventTypeOrderCreated:
		if h.onOrderCreated == nil {
			return nil
		}
		var event models.OrderCreatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return fmt.Errorf("failed to unmarshal OrderCreated event: %w", err)
		}
		return h.onOrderCreated(ctx, &event)

	case models.EventTypeOrderStatusChanged:
		if h.onOrderStatusChanged == nil {
			return nil
		}
		var event models.OrderStatusChangedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return fmt.Errorf("failed to unmarshal OrderStatusChanged event: %w", err)
		}
		return h.onOrderStatusChanged(ctx, &event)

	default:
		h.logger.Debug("Ignoring unknown event type", zap.String("type", base.EventType))
		return nil
	}
}
