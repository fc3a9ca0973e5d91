package worker

import (
	"context"

	"ecommerce-api/internal/broker"
	"ecommerce-api/internal/models"
	"ecommerce-api/internal/service"
	"ecommerce-api/internal/util"

	"go.uber.org/zap"
)

// CartWorker consumes order events and keeps carts consistent with
// what was just purchased: bought lines are removed and lines whose
// product ran out of stock are swept.
type CartWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	cartService  *service.CartService
	logger       *zap.Logger
}

// NewCartWorker creates a new cart worker
func NewCartWorker(consumer *broker.Consumer, cartService *service.CartService) *CartWorker {
	w := &CartWorker{
		consumer:    consumer,
		cartService: cartService,
		logger:      util.NamedLogger("cart-worker"),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnOrderCreated(w.handleOrderCreated)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *CartWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting cart worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *CartWorker) Stop() error {
	w.logger.Info("Stopping cart worker")
	return w.consumer.Close()
}

func (w *CartWorker) handleOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error {
	w.logger.Info("Processing order created event",
		zap.Int64("order_id", event.OrderID),
		zap.Int64("user_id", event.UserID),
		zap.Int("items", len(event.Items)))

	if err := w.cartService.ClearPurchasedLines(ctx, event.UserID, event.Items); err != nil {
		w.logger.Error("Failed to clear purchased cart lines",
			zap.Int64("order_id", event.OrderID),
			zap.Error(err))
		return err
	}

	swept, err := w.cartService.ReconcileOutOfStock(ctx, event.UserID)
	if err != nil {
		// The purchased lines are already gone, so a failed sweep is
		// logged and retried on the next event for this user.
		w.logger.Warn("Failed to sweep out-of-stock cart lines",
			zap.Int64("user_id", event.UserID),
			zap.Error(err))
		return nil
	}
	if swept > 0 {
		w.logger.Info("Swept out-of-stock cart lines",
			zap.Int64("user_id", event.UserID),
			zap.Int("lines", swept))
	}

	return nil
}
