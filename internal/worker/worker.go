package worker

import (
	"context"

	"farmer-portal/internal/broker"
	"farmer-portal/internal/models"
	"farmer-portal/internal/util"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Invalidator marks presentation paths stale.
type Invalidator interface {
	InvalidatePaths(ctx context.Context, paths ...string) error
}

// OrderEventWorker keeps the farmer views fresh when the order subsystem
// creates or changes orders outside the portal.
type OrderEventWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	invalidator  Invalidator
	logger       *zap.Logger
}

// NewOrderEventWorker creates a new order event worker
func NewOrderEventWorker(consumer *broker.Consumer, invalidator Invalidator) *OrderEventWorker {
	w := &OrderEventWorker{
		consumer:     consumer,
		eventHandler: broker.NewEventHandler(),
		invalidator:  invalidator,
		logger:       util.GetLogger(),
	}
	w.eventHandler.OnOrderEvent(w.HandleOrderEvent)
	return w
}

// HandleOrderEvent invalidates the order-derived views. Events without a
// farmer are not portal orders and are skipped.
func (w *OrderEventWorker) HandleOrderEvent(ctx context.Context, event *models.OrderEvent) error {
	if event.FarmerID == "" {
		w.logger.Debug("Skipping order event without farmer",
			zap.String("order_id", event.OrderID),
			zap.String("event_type", event.EventType))
		return nil
	}

	ctx, span := util.StartSpan(ctx, "OrderEventWorker.HandleOrderEvent",
		attribute.String("order_id", event.OrderID),
		attribute.String("farmer_id", event.FarmerID),
		attribute.String("event_type", event.EventType))
	defer span.End()

	if err := w.invalidator.InvalidatePaths(ctx, models.PathOrders, models.PathDashboard); err != nil {
		util.RecordError(span, err)
		w.logger.Error("Failed to invalidate views for order event",
			zap.String("order_id", event.OrderID),
			zap.String("event_type", event.EventType),
			zap.Error(err))
		return err
	}

	w.logger.Debug("Invalidated views for order event",
		zap.String("order_id", event.OrderID),
		zap.String("farmer_id", event.FarmerID))
	return nil
}

// Start starts the worker
func (w *OrderEventWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting order event worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *OrderEventWorker) Stop() error {
	w.logger.Info("Stopping order event worker")
	return w.consumer.Close()
}
