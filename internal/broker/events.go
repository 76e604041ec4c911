package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"farmer-portal/internal/models"
	"farmer-portal/internal/util"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventWriter writes one serialized event.
type EventWriter interface {
	PublishEvent(ctx context.Context, key, eventType string, event interface{}) error
}

// EventPublisher handles publishing portal domain events
type EventPublisher struct {
	writer EventWriter
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(writer EventWriter) *EventPublisher {
	return &EventPublisher{writer: writer}
}

func newBaseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now().UTC(),
	}
}

// PublishOrderStatusUpdated publishes ORDER_STATUS_UPDATED
func (ep *EventPublisher) PublishOrderStatusUpdated(ctx context.Context, orderID, action, status string) error {
	event := &models.OrderStatusUpdatedEvent{
		BaseEvent: newBaseEvent(models.EventTypeOrderStatusUpdated),
		OrderID:   orderID,
		Action:    action,
		Status:    status,
	}
	return ep.writer.PublishEvent(ctx, "order-"+orderID, event.EventType, event)
}

// PublishProductSaved publishes PRODUCT_SAVED
func (ep *EventPublisher) PublishProductSaved(ctx context.Context, productID, farmerID string, created bool) error {
	event := &models.ProductSavedEvent{
		BaseEvent: newBaseEvent(models.EventTypeProductSaved),
		ProductID: productID,
		FarmerID:  farmerID,
		Created:   created,
	}
	return ep.writer.PublishEvent(ctx, "product-"+productID, event.EventType, event)
}

// PublishProductDeleted publishes PRODUCT_DELETED
func (ep *EventPublisher) PublishProductDeleted(ctx context.Context, productID string) error {
	event := &models.ProductDeletedEvent{
		BaseEvent: newBaseEvent(models.EventTypeProductDeleted),
		ProductID: productID,
	}
	return ep.writer.PublishEvent(ctx, "product-"+productID, event.EventType, event)
}

// PublishFarmerUpdated publishes FARMER_UPDATED
func (ep *EventPublisher) PublishFarmerUpdated(ctx context.Context, farmerID string, fields []models.ProfileField) error {
	event := &models.FarmerUpdatedEvent{
		BaseEvent: newBaseEvent(models.EventTypeFarmerUpdated),
		FarmerID:  farmerID,
		Fields:    fields,
	}
	return ep.writer.PublishEvent(ctx, "farmer-"+farmerID, event.EventType, event)
}

// EventHandler routes order subsystem events
type EventHandler struct {
	onOrderEvent func(context.Context, *models.OrderEvent) error
	logger       *zap.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{logger: util.GetLogger()}
}

// OnOrderEvent registers a handler for ORDER_CREATED and ORDER_UPDATED events
func (eh *EventHandler) OnOrderEvent(handler func(context.Context, *models.OrderEvent) error) {
	eh.onOrderEvent = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	switch baseEvent.EventType {
	case models.EventTypeOrderCreated, models.EventTypeOrderUpdated:
		util.OrderEventsConsumedTotal.WithLabelValues(baseEvent.EventType).Inc()
		if eh.onOrderEvent == nil {
			return nil
		}
		var event models.OrderEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return fmt.Errorf("failed to unmarshal %s event: %w", baseEvent.EventType, err)
		}
		return eh.onOrderEvent(ctx, &event)

	default:
		eh.logger.Debug("Ignoring event", zap.String("event_type", baseEvent.EventType))
	}

	return nil
}
