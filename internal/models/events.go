package models

import "time"

// Event types published by the portal
const (
	EventTypeOrderStatusUpdated = "ORDER_STATUS_UPDATED"
	EventTypeProductSaved       = "PRODUCT_SAVED"
	EventTypeProductDeleted     = "PRODUCT_DELETED"
	EventTypeFarmerUpdated      = "FARMER_UPDATED"
)

// Event types consumed from the order subsystem
const (
	EventTypeOrderCreated = "ORDER_CREATED"
	EventTypeOrderUpdated = "ORDER_UPDATED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderStatusUpdatedEvent published when a farmer moves an order along
type OrderStatusUpdatedEvent struct {
	BaseEvent
	OrderID string `json:"order_id"`
	Action  string `json:"action"`
	Status  string `json:"status"`
}

// ProductSavedEvent published when a product is created or updated
type ProductSavedEvent struct {
	BaseEvent
	ProductID string `json:"product_id"`
	FarmerID  string `json:"farmer_id,omitempty"`
	Created   bool   `json:"created"`
}

// ProductDeletedEvent published when a product is removed
type ProductDeletedEvent struct {
	BaseEvent
	ProductID string `json:"product_id"`
}

// FarmerUpdatedEvent published after a partial farmer update
type FarmerUpdatedEvent struct {
	BaseEvent
	FarmerID string         `json:"farmer_id"`
	Fields   []ProfileField `json:"fields"`
}

// OrderEvent is the part of an order subsystem event the portal reads.
type OrderEvent struct {
	BaseEvent
	OrderID  string `json:"order_id"`
	FarmerID string `json:"farmer_id"`
}
