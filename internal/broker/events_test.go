package broker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"farmer-portal/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedEvent struct {
	key       string
	eventType string
	event     interface{}
}

type fakeWriter struct {
	events []recordedEvent
	err    error
}

func (w *fakeWriter) PublishEvent(_ context.Context, key, eventType string, event interface{}) error {
	w.events = append(w.events, recordedEvent{key: key, eventType: eventType, event: event})
	return w.err
}

func TestPublishOrderStatusUpdated(t *testing.T) {
	w := &fakeWriter{}
	ep := NewEventPublisher(w)

	require.NoError(t, ep.PublishOrderStatusUpdated(context.Background(), "o1", "Ship", "Shipping"))

	require.Len(t, w.events, 1)
	assert.Equal(t, "order-o1", w.events[0].key)
	assert.Equal(t, models.EventTypeOrderStatusUpdated, w.events[0].eventType)

	event := w.events[0].event.(*models.OrderStatusUpdatedEvent)
	assert.Equal(t, "Shipping", event.Status)
	assert.NotEmpty(t, event.EventID)
}

func TestPublishFarmerUpdatedPropagatesError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	ep := NewEventPublisher(w)

	err := ep.PublishFarmerUpdated(context.Background(), "f1", []models.ProfileField{models.FieldBio})
	assert.Error(t, err)
	assert.Equal(t, "farmer-f1", w.events[0].key)
}

func TestHandleMessageRoutesOrderEvents(t *testing.T) {
	eh := NewEventHandler()

	var got []*models.OrderEvent
	eh.OnOrderEvent(func(_ context.Context, e *models.OrderEvent) error {
		got = append(got, e)
		return nil
	})

	for _, eventType := range []string{models.EventTypeOrderCreated, models.EventTypeOrderUpdated, "PAYMENT_SUCCESS"} {
		value, err := json.Marshal(models.OrderEvent{
			BaseEvent: models.BaseEvent{EventID: "e-" + eventType, EventType: eventType},
			OrderID:   "o1",
			FarmerID:  "f1",
		})
		require.NoError(t, err)
		require.NoError(t, eh.HandleMessage(context.Background(), kafka.Message{Value: value}))
	}

	require.Len(t, got, 2)
	assert.Equal(t, "f1", got[0].FarmerID)
	assert.Equal(t, models.EventTypeOrderUpdated, got[1].EventType)
}

func TestHandleMessageRejectsGarbage(t *testing.T) {
	eh := NewEventHandler()
	err := eh.HandleMessage(context.Background(), kafka.Message{Value: []byte("not json")})
	assert.Error(t, err)
}
