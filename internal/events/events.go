// Package events publishes receiver lifecycle events for downstream
// consumers such as notification or reporting workers.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/mmynk/duitraya/internal/metrics"
	"github.com/mmynk/duitraya/internal/models"
)

// Type names an event. It doubles as the AMQP routing key.
type Type string

const (
	ReceiverCreated     Type = "receiver.created"
	ReceiverUpdated     Type = "receiver.updated"
	ReceiverDistributed Type = "receiver.distributed"
	ReceiverDeleted     Type = "receiver.deleted"
)

// Event describes a change to one receiver.
type Event struct {
	Type       Type      `json:"type"`
	ReceiverID int64     `json:"receiverId"`
	OwnerID    string    `json:"ownerId"`
	Year       int       `json:"year"`
	Amount     int64     `json:"amount"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NewReceiverEvent builds an event of type t from the receiver's current state.
func NewReceiverEvent(t Type, r *models.Receiver) Event {
	return Event{
		Type:       t,
		ReceiverID: r.ID,
		OwnerID:    r.OwnerID,
		Year:       r.Year,
		Amount:     r.TotalAmount(),
		OccurredAt: time.Now().UTC(),
	}
}

// Body encodes the event as the JSON message body.
func (e Event) Body() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers events to a broker.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }

// Emitter publishes events on behalf of the services. Delivery is best
// effort: failures are logged and counted, never returned, so a broker
// outage cannot fail a write that already committed.
type Emitter struct {
	publisher Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewEmitter wraps publisher. m may be nil.
func NewEmitter(publisher Publisher, m *metrics.Metrics, logger *slog.Logger) *Emitter {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Emitter{publisher: publisher, metrics: m, logger: logger}
}

// Emit publishes event and records the outcome.
func (e *Emitter) Emit(ctx context.Context, event Event) {
	err := e.publisher.Publish(ctx, event)
	e.metrics.EventPublished(string(event.Type), err)
	if err != nil {
		e.logger.Error("Failed to publish event",
			"type", event.Type,
			"receiver_id", event.ReceiverID,
			"error", err,
		)
		return
	}
	e.logger.Debug("Published event", "type", event.Type, "receiver_id", event.ReceiverID)
}
