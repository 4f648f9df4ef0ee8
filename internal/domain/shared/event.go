package shared

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DomainEvent is a fact about an aggregate, published after the
// transaction that produced it commits
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	AggregateType() string
}

// EventHeader is embedded by concrete events. Its fields travel in the
// integration envelope, so they are kept out of the event's own JSON.
type EventHeader struct {
	id            uuid.UUID
	eventType     string
	occurredAt    time.Time
	aggregateID   uuid.UUID
	aggregateType string
}

// NewEventHeader stamps a fresh id and the current time
func NewEventHeader(eventType, aggregateType string, aggregateID uuid.UUID) EventHeader {
	return EventHeader{
		id:            uuid.New(),
		eventType:     eventType,
		occurredAt:    time.Now(),
		aggregateID:   aggregateID,
		aggregateType: aggregateType,
	}
}

func (h EventHeader) EventID() uuid.UUID     { return h.id }
func (h EventHeader) EventType() string      { return h.eventType }
func (h EventHeader) OccurredAt() time.Time  { return h.occurredAt }
func (h EventHeader) AggregateID() uuid.UUID { return h.aggregateID }
func (h EventHeader) AggregateType() string  { return h.aggregateType }

// EventPublisher hands events to whatever delivers them
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventHandler consumes events of the types it lists. An empty list
// subscribes to everything.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	EventTypes() []string
}
