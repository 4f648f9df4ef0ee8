package event

import (
	"context"
	"fmt"

	"github.com/koifarm/backend/internal/domain/shared"
	"github.com/koifarm/backend/internal/infrastructure/config"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageWriter is the part of *kafka.Writer the forwarder needs
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka header names
const (
	HeaderEventType     = "event_type"
	HeaderAggregateType = "aggregate_type"
)

// KafkaForwarder publishes domain events to the integration topic.
// Messages are keyed by aggregate id so one order's events stay ordered
// within a partition.
type KafkaForwarder struct {
	writer     MessageWriter
	eventTypes []string
	logger     *zap.Logger
}

// NewKafkaWriter builds a synchronous writer for the configured brokers
func NewKafkaWriter(cfg config.KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		MaxAttempts:            cfg.MaxAttempts,
		WriteTimeout:           cfg.WriteTimeout,
		AllowAutoTopicCreation: true,
	}
}

// NewKafkaForwarder creates a forwarder for the given event types
func NewKafkaForwarder(writer MessageWriter, logger *zap.Logger, eventTypes ...string) *KafkaForwarder {
	return &KafkaForwarder{
		writer:     writer,
		eventTypes: eventTypes,
		logger:     logger,
	}
}

// EventTypes returns the forwarded event types
func (f *KafkaForwarder) EventTypes() []string {
	return f.eventTypes
}

// Handle writes one event to Kafka
func (f *KafkaForwarder) Handle(ctx context.Context, event shared.DomainEvent) error {
	value, err := Encode(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.AggregateID().String()),
		Value: value,
		Headers: []kafka.Header{
			{Key: HeaderEventType, Value: []byte(event.EventType())},
			{Key: HeaderAggregateType, Value: []byte(event.AggregateType())},
		},
		Time: event.OccurredAt(),
	}
	if err := f.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to forward %s: %w", event.EventType(), err)
	}

	f.logger.Debug("Event forwarded",
		zap.String("event_type", event.EventType()),
		zap.String("event_id", event.EventID().String()),
	)
	return nil
}

// Close flushes and closes the writer
func (f *KafkaForwarder) Close() error {
	return f.writer.Close()
}

var _ shared.EventHandler = (*KafkaForwarder)(nil)
