package event

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/koifarm/backend/internal/domain/shared"
	"github.com/koifarm/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// anyEvent routes a handler to every event type
const anyEvent = "*"

// InMemoryEventBus dispatches events synchronously to in-process handlers.
// Publish runs after the originating transaction commits, so a failing
// handler is logged and never reported to the caller.
type InMemoryEventBus struct {
	mu       sync.RWMutex
	routes   map[string][]shared.EventHandler
	logger   *zap.Logger
	running  atomic.Bool
	failures atomic.Int64
}

func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{
		routes: make(map[string][]shared.EventHandler),
		logger: logger,
	}
}

// Publish hands each event to its handlers in registration order, typed
// subscribers before catch-all ones
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	log := logger.Enrich(ctx, b.logger)
	for _, event := range events {
		for _, handler := range b.handlersFor(event.EventType()) {
			if err := b.dispatch(ctx, handler, event); err != nil {
				b.failures.Add(1)
				log.Error("Event handler failed",
					zap.String("event_type", event.EventType()),
					zap.String("event_id", event.EventID().String()),
					zap.String("aggregate_id", event.AggregateID().String()),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}

// Subscribe routes handler to eventTypes, falling back to the handler's own
// EventTypes. A handler with no types at all receives everything.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	keys := eventTypes
	if len(keys) == 0 {
		keys = []string{anyEvent}
	}

	b.mu.Lock()
	for _, key := range keys {
		b.routes[key] = append(b.routes[key], handler)
	}
	b.mu.Unlock()

	b.logger.Debug("Event handler subscribed", zap.Strings("event_types", keys))
}

// Unsubscribe drops handler from every route
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for key, handlers := range b.routes {
		handlers = slices.DeleteFunc(handlers, func(h shared.EventHandler) bool { return h == handler })
		if len(handlers) == 0 {
			delete(b.routes, key)
			continue
		}
		b.routes[key] = handlers
	}
}

func (b *InMemoryEventBus) Start(context.Context) error {
	b.running.Store(true)
	b.logger.Info("Event bus started")
	return nil
}

func (b *InMemoryEventBus) Stop(context.Context) error {
	b.running.Store(false)
	b.logger.Info("Event bus stopped", zap.Int64("handler_failures", b.failures.Load()))
	return nil
}

// Failures counts handler errors and panics since startup
func (b *InMemoryEventBus) Failures() int64 {
	return b.failures.Load()
}

func (b *InMemoryEventBus) handlersFor(eventType string) []shared.EventHandler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Concat(b.routes[eventType], b.routes[anyEvent])
}

func (b *InMemoryEventBus) dispatch(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return handler.Handle(ctx, event)
}

var _ shared.EventPublisher = (*InMemoryEventBus)(nil)
