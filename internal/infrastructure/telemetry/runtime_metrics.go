package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// IdempotencyReading is a snapshot of an idempotent handler's counters
type IdempotencyReading struct {
	Processed int64
	Duplicate int64
	Failed    int64
}

// PoolReading is a snapshot of the database connection pool
type PoolReading struct {
	Open  int
	InUse int
	Idle  int
}

// RuntimeSources supplies the readings behind the runtime gauges.
// Nil sources register no gauge.
type RuntimeSources struct {
	EventFailures func() int64
	Idempotency   func() IdempotencyReading
	DBPool        func() (PoolReading, bool)
}

// RegisterRuntimeGauges exposes event bus, idempotency and connection pool
// state as observable gauges
func RegisterRuntimeGauges(meter metric.Meter, src RuntimeSources) error {
	if meter == nil {
		return ErrMeterNil
	}
	if src.EventFailures != nil {
		err := ObserveGauge(meter, "koi_event_handler_failures", "Event handler errors and panics since startup", "{failures}",
			func() []Observation {
				return []Observation{{Value: src.EventFailures()}}
			})
		if err != nil {
			return err
		}
	}
	if src.Idempotency != nil {
		err := ObserveGauge(meter, "koi_event_idempotency", "Events seen by the idempotent forwarder by result", "{events}",
			func() []Observation {
				r := src.Idempotency()
				return []Observation{
					{Value: r.Processed, Attrs: []attribute.KeyValue{AttrResult.String("processed")}},
					{Value: r.Duplicate, Attrs: []attribute.KeyValue{AttrResult.String("duplicate")}},
					{Value: r.Failed, Attrs: []attribute.KeyValue{AttrResult.String("failed")}},
				}
			})
		if err != nil {
			return err
		}
	}
	if src.DBPool != nil {
		err := ObserveGauge(meter, "koi_db_pool_connections", "Database connections by state", "{connections}",
			func() []Observation {
				r, ok := src.DBPool()
				if !ok {
					return nil
				}
				return []Observation{
					{Value: int64(r.Open), Attrs: []attribute.KeyValue{AttrPoolState.String("open")}},
					{Value: int64(r.InUse), Attrs: []attribute.KeyValue{AttrPoolState.String("in_use")}},
					{Value: int64(r.Idle), Attrs: []attribute.KeyValue{AttrPoolState.String("idle")}},
				}
			})
		if err != nil {
			return err
		}
	}
	return nil
}
