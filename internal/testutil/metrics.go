package testutil

import (
	"context"
	"testing"

	"github.com/koifarm/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// Metrics collects business metrics in memory
type Metrics struct {
	*telemetry.BusinessMetrics
	reader *sdkmetric.ManualReader
	t      *testing.T
}

// NewMetrics creates business metrics backed by a manual reader
func NewMetrics(t *testing.T) *Metrics {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	bm, err := telemetry.NewBusinessMetrics(mp.Meter("test"))
	require.NoError(t, err)
	return &Metrics{BusinessMetrics: bm, reader: reader, t: t}
}

// Count sums the counter's points carrying attr, or all points when attr is empty
func (m *Metrics) Count(name string, attr ...attribute.KeyValue) int64 {
	m.t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(m.t, m.reader.Collect(context.Background(), &rm))

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, metric := range sm.Metrics {
			sum, ok := metric.Data.(metricdata.Sum[int64])
			if metric.Name != name || !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				if matches(dp.Attributes, attr) {
					total += dp.Value
				}
			}
		}
	}
	return total
}

func matches(set attribute.Set, attrs []attribute.KeyValue) bool {
	for _, kv := range attrs {
		v, ok := set.Value(kv.Key)
		if !ok || v.Emit() != kv.Value.Emit() {
			return false
		}
	}
	return true
}
