package telemetry

import (
	"context"
	"testing"

	"github.com/koifarm/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

func manualMeter(t *testing.T) (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	return reader, mp
}

// points collects every int64 data point by metric name
func points(t *testing.T, reader *sdkmetric.ManualReader) map[string][]metricdata.DataPoint[int64] {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string][]metricdata.DataPoint[int64])
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				out[m.Name] = append(out[m.Name], data.DataPoints...)
			case metricdata.Gauge[int64]:
				out[m.Name] = append(out[m.Name], data.DataPoints...)
			}
		}
	}
	return out
}

func valueWith(dps []metricdata.DataPoint[int64], kv attribute.KeyValue) (int64, bool) {
	for _, dp := range dps {
		if v, ok := dp.Attributes.Value(kv.Key); ok && v.Emit() == kv.Value.Emit() {
			return dp.Value, true
		}
	}
	return 0, false
}

func TestInitMeter_Disabled(t *testing.T) {
	mp, err := InitMeter(context.Background(), config.TelemetryConfig{MetricsEnabled: false}, "test", zap.NewNop())
	require.NoError(t, err)
	assert.NotNil(t, mp.Meter("x"))
	assert.NoError(t, mp.Shutdown(context.Background()))
}

func TestNewBusinessMetrics_NilMeter(t *testing.T) {
	bm, err := NewBusinessMetrics(nil)
	assert.ErrorIs(t, err, ErrMeterNil)
	assert.Nil(t, bm)
}

func TestBusinessMetrics(t *testing.T) {
	reader, mp := manualMeter(t)
	bm, err := NewBusinessMetrics(mp.Meter("test"))
	require.NoError(t, err)
	ctx := context.Background()

	bm.RecordOrderPlaced(ctx, OrderKindCart)
	bm.RecordOrderPlaced(ctx, OrderKindCart)
	bm.RecordOrderPlaced(ctx, OrderKindHealthcare)
	bm.RecordOrderCancelled(ctx)
	bm.RecordConsignmentIntake(ctx, "ShopUser")
	bm.RecordNotificationFailure(ctx, "order_confirmation")

	got := points(t, reader)

	cart, ok := valueWith(got["koi_order_placed_total"], AttrOrderKind.String(OrderKindCart))
	require.True(t, ok)
	assert.Equal(t, int64(2), cart)
	healthcare, ok := valueWith(got["koi_order_placed_total"], AttrOrderKind.String(OrderKindHealthcare))
	require.True(t, ok)
	assert.Equal(t, int64(1), healthcare)

	require.Len(t, got["koi_order_cancelled_total"], 1)
	assert.Equal(t, int64(1), got["koi_order_cancelled_total"][0].Value)

	intakes, ok := valueWith(got["koi_consignment_intake_total"], AttrItemType.String("ShopUser"))
	require.True(t, ok)
	assert.Equal(t, int64(1), intakes)

	failures, ok := valueWith(got["koi_notification_failure_total"], AttrTemplate.String("order_confirmation"))
	require.True(t, ok)
	assert.Equal(t, int64(1), failures)
}

func TestRegisterRuntimeGauges(t *testing.T) {
	reader, mp := manualMeter(t)
	var failures int64 = 3

	err := RegisterRuntimeGauges(mp.Meter("test"), RuntimeSources{
		EventFailures: func() int64 { return failures },
		Idempotency: func() IdempotencyReading {
			return IdempotencyReading{Processed: 5, Duplicate: 2, Failed: 1}
		},
		DBPool: func() (PoolReading, bool) {
			return PoolReading{Open: 4, InUse: 1, Idle: 3}, true
		},
	})
	require.NoError(t, err)

	got := points(t, reader)
	require.Len(t, got["koi_event_handler_failures"], 1)
	assert.Equal(t, int64(3), got["koi_event_handler_failures"][0].Value)

	dup, ok := valueWith(got["koi_event_idempotency"], AttrResult.String("duplicate"))
	require.True(t, ok)
	assert.Equal(t, int64(2), dup)

	idle, ok := valueWith(got["koi_db_pool_connections"], AttrPoolState.String("idle"))
	require.True(t, ok)
	assert.Equal(t, int64(3), idle)

	failures = 4
	got = points(t, reader)
	assert.Equal(t, int64(4), got["koi_event_handler_failures"][0].Value, "read at every collection")
}

func TestRegisterRuntimeGauges_SkipsNilSources(t *testing.T) {
	reader, mp := manualMeter(t)
	require.NoError(t, RegisterRuntimeGauges(mp.Meter("test"), RuntimeSources{}))
	assert.Empty(t, points(t, reader))
	assert.ErrorIs(t, RegisterRuntimeGauges(nil, RuntimeSources{}), ErrMeterNil)
}
