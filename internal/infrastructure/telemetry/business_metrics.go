package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys
var (
	AttrOrderKind = attribute.Key("order_kind")
	AttrItemType  = attribute.Key("item_type")
	AttrTemplate  = attribute.Key("template")
	AttrResult    = attribute.Key("result")
	AttrPoolState = attribute.Key("db.pool.state")
)

// Order kinds used as the order_kind attribute
const (
	OrderKindCart       = "cart"
	OrderKindHealthcare = "healthcare"
)

// ErrMeterNil is returned when no meter is given
var ErrMeterNil = errors.New("business metrics: meter cannot be nil")

// BusinessMetrics counts marketplace activity
type BusinessMetrics struct {
	ordersPlaced         *Counter
	ordersCancelled      *Counter
	consignmentIntakes   *Counter
	notificationFailures *Counter
}

// NewBusinessMetrics creates the marketplace counters on meter
func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	bm := &BusinessMetrics{}
	var err error
	if bm.ordersPlaced, err = NewCounter(meter, "koi_order_placed_total", "Orders placed", "{orders}"); err != nil {
		return nil, err
	}
	if bm.ordersCancelled, err = NewCounter(meter, "koi_order_cancelled_total", "Orders cancelled", "{orders}"); err != nil {
		return nil, err
	}
	if bm.consignmentIntakes, err = NewCounter(meter, "koi_consignment_intake_total", "Koi taken in on consignment", "{items}"); err != nil {
		return nil, err
	}
	if bm.notificationFailures, err = NewCounter(meter, "koi_notification_failure_total", "Emails that could not be rendered or sent", "{emails}"); err != nil {
		return nil, err
	}
	return bm, nil
}

// RecordOrderPlaced counts a committed order of the given kind
func (bm *BusinessMetrics) RecordOrderPlaced(ctx context.Context, kind string) {
	bm.ordersPlaced.Inc(ctx, AttrOrderKind.String(kind))
}

// RecordOrderCancelled counts a cancelled order
func (bm *BusinessMetrics) RecordOrderCancelled(ctx context.Context) {
	bm.ordersCancelled.Inc(ctx)
}

// RecordConsignmentIntake counts a consignment intake by product item type
func (bm *BusinessMetrics) RecordConsignmentIntake(ctx context.Context, itemType string) {
	bm.consignmentIntakes.Inc(ctx, AttrItemType.String(itemType))
}

// RecordNotificationFailure counts a failed email by template
func (bm *BusinessMetrics) RecordNotificationFailure(ctx context.Context, template string) {
	bm.notificationFailures.Inc(ctx, AttrTemplate.String(template))
}
