// Package notification composes and sends the customer and seller emails.
package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/koifarm/backend/internal/domain/shared"
	"github.com/koifarm/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Notifier delivers one HTML message to one recipient
type Notifier interface {
	Send(ctx context.Context, to, title, htmlBody string) error
}

// Template names and subjects
const (
	TemplateOrderConfirmation = "order_confirmation.html"
	TemplateItemSold          = "item_sold.html"
	TemplateHealthcareInvoice = "healthcare_invoice.html"

	TitleOrderConfirmation = "Your Koi Order Confirmation"
	TitleItemSold          = "Your Product Has Been Sold!"
	TitleHealthcareInvoice = "Koi Healthcare Invoice"
)

// OrderLine is one line of the confirmation email
type OrderLine struct {
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}

// OrderConfirmation is sent to the buyer after checkout
type OrderConfirmation struct {
	CustomerName    string
	OrderID         uuid.UUID
	PlacedAt        time.Time
	Address         string
	Total           decimal.Decimal
	Lines           []OrderLine
	CertificateURLs []string
}

// ItemSold is sent to the seller of a consigned item
type ItemSold struct {
	SellerName string
	ItemName   string
	Price      decimal.Decimal
}

// HealthcareInvoice is sent to the owner when a boarded koi checks out
type HealthcareInvoice struct {
	CustomerName string
	ItemName     string
	OrderID      uuid.UUID
	BoardedAt    time.Time
	Days         int
	Fee          decimal.Decimal
	Total        decimal.Decimal
}

// Dispatcher renders a message and hands it to the Notifier.
// Every failure surfaces as a NOTIFICATION_FAILURE domain error.
type Dispatcher struct {
	notifier Notifier
	engine   *TemplateEngine
	metrics  *telemetry.BusinessMetrics
	logger   *zap.Logger
}

// NewDispatcher creates a new Dispatcher
func NewDispatcher(notifier Notifier, engine *TemplateEngine, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		notifier: notifier,
		engine:   engine,
		logger:   logger,
	}
}

// SetBusinessMetrics sets the business metrics collector
func (d *Dispatcher) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	d.metrics = bm
}

// OrderConfirmation emails the buyer
func (d *Dispatcher) OrderConfirmation(ctx context.Context, to string, msg OrderConfirmation) error {
	return d.send(ctx, to, TitleOrderConfirmation, TemplateOrderConfirmation, msg)
}

// ItemSold emails the seller
func (d *Dispatcher) ItemSold(ctx context.Context, to string, msg ItemSold) error {
	return d.send(ctx, to, TitleItemSold, TemplateItemSold, msg)
}

// HealthcareInvoice emails the owner of a boarded koi
func (d *Dispatcher) HealthcareInvoice(ctx context.Context, to string, msg HealthcareInvoice) error {
	return d.send(ctx, to, TitleHealthcareInvoice, TemplateHealthcareInvoice, msg)
}

func (d *Dispatcher) send(ctx context.Context, to, title, name string, data any) error {
	if to == "" {
		d.recordFailure(ctx, name)
		return shared.NewNotificationError(shared.NewValidationError("recipient has no email address"))
	}
	body, err := d.engine.Render(name, data)
	if err != nil {
		d.logger.Error("Failed to render notification", zap.String("template", name), zap.Error(err))
		d.recordFailure(ctx, name)
		return shared.NewNotificationError(err)
	}
	if err := d.notifier.Send(ctx, to, title, body); err != nil {
		d.logger.Warn("Failed to send notification",
			zap.String("to", to),
			zap.String("title", title),
			zap.Error(err),
		)
		d.recordFailure(ctx, name)
		return shared.NewNotificationError(err)
	}
	d.logger.Info("Notification sent", zap.String("to", to), zap.String("title", title))
	return nil
}

func (d *Dispatcher) recordFailure(ctx context.Context, template string) {
	if d.metrics != nil {
		d.metrics.RecordNotificationFailure(ctx, template)
	}
}
