package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig controls the gorm tracing plugin
type DBTracingConfig struct {
	Enabled bool
	// IncludeVariables puts bound values in db.statement; development only
	IncludeVariables bool
	SlowThreshold    time.Duration
	DBName           string
	// TracerProvider overrides the global provider, mainly for tests
	TracerProvider trace.TracerProvider
}

type startKey struct{}

// RegisterDBTracing installs otelgorm plus a callback that flags slow
// statements and annotates rows affected
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		logger.Debug("Database tracing disabled")
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBName)}
	if !cfg.IncludeVariables {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if cfg.TracerProvider != nil {
		opts = append(opts, otelgorm.WithTracerProvider(cfg.TracerProvider))
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	cb := db.Callback()
	before := func(tx *gorm.DB) {
		if tx.Statement.Context != nil {
			tx.Statement.Context = context.WithValue(tx.Statement.Context, startKey{}, time.Now())
		}
	}
	after := slowStatementCallback(cfg.SlowThreshold)

	registrations := []error{
		cb.Create().Before("gorm:create").Register("koi_trace:before_create", before),
		cb.Query().Before("gorm:query").Register("koi_trace:before_query", before),
		cb.Update().Before("gorm:update").Register("koi_trace:before_update", before),
		cb.Delete().Before("gorm:delete").Register("koi_trace:before_delete", before),
		cb.Raw().Before("gorm:raw").Register("koi_trace:before_raw", before),
		cb.Create().After("gorm:create").Register("koi_trace:after_create", after),
		cb.Query().After("gorm:query").Register("koi_trace:after_query", after),
		cb.Update().After("gorm:update").Register("koi_trace:after_update", after),
		cb.Delete().After("gorm:delete").Register("koi_trace:after_delete", after),
		cb.Raw().After("gorm:raw").Register("koi_trace:after_raw", after),
	}
	if err := errors.Join(registrations...); err != nil {
		return err
	}

	logger.Info("Database tracing enabled",
		zap.Bool("include_variables", cfg.IncludeVariables),
		zap.Duration("slow_threshold", cfg.SlowThreshold),
	)
	return nil
}

func slowStatementCallback(threshold time.Duration) func(*gorm.DB) {
	return func(tx *gorm.DB) {
		ctx := tx.Statement.Context
		if ctx == nil {
			return
		}
		span := trace.SpanFromContext(ctx)
		if !span.IsRecording() {
			return
		}

		span.SetAttributes(attribute.Int64("db.rows_affected", tx.Statement.RowsAffected))
		if tx.Statement.Table != "" {
			span.SetAttributes(attribute.String("db.sql.table", tx.Statement.Table))
		}

		start, ok := ctx.Value(startKey{}).(time.Time)
		if !ok || threshold <= 0 {
			return
		}
		if elapsed := time.Since(start); elapsed > threshold {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
		}
	}
}
