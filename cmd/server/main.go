package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/koifarm/backend/internal/application/catalog"
	consignmentapp "github.com/koifarm/backend/internal/application/consignment"
	identityapp "github.com/koifarm/backend/internal/application/identity"
	"github.com/koifarm/backend/internal/application/notification"
	appshared "github.com/koifarm/backend/internal/application/shared"
	tradeapp "github.com/koifarm/backend/internal/application/trade"
	"github.com/koifarm/backend/internal/domain/consignment"
	"github.com/koifarm/backend/internal/domain/shared"
	"github.com/koifarm/backend/internal/domain/trade"
	"github.com/koifarm/backend/internal/infrastructure/auth"
	"github.com/koifarm/backend/internal/infrastructure/cache"
	"github.com/koifarm/backend/internal/infrastructure/config"
	"github.com/koifarm/backend/internal/infrastructure/event"
	"github.com/koifarm/backend/internal/infrastructure/logger"
	"github.com/koifarm/backend/internal/infrastructure/mail"
	"github.com/koifarm/backend/internal/infrastructure/migration"
	"github.com/koifarm/backend/internal/infrastructure/persistence"
	"github.com/koifarm/backend/internal/infrastructure/telemetry"
	"github.com/koifarm/backend/internal/interfaces/http/handler"
	"github.com/koifarm/backend/internal/interfaces/http/middleware"
	"github.com/koifarm/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

const maxBodyBytes = 1 << 20

// integrationEvents are forwarded to Kafka when brokers are configured
var integrationEvents = []string{
	trade.EventTypeOrderPlaced,
	trade.EventTypeOrderCancelled,
	consignment.EventTypeItemSubmitted,
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting koi farm API",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	tp, err := telemetry.InitTracer(ctx, cfg.Telemetry, version, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	mp, err := telemetry.InitMeter(ctx, cfg.Telemetry, version, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	meter := mp.Meter(telemetry.TracerName)
	businessMetrics, err := telemetry.NewBusinessMetrics(meter)
	if err != nil {
		log.Fatal("Failed to create business metrics", zap.Error(err))
	}

	db, err := persistence.NewDatabase(&cfg.Database, log, cfg.Log.Level)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:          cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		IncludeVariables: !cfg.App.IsProduction(),
		SlowThreshold:    cfg.Database.SlowThreshold,
		DBName:           cfg.Database.DBName,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal("Failed to get sql.DB", zap.Error(err))
	}
	if err := runMigrations(cfg, sqlDB, log); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Repositories
	repos := &appshared.Repositories{
		CategoryRepo:        persistence.NewGormCategoryRepository(db.DB),
		ProductItemRepo:     persistence.NewGormProductItemRepository(db.DB),
		UserRepo:            persistence.NewGormUserRepository(db.DB),
		ConsignmentRepo:     persistence.NewGormConsignmentRepository(db.DB),
		ConsignmentItemRepo: persistence.NewGormConsignmentItemRepository(db.DB),
		OrderRepo:           persistence.NewGormOrderRepository(db.DB),
		CartRepo:            persistence.NewGormCartRepository(db.DB),
		PromotionRepo:       persistence.NewGormPromotionRepository(db.DB),
	}
	certificateRepo := persistence.NewGormCertificateRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Events
	eventBus := event.NewInMemoryEventBus(log.Named("events"))
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	closeForwarder, forwarder := setupKafkaForwarding(ctx, cfg, eventBus, log)
	defer closeForwarder()

	if err := telemetry.RegisterRuntimeGauges(meter, runtimeSources(db, eventBus, forwarder)); err != nil {
		log.Fatal("Failed to register runtime gauges", zap.Error(err))
	}

	// Notifications
	notifier, err := newNotifier(cfg.Mail, log)
	if err != nil {
		log.Fatal("Failed to initialize mail notifier", zap.Error(err))
	}
	templates, err := notification.NewTemplateEngine()
	if err != nil {
		log.Fatal("Failed to parse email templates", zap.Error(err))
	}
	dispatcher := notification.NewDispatcher(notifier, templates, log.Named("notification"))
	dispatcher.SetBusinessMetrics(businessMetrics)

	// Application services
	categoryService := catalogapp.NewCategoryService(repos.CategoryRepo)
	productItemService := catalogapp.NewProductItemService(repos.ProductItemRepo, certificateRepo)
	userService := identityapp.NewUserService(repos.UserRepo, log.Named("users"))
	cartService := tradeapp.NewCartService(repos.CartRepo, repos.ProductItemRepo)
	promotionService := tradeapp.NewPromotionService(repos.PromotionRepo)

	consignmentService := consignmentapp.NewConsignmentService(repos, txScope, dispatcher, log.Named("consignments"))
	consignmentService.SetEventPublisher(eventBus)
	consignmentService.SetBusinessMetrics(businessMetrics)

	orderService := tradeapp.NewOrderService(repos, txScope, certificateRepo, dispatcher, consignmentService, log.Named("orders"))
	orderService.SetEventPublisher(eventBus)
	orderService.SetBusinessMetrics(businessMetrics)

	// HTTP
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to set up request validation", zap.Error(err))
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     tp.Enabled(),
	}))
	engine.Use(middleware.SpanEnricher())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfigFrom(cfg.HTTP)))
	engine.Use(middleware.Secure())
	engine.Use(middleware.BodyLimit(maxBodyBytes))

	jwtService := auth.NewJWTService(cfg.JWT)
	authn := middleware.JWTAuthMiddleware(jwtService, log)

	handlers := router.Handlers{
		System:      handler.NewSystemHandler(cfg.App.Name, version, sqlDB),
		Category:    handler.NewCategoryHandler(categoryService),
		ProductItem: handler.NewProductItemHandler(productItemService),
		Consignment: handler.NewConsignmentHandler(consignmentService),
		Order:       handler.NewOrderHandler(orderService),
		Cart:        handler.NewCartHandler(cartService),
		Promotion:   handler.NewPromotionHandler(promotionService),
		User:        handler.NewUserHandler(userService),
	}
	router.NewRouter(engine).
		Register(router.DomainGroups(handlers, authn)...).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	if err := mp.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// runMigrations applies pending migrations from the configured directory,
// or from the embedded schema when none is set
func runMigrations(cfg *config.Config, sqlDB *sql.DB, log *zap.Logger) error {
	fsys := migration.Embedded()
	if cfg.Database.MigrationsPath != "" {
		fsys = os.DirFS(cfg.Database.MigrationsPath)
	}
	m, err := migration.New(sqlDB, fsys, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Error closing migrator", zap.Error(err))
		}
	}()
	return m.Up()
}

// newNotifier returns the SMTP notifier, or a notifier that only logs when
// no mail host is configured
func newNotifier(cfg config.MailConfig, log *zap.Logger) (notification.Notifier, error) {
	if cfg.Host == "" {
		log.Warn("Mail host not configured, emails will only be logged")
		return mail.NewLogNotifier(log.Named("mail")), nil
	}
	return mail.NewSMTPNotifier(cfg, log.Named("mail"))
}

// setupKafkaForwarding subscribes an idempotent Kafka forwarder to the
// integration events. It returns a cleanup func and the forwarder; without
// brokers the cleanup is a no-op and the forwarder nil.
func setupKafkaForwarding(ctx context.Context, cfg *config.Config, bus *event.InMemoryEventBus, log *zap.Logger) (func(), *event.IdempotentHandler) {
	if !cfg.Kafka.Enabled() {
		log.Info("Kafka not configured, events stay in-process")
		return func() {}, nil
	}

	store, err := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log.Named("idempotency"))).
		CreateStore(ctx)
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}

	writer := event.NewKafkaWriter(cfg.Kafka)
	forwarder := event.NewKafkaForwarder(writer, log.Named("kafka"), integrationEvents...)
	idempotent := event.NewIdempotentHandler("kafka-forwarder", forwarder, store, log,
		event.WithIdempotencyConfig(shared.IdempotencyConfig{TTL: cfg.Event.IdempotencyTTL, Enabled: true}),
	)
	bus.Subscribe(idempotent, integrationEvents...)

	log.Info("Forwarding integration events to Kafka",
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("topic", cfg.Kafka.Topic),
	)

	return func() {
		if err := forwarder.Close(); err != nil {
			log.Error("Error closing Kafka writer", zap.Error(err))
		}
		if err := store.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}, idempotent
}

// runtimeSources reads the event bus, the Kafka forwarder (when running)
// and the connection pool for the runtime gauges
func runtimeSources(db *persistence.Database, bus *event.InMemoryEventBus, forwarder *event.IdempotentHandler) telemetry.RuntimeSources {
	src := telemetry.RuntimeSources{
		EventFailures: bus.Failures,
		DBPool: func() (telemetry.PoolReading, bool) {
			stats, err := db.Stats()
			if err != nil {
				return telemetry.PoolReading{}, false
			}
			return telemetry.PoolReading{Open: stats.OpenConnections, InUse: stats.InUse, Idle: stats.Idle}, true
		},
	}
	if forwarder != nil {
		src.Idempotency = func() telemetry.IdempotencyReading {
			stats := forwarder.Stats()
			return telemetry.IdempotencyReading{
				Processed: stats.EventsProcessed,
				Duplicate: stats.EventsDuplicate,
				Failed:    stats.EventsFailed,
			}
		}
	}
	return src
}
