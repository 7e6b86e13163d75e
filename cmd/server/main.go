package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	orderapp "github.com/napsterimports/backend/internal/application/order"
	paymentapp "github.com/napsterimports/backend/internal/application/payment"
	"github.com/napsterimports/backend/internal/application/pricing"
	shippingapp "github.com/napsterimports/backend/internal/application/shipping"
	domainpayment "github.com/napsterimports/backend/internal/domain/payment"
	"github.com/napsterimports/backend/internal/infrastructure/auth"
	"github.com/napsterimports/backend/internal/infrastructure/cache"
	"github.com/napsterimports/backend/internal/infrastructure/config"
	"github.com/napsterimports/backend/internal/infrastructure/event"
	"github.com/napsterimports/backend/internal/infrastructure/logger"
	"github.com/napsterimports/backend/internal/infrastructure/migration"
	infrapayment "github.com/napsterimports/backend/internal/infrastructure/payment"
	"github.com/napsterimports/backend/internal/infrastructure/persistence"
	"github.com/napsterimports/backend/internal/infrastructure/storage"
	"github.com/napsterimports/backend/internal/infrastructure/telemetry"
	"github.com/napsterimports/backend/internal/interfaces/http/handler"
	"github.com/napsterimports/backend/internal/interfaces/http/middleware"
	"github.com/napsterimports/backend/internal/interfaces/http/router"
	"github.com/napsterimports/backend/migrations"
	"go.uber.org/zap"

	_ "github.com/napsterimports/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			Napster Imports Settlement API
//	@version		1.0
//	@description	Shipping rates, shipment batches, order pricing and payment reconciliation

//	@contact.name	API Support
//	@contact.url	https://github.com/napsterimports/backend

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

// moolreProvider is the path segment Moolre posts its webhooks to
const moolreProvider = "moolre"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: logger.DefaultTimeFormat,
		Service:    cfg.App.Name,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting settlement engine",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()
	serviceName := cfg.Telemetry.ServiceName
	if serviceName == "" {
		serviceName = cfg.App.Name
	}

	// Telemetry: traces, metrics, profiles
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       serviceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	telemetry.InstallPropagator()

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       serviceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Profiling.Enabled,
		ServerAddress:     cfg.Profiling.ServerAddress,
		ApplicationName:   serviceName,
		BasicAuthUser:     cfg.Profiling.BasicAuthUser,
		BasicAuthPassword: cfg.Profiling.BasicAuthPassword,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if cfg.Profiling.Enabled && cfg.Telemetry.Enabled {
		tracerProvider.EnableSpanProfiles()
	}

	businessMetrics, err := telemetry.NewBusinessMetrics(meterProvider.Meter(serviceName), log)
	if err != nil {
		log.Fatal("Failed to create business metrics", zap.Error(err))
	}

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected successfully")

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        "postgresql",
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	if err := runMigrations(db, log); err != nil {
		log.Fatal("Failed to apply migrations", zap.Error(err))
	}

	// Repositories
	configRepo := persistence.NewGormConfigRepository(db.DB)
	auditRepo := persistence.NewGormAuditLogRepository(db.DB)
	batchRepo := persistence.NewGormBatchRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	shippingScope := persistence.NewGormShippingTransactionScope(db.DB)
	paymentScope := persistence.NewGormPaymentTransactionScope(db.DB)

	// Event bus: metrics always, Kafka when configured
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(businessMetrics)

	var kafkaPublisher *event.KafkaPublisher
	if cfg.Event.Kafka.Enabled {
		kafkaPublisher = event.NewKafkaPublisher(event.NewKafkaWriter(cfg.Event.Kafka), event.NewCatalog(), cfg.Event.Kafka.Topic, log)
		eventBus.Subscribe(kafkaPublisher)
		log.Info("Kafka event streaming enabled",
			zap.Strings("brokers", cfg.Event.Kafka.Brokers),
			zap.String("base_topic", cfg.Event.Kafka.Topic),
		)
	}
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Payment infrastructure
	idempotency, err := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.IsProduction()),
	).CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}

	moolre, err := infrapayment.NewMoolreAdapter(&infrapayment.MoolreConfig{
		BaseURL: cfg.Payment.Moolre.BaseURL,
		APIKey:  cfg.Payment.Moolre.APIKey,
		Timeout: cfg.Payment.Moolre.Timeout,
	})
	if err != nil {
		log.Fatal("Failed to configure Moolre gateway", zap.Error(err))
	}

	var archive paymentapp.PayloadArchive
	if cfg.Storage.Enabled {
		s3Archive, err := storage.NewS3WebhookArchive(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to configure webhook archive", zap.Error(err))
		}
		if err := s3Archive.EnsureBucket(ctx); err != nil {
			log.Warn("Webhook archive bucket unavailable", zap.Error(err))
		}
		archive = s3Archive
	}

	// Application services
	rateService := shippingapp.NewRateConfigService(shippingapp.RateConfigServiceConfig{
		ConfigRepo:     configRepo,
		AuditRepo:      auditRepo,
		TxScope:        shippingScope,
		EventPublisher: eventBus,
		Logger:         log,
	})
	batchService := shippingapp.NewBatchService(shippingapp.BatchServiceConfig{
		BatchRepo:        batchRepo,
		SettlementReader: orderRepo,
		Configs:          rateService,
		TxScope:          shippingScope,
		EventPublisher:   eventBus,
		Metrics:          businessMetrics,
		Logger:           log,
	})
	pricingEngine := pricing.NewEngine(pricing.EngineConfig{
		Batches:        batchService,
		Configs:        rateService,
		Metrics:        businessMetrics,
		Logger:         log,
		FallbackFee:    cfg.Pricing.FallbackFee,
		AllowLiveRates: !cfg.Pricing.RequireActiveBatch,
	})
	orderService := orderapp.NewOrderService(orderapp.OrderServiceConfig{
		OrderRepo:      orderRepo,
		Pricer:         pricingEngine,
		EventPublisher: eventBus,
		Logger:         log,
	})
	reconciler := paymentapp.NewReconciler(paymentapp.ReconcilerConfig{
		TxScope:        paymentScope,
		Idempotency:    idempotency,
		EventPublisher: eventBus,
		Metrics:        businessMetrics,
		Logger:         log,
	})
	checkoutService := paymentapp.NewCheckoutService(paymentapp.CheckoutServiceConfig{
		OrderRepo:    orderRepo,
		Provider:     moolre,
		CallbackURL:  cfg.WebhookURL(moolreProvider),
		RedirectURL:  cfg.Payment.StorefrontURL,
		WebhookToken: cfg.Payment.Moolre.WebhookSecret,
		Logger:       log,
	})
	webhookService := paymentapp.NewWebhookService(paymentapp.WebhookServiceConfig{
		Providers:  []domainpayment.Provider{moolre},
		Reconciler: reconciler,
		Archive:    archive,
		Token:      cfg.Payment.Moolre.WebhookSecret,
		Logger:     log,
	})

	// HTTP
	engine, err := router.NewEngine(router.EngineConfig{
		HTTP:           cfg.HTTP,
		ServiceName:    serviceName,
		TracingEnabled: cfg.Telemetry.Enabled,
		Logger:         log,
	})
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

	healthHandler := handler.NewHealthHandler(db)
	engine.GET("/health", healthHandler.Health)

	if cfg.Swagger.Enabled {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
		log.Info("Swagger UI enabled", zap.String("path", "/swagger/index.html"))
	}

	jwtService := auth.NewJWTService(cfg.JWT)
	router.RegisterAPI(router.NewRouter(engine), router.Handlers{
		Shipping: handler.NewShippingHandler(rateService, orderService),
		Batch:    handler.NewBatchHandler(batchService),
		Order:    handler.NewOrderHandler(orderService),
		Payment:  handler.NewPaymentHandler(checkoutService, webhookService),
		Health:   healthHandler,
	}, middleware.JWTAuth(middleware.JWTMiddlewareConfig{
		Validator: jwtService,
		Logger:    log,
	}))

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
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

	shutdownTimeout := cfg.HTTP.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	// Drain in reverse dependency order: no new events once the server is down
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			log.Error("Error closing Kafka publisher", zap.Error(err))
		}
	}
	if err := idempotency.Close(); err != nil {
		log.Error("Error closing idempotency store", zap.Error(err))
	}
	if err := db.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Error("Error stopping profiler", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// runMigrations applies the embedded schema migrations before serving
func runMigrations(db *persistence.Database, log *zap.Logger) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	m, err := migration.NewFromFS(sqlDB, migrations.FS, log)
	if err != nil {
		return err
	}
	// Closing the migrator would close the shared *sql.DB
	return m.Up()
}
