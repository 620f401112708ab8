package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/formax/backend/internal/application/catalog"
	crmapp "github.com/formax/backend/internal/application/crm"
	identityapp "github.com/formax/backend/internal/application/identity"
	ordersapp "github.com/formax/backend/internal/application/orders"
	payrollapp "github.com/formax/backend/internal/application/payroll"
	reportapp "github.com/formax/backend/internal/application/report"
	resourceapp "github.com/formax/backend/internal/application/resource"
	trainingapp "github.com/formax/backend/internal/application/training"
	"github.com/formax/backend/internal/domain/resource"
	"github.com/formax/backend/internal/infrastructure/auth"
	"github.com/formax/backend/internal/infrastructure/cache"
	"github.com/formax/backend/internal/infrastructure/certificates"
	"github.com/formax/backend/internal/infrastructure/config"
	"github.com/formax/backend/internal/infrastructure/event"
	"github.com/formax/backend/internal/infrastructure/logger"
	"github.com/formax/backend/internal/infrastructure/persistence"
	"github.com/formax/backend/internal/infrastructure/scheduler"
	"github.com/formax/backend/internal/infrastructure/shop"
	"github.com/formax/backend/internal/infrastructure/storage"
	"github.com/formax/backend/internal/infrastructure/telemetry"
	"github.com/formax/backend/internal/interfaces/http/handler"
	"github.com/formax/backend/internal/interfaces/http/middleware"
	"github.com/formax/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

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
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Formax Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// OpenTelemetry providers (no-op when disabled)
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		if err := meterProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	logsProvider, err := telemetry.NewLoggerProvider(context.Background(), telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	defer func() {
		if err := logsProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down logger provider", zap.Error(err))
		}
	}()
	// From here on every log line is mirrored to the collector.
	log = telemetry.BridgeZapLogger(log, logsProvider, cfg.Telemetry.ServiceName, cfg.Log.Level)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Database tracing and pool metrics
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:         true,
			LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		}, log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}
	dbMetricsCfg := telemetry.DefaultDBMetricsConfig()
	dbMetricsCfg.Enabled = cfg.Telemetry.Enabled
	dbMetrics, err := telemetry.RegisterDBMetrics(db.DB, meterProvider, dbMetricsCfg, log)
	if err != nil {
		log.Warn("Failed to register database metrics", zap.Error(err))
	}
	if dbMetrics != nil {
		defer dbMetrics.Stop()
	}

	// Redis: session cache and webhook idempotency. When Redis is not
	// reachable both fall back to in-memory stores.
	var redisClient *redis.Client
	var sessionCache identityapp.SessionCache
	idempotencyFactory := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(true),
	)
	idempotencyStore, err := idempotencyFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	redisClient = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Warn("Redis unavailable, using in-memory session cache", zap.Error(err))
		_ = redisClient.Close()
		redisClient = nil
		sessionCache = cache.NewInMemorySessionCache()
	} else {
		sessionCache = cache.NewRedisSessionCache(redisClient, log)
		defer func() {
			_ = redisClient.Close()
		}()
	}

	// Initialize repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	authSessionRepo := persistence.NewGormAuthSessionRepository(db.DB)
	dealRepo := persistence.NewGormDealRepository(db.DB)
	trainerRepo := persistence.NewGormTrainerRepository(db.DB)
	unavailabilityRepo := persistence.NewGormUnavailabilityRepository(db.DB)
	roomRepo := persistence.NewGormRoomRepository(db.DB)
	mobileUnitRepo := persistence.NewGormMobileUnitRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	variantRepo := persistence.NewGormVariantRepository(db.DB)
	sessionRepo := persistence.NewGormSessionRepository(db.DB)
	certificateRepo := persistence.NewGormCertificateRepository(db.DB)
	orderRepo := persistence.NewGormMaterialOrderRepository(db.DB)
	payrollRepo := persistence.NewGormPayrollRepository(db.DB)
	dashboardRepo := persistence.NewGormDashboardRepository(db.DB)

	// Conflict detection reads bookings from stored sessions and blocking
	// windows from trainer unavailability
	conflictService := resource.NewConflictService(sessionRepo, unavailabilityRepo)

	// Identity services
	tokenSource := auth.NewTokenSource()
	authService := identityapp.NewAuthService(userRepo, authSessionRepo, tokenSource, identityapp.AuthConfig{
		SessionIdleTTL:   cfg.Auth.SessionIdleTTL,
		SessionMaxTTL:    cfg.Auth.SessionMaxTTL,
		MaxLoginFailures: cfg.Auth.MaxLoginFailures,
		LockDuration:     cfg.Auth.LockDuration,
	})
	authService.SetThrottle(auth.NewLoginThrottle(cfg.Auth.LoginRatePerMin, cfg.Auth.LoginBurst))
	authService.SetSessionCache(sessionCache)
	userService := identityapp.NewUserService(userRepo, authSessionRepo)

	// Application services
	dealService := crmapp.NewDealService(dealRepo)
	pipedriveService := crmapp.NewPipedriveService(dealRepo, idempotencyStore)
	trainerService := resourceapp.NewTrainerService(trainerRepo, unavailabilityRepo)
	facilityService := resourceapp.NewFacilityService(roomRepo, mobileUnitRepo)
	catalogService := catalogapp.NewCatalogService(productRepo, variantRepo)
	sessionService := trainingapp.NewSessionService(sessionRepo, productRepo, conflictService)
	orderService := ordersapp.NewOrderService(orderRepo, sessionRepo)
	payrollService := payrollapp.NewPayrollService(payrollRepo, sessionRepo, trainerRepo)
	dashboardService := reportapp.NewDashboardService(dashboardRepo)

	// WooCommerce client for publishing variants and the nightly seat sync
	if cfg.Shop.Enabled {
		shopClient, err := shop.NewWooCommerceClient(&cfg.Shop, log)
		if err != nil {
			log.Fatal("Failed to create shop client", zap.Error(err))
		}
		catalogService.SetShopClient(shopClient)
		log.Info("Shop integration enabled", zap.String("base_url", cfg.Shop.BaseURL))
	} else {
		log.Info("Shop integration disabled, variants stay local drafts")
	}

	// Certificate rendering and document storage. Without the storage
	// bucket certificates are issued without documents; PDFs can be
	// regenerated once storage is configured.
	var documentStore trainingapp.DocumentStore
	if cfg.Storage.Bucket != "" {
		s3Store, err := storage.NewS3DocumentStore(&cfg.Storage)
		if err != nil {
			log.Fatal("Failed to create document store", zap.Error(err))
		}
		documentStore = s3Store
	} else {
		log.Warn("No storage bucket configured, using stub document store")
		documentStore = storage.NewStubDocumentStore()
	}

	renderer, err := certificates.NewChromedpRenderer(&certificates.ChromedpConfig{
		NoSandbox: true,
		Logger:    log,
	})
	if err != nil {
		log.Fatal("Failed to create certificate renderer", zap.Error(err))
	}
	defer func() {
		if err := renderer.Close(); err != nil {
			log.Error("Error closing certificate renderer", zap.Error(err))
		}
	}()

	certificateService := trainingapp.NewCertificateService(
		certificateRepo,
		sessionRepo,
		catalogService,
		renderer,
		documentStore,
	)

	// Initialize event bus and cross-context handlers
	eventBus := event.NewInMemoryEventBus(log)

	// Session cancelled -> open material orders cancelled
	sessionCancelledHandler := ordersapp.NewSessionCancelledHandler(orderService, log)
	eventBus.Subscribe(sessionCancelledHandler, sessionCancelledHandler.EventTypes()...)

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Inject event bus into services that publish events
	dealService.SetEventPublisher(eventBus)
	pipedriveService.SetEventPublisher(eventBus)
	userService.SetEventPublisher(eventBus)
	sessionService.SetEventPublisher(eventBus)

	// Background maintenance: nightly seat sync, auto-deliver of past
	// sessions and expired auth session sweep
	if cfg.Scheduler.Enabled {
		executor := scheduler.NewMaintenanceExecutor(catalogService, sessionService, authService, log)
		maintenanceScheduler := scheduler.NewScheduler(scheduler.Config{
			MaxConcurrentJobs: cfg.Scheduler.MaxConcurrentJobs,
			JobTimeout:        cfg.Scheduler.JobTimeout,
			RetryAttempts:     cfg.Scheduler.RetryAttempts,
			RetryDelay:        cfg.Scheduler.RetryDelay,
		}, executor, log)
		if err := maintenanceScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
		defer func() {
			if err := maintenanceScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping scheduler", zap.Error(err))
			}
		}()

		cronTrigger, err := scheduler.NewCronTrigger(scheduler.CronTriggerConfig{
			SeatSyncSchedule:     cfg.Scheduler.SeatSyncSchedule,
			AutoDeliverSchedule:  cfg.Scheduler.AutoDeliverSchedule,
			SessionSweepSchedule: cfg.Scheduler.SessionSweepSchedule,
		}, maintenanceScheduler, log)
		if err != nil {
			log.Fatal("Failed to create cron trigger", zap.Error(err))
		}
		if err := cronTrigger.Start(context.Background()); err != nil {
			log.Fatal("Failed to start cron trigger", zap.Error(err))
		}
		defer func() {
			if err := cronTrigger.Stop(context.Background()); err != nil {
				log.Error("Error stopping cron trigger", zap.Error(err))
			}
		}()
		log.Info("Maintenance scheduler started",
			zap.String("seat_sync", cfg.Scheduler.SeatSyncSchedule),
			zap.String("auto_deliver", cfg.Scheduler.AutoDeliverSchedule),
			zap.String("session_sweep", cfg.Scheduler.SessionSweepSchedule),
		)
	}

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService, cfg.Cookie)
	userHandler := handler.NewUserHandler(userService)
	dealHandler := handler.NewDealHandler(dealService)
	pipedriveHandler := handler.NewPipedriveWebhookHandler(pipedriveService, cfg.Pipedrive, log)
	sessionHandler := handler.NewSessionHandler(sessionService)
	certificateHandler := handler.NewCertificateHandler(certificateService)
	trainerHandler := handler.NewTrainerHandler(trainerService)
	facilityHandler := handler.NewFacilityHandler(facilityService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	orderHandler := handler.NewOrderHandler(orderService)
	payrollHandler := handler.NewPayrollHandler(payrollService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)

	healthChecks := map[string]handler.HealthChecker{
		"database": databasePinger{db: db},
	}
	if redisClient != nil {
		healthChecks["cache"] = redisPinger{client: redisClient}
	}
	systemHandler := handler.NewSystemHandler(healthChecks)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack: request ID, panic recovery, request logging,
	// security headers, CORS, body limit, tracing and metrics, rate limit
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true, // the session cookie must survive CORS
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.SpanErrorMarker())
		engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
			MeterProvider: meterProvider,
			ServiceName:   cfg.Telemetry.ServiceName,
			Enabled:       true,
		}))
	}

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Probes outside API versioning and session auth
	engine.GET("/health", systemHandler.Health)
	engine.GET("/ready", systemHandler.Ready)

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Cookie session authentication for all API routes. Login and the
	// Pipedrive webhook are public; the webhook carries its own basic auth.
	sessionConfig := middleware.DefaultSessionConfig(authService, cfg.Cookie.Name)
	sessionConfig.Logger = log
	r.Use(middleware.SessionAuthMiddlewareWithConfig(sessionConfig))
	if cfg.Telemetry.Enabled {
		// Runs after session auth so spans carry user_id and user_role
		r.Use(middleware.TracingAttributeInjector())
	}

	// Authentication (login is a session middleware skip path)
	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.GET("/me", authHandler.Me)
	authRoutes.PUT("/password", userHandler.ChangePassword)

	// Inbound Pipedrive webhooks (basic auth checked in the handler)
	webhookRoutes := router.NewDomainGroup("webhooks", "/webhooks")
	webhookRoutes.POST("/pipedrive", pipedriveHandler.Handle)

	// User administration
	userRoutes := router.NewDomainGroup("users", "/users")
	userRoutes.Use(middleware.RequireResource("users"))
	userRoutes.POST("", userHandler.Create)
	userRoutes.GET("", userHandler.List)
	userRoutes.GET("/:id", userHandler.GetByID)
	userRoutes.PATCH("/:id", userHandler.Update)
	userRoutes.POST("/:id/reset-password", userHandler.ResetPassword)
	userRoutes.POST("/:id/activate", userHandler.Activate)
	userRoutes.POST("/:id/deactivate", userHandler.Deactivate)

	// Deal pipeline
	dealRoutes := router.NewDomainGroup("deals", "/deals")
	dealRoutes.Use(middleware.RequireResource("deals"))
	dealRoutes.POST("", dealHandler.Create)
	dealRoutes.GET("", dealHandler.List)
	dealRoutes.GET("/:id", dealHandler.GetByID)
	dealRoutes.PUT("/:id", dealHandler.Update)
	dealRoutes.POST("/:id/stage", dealHandler.MoveStage)
	dealRoutes.DELETE("/:id", dealHandler.Delete)

	// Training sessions
	sessionRoutes := router.NewDomainGroup("sessions", "/sessions")
	sessionRoutes.Use(middleware.RequireResource("sessions"))
	sessionRoutes.POST("", sessionHandler.Create)
	sessionRoutes.GET("", sessionHandler.List)
	sessionRoutes.POST("/conflicts", sessionHandler.CheckConflicts)
	sessionRoutes.GET("/:id", sessionHandler.GetByID)
	sessionRoutes.PUT("/:id", sessionHandler.Update)
	sessionRoutes.POST("/:id/reschedule", sessionHandler.Reschedule)
	sessionRoutes.POST("/:id/resources", sessionHandler.AssignResources)
	sessionRoutes.POST("/:id/transition", sessionHandler.Transition)
	sessionRoutes.POST("/:id/cancel", sessionHandler.Cancel)
	sessionRoutes.DELETE("/:id", sessionHandler.Delete)
	sessionRoutes.GET("/:id/orders", orderHandler.ListForSession)

	// Certificates live under their session but need their own permission
	sessionCertRoutes := sessionRoutes.Group("certificates", "/:id/certificates")
	sessionCertRoutes.Use(middleware.RequireResource("certificates"))
	sessionCertRoutes.POST("", certificateHandler.Issue)
	sessionCertRoutes.GET("", certificateHandler.ListBySession)

	certificateRoutes := router.NewDomainGroup("certificates", "/certificates")
	certificateRoutes.Use(middleware.RequireResource("certificates"))
	certificateRoutes.GET("/:id/download", certificateHandler.Download)
	certificateRoutes.POST("/:id/regenerate", certificateHandler.Regenerate)
	certificateRoutes.POST("/:id/revoke", certificateHandler.Revoke)

	// Trainers and their unavailability windows
	trainerRoutes := router.NewDomainGroup("trainers", "/trainers")
	trainerRoutes.Use(middleware.RequireResource("resources"))
	trainerRoutes.POST("", trainerHandler.Create)
	trainerRoutes.GET("", trainerHandler.List)
	trainerRoutes.GET("/:id", trainerHandler.GetByID)
	trainerRoutes.PUT("/:id", trainerHandler.Update)
	trainerRoutes.POST("/:id/activate", trainerHandler.Activate)
	trainerRoutes.POST("/:id/deactivate", trainerHandler.Deactivate)
	trainerRoutes.POST("/:id/unavailability", trainerHandler.AddUnavailability)
	trainerRoutes.GET("/:id/unavailability", trainerHandler.ListUnavailability)
	trainerRoutes.DELETE("/:id/unavailability/:window_id", trainerHandler.RemoveUnavailability)

	// Rooms and mobile training units
	roomRoutes := router.NewDomainGroup("rooms", "/rooms")
	roomRoutes.Use(middleware.RequireResource("resources"))
	roomRoutes.POST("", facilityHandler.CreateRoom)
	roomRoutes.GET("", facilityHandler.ListRooms)
	roomRoutes.PUT("/:id/capacity", facilityHandler.SetRoomCapacity)
	roomRoutes.POST("/:id/deactivate", facilityHandler.DeactivateRoom)

	mobileUnitRoutes := router.NewDomainGroup("mobile-units", "/mobile-units")
	mobileUnitRoutes.Use(middleware.RequireResource("resources"))
	mobileUnitRoutes.POST("", facilityHandler.CreateMobileUnit)
	mobileUnitRoutes.GET("", facilityHandler.ListMobileUnits)
	mobileUnitRoutes.POST("/:id/deactivate", facilityHandler.DeactivateMobileUnit)

	// Course catalog and shop-published variants
	catalogRoutes := router.NewDomainGroup("catalog", "/catalog")
	catalogRoutes.Use(middleware.RequireResource("catalog"))
	catalogRoutes.POST("/products", catalogHandler.CreateProduct)
	catalogRoutes.GET("/products", catalogHandler.ListProducts)
	catalogRoutes.GET("/products/:id", catalogHandler.GetProduct)
	catalogRoutes.PUT("/products/:id", catalogHandler.UpdateProduct)
	catalogRoutes.POST("/products/:id/deactivate", catalogHandler.DeactivateProduct)
	catalogRoutes.POST("/products/:id/variants", catalogHandler.CreateVariant)
	catalogRoutes.GET("/products/:id/variants", catalogHandler.ListVariants)
	catalogRoutes.POST("/variants/:id/publish", catalogHandler.PublishVariant)
	catalogRoutes.POST("/variants/:id/close", catalogHandler.CloseVariant)
	catalogRoutes.POST("/variants/sync-seats", catalogHandler.SyncSeats)

	// Material orders
	orderRoutes := router.NewDomainGroup("orders", "/orders")
	orderRoutes.Use(middleware.RequireResource("orders"))
	orderRoutes.POST("", orderHandler.Create)
	orderRoutes.GET("", orderHandler.List)
	orderRoutes.GET("/:id", orderHandler.GetByID)
	orderRoutes.POST("/:id/lines", orderHandler.AddLine)
	orderRoutes.DELETE("/:id/lines/:line_id", orderHandler.RemoveLine)
	orderRoutes.POST("/:id/prepare", orderHandler.MarkPrepared)
	orderRoutes.POST("/:id/ship", orderHandler.MarkShipped)
	orderRoutes.POST("/:id/deliver", orderHandler.MarkDelivered)
	orderRoutes.POST("/:id/cancel", orderHandler.Cancel)

	// Trainer payroll
	payrollRoutes := router.NewDomainGroup("payroll", "/payroll")
	payrollRoutes.Use(middleware.RequireResource("payroll"))
	payrollRoutes.POST("/generate", payrollHandler.Generate)
	payrollRoutes.GET("", payrollHandler.List)
	payrollRoutes.GET("/:id", payrollHandler.GetByID)
	payrollRoutes.GET("/period/:year/:month", payrollHandler.GetByPeriod)
	payrollRoutes.POST("/:id/adjustments", payrollHandler.AddAdjustment)
	payrollRoutes.DELETE("/:id/lines/:line_id", payrollHandler.RemoveLine)
	payrollRoutes.POST("/:id/approve", payrollHandler.Approve)
	payrollRoutes.POST("/:id/paid", payrollHandler.MarkPaid)

	// Office dashboard
	dashboardRoutes := router.NewDomainGroup("dashboard", "/dashboard")
	dashboardRoutes.Use(middleware.RequirePermission("dashboard:read"))
	dashboardRoutes.GET("", dashboardHandler.Get)

	// System info
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)

	r.Register(authRoutes).
		Register(webhookRoutes).
		Register(userRoutes).
		Register(dealRoutes).
		Register(sessionRoutes).
		Register(certificateRoutes).
		Register(trainerRoutes).
		Register(roomRoutes).
		Register(mobileUnitRoutes).
		Register(catalogRoutes).
		Register(orderRoutes).
		Register(payrollRoutes).
		Register(dashboardRoutes).
		Register(systemRoutes)

	r.Setup()

	// Create HTTP server with config
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
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// databasePinger adapts the database handle to the readiness probe
type databasePinger struct {
	db *persistence.Database
}

func (p databasePinger) Ping(ctx context.Context) error {
	return p.db.Ping(ctx)
}

// redisPinger adapts the Redis client to the readiness probe
type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
