package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	addressapp "github.com/ServiLut/tote-bag/internal/application/address"
	auditapp "github.com/ServiLut/tote-bag/internal/application/audit"
	b2bapp "github.com/ServiLut/tote-bag/internal/application/b2b"
	catalogapp "github.com/ServiLut/tote-bag/internal/application/catalog"
	dashboardapp "github.com/ServiLut/tote-bag/internal/application/dashboard"
	locationapp "github.com/ServiLut/tote-bag/internal/application/location"
	orderapp "github.com/ServiLut/tote-bag/internal/application/order"
	profileapp "github.com/ServiLut/tote-bag/internal/application/profile"
	"github.com/ServiLut/tote-bag/internal/infrastructure/auth"
	"github.com/ServiLut/tote-bag/internal/infrastructure/cache"
	"github.com/ServiLut/tote-bag/internal/infrastructure/config"
	"github.com/ServiLut/tote-bag/internal/infrastructure/logger"
	"github.com/ServiLut/tote-bag/internal/infrastructure/persistence"
	"github.com/ServiLut/tote-bag/internal/infrastructure/storage"
	"github.com/ServiLut/tote-bag/internal/infrastructure/telemetry"
	"github.com/ServiLut/tote-bag/internal/interfaces/http/handler"
	"github.com/ServiLut/tote-bag/internal/interfaces/http/middleware"
	"github.com/ServiLut/tote-bag/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//	@title			Tote Bag Co. API
//	@version		1.0
//	@description	Storefront, checkout, B2B quotes and back-office API
//	@BasePath		/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token issued by the identity provider. Format: "Bearer {token}"

const version = "1.0.0"

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
	defer func() { _ = log.Sync() }()

	log.Info("Starting Tote Bag API",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Tracing installs the global provider used by otelgin and otelgorm
	tp, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBName:          cfg.Database.DBName,
	}, log)
	if err := dbTracing.Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected")

	productCache, redisClient, err := cache.NewFactory(cfg.Redis, cache.WithLogger(log)).Create()
	if err != nil {
		log.Fatal("Failed to initialize cache", zap.Error(err))
	}

	var objectStorage b2bapp.ObjectStorage
	if cfg.Storage.Enabled() {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		if err := s3Storage.EnsureBucket(context.Background(), cfg.Storage.Bucket); err != nil {
			log.Warn("Logo bucket check failed, uploads may fail", zap.Error(err))
		}
		objectStorage = s3Storage
	} else {
		log.Warn("Object storage not configured, logos are kept in memory")
		objectStorage = storage.NewMemoryObjectStorage(cfg.Storage.PublicBaseURL)
	}

	verifier, err := auth.NewTokenVerifier(cfg.Identity)
	if err != nil {
		log.Fatal("Failed to initialize token verifier", zap.Error(err))
	}

	// Repositories
	addressRepo := persistence.NewGormAddressRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	collectionRepo := persistence.NewGormCollectionRepository(db.DB)
	variantRepo := persistence.NewGormVariantRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	profileRepo := persistence.NewGormProfileRepository(db.DB)
	quoteRepo := persistence.NewGormQuoteRepository(db.DB)
	locationRepo := persistence.NewGormLocationRepository(db.DB)
	auditRepo := persistence.NewGormAuditRepository(db.DB)

	// Application services
	addressService := addressapp.NewService(addressRepo, persistence.NewAddressUnitOfWork(db.DB))
	productService := catalogapp.NewProductService(
		productRepo, collectionRepo, persistence.NewCatalogUnitOfWork(db.DB),
		productCache, cfg.Cache.ProductListTTL, log,
	)
	orderService := orderapp.NewService(orderRepo, persistence.NewOrderUnitOfWork(db.DB), log)
	profileService := profileapp.NewService(profileRepo, orderRepo, log)
	quoteService := b2bapp.NewService(quoteRepo, objectStorage, cfg.Storage.Bucket, log)
	dashboardService := dashboardapp.NewService(orderRepo, variantRepo, quoteRepo)
	locationService := locationapp.NewService(locationRepo)
	auditService := auditapp.NewService(auditRepo)

	recorder := auditapp.NewRecorder(auditRepo, map[string]auditapp.PreviousStateFetcher{
		"products": auditapp.ByID(productRepo.FindByID),
		"orders":   auditapp.ByID(orderRepo.FindByID),
		"profiles": auditapp.ByID(profileRepo.FindByID),
		"b2b":      auditapp.ByID(quoteRepo.FindByID),
	}, cfg.Audit.WriteTimeout, log)

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	var limiter middleware.Limiter
	var memoryLimiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		if redisClient != nil {
			limiter = middleware.NewRedisRateLimiter(redisClient, cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		} else {
			memoryLimiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
			limiter = memoryLimiter
		}
	}

	// Middleware order:
	// request id, access log, recovery, tracing, security headers, CORS,
	// body limit, rate limit, identity
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfigFromHTTP(cfg.HTTP)))
	engine.Use(middleware.BodyLimitWithOverrides(cfg.HTTP.MaxBodySize, map[string]int64{
		"/api/v1/b2b/quote": cfg.HTTP.MaxUploadSize,
	}))
	if limiter != nil {
		engine.Use(middleware.RateLimit(limiter, log))
	}
	engine.Use(middleware.Identity(verifier))
	engine.Use(middleware.TracingAttributeInjector())

	checks := map[string]handler.HealthCheck{
		"database": func(context.Context) error { return db.Ping() },
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	if cfg.Audit.Enabled {
		r.Wrap(middleware.Audit(recorder, r.Prefix()))
	}
	router.Mount(r, router.Handlers{
		System:    handler.NewSystemHandler(cfg.App.Name, version, checks),
		Address:   handler.NewAddressHandler(addressService),
		Product:   handler.NewProductHandler(productService),
		Order:     handler.NewOrderHandler(orderService),
		Location:  handler.NewLocationHandler(locationService),
		Profile:   handler.NewProfileHandler(profileService),
		B2B:       handler.NewB2BHandler(quoteService),
		Audit:     handler.NewAuditHandler(auditService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
	}, router.NewGuards(profileService))

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := recorder.Close(ctx); err != nil {
		log.Error("Audit records dropped on shutdown", zap.Error(err))
	}
	if memoryLimiter != nil {
		memoryLimiter.Stop()
	}
	if err := productCache.Close(); err != nil {
		log.Error("Error closing cache", zap.Error(err))
	}
	if err := db.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}
	if err := tp.Shutdown(ctx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
