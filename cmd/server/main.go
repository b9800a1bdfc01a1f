package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	catalogapp "github.com/merrysway/storefront/internal/application/catalog"
	chatapp "github.com/merrysway/storefront/internal/application/chat"
	identityapp "github.com/merrysway/storefront/internal/application/identity"
	orderapp "github.com/merrysway/storefront/internal/application/order"
	"github.com/merrysway/storefront/internal/infrastructure/agent"
	"github.com/merrysway/storefront/internal/infrastructure/auth"
	"github.com/merrysway/storefront/internal/infrastructure/cache"
	"github.com/merrysway/storefront/internal/infrastructure/config"
	"github.com/merrysway/storefront/internal/infrastructure/logger"
	"github.com/merrysway/storefront/internal/infrastructure/persistence"
	"github.com/merrysway/storefront/internal/infrastructure/storage"
	"github.com/merrysway/storefront/internal/infrastructure/telemetry"
	"github.com/merrysway/storefront/internal/interfaces/http/handler"
	"github.com/merrysway/storefront/internal/interfaces/http/router"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	baseLog, err := logger.FromConfig(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, version, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, version, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	logProvider, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, version, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize log export", zap.Error(err))
	}
	log := logProvider.Bridge(baseLog, cfg.Telemetry.ServiceName, zapcore.InfoLevel)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting storefront server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	dbOpts := []persistence.Option{persistence.WithLogger(log, logger.MapGormLogLevel(cfg.Log.Level))}
	if cfg.Telemetry.DBTracing {
		dbOpts = append(dbOpts, persistence.WithTracing())
	}
	db, err := persistence.NewDatabase(&cfg.Database, dbOpts...)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Database.Driver == "sqlite" {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate sqlite schema", zap.Error(err))
		}
	}
	log.Info("Database connected successfully", zap.String("driver", cfg.Database.Driver))

	productCache, err := cache.NewProductCache(cfg.Redis, cache.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to initialize product cache", zap.Error(err))
	}
	defer func() {
		_ = productCache.Close()
	}()

	imageSigner, err := newImageSigner(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize image storage", zap.Error(err))
	}

	agentClient, err := agent.NewClient(cfg.Agent, log)
	if err != nil {
		log.Fatal("Failed to initialize agent client", zap.Error(err))
	}

	jwtService := auth.NewJWTService(cfg.JWT)
	orderService := orderapp.NewService(persistence.NewGormOrderRepository(db.DB), log)
	catalogService := catalogapp.NewService(persistence.NewGormProductRepository(db.DB), productCache, imageSigner, log)
	chatService := chatapp.NewService(persistence.NewGormChatRepository(db.DB), orderService, agentClient, log)
	authService := identityapp.NewAuthService(
		persistence.NewGormUserRepository(db.DB),
		jwtService,
		identityapp.DefaultAuthServiceConfig(),
		log,
	)

	var requestMetrics *telemetry.RequestMetrics
	if meterProvider.IsEnabled() {
		requestMetrics, err = telemetry.NewRequestMetrics(meterProvider.Meter("storefront/http"))
		if err != nil {
			log.Fatal("Failed to create request metrics", zap.Error(err))
		}
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine, err := router.NewEngine(router.EngineConfig{
		HTTP:        cfg.HTTP,
		ServiceName: cfg.Telemetry.ServiceName,
		Tracing:     tracerProvider.IsEnabled(),
		Metrics:     requestMetrics,
		JWT:         jwtService,
		Logger:      log,
	}, router.Handlers{
		Health:  handler.NewHealthHandler(db, version),
		Auth:    handler.NewAuthHandler(authService),
		Orders:  handler.NewOrderHandler(orderService),
		Product: handler.NewProductHandler(catalogService),
		Chat:    handler.NewChatHandler(chatService),
	})
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	for name, shutdown := range map[string]func(context.Context) error{
		"traces":  tracerProvider.Shutdown,
		"metrics": meterProvider.Shutdown,
		"logs":    logProvider.Shutdown,
	} {
		if err := shutdown(shutdownCtx); err != nil {
			baseLog.Warn("Telemetry shutdown failed", zap.String("signal", name), zap.Error(err))
		}
	}

	log.Info("Server exited gracefully")
}

// newImageSigner presigns product images from S3 when storage is enabled
// and serves them as plain paths otherwise
func newImageSigner(ctx context.Context, cfg *config.Config, log *zap.Logger) (catalogapp.ImageSigner, error) {
	if !cfg.Storage.Enabled {
		log.Info("Object storage disabled, serving image paths as is")
		return storage.PublicImageSigner{}, nil
	}
	store, err := storage.NewS3ImageStore(&cfg.Storage, storage.WithLogger(log))
	if err != nil {
		return nil, err
	}
	if err := store.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	log.Info("Product images served from object storage", zap.String("bucket", store.Bucket()))
	return store, nil
}
