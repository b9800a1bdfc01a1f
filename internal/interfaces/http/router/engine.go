package router

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/merrysway/storefront/internal/infrastructure/auth"
	"github.com/merrysway/storefront/internal/infrastructure/config"
	"github.com/merrysway/storefront/internal/infrastructure/logger"
	"github.com/merrysway/storefront/internal/infrastructure/telemetry"
	"github.com/merrysway/storefront/internal/interfaces/http/handler"
	"github.com/merrysway/storefront/internal/interfaces/http/middleware"
)

const defaultMaxBodySize = 1 << 20

// Handlers are the resource handlers served by the engine
type Handlers struct {
	Health  *handler.HealthHandler
	Auth    *handler.AuthHandler
	Orders  *handler.OrderHandler
	Product *handler.ProductHandler
	Chat    *handler.ChatHandler
}

// EngineConfig holds what the engine needs besides the handlers
type EngineConfig struct {
	HTTP           config.HTTPConfig
	ServiceName    string
	Tracing        bool
	TracerProvider trace.TracerProvider
	Metrics        *telemetry.RequestMetrics // nil disables request metrics
	JWT            *auth.JWTService
	Logger         *zap.Logger
}

// NewEngine builds the gin engine with the middleware chain and every
// storefront route. Products, registration and login are public; orders,
// chat and the current user require a bearer token.
func NewEngine(cfg EngineConfig, h Handlers) (*gin.Engine, error) {
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, err
	}

	maxBody := cfg.HTTP.MaxBodySize
	if maxBody <= 0 {
		maxBody = defaultMaxBodySize
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine.Use(
		logger.Recovery(cfg.Logger),
		middleware.RequestID(),
		middleware.Tracing(middleware.TracingConfig{
			ServiceName:    cfg.ServiceName,
			Enabled:        cfg.Tracing,
			TracerProvider: cfg.TracerProvider,
		}),
		logger.GinMiddleware(cfg.Logger),
		middleware.SpanAttributes(),
		middleware.CORSWithConfig(corsCfg),
		middleware.BodyLimit(maxBody),
	)
	if cfg.Metrics != nil {
		engine.Use(middleware.HTTPMetrics(cfg.Metrics))
	}

	engine.GET("/health", h.Health.Check)

	// span attributes run again behind auth to pick up the customer
	protected := []gin.HandlerFunc{middleware.JWTAuth(cfg.JWT, cfg.Logger), middleware.SpanAttributes()}

	authRoutes := NewDomainGroup("auth", "/auth")
	authRoutes.POST("/register", h.Auth.Register)
	authRoutes.POST("/login", h.Auth.Login)

	userRoutes := NewDomainGroup("user", "/user").RequireAuth(protected...)
	userRoutes.GET("/me", h.Auth.Me)

	productRoutes := NewDomainGroup("catalog", "/products")
	productRoutes.GET("", h.Product.List)

	orderRoutes := NewDomainGroup("order", "/orders").RequireAuth(protected...)
	orderRoutes.GET("/active", h.Orders.GetActive)
	orderRoutes.PUT("/active", h.Orders.ReplaceActive)
	orderRoutes.DELETE("/active", h.Orders.ClearActive)
	orderRoutes.POST("/active/confirm", h.Orders.Confirm)
	orderRoutes.GET("/history", h.Orders.History)

	chatRoutes := NewDomainGroup("chat", "/chat").RequireAuth(protected...)
	chatRoutes.POST("", h.Chat.Send)
	chatRoutes.GET("/history", h.Chat.History)

	routes := NewRouter(engine).
		Register(authRoutes).
		Register(userRoutes).
		Register(productRoutes).
		Register(orderRoutes).
		Register(chatRoutes).
		Setup()
	for _, r := range routes {
		cfg.Logger.Debug("Route registered",
			zap.String("group", r.Group),
			zap.String("method", r.Method),
			zap.String("path", r.Path),
			zap.Bool("protected", r.Protected),
		)
	}

	return engine, nil
}
