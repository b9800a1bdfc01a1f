package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	catalogapp "github.com/merrysway/storefront/internal/application/catalog"
	chatapp "github.com/merrysway/storefront/internal/application/chat"
	identityapp "github.com/merrysway/storefront/internal/application/identity"
	orderapp "github.com/merrysway/storefront/internal/application/order"
	"github.com/merrysway/storefront/internal/domain/catalog"
	"github.com/merrysway/storefront/internal/infrastructure/auth"
	"github.com/merrysway/storefront/internal/infrastructure/cache"
	"github.com/merrysway/storefront/internal/infrastructure/clock"
	"github.com/merrysway/storefront/internal/infrastructure/config"
	"github.com/merrysway/storefront/internal/infrastructure/persistence"
	"github.com/merrysway/storefront/internal/infrastructure/storage"
	"github.com/merrysway/storefront/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// scriptedAgent answers every turn with the same reply
type scriptedAgent struct {
	reply *chatapp.AgentReply
	err   error
	last  chatapp.AgentRequest
}

func (a *scriptedAgent) Reply(_ context.Context, req chatapp.AgentRequest) (*chatapp.AgentReply, error) {
	a.last = req
	if a.err != nil {
		return nil, a.err
	}
	return a.reply, nil
}

type testServer struct {
	engine   *gin.Engine
	db       *persistence.Database
	jwt      *auth.JWTService
	agent    *scriptedAgent
	catalog  *catalogapp.Service
	orderSvc *orderapp.Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := persistence.NewDatabase(&config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })

	log := zap.NewNop()
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-bytes!!",
		AccessTokenExpiration: time.Hour,
		Issuer:                "storefront-test",
	})

	orderService := orderapp.NewService(persistence.NewGormOrderRepository(db.DB), log)
	catalogService := catalogapp.NewService(
		persistence.NewGormProductRepository(db.DB),
		cache.NewInMemoryProductCache(time.Minute, clock.Real()),
		storage.PublicImageSigner{BaseURL: "https://cdn.test"},
		log,
	)
	agent := &scriptedAgent{reply: &chatapp.AgentReply{Response: "Coming right up."}}
	chatService := chatapp.NewService(persistence.NewGormChatRepository(db.DB), orderService, agent, log)
	authService := identityapp.NewAuthService(
		persistence.NewGormUserRepository(db.DB),
		jwtService,
		identityapp.AuthServiceConfig{BcryptCost: bcrypt.MinCost},
		log,
	)

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.GET("/health", NewHealthHandler(db, "test").Check)

	api := engine.Group("/api/v1")
	authHandler := NewAuthHandler(authService)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/products", NewProductHandler(catalogService).List)

	protected := api.Group("", middleware.JWTAuth(jwtService, log))
	orderHandler := NewOrderHandler(orderService)
	protected.GET("/orders/active", orderHandler.GetActive)
	protected.PUT("/orders/active", orderHandler.ReplaceActive)
	protected.DELETE("/orders/active", orderHandler.ClearActive)
	protected.POST("/orders/active/confirm", orderHandler.Confirm)
	protected.GET("/orders/history", orderHandler.History)
	chatHandler := NewChatHandler(chatService)
	protected.POST("/chat", chatHandler.Send)
	protected.GET("/chat/history", chatHandler.History)
	protected.GET("/user/me", authHandler.Me)

	return &testServer{
		engine:   engine,
		db:       db,
		jwt:      jwtService,
		agent:    agent,
		catalog:  catalogService,
		orderSvc: orderService,
	}
}

func (s *testServer) token(t *testing.T, email string) string {
	t.Helper()
	tok, err := s.jwt.Issue(email, "tester")
	require.NoError(t, err)
	return tok.Token
}

func (s *testServer) seedProduct(t *testing.T, name, category, price, image string) {
	t.Helper()
	p, err := catalog.NewProduct(name, category, decimal.RequireFromString(price))
	require.NoError(t, err)
	p.ImageURL = image
	require.NoError(t, s.catalog.Save(context.Background(), p))
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type envelope[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
