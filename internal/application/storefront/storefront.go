// Package storefront is the entry point presentation code drives: it owns
// the login session, the cart engine and the ordering assistant, and keeps
// the cart reconciled after the assistant acts on the order.
package storefront

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/merrysway/storefront/internal/application/cart"
	"github.com/merrysway/storefront/internal/domain/catalog"
	"github.com/merrysway/storefront/internal/domain/chat"
	"github.com/merrysway/storefront/internal/domain/order"
)

// ErrNotLoggedIn is returned by operations that need a session
var ErrNotLoggedIn = errors.New("storefront: not logged in")

// Authenticator manages credentials
type Authenticator interface {
	Register(ctx context.Context, username, email, password string) error
	Login(ctx context.Context, email, password string) error
	Logout()
}

// Assistant is the conversational ordering agent. A sent message may
// change the active order on the server.
type Assistant interface {
	Send(ctx context.Context, utterance string) (string, error)
	History(ctx context.Context) ([]chat.Message, error)
}

// OrderHistory lists confirmed orders
type OrderHistory interface {
	History(ctx context.Context) ([]order.ActiveOrder, error)
}

// Dependencies groups the accessors a Storefront is built from
type Dependencies struct {
	Auth      Authenticator
	Assistant Assistant
	Catalog   cart.CatalogAccessor
	Orders    OrderHistory
	Engine    *cart.Engine
	Logger    *zap.Logger
}

// Storefront coordinates one customer's session
type Storefront struct {
	auth      Authenticator
	assistant Assistant
	catalog   cart.CatalogAccessor
	orders    OrderHistory
	engine    *cart.Engine
	logger    *zap.Logger
	loggedIn  atomic.Bool
}

// New creates a Storefront
func New(deps Dependencies) *Storefront {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Storefront{
		auth:      deps.Auth,
		assistant: deps.Assistant,
		catalog:   deps.Catalog,
		orders:    deps.Orders,
		engine:    deps.Engine,
		logger:    logger.Named("storefront"),
	}
}

// Register creates an account without logging in
func (s *Storefront) Register(ctx context.Context, username, email, password string) error {
	if err := s.auth.Register(ctx, username, email, password); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return nil
}

// Login authenticates, starts a fresh chat session and loads the server
// order into the cart. A failed initial refresh is logged; the login
// itself still succeeds.
func (s *Storefront) Login(ctx context.Context, email, password string) error {
	if err := s.auth.Login(ctx, email, password); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	s.loggedIn.Store(true)
	s.engine.Reset()
	if err := s.engine.Refresh(ctx); err != nil {
		s.logger.Warn("Initial cart load failed", zap.Error(err))
	}
	s.logger.Info("Logged in", zap.String("email", email))
	return nil
}

// Logout drops the cart and the session. Nothing is sent to the server.
func (s *Storefront) Logout() {
	s.engine.Reset()
	s.auth.Logout()
	s.loggedIn.Store(false)
}

// LoggedIn reports whether a session is active
func (s *Storefront) LoggedIn() bool {
	return s.loggedIn.Load()
}

// Menu lists products
func (s *Storefront) Menu(ctx context.Context, filter catalog.Filter) ([]catalog.Product, error) {
	products, err := s.catalog.ListProducts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// Ask sends a message to the assistant and then refreshes the cart, since
// the assistant may have changed the order. The reply is returned even
// when the refresh fails.
func (s *Storefront) Ask(ctx context.Context, utterance string) (string, error) {
	if !s.loggedIn.Load() {
		return "", ErrNotLoggedIn
	}
	reply, err := s.assistant.Send(ctx, utterance)
	if err != nil {
		return "", fmt.Errorf("send message: %w", err)
	}
	if err := s.engine.Refresh(ctx); err != nil {
		s.logger.Warn("Cart refresh after assistant reply failed", zap.Error(err))
	}
	return reply, nil
}

// ChatHistory returns the current conversation
func (s *Storefront) ChatHistory(ctx context.Context) ([]chat.Message, error) {
	if !s.loggedIn.Load() {
		return nil, ErrNotLoggedIn
	}
	messages, err := s.assistant.History(ctx)
	if err != nil {
		return nil, fmt.Errorf("chat history: %w", err)
	}
	return messages, nil
}

// OrderHistory returns confirmed orders
func (s *Storefront) OrderHistory(ctx context.Context) ([]order.ActiveOrder, error) {
	if !s.loggedIn.Load() {
		return nil, ErrNotLoggedIn
	}
	orders, err := s.orders.History(ctx)
	if err != nil {
		return nil, fmt.Errorf("order history: %w", err)
	}
	return orders, nil
}

// Cart returns the current cart snapshot
func (s *Storefront) Cart() cart.Cart {
	return s.engine.Snapshot()
}

// AddToCart adds one unit of a product
func (s *Storefront) AddToCart(product catalog.Product) error {
	if !s.loggedIn.Load() {
		return ErrNotLoggedIn
	}
	return s.engine.AddItem(product)
}

// SetQuantity changes a line quantity; zero or less removes it
func (s *Storefront) SetQuantity(name string, quantity int) {
	s.engine.SetQuantity(name, quantity)
}

// RemoveFromCart removes a line
func (s *Storefront) RemoveFromCart(name string) {
	s.engine.RemoveItem(name)
}

// ClearCart empties the cart and the server order
func (s *Storefront) ClearCart(ctx context.Context) error {
	return s.engine.Clear(ctx)
}

// RefreshCart reloads the cart from the server
func (s *Storefront) RefreshCart(ctx context.Context) error {
	return s.engine.Refresh(ctx)
}

// Close sends any scheduled cart push and stops the engine
func (s *Storefront) Close(ctx context.Context) {
	s.engine.Flush(ctx)
	s.engine.Close()
}
