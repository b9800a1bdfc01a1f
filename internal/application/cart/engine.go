// Package cart keeps the client-side shopping cart consistent with the
// server-held active order.
//
// Local edits are applied optimistically and pushed to the server after a
// debounce window; only the latest state of a burst is sent. Refresh pulls
// the server order, which the ordering assistant may have changed out of
// band, and replaces the local cart with it. Network responses are applied
// in the order they resolve: the last one observed wins.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/merrysway/storefront/internal/domain/catalog"
	"github.com/merrysway/storefront/internal/domain/order"
	"github.com/merrysway/storefront/internal/infrastructure/clock"
)

// ErrInvalidProduct is returned by AddItem for a product without a name or
// with a negative price
var ErrInvalidProduct = errors.New("cart: invalid product")

// OrderAccessor is the request/response contract of the server active order
type OrderAccessor interface {
	GetActive(ctx context.Context) (*order.ActiveOrder, error)
	UpdateActive(ctx context.Context, lines []order.LineInput) (*order.ActiveOrder, error)
	ClearActive(ctx context.Context) error
}

// CatalogAccessor lists menu products used to decorate cart lines
type CatalogAccessor interface {
	ListProducts(ctx context.Context, filter catalog.Filter) ([]catalog.Product, error)
}

// Config holds engine timing
type Config struct {
	// DebounceWindow is the quiet period after the last mutation before a push
	DebounceWindow time.Duration
	// RequestTimeout bounds each push issued by the debounce timer
	RequestTimeout time.Duration
}

// DefaultConfig returns the production timing
func DefaultConfig() Config {
	return Config{
		DebounceWindow: 400 * time.Millisecond,
		RequestTimeout: 10 * time.Second,
	}
}

// Option configures an Engine
type Option func(*Engine)

// WithClock sets the clock driving the debounce timer
func WithClock(c clock.Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMeter sets the meter used for sync counters
func WithMeter(meter metric.Meter) Option {
	return func(e *Engine) {
		e.meter = meter
	}
}

// Engine owns the cart. All methods are safe for concurrent use; mutations
// are applied in call order and are visible to Snapshot as soon as they
// return.
type Engine struct {
	orders   OrderAccessor
	products CatalogAccessor
	config   Config
	clock    clock.Clock
	logger   *zap.Logger
	meter    metric.Meter
	metrics  *syncMetrics

	ctx    context.Context
	cancel context.CancelFunc

	mu            sync.Mutex
	lines         []Line
	lastKnownGood []Line
	menu          map[string]catalog.Product
	intended      []order.LineInput
	version       uint64
	epoch         uint64 // bumped by Clear and Reset; older push results are ignored
	pending       bool
	timer         *clock.Timer
	subscribers   map[uint64]func(Cart)
	nextSubID     uint64

	// notifyMu serialises subscriber delivery so snapshots arrive in order
	notifyMu sync.Mutex
}

// NewEngine creates an engine with an empty cart
func NewEngine(orders OrderAccessor, products CatalogAccessor, config Config, opts ...Option) *Engine {
	defaults := DefaultConfig()
	if config.DebounceWindow <= 0 {
		config.DebounceWindow = defaults.DebounceWindow
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = defaults.RequestTimeout
	}

	e := &Engine{
		orders:      orders,
		products:    products,
		config:      config,
		clock:       clock.Real(),
		logger:      zap.NewNop(),
		menu:        make(map[string]catalog.Product),
		subscribers: make(map[uint64]func(Cart)),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.meter == nil {
		e.meter = otel.Meter("github.com/merrysway/storefront/internal/application/cart")
	}
	e.metrics = newSyncMetrics(e.meter)
	e.logger = e.logger.Named("cart")
	e.ctx, e.cancel = context.WithCancel(context.Background())
	return e
}

// ---------------------------------------------------------------------------
// Local mutations
// ---------------------------------------------------------------------------

// AddItem adds one unit of product, merging into an existing line of the
// same name.
func (e *Engine) AddItem(product catalog.Product) error {
	if product.Name == "" || product.Price.IsNegative() {
		return fmt.Errorf("%w: %q", ErrInvalidProduct, product.Name)
	}

	e.mu.Lock()
	if i := indexOf(e.lines, product.Name); i >= 0 {
		e.lines[i].Quantity++
		e.lines[i].LineTotal = nil
	} else {
		e.lines = append(e.lines, Line{
			ProductName: product.Name,
			UnitPrice:   product.Price,
			Quantity:    1,
			ImageRef:    product.ImageURL,
			Category:    product.Category,
		})
	}
	e.menu[product.Name] = product
	e.schedulePushLocked()
	e.mu.Unlock()

	e.notify()
	return nil
}

// SetQuantity sets the quantity of an existing line. A quantity of zero or
// less removes the line. Unknown products are ignored.
func (e *Engine) SetQuantity(productName string, quantity int) {
	if quantity <= 0 {
		e.RemoveItem(productName)
		return
	}

	e.mu.Lock()
	i := indexOf(e.lines, productName)
	if i < 0 || e.lines[i].Quantity == quantity {
		e.mu.Unlock()
		return
	}
	e.lines[i].Quantity = quantity
	e.lines[i].LineTotal = nil
	e.schedulePushLocked()
	e.mu.Unlock()

	e.notify()
}

// RemoveItem deletes a line. Removing an absent product is a no-op.
func (e *Engine) RemoveItem(productName string) {
	e.mu.Lock()
	i := indexOf(e.lines, productName)
	if i < 0 {
		e.mu.Unlock()
		return
	}
	e.lines = append(e.lines[:i:i], e.lines[i+1:]...)
	e.schedulePushLocked()
	e.mu.Unlock()

	e.notify()
}

// Clear empties the cart and clears the server order right away, dropping
// any scheduled push. The cart stays empty even if the server call fails;
// the error is returned for the caller to surface.
func (e *Engine) Clear(ctx context.Context) error {
	e.mu.Lock()
	e.stopTimerLocked()
	e.lines = nil
	e.intended = nil
	e.pending = false
	e.version++
	e.epoch++
	version := e.version
	e.mu.Unlock()

	e.notify()

	if err := e.orders.ClearActive(ctx); err != nil {
		e.metrics.pushFailed.Add(ctx, 1)
		e.logger.Warn("Failed to clear active order", zap.Uint64("version", version), zap.Error(err))
		return fmt.Errorf("clear active order: %w", err)
	}

	e.mu.Lock()
	e.lastKnownGood = nil
	e.mu.Unlock()
	e.metrics.pushSent.Add(ctx, 1)
	return nil
}

// Reset drops all local state without talking to the server. Used on
// logout; nothing survives the session.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.stopTimerLocked()
	e.lines = nil
	e.lastKnownGood = nil
	e.intended = nil
	e.pending = false
	e.menu = make(map[string]catalog.Product)
	e.version++
	e.epoch++
	e.mu.Unlock()

	e.notify()
}

// ---------------------------------------------------------------------------
// Reconciliation
// ---------------------------------------------------------------------------

// Refresh replaces the cart with the server active order, decorated with
// catalog metadata. On failure the cart is left as it was. A catalog
// failure alone does not fail the refresh; lines then keep whatever
// metadata the engine already knew.
func (e *Engine) Refresh(ctx context.Context) error {
	active, err := e.orders.GetActive(ctx)
	if err != nil {
		e.metrics.refreshFailed.Add(ctx, 1)
		e.logger.Warn("Failed to refresh active order, keeping local cart", zap.Error(err))
		return fmt.Errorf("refresh active order: %w", err)
	}

	products, err := e.products.ListProducts(ctx, catalog.Filter{})
	if err != nil {
		e.logger.Warn("Catalog unavailable during refresh", zap.Error(err))
		products = nil
	}

	e.mu.Lock()
	if products != nil {
		e.menu = catalog.IndexByName(products)
	}
	lines := linesFromOrder(active, e.menu)
	e.lines = lines
	e.lastKnownGood = cloneLines(lines)
	pending := e.pending
	e.mu.Unlock()

	if pending {
		e.logger.Debug("Refresh resolved while a push is scheduled; the push will follow")
	}
	e.notify()
	return nil
}

// Flush sends a scheduled push immediately instead of waiting for the
// debounce window. It is a no-op when nothing is pending.
func (e *Engine) Flush(ctx context.Context) {
	e.mu.Lock()
	if !e.pending {
		e.mu.Unlock()
		return
	}
	e.stopTimerLocked()
	e.mu.Unlock()

	e.firePush(ctx)
}

// Close stops the debounce timer and aborts pushes still in flight.
// Pending changes are discarded; call Flush first to keep them.
func (e *Engine) Close() {
	e.mu.Lock()
	e.stopTimerLocked()
	e.pending = false
	e.mu.Unlock()
	e.cancel()
}

// ---------------------------------------------------------------------------
// Observation
// ---------------------------------------------------------------------------

// Snapshot returns a copy of the current cart
func (e *Engine) Snapshot() Cart {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Subscribe registers fn to receive a snapshot after every state change.
// fn runs on the goroutine that caused the change and must not call back
// into the engine's mutating methods.
func (e *Engine) Subscribe(fn func(Cart)) (unsubscribe func()) {
	e.mu.Lock()
	id := e.nextSubID
	e.nextSubID++
	e.subscribers[id] = fn
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		delete(e.subscribers, id)
		e.mu.Unlock()
	}
}

func (e *Engine) snapshotLocked() Cart {
	return Cart{
		Lines:   cloneLines(e.lines),
		Pending: e.pending,
		Version: e.version,
	}
}

func (e *Engine) notify() {
	e.notifyMu.Lock()
	defer e.notifyMu.Unlock()

	e.mu.Lock()
	snapshot := e.snapshotLocked()
	subscribers := make([]func(Cart), 0, len(e.subscribers))
	for _, fn := range e.subscribers {
		subscribers = append(subscribers, fn)
	}
	e.mu.Unlock()

	for _, fn := range subscribers {
		fn(snapshot)
	}
}

// ---------------------------------------------------------------------------
// Debounced push
// ---------------------------------------------------------------------------

// schedulePushLocked records the current lines as the latest intended state
// and restarts the debounce window.
func (e *Engine) schedulePushLocked() {
	e.version++
	e.intended = toLineInputs(e.lines)
	if e.pending {
		e.metrics.pushCoalesced.Add(e.ctx, 1)
	}
	e.pending = true

	if e.timer == nil {
		e.timer = e.clock.AfterFunc(e.config.DebounceWindow, e.onTimer)
		return
	}
	e.timer.Reset(e.config.DebounceWindow)
}

func (e *Engine) stopTimerLocked() {
	if e.timer != nil {
		e.timer.Stop()
	}
}

func (e *Engine) onTimer() {
	ctx, cancel := context.WithTimeout(e.ctx, e.config.RequestTimeout)
	defer cancel()
	e.firePush(ctx)
}

// firePush sends the latest intended state. The whole state is sent even
// when it looks equal to the last confirmed one, since the server may have
// changed since then.
func (e *Engine) firePush(ctx context.Context) {
	e.mu.Lock()
	if !e.pending {
		e.mu.Unlock()
		return
	}
	intended := e.intended
	version := e.version
	epoch := e.epoch
	changes := diffLines(e.lastKnownGood, intended)
	e.pending = false
	e.mu.Unlock()

	e.notify()

	fields := []zap.Field{
		zap.Uint64("version", version),
		zap.Int("lines", len(intended)),
		zap.Strings("added", changes.Added),
		zap.Strings("removed", changes.Removed),
		zap.Strings("changed", changes.Changed),
	}

	var (
		result *order.ActiveOrder
		err    error
	)
	if len(intended) == 0 {
		err = e.orders.ClearActive(ctx)
	} else {
		result, err = e.orders.UpdateActive(ctx, intended)
	}
	if err != nil {
		e.metrics.pushFailed.Add(ctx, 1)
		e.logger.Warn("Failed to push cart, will retry on next change", append(fields, zap.Error(err))...)
		return
	}

	e.metrics.pushSent.Add(ctx, 1)
	e.logger.Debug("Cart pushed", fields...)
	e.applyPushResult(result, version, epoch)
}

// applyPushResult records the server answer as the last confirmed state
// and, when no local edit happened since the push captured its state, makes
// it the visible cart. Answers to pushes issued before a Clear or Reset are
// dropped.
func (e *Engine) applyPushResult(result *order.ActiveOrder, version, epoch uint64) {
	e.mu.Lock()
	if e.epoch != epoch {
		e.mu.Unlock()
		e.logger.Debug("Dropping push result from before clear", zap.Uint64("version", version))
		return
	}
	confirmed := linesFromOrder(result, e.menu)
	e.lastKnownGood = confirmed
	applied := e.version == version && !e.pending
	if applied {
		e.lines = cloneLines(confirmed)
	}
	e.mu.Unlock()

	if applied {
		e.notify()
	}
}
