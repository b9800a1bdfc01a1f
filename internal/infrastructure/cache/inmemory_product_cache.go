package cache

import (
	"context"
	"sync"
	"time"

	"github.com/merrysway/storefront/internal/domain/catalog"
	"github.com/merrysway/storefront/internal/infrastructure/clock"
)

type listing struct {
	products  []catalog.Product
	expiresAt time.Time
}

// InMemoryProductCache is a process-local listing cache with per-entry TTL
type InMemoryProductCache struct {
	mu      sync.RWMutex
	entries map[string]listing
	ttl     time.Duration
	clock   clock.Clock
}

// NewInMemoryProductCache creates an empty cache; a nil clock means real time
func NewInMemoryProductCache(ttl time.Duration, clk clock.Clock) *InMemoryProductCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if clk == nil {
		clk = clock.Real()
	}
	return &InMemoryProductCache{
		entries: make(map[string]listing),
		ttl:     ttl,
		clock:   clk,
	}
}

// Get returns a copy of a live listing
func (c *InMemoryProductCache) Get(ctx context.Context, filter catalog.Filter) ([]catalog.Product, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[filterKey(filter)]
	c.mu.RUnlock()
	if !ok || !c.clock.Now().Before(entry.expiresAt) {
		return nil, false, nil
	}
	return append([]catalog.Product(nil), entry.products...), true, nil
}

// Set stores a copy of products and sweeps expired listings
func (c *InMemoryProductCache) Set(ctx context.Context, filter catalog.Filter, products []catalog.Product) error {
	now := c.clock.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, entry := range c.entries {
		if !now.Before(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
	c.entries[filterKey(filter)] = listing{
		products:  append([]catalog.Product(nil), products...),
		expiresAt: now.Add(c.ttl),
	}
	return nil
}

// Invalidate drops every listing
func (c *InMemoryProductCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]listing)
	return nil
}

// Size returns the number of stored listings
func (c *InMemoryProductCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close is a no-op
func (c *InMemoryProductCache) Close() error {
	return nil
}
