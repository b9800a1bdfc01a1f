// Package cache keeps catalog listings close to the HTTP handlers. Redis is
// used when configured; a process-local map serves single instances and
// tests.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/merrysway/storefront/internal/domain/catalog"
)

const (
	defaultTTL     = 5 * time.Minute
	productsKey    = "storefront:products"
	connectTimeout = 5 * time.Second
)

// filterKey is the hash field or map key of a listing
func filterKey(f catalog.Filter) string {
	return fmt.Sprintf("c=%s|q=%s", f.Category, f.Search)
}

// RedisProductCache stores every cached listing as a field of one hash, so
// invalidation is a single DEL
type RedisProductCache struct {
	client     *redis.Client
	ownsClient bool
	ttl        time.Duration
	logger     *zap.Logger
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisProductCache connects to Redis and pings it
func NewRedisProductCache(cfg RedisConfig, ttl time.Duration, logger *zap.Logger) (*RedisProductCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	c := NewRedisProductCacheWithClient(client, ttl, logger)
	c.ownsClient = true
	return c, nil
}

// NewRedisProductCacheWithClient uses a client owned by the caller
func NewRedisProductCacheWithClient(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisProductCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisProductCache{client: client, ttl: ttl, logger: logger}
}

// Get returns a cached listing; ok is false on a miss
func (c *RedisProductCache) Get(ctx context.Context, filter catalog.Filter) ([]catalog.Product, bool, error) {
	data, err := c.client.HGet(ctx, productsKey, filterKey(filter)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read product cache: %w", err)
	}

	var products []catalog.Product
	if err := json.Unmarshal(data, &products); err != nil {
		c.logger.Warn("Dropping corrupt product cache entry", zap.Error(err))
		_ = c.client.HDel(ctx, productsKey, filterKey(filter)).Err()
		return nil, false, nil
	}
	return products, true, nil
}

// Set stores a listing. The hash expires ttl after the first write since
// the last invalidation.
func (c *RedisProductCache) Set(ctx context.Context, filter catalog.Filter, products []catalog.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to encode products: %w", err)
	}
	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, productsKey, filterKey(filter), data)
		pipe.ExpireNX(ctx, productsKey, c.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write product cache: %w", err)
	}
	return nil
}

// Invalidate drops every cached listing
func (c *RedisProductCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, productsKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate product cache: %w", err)
	}
	return nil
}

// Close closes the client when this cache created it
func (c *RedisProductCache) Close() error {
	if !c.ownsClient {
		return nil
	}
	return c.client.Close()
}
