package cache

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/merrysway/storefront/internal/domain/catalog"
	"github.com/merrysway/storefront/internal/infrastructure/config"
)

// ProductCache is what the factory hands out
type ProductCache interface {
	Get(ctx context.Context, filter catalog.Filter) ([]catalog.Product, bool, error)
	Set(ctx context.Context, filter catalog.Filter, products []catalog.Product) error
	Invalidate(ctx context.Context) error
	Close() error
}

// FactoryOption configures NewProductCache
type FactoryOption func(*factory)

type factory struct {
	logger        *zap.Logger
	allowFallback bool
}

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *factory) {
		f.logger = logger
	}
}

// WithoutFallback makes an unreachable Redis an error instead of falling
// back to memory
func WithoutFallback() FactoryOption {
	return func(f *factory) {
		f.allowFallback = false
	}
}

// NewProductCache returns a Redis cache when Redis is enabled and reachable
// and an in-memory cache otherwise
func NewProductCache(cfg config.RedisConfig, opts ...FactoryOption) (ProductCache, error) {
	f := &factory{logger: zap.NewNop(), allowFallback: true}
	for _, opt := range opts {
		opt(f)
	}

	if !cfg.Enabled {
		f.logger.Info("Using in-memory product cache")
		return NewInMemoryProductCache(cfg.CacheTTL, nil), nil
	}

	c, err := NewRedisProductCache(RedisConfig{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	}, cfg.CacheTTL, f.logger)
	if err == nil {
		f.logger.Info("Using Redis product cache", zap.String("addr", cfg.Addr()))
		return c, nil
	}
	if !f.allowFallback {
		return nil, fmt.Errorf("redis product cache unavailable: %w", err)
	}
	f.logger.Warn("Redis unavailable, falling back to in-memory product cache", zap.Error(err))
	return NewInMemoryProductCache(cfg.CacheTTL, nil), nil
}
