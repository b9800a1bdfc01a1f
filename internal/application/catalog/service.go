// Package catalog serves the coffee shop menu.
package catalog

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/merrysway/storefront/internal/domain/catalog"
	"github.com/merrysway/storefront/internal/domain/shared"
)

// ImageSigner turns a stored image reference into a loadable URL
type ImageSigner interface {
	SignImage(ctx context.Context, ref string) (string, error)
}

// ProductCache caches unsigned product listings per filter
type ProductCache interface {
	Get(ctx context.Context, filter catalog.Filter) ([]catalog.Product, bool, error)
	Set(ctx context.Context, filter catalog.Filter, products []catalog.Product) error
	Invalidate(ctx context.Context) error
}

// Service handles catalog reads and seeding
type Service struct {
	repo     catalog.ProductRepository
	cache    ProductCache
	signer   ImageSigner
	validate *validator.Validate
	logger   *zap.Logger
}

// NewService creates a new catalog service
func NewService(repo catalog.ProductRepository, cache ProductCache, signer ImageSigner, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		signer:   signer,
		validate: validator.New(),
		logger:   logger,
	}
}

// List returns products matching filter ordered by name. Cache failures
// fall through to the repository.
func (s *Service) List(ctx context.Context, filter catalog.Filter) ([]ProductResponse, error) {
	products, hit, err := s.cache.Get(ctx, filter)
	if err != nil {
		s.logger.Warn("Product cache read failed", zap.Error(err))
	}
	if !hit {
		products, err = s.repo.FindAll(ctx, filter)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, filter, products); err != nil {
			s.logger.Warn("Product cache write failed", zap.Error(err))
		}
	}

	responses := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		responses = append(responses, ToProductResponse(p, s.imageURL(ctx, p)))
	}
	return responses, nil
}

// imageURL signs the product image. An unsignable image is served without
// a URL rather than failing the listing.
func (s *Service) imageURL(ctx context.Context, p catalog.Product) string {
	url, err := s.signer.SignImage(ctx, p.ImageURL)
	if err != nil {
		s.logger.Warn("Failed to sign product image",
			zap.String("product", p.Name),
			zap.String("image", p.ImageURL),
			zap.Error(err))
		return ""
	}
	return url
}

// Save creates or updates a product by name and invalidates cached listings
func (s *Service) Save(ctx context.Context, product *catalog.Product) error {
	if err := s.repo.Save(ctx, product); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Import upserts products from a JSONL stream, one SeedProduct per line.
// Blank lines are skipped. It stops at the first invalid line and returns
// how many products were saved before it.
func (s *Service) Import(ctx context.Context, r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	saved, line := 0, 0
	defer func() {
		if saved > 0 {
			s.invalidate(ctx)
		}
	}()

	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		product, err := s.parseSeed(raw)
		if err != nil {
			return saved, fmt.Errorf("line %d: %w", line, err)
		}
		if err := s.repo.Save(ctx, product); err != nil {
			return saved, fmt.Errorf("line %d: save %q: %w", line, product.Name, err)
		}
		saved++
	}
	if err := scanner.Err(); err != nil {
		return saved, fmt.Errorf("read seed file: %w", err)
	}

	s.logger.Info("Products imported", zap.Int("count", saved))
	return saved, nil
}

func (s *Service) parseSeed(raw string) (*catalog.Product, error) {
	var seed SeedProduct
	if err := json.Unmarshal([]byte(raw), &seed); err != nil {
		return nil, shared.NewDomainError("INVALID_SEED", "Malformed product line: "+err.Error())
	}
	if err := s.validate.Struct(seed); err != nil {
		return nil, shared.NewDomainError("INVALID_SEED", err.Error())
	}

	product, err := catalog.NewProduct(seed.Name, seed.Category, seed.Price)
	if err != nil {
		return nil, err
	}
	product.Description = seed.Description
	product.Ingredients = seed.Ingredients
	product.ImageURL = seed.ImageRef()
	if seed.Rating != nil {
		product.Rating = *seed.Rating
	}
	return product, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("Product cache invalidation failed", zap.Error(err))
	}
}
