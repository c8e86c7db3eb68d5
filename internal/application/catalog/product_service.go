// Package catalog implements the product and collection use cases.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ServiLut/tote-bag/internal/domain/catalog"
	"github.com/ServiLut/tote-bag/internal/domain/shared"
	"github.com/ServiLut/tote-bag/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductsListKey is the cache key of the unfiltered active product list
const ProductsListKey = "products_list"

// Cache is the read-through store for product listings
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// ProductService handles product and collection operations
type ProductService struct {
	products    catalog.ProductRepository
	collections catalog.CollectionRepository
	uow         shared.UnitOfWork[catalog.Repositories]
	cache       Cache
	cacheTTL    time.Duration
	logger      *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	products catalog.ProductRepository,
	collections catalog.CollectionRepository,
	uow shared.UnitOfWork[catalog.Repositories],
	cache Cache,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		products:    products,
		collections: collections,
		uow:         uow,
		cache:       cache,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

// Create validates prices and SKUs, resolves or creates the collection
// and inserts the product with its variants and images atomically
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*catalog.Product, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "catalog", "create")
	defer span.End()

	if err := catalog.ValidatePrices(req.BasePrice, req.MinPrice); err != nil {
		return nil, err
	}

	var product *catalog.Product
	err := s.uow.Do(ctx, func(repos catalog.Repositories) error {
		collection, err := resolveCollection(ctx, repos.Collections, req.CollectionID, req.CollectionName)
		if err != nil {
			return err
		}
		product, err = catalog.NewProduct(req.spec(), collection)
		if err != nil {
			return err
		}
		return repos.Products.Create(ctx, product)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, s.writeError(ctx, "create", err)
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrProductID, product.ID,
		telemetry.SpanAttrProductSlug, product.Slug,
	)

	s.invalidate(ctx)
	return product, nil
}

// Update applies scalar changes, replaces images, moves the product to
// another collection and reconciles variants by SKU in one transaction
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*catalog.Product, error) {
	err := s.uow.Do(ctx, func(repos catalog.Repositories) error {
		product, err := repos.Products.FindByID(ctx, id)
		if err != nil {
			return productNotFound(err, id)
		}

		if err := product.Apply(req.patch()); err != nil {
			return err
		}
		if req.CollectionName != nil || req.CollectionID != nil {
			// a collection name takes precedence over an id on update
			collectionID, name := req.CollectionID, ""
			if req.CollectionName != nil {
				collectionID, name = nil, *req.CollectionName
			}
			collection, err := resolveCollection(ctx, repos.Collections, collectionID, name)
			if err != nil {
				return err
			}
			product.MoveTo(collection)
		}

		if req.Variants != nil {
			plan := catalog.PlanVariants(id, product.Variants, variantSpecs(req.Variants))
			if err := applyVariantPlan(ctx, repos.Variants, plan); err != nil {
				return err
			}
		}
		if err := repos.Products.Update(ctx, product); err != nil {
			return err
		}
		if req.Images != nil {
			return repos.Products.ReplaceImages(ctx, id, product.BuildImages(imageSpecs(req.Images)))
		}
		return nil
	})
	if err != nil {
		return nil, s.writeError(ctx, "update", err)
	}

	s.invalidate(ctx)
	return s.Get(ctx, id)
}

// Remove archives a product that orders still reference and deletes it
// otherwise
func (s *ProductService) Remove(ctx context.Context, id uuid.UUID) error {
	archived := false
	err := s.uow.Do(ctx, func(repos catalog.Repositories) error {
		product, err := repos.Products.FindByID(ctx, id)
		if err != nil {
			return productNotFound(err, id)
		}

		referenced, err := repos.Orders.CountItemsForProduct(ctx, id)
		if err != nil {
			return err
		}
		if referenced > 0 {
			archived = true
			product.Archive()
			return repos.Products.Update(ctx, product)
		}
		return repos.Products.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("product removed",
		zap.String("product_id", id.String()),
		zap.Bool("archived", archived),
	)
	s.invalidate(ctx)
	return nil
}

// List returns active products newest first. The unfiltered list is read
// through the cache.
func (s *ProductService) List(ctx context.Context, collectionID *uuid.UUID) ([]catalog.Product, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "catalog", "list")
	defer span.End()

	if collectionID == nil {
		if cached, ok := s.cachedList(ctx); ok {
			telemetry.SetAttributes(span, telemetry.SpanAttrCacheHit, true)
			return cached, nil
		}
	}

	products, err := s.products.FindAll(ctx, catalog.ProductFilter{
		CollectionID: collectionID,
		ActiveOnly:   true,
	})
	if err != nil {
		return nil, err
	}

	if collectionID == nil {
		s.storeList(ctx, products)
	}
	return products, nil
}

// Get returns one product with its relations
func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, productNotFound(err, id)
	}
	return product, nil
}

// GetBySlug returns one product by slug
func (s *ProductService) GetBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	product, err := s.products.FindBySlug(ctx, slug)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.NotFoundf("Product with slug %s not found", slug)
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}

// ListCollections returns active collections ordered by name
func (s *ProductService) ListCollections(ctx context.Context) ([]catalog.Collection, error) {
	return s.collections.FindActive(ctx)
}

// resolveCollection finds the collection by id, or by name or derived
// slug, creating it in the latter case when absent
func resolveCollection(ctx context.Context, repo catalog.CollectionRepository, id *uuid.UUID, name string) (*catalog.Collection, error) {
	if id != nil {
		c, err := repo.FindByID(ctx, *id)
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NotFoundf("Collection with ID %s not found", *id)
		}
		return c, err
	}
	if name == "" {
		return nil, shared.Validationf("Either collectionId or collectionName is required")
	}

	c, err := repo.FindByNameOrSlug(ctx, name, catalog.Slugify(name))
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	c, err = catalog.NewCollection(name)
	if err != nil {
		return nil, err
	}
	if err := repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func applyVariantPlan(ctx context.Context, repo catalog.VariantRepository, plan catalog.VariantPlan) error {
	if len(plan.Delete) > 0 {
		skus := make([]string, 0, len(plan.Delete))
		for _, v := range plan.Delete {
			skus = append(skus, v.SKU)
		}
		if err := repo.DeleteBySKU(ctx, skus); err != nil {
			return err
		}
	}
	for i := range plan.Update {
		if err := repo.UpdateBySKU(ctx, &plan.Update[i]); err != nil {
			return err
		}
	}
	return repo.CreateBatch(ctx, plan.Create)
}

func productNotFound(err error, id uuid.UUID) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NotFoundf("Product with ID %s not found", id)
	}
	return err
}

// writeError maps unique violations to a validation error, passes domain
// errors through and hides everything else behind a generic failure
func (s *ProductService) writeError(ctx context.Context, op string, err error) error {
	if errors.Is(err, shared.ErrAlreadyExists) {
		return shared.Validationf("Unique constraint failed: SKU or ID already exists")
	}
	var de *shared.DomainError
	if errors.As(err, &de) {
		return err
	}
	s.logger.Error("product write failed", zap.String("op", op), zap.Error(err))
	return shared.NewDomainError(shared.CodeInternal, fmt.Sprintf("Failed to %s product", op))
}

func (s *ProductService) cachedList(ctx context.Context) ([]catalog.Product, bool) {
	raw, err := s.cache.Get(ctx, ProductsListKey)
	if err != nil {
		return nil, false
	}
	var products []catalog.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		s.logger.Warn("discarding unreadable product list cache", zap.Error(err))
		return nil, false
	}
	return products, true
}

func (s *ProductService) storeList(ctx context.Context, products []catalog.Product) {
	raw, err := json.Marshal(products)
	if err != nil {
		s.logger.Warn("failed to encode product list for cache", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, ProductsListKey, raw, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache product list", zap.Error(err))
	}
}

func (s *ProductService) invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, ProductsListKey); err != nil {
		s.logger.Warn("failed to invalidate product list cache", zap.Error(err))
	}
}
