package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ServiLut/tote-bag/internal/domain/catalog"
	"github.com/ServiLut/tote-bag/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter catalog.ProductFilter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, p *catalog.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, p *catalog.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProductRepository) ReplaceImages(ctx context.Context, productID uuid.UUID, images []catalog.ProductImage) error {
	return m.Called(ctx, productID, images).Error(0)
}

// MockVariantRepository is a mock implementation of catalog.VariantRepository
type MockVariantRepository struct {
	mock.Mock
}

func (m *MockVariantRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]catalog.Variant, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]catalog.Variant), args.Error(1)
}

func (m *MockVariantRepository) DeleteBySKU(ctx context.Context, skus []string) error {
	return m.Called(ctx, skus).Error(0)
}

func (m *MockVariantRepository) UpdateBySKU(ctx context.Context, v *catalog.Variant) error {
	return m.Called(ctx, v).Error(0)
}

func (m *MockVariantRepository) CreateBatch(ctx context.Context, variants []catalog.Variant) error {
	return m.Called(ctx, variants).Error(0)
}

func (m *MockVariantRepository) CountLowStock(ctx context.Context, threshold int) (int64, error) {
	args := m.Called(ctx, threshold)
	return args.Get(0).(int64), args.Error(1)
}

// MockCollectionRepository is a mock implementation of catalog.CollectionRepository
type MockCollectionRepository struct {
	mock.Mock
}

func (m *MockCollectionRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Collection, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Collection), args.Error(1)
}

func (m *MockCollectionRepository) FindByNameOrSlug(ctx context.Context, name, slug string) (*catalog.Collection, error) {
	args := m.Called(ctx, name, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Collection), args.Error(1)
}

func (m *MockCollectionRepository) FindActive(ctx context.Context) ([]catalog.Collection, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalog.Collection), args.Error(1)
}

func (m *MockCollectionRepository) Create(ctx context.Context, c *catalog.Collection) error {
	return m.Called(ctx, c).Error(0)
}

// MockOrderHistory is a mock implementation of catalog.OrderHistory
type MockOrderHistory struct {
	mock.Mock
}

func (m *MockOrderHistory) CountItemsForProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(int64), args.Error(1)
}

// MockCache is a mock implementation of Cache
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type inlineUnitOfWork struct {
	repos catalog.Repositories
}

func (u inlineUnitOfWork) Do(_ context.Context, fn func(catalog.Repositories) error) error {
	return fn(u.repos)
}

type fixture struct {
	svc         *ProductService
	products    *MockProductRepository
	variants    *MockVariantRepository
	collections *MockCollectionRepository
	orders      *MockOrderHistory
	cache       *MockCache
}

func newFixture() *fixture {
	f := &fixture{
		products:    new(MockProductRepository),
		variants:    new(MockVariantRepository),
		collections: new(MockCollectionRepository),
		orders:      new(MockOrderHistory),
		cache:       new(MockCache),
	}
	uow := inlineUnitOfWork{repos: catalog.Repositories{
		Products:    f.products,
		Variants:    f.variants,
		Collections: f.collections,
		Orders:      f.orders,
	}}
	f.svc = NewProductService(f.products, f.collections, uow, f.cache, time.Minute, zap.NewNop())
	return f
}

func collectionNamed(t *testing.T, name string) *catalog.Collection {
	t.Helper()
	c, err := catalog.NewCollection(name)
	require.NoError(t, err)
	return c
}

func createRequest(collectionName string, skus ...string) CreateProductRequest {
	req := CreateProductRequest{
		Name:           "Playa",
		BasePrice:      89000,
		MinPrice:       75000,
		CollectionName: collectionName,
	}
	for _, sku := range skus {
		req.Variants = append(req.Variants, VariantInput{SKU: sku, Color: "Azul", Stock: 5})
	}
	return req
}

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("base price below minimum", func(t *testing.T) {
		f := newFixture()
		req := createRequest("Verano")
		req.BasePrice, req.MinPrice = 100, 200

		_, err := f.svc.Create(ctx, req)
		assert.EqualError(t, err, "Base price (100) cannot be lower than Minimum Price (200)")
		f.products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("reuses collection found by name or slug", func(t *testing.T) {
		f := newFixture()
		c := collectionNamed(t, "Verano 2024")
		f.collections.On("FindByNameOrSlug", mock.Anything, "Verano 2024", "verano-2024").Return(c, nil)
		f.products.On("Create", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)
		f.cache.On("Delete", mock.Anything, ProductsListKey).Return(nil)

		p, err := f.svc.Create(ctx, createRequest("Verano 2024", "TB-VERANO2024-PLAYA-AZUL"))
		require.NoError(t, err)
		assert.Equal(t, c.ID, p.CollectionID)
		assert.Len(t, p.Variants, 1)
		f.collections.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.cache.AssertExpectations(t)
	})

	t.Run("creates missing collection", func(t *testing.T) {
		f := newFixture()
		f.collections.On("FindByNameOrSlug", mock.Anything, "Otoño", "otoo").Return(nil, shared.ErrNotFound)
		f.collections.On("Create", mock.Anything, mock.MatchedBy(func(c *catalog.Collection) bool {
			return c.Name == "Otoño" && c.Slug == "otoo"
		})).Return(nil)
		f.products.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.cache.On("Delete", mock.Anything, ProductsListKey).Return(nil)

		_, err := f.svc.Create(ctx, createRequest("Otoño"))
		require.NoError(t, err)
		f.collections.AssertExpectations(t)
	})

	t.Run("unknown collection id", func(t *testing.T) {
		f := newFixture()
		id := uuid.New()
		f.collections.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		req := createRequest("")
		req.CollectionID = &id
		_, err := f.svc.Create(ctx, req)
		assert.EqualError(t, err, fmt.Sprintf("Collection with ID %s not found", id))
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("no collection reference", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.Create(ctx, createRequest(""))
		assert.EqualError(t, err, "Either collectionId or collectionName is required")
	})

	t.Run("invalid sku is rejected before insert", func(t *testing.T) {
		f := newFixture()
		f.collections.On("FindByNameOrSlug", mock.Anything, "Verano 2024", "verano-2024").
			Return(collectionNamed(t, "Verano 2024"), nil)

		_, err := f.svc.Create(ctx, createRequest("Verano 2024", "TB-VERANO-PLAYA-AZUL"))
		assert.EqualError(t, err, "Invalid SKU format: TB-VERANO-PLAYA-AZUL. Expected: TB-VERANO2024-PLAYA-AZUL")
		f.products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		f.cache.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("unique violation becomes a validation error", func(t *testing.T) {
		f := newFixture()
		f.collections.On("FindByNameOrSlug", mock.Anything, "Verano", "verano").Return(collectionNamed(t, "Verano"), nil)
		f.products.On("Create", mock.Anything, mock.Anything).
			Return(fmt.Errorf("%w: duplicate key", shared.ErrAlreadyExists))

		_, err := f.svc.Create(ctx, createRequest("Verano"))
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, shared.CodeValidation, de.Code)
		assert.Equal(t, "Unique constraint failed: SKU or ID already exists", de.Message)
	})

	t.Run("other failures are internal", func(t *testing.T) {
		f := newFixture()
		f.collections.On("FindByNameOrSlug", mock.Anything, "Verano", "verano").Return(collectionNamed(t, "Verano"), nil)
		f.products.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection reset"))

		_, err := f.svc.Create(ctx, createRequest("Verano"))
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, shared.CodeInternal, de.Code)
		assert.Equal(t, "Failed to create product", de.Message)
	})
}

func storedProduct(t *testing.T, skus ...string) *catalog.Product {
	t.Helper()
	c := collectionNamed(t, "Verano")
	p, err := catalog.NewProduct(catalog.ProductSpec{Name: "Palmera", BasePrice: 10, MinPrice: 5}, c)
	require.NoError(t, err)
	for _, sku := range skus {
		p.Variants = append(p.Variants, *p.NewVariant(catalog.VariantSpec{SKU: sku, Color: "x", Stock: 1}))
	}
	return p
}

func skusOf(variants []catalog.Variant) []string {
	out := make([]string, 0, len(variants))
	for _, v := range variants {
		out = append(out, v.SKU)
	}
	return out
}

func TestProductService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("reconciles variants by sku", func(t *testing.T) {
		f := newFixture()
		p := storedProduct(t, "A", "B", "C")
		f.products.On("FindByID", mock.Anything, p.ID).Return(p, nil)
		f.variants.On("DeleteBySKU", mock.Anything, []string{"B"}).Return(nil).Once()
		var updated []string
		f.variants.On("UpdateBySKU", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { updated = append(updated, args.Get(1).(*catalog.Variant).SKU) }).
			Return(nil)
		f.variants.On("CreateBatch", mock.Anything, mock.MatchedBy(func(v []catalog.Variant) bool {
			return len(v) == 1 && v[0].SKU == "D" && v[0].ProductID == p.ID
		})).Return(nil).Once()
		f.products.On("Update", mock.Anything, p).Return(nil)
		f.cache.On("Delete", mock.Anything, ProductsListKey).Return(nil)

		req := UpdateProductRequest{Variants: []VariantInput{
			{SKU: "A", Color: "Rojo", Stock: 3},
			{SKU: " C ", Color: "Azul", Stock: 4},
			{SKU: "D", Color: "Verde", Stock: 5},
		}}
		_, err := f.svc.Update(ctx, p.ID, req)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"A", "C"}, updated)
		f.variants.AssertExpectations(t)
		f.products.AssertNotCalled(t, "ReplaceImages", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unchanged variant set only rewrites rows", func(t *testing.T) {
		f := newFixture()
		p := storedProduct(t, "A", "B")
		f.products.On("FindByID", mock.Anything, p.ID).Return(p, nil)
		f.variants.On("UpdateBySKU", mock.Anything, mock.Anything).Return(nil).Twice()
		f.variants.On("CreateBatch", mock.Anything, []catalog.Variant(nil)).Return(nil)
		f.products.On("Update", mock.Anything, p).Return(nil)
		f.cache.On("Delete", mock.Anything, ProductsListKey).Return(nil)

		req := UpdateProductRequest{Variants: []VariantInput{{SKU: "A", Color: "x", Stock: 1}, {SKU: "B", Color: "x", Stock: 1}}}
		_, err := f.svc.Update(ctx, p.ID, req)
		require.NoError(t, err)
		f.variants.AssertNotCalled(t, "DeleteBySKU", mock.Anything, mock.Anything)
		assert.Equal(t, []string{"A", "B"}, skusOf(p.Variants))
	})

	t.Run("replaces images and moves collection by name", func(t *testing.T) {
		f := newFixture()
		p := storedProduct(t)
		invierno := collectionNamed(t, "Invierno")
		f.products.On("FindByID", mock.Anything, p.ID).Return(p, nil)
		f.collections.On("FindByNameOrSlug", mock.Anything, "Invierno", "invierno").Return(invierno, nil)
		f.products.On("Update", mock.Anything, mock.MatchedBy(func(u *catalog.Product) bool {
			return u.CollectionID == invierno.ID
		})).Return(nil)
		f.products.On("ReplaceImages", mock.Anything, p.ID, mock.MatchedBy(func(imgs []catalog.ProductImage) bool {
			return len(imgs) == 1 && imgs[0].URL == "https://cdn.example.com/x.jpg"
		})).Return(nil)
		f.cache.On("Delete", mock.Anything, ProductsListKey).Return(nil)

		name := "Invierno"
		otherID := uuid.New()
		req := UpdateProductRequest{
			CollectionName: &name,
			CollectionID:   &otherID,
			Images:         []ImageInput{{URL: "https://cdn.example.com/x.jpg"}},
		}
		_, err := f.svc.Update(ctx, p.ID, req)
		require.NoError(t, err)
		f.collections.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
		f.variants.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
		f.products.AssertExpectations(t)
	})

	t.Run("unknown product", func(t *testing.T) {
		f := newFixture()
		id := uuid.New()
		f.products.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		_, err := f.svc.Update(ctx, id, UpdateProductRequest{})
		assert.EqualError(t, err, fmt.Sprintf("Product with ID %s not found", id))
		f.cache.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestProductService_Remove(t *testing.T) {
	ctx := context.Background()

	t.Run("referenced product is archived", func(t *testing.T) {
		f := newFixture()
		p := storedProduct(t, "A")
		f.products.On("FindByID", mock.Anything, p.ID).Return(p, nil)
		f.orders.On("CountItemsForProduct", mock.Anything, p.ID).Return(int64(3), nil)
		f.products.On("Update", mock.Anything, mock.MatchedBy(func(u *catalog.Product) bool {
			return !u.IsActive && u.Status == catalog.ProductStatusBackorder
		})).Return(nil)
		f.cache.On("Delete", mock.Anything, ProductsListKey).Return(nil)

		require.NoError(t, f.svc.Remove(ctx, p.ID))
		f.products.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		f.cache.AssertExpectations(t)
	})

	t.Run("unreferenced product is deleted", func(t *testing.T) {
		f := newFixture()
		p := storedProduct(t, "A")
		f.products.On("FindByID", mock.Anything, p.ID).Return(p, nil)
		f.orders.On("CountItemsForProduct", mock.Anything, p.ID).Return(int64(0), nil)
		f.products.On("Delete", mock.Anything, p.ID).Return(nil)
		f.cache.On("Delete", mock.Anything, ProductsListKey).Return(nil)

		require.NoError(t, f.svc.Remove(ctx, p.ID))
		f.products.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("unknown product", func(t *testing.T) {
		f := newFixture()
		id := uuid.New()
		f.products.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		err := f.svc.Remove(ctx, id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("cache failure does not fail the request", func(t *testing.T) {
		f := newFixture()
		p := storedProduct(t)
		f.products.On("FindByID", mock.Anything, p.ID).Return(p, nil)
		f.orders.On("CountItemsForProduct", mock.Anything, p.ID).Return(int64(0), nil)
		f.products.On("Delete", mock.Anything, p.ID).Return(nil)
		f.cache.On("Delete", mock.Anything, ProductsListKey).Return(errors.New("redis down"))

		assert.NoError(t, f.svc.Remove(ctx, p.ID))
	})
}

func TestProductService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit skips the database", func(t *testing.T) {
		f := newFixture()
		cached, err := json.Marshal([]catalog.Product{*storedProduct(t)})
		require.NoError(t, err)
		f.cache.On("Get", mock.Anything, ProductsListKey).Return(cached, nil)

		products, err := f.svc.List(ctx, nil)
		require.NoError(t, err)
		assert.Len(t, products, 1)
		f.products.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything)
	})

	t.Run("miss loads and stores", func(t *testing.T) {
		f := newFixture()
		stored := []catalog.Product{*storedProduct(t)}
		f.cache.On("Get", mock.Anything, ProductsListKey).Return(nil, errors.New("miss"))
		f.products.On("FindAll", mock.Anything, catalog.ProductFilter{ActiveOnly: true}).Return(stored, nil)
		f.cache.On("Set", mock.Anything, ProductsListKey, mock.Anything, time.Minute).Return(nil)

		products, err := f.svc.List(ctx, nil)
		require.NoError(t, err)
		assert.Len(t, products, 1)
		f.cache.AssertExpectations(t)
	})

	t.Run("collection filter bypasses the cache", func(t *testing.T) {
		f := newFixture()
		id := uuid.New()
		f.products.On("FindAll", mock.Anything, catalog.ProductFilter{CollectionID: &id, ActiveOnly: true}).
			Return([]catalog.Product{}, nil)

		_, err := f.svc.List(ctx, &id)
		require.NoError(t, err)
		f.cache.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
		f.cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestProductService_Queries(t *testing.T) {
	ctx := context.Background()

	t.Run("slug not found", func(t *testing.T) {
		f := newFixture()
		f.products.On("FindBySlug", mock.Anything, "nope").Return(nil, shared.ErrNotFound)

		_, err := f.svc.GetBySlug(ctx, "nope")
		assert.EqualError(t, err, "Product with slug nope not found")
	})

	t.Run("collections", func(t *testing.T) {
		f := newFixture()
		f.collections.On("FindActive", mock.Anything).Return([]catalog.Collection{*collectionNamed(t, "Verano")}, nil)

		collections, err := f.svc.ListCollections(ctx)
		require.NoError(t, err)
		assert.Len(t, collections, 1)
	})
}
