package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductFilter narrows product listings
type ProductFilter struct {
	CollectionID *uuid.UUID
	ActiveOnly   bool
}

// ProductRepository defines persistence operations for products
type ProductRepository interface {
	// FindByID returns the product with collection, variants and images,
	// or shared.ErrNotFound
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindBySlug returns the product with the given slug, or
	// shared.ErrNotFound
	FindBySlug(ctx context.Context, slug string) (*Product, error)

	// FindAll lists products newest first with their relations loaded
	FindAll(ctx context.Context, filter ProductFilter) ([]Product, error)

	// Create inserts the product together with its variants and images
	Create(ctx context.Context, p *Product) error

	// Update saves the product's scalar columns only
	Update(ctx context.Context, p *Product) error

	// Delete removes the product row; variants and images cascade
	Delete(ctx context.Context, id uuid.UUID) error

	// ReplaceImages deletes every image of the product and inserts images
	ReplaceImages(ctx context.Context, productID uuid.UUID, images []ProductImage) error
}

// VariantRepository defines persistence operations for variants
type VariantRepository interface {
	// FindByProduct lists the variants of a product
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]Variant, error)

	// DeleteBySKU removes the variants with the given SKUs
	DeleteBySKU(ctx context.Context, skus []string) error

	// UpdateBySKU rewrites color, image and stock of the variant with v.SKU
	UpdateBySKU(ctx context.Context, v *Variant) error

	// CreateBatch inserts variants
	CreateBatch(ctx context.Context, variants []Variant) error

	// CountLowStock counts variants with stock strictly below threshold
	CountLowStock(ctx context.Context, threshold int) (int64, error)
}

// CollectionRepository defines persistence operations for collections
type CollectionRepository interface {
	// FindByID returns the collection or shared.ErrNotFound
	FindByID(ctx context.Context, id uuid.UUID) (*Collection, error)

	// FindByNameOrSlug returns the collection whose name equals name or
	// whose slug equals slug, or shared.ErrNotFound
	FindByNameOrSlug(ctx context.Context, name, slug string) (*Collection, error)

	// FindActive lists active collections ordered by name
	FindActive(ctx context.Context) ([]Collection, error)

	// Create inserts a collection
	Create(ctx context.Context, c *Collection) error
}

// OrderHistory tells whether orders still reference a product
type OrderHistory interface {
	CountItemsForProduct(ctx context.Context, productID uuid.UUID) (int64, error)
}

// Repositories is the set of catalog repositories bound to one
// transaction
type Repositories struct {
	Products    ProductRepository
	Variants    VariantRepository
	Collections CollectionRepository
	Orders      OrderHistory
}
