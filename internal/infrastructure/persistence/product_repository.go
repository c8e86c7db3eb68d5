package persistence

import (
	"context"

	"github.com/ServiLut/tote-bag/internal/domain/catalog"
	"github.com/ServiLut/tote-bag/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// productColumns are the scalar columns written by Update
var productColumns = []string{
	"name", "slug", "description", "base_price", "min_price", "cost_price",
	"compare_price", "status", "is_active", "collection_id", "updated_at",
}

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Collection").
		Preload("Variants", func(db *gorm.DB) *gorm.DB { return db.Order("sku ASC") }).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") })
}

// FindByID finds a product with its relations
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var p catalog.Product
	if err := r.withRelations(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// FindBySlug finds a product by slug
func (r *GormProductRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	var p catalog.Product
	if err := r.withRelations(ctx).First(&p, "slug = ?", slug).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// FindAll lists products newest first
func (r *GormProductRepository) FindAll(ctx context.Context, filter catalog.ProductFilter) ([]catalog.Product, error) {
	query := r.withRelations(ctx)
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filter.CollectionID != nil {
		query = query.Where("collection_id = ?", *filter.CollectionID)
	}

	var products []catalog.Product
	if err := query.Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Create inserts the product with its variants and images. The
// collection row is never written through the association.
func (r *GormProductRepository) Create(ctx context.Context, p *catalog.Product) error {
	return writeError(r.db.WithContext(ctx).Omit("Collection").Create(p).Error)
}

// Update writes the scalar columns, zero values included
func (r *GormProductRepository) Update(ctx context.Context, p *catalog.Product) error {
	result := r.db.WithContext(ctx).Model(p).Select(productColumns).Updates(p)
	if result.Error != nil {
		return writeError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes the product with its images and variants
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("product_id = ?", id).Delete(&catalog.ProductImage{}).Error; err != nil {
		return err
	}
	if err := db.Where("product_id = ?", id).Delete(&catalog.Variant{}).Error; err != nil {
		return err
	}
	result := db.Delete(&catalog.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ReplaceImages deletes all images of the product and inserts images
func (r *GormProductRepository) ReplaceImages(ctx context.Context, productID uuid.UUID, images []catalog.ProductImage) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("product_id = ?", productID).Delete(&catalog.ProductImage{}).Error; err != nil {
		return err
	}
	if len(images) == 0 {
		return nil
	}
	return db.Create(&images).Error
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
