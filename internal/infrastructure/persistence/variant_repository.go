package persistence

import (
	"context"
	"time"

	"github.com/ServiLut/tote-bag/internal/domain/catalog"
	"github.com/ServiLut/tote-bag/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormVariantRepository implements catalog.VariantRepository using GORM
type GormVariantRepository struct {
	db *gorm.DB
}

// NewGormVariantRepository creates a new GormVariantRepository
func NewGormVariantRepository(db *gorm.DB) *GormVariantRepository {
	return &GormVariantRepository{db: db}
}

// FindByProduct lists a product's variants
func (r *GormVariantRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]catalog.Variant, error) {
	var variants []catalog.Variant
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("sku ASC").
		Find(&variants).Error
	if err != nil {
		return nil, err
	}
	return variants, nil
}

// DeleteBySKU removes the variants with the given SKUs
func (r *GormVariantRepository) DeleteBySKU(ctx context.Context, skus []string) error {
	if len(skus) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("sku IN ?", skus).Delete(&catalog.Variant{}).Error
}

// UpdateBySKU rewrites color, image and stock of the variant keyed by SKU
func (r *GormVariantRepository) UpdateBySKU(ctx context.Context, v *catalog.Variant) error {
	result := r.db.WithContext(ctx).Model(&catalog.Variant{}).
		Where("sku = ?", v.SKU).
		Updates(map[string]any{
			"color":      v.Color,
			"image_url":  v.ImageURL,
			"stock":      v.Stock,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CreateBatch inserts variants
func (r *GormVariantRepository) CreateBatch(ctx context.Context, variants []catalog.Variant) error {
	if len(variants) == 0 {
		return nil
	}
	return writeError(r.db.WithContext(ctx).Create(&variants).Error)
}

// CountLowStock counts variants whose stock is below threshold
func (r *GormVariantRepository) CountLowStock(ctx context.Context, threshold int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&catalog.Variant{}).
		Where("stock < ?", threshold).
		Count(&count).Error
	return count, err
}

var _ catalog.VariantRepository = (*GormVariantRepository)(nil)
