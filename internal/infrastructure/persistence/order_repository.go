package persistence

import (
	"context"
	"time"

	"github.com/ServiLut/tote-bag/internal/domain/order"
	"github.com/ServiLut/tote-bag/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("sku ASC")
	})
}

// FindByID finds an order with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var o order.Order
	if err := r.withItems(ctx).First(&o, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &o, nil
}

// FindAll lists orders newest first
func (r *GormOrderRepository) FindAll(ctx context.Context, filter order.Filter) ([]order.Order, error) {
	query := r.withItems(ctx)
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.ProfileID != nil {
		query = query.Where("profile_id = ?", *filter.ProfileID)
	}

	var orders []order.Order
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Create assigns MAX(order_number)+1 and inserts the order with its
// items. Two concurrent creates may pick the same number; the unique
// index rejects the loser with shared.ErrAlreadyExists.
func (r *GormOrderRepository) Create(ctx context.Context, o *order.Order) error {
	db := r.db.WithContext(ctx)

	var next int64
	if err := db.Model(&order.Order{}).
		Select("COALESCE(MAX(order_number), 0) + 1").
		Scan(&next).Error; err != nil {
		return err
	}
	o.OrderNumber = next

	return writeError(db.Create(o).Error)
}

// Update saves status and tracking columns
func (r *GormOrderRepository) Update(ctx context.Context, o *order.Order) error {
	result := r.db.WithContext(ctx).Model(o).
		Select("status", "tracking_number", "carrier", "updated_at").
		Updates(o)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountItemsForProduct counts order lines referencing a product
func (r *GormOrderRepository) CountItemsForProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&order.Item{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	return count, err
}

// SumQuantitySince sums item quantities across orders in statuses created
// at or after since
func (r *GormOrderRepository) SumQuantitySince(ctx context.Context, statuses []order.Status, since time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Table("order_items AS oi").
		Joins("JOIN orders o ON o.id = oi.order_id").
		Where("o.status IN ? AND o.created_at >= ?", statuses, since).
		Select("COALESCE(SUM(oi.quantity), 0)").
		Scan(&total).Error
	return total, err
}

// ProductionBatch totals quantities per SKU for orders outside excluded
func (r *GormOrderRepository) ProductionBatch(ctx context.Context, excluded []order.Status) ([]order.BatchLine, error) {
	query := r.db.WithContext(ctx).
		Table("order_items AS oi").
		Joins("JOIN orders o ON o.id = oi.order_id").
		Select("oi.sku AS sku, SUM(oi.quantity) AS total_quantity").
		Group("oi.sku").
		Order("oi.sku ASC")
	if len(excluded) > 0 {
		query = query.Where("o.status NOT IN ?", excluded)
	}

	var lines []order.BatchLine
	if err := query.Scan(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

var _ order.Repository = (*GormOrderRepository)(nil)
