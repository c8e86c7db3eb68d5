package persistence

import (
	"context"

	"github.com/ServiLut/tote-bag/internal/domain/b2b"
	"github.com/ServiLut/tote-bag/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormQuoteRepository implements b2b.Repository using GORM
type GormQuoteRepository struct {
	db *gorm.DB
}

// NewGormQuoteRepository creates a new GormQuoteRepository
func NewGormQuoteRepository(db *gorm.DB) *GormQuoteRepository {
	return &GormQuoteRepository{db: db}
}

// FindByID finds a quote by its ID
func (r *GormQuoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*b2b.Quote, error) {
	var q b2b.Quote
	if err := r.db.WithContext(ctx).First(&q, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &q, nil
}

// FindAll lists quotes newest first
func (r *GormQuoteRepository) FindAll(ctx context.Context) ([]b2b.Quote, error) {
	var quotes []b2b.Quote
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&quotes).Error; err != nil {
		return nil, err
	}
	return quotes, nil
}

// Create inserts a quote
func (r *GormQuoteRepository) Create(ctx context.Context, q *b2b.Quote) error {
	return writeError(r.db.WithContext(ctx).Create(q).Error)
}

// UpdateStatus sets the status of a quote
func (r *GormQuoteRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status b2b.Status) error {
	result := r.db.WithContext(ctx).Model(&b2b.Quote{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountByStatus counts quotes in a status
func (r *GormQuoteRepository) CountByStatus(ctx context.Context, status b2b.Status) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&b2b.Quote{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

var _ b2b.Repository = (*GormQuoteRepository)(nil)
