package persistence

import (
	"context"

	"github.com/ServiLut/tote-bag/internal/domain/catalog"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCollectionRepository implements catalog.CollectionRepository using GORM
type GormCollectionRepository struct {
	db *gorm.DB
}

// NewGormCollectionRepository creates a new GormCollectionRepository
func NewGormCollectionRepository(db *gorm.DB) *GormCollectionRepository {
	return &GormCollectionRepository{db: db}
}

// FindByID finds a collection by its ID
func (r *GormCollectionRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Collection, error) {
	var c catalog.Collection
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// FindByNameOrSlug finds a collection by exact name or slug
func (r *GormCollectionRepository) FindByNameOrSlug(ctx context.Context, name, slug string) (*catalog.Collection, error) {
	var c catalog.Collection
	err := r.db.WithContext(ctx).
		Where("name = ? OR slug = ?", name, slug).
		Order("created_at ASC").
		First(&c).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// FindActive lists active collections by name
func (r *GormCollectionRepository) FindActive(ctx context.Context) ([]catalog.Collection, error) {
	var collections []catalog.Collection
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&collections).Error
	if err != nil {
		return nil, err
	}
	return collections, nil
}

// Create inserts a collection
func (r *GormCollectionRepository) Create(ctx context.Context, c *catalog.Collection) error {
	return writeError(r.db.WithContext(ctx).Create(c).Error)
}

var _ catalog.CollectionRepository = (*GormCollectionRepository)(nil)
