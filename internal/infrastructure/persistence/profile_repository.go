package persistence

import (
	"context"

	"github.com/ServiLut/tote-bag/internal/domain/profile"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProfileRepository implements profile.Repository using GORM
type GormProfileRepository struct {
	db *gorm.DB
}

// NewGormProfileRepository creates a new GormProfileRepository
func NewGormProfileRepository(db *gorm.DB) *GormProfileRepository {
	return &GormProfileRepository{db: db}
}

// FindByID finds a profile by its ID
func (r *GormProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	var p profile.Profile
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// FindByUserID finds a profile by identity user id
func (r *GormProfileRepository) FindByUserID(ctx context.Context, userID string) (*profile.Profile, error) {
	var p profile.Profile
	if err := r.db.WithContext(ctx).First(&p, "user_id = ?", userID).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// FindAll lists profiles matching filter, newest first
func (r *GormProfileRepository) FindAll(ctx context.Context, filter profile.Filter) ([]profile.Profile, error) {
	query := r.db.WithContext(ctx).Model(&profile.Profile{})
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.DepartmentID != nil {
		query = query.Where("department_id = ?", *filter.DepartmentID)
	}
	if filter.MunicipalityID != nil {
		query = query.Where("municipality_id = ?", *filter.MunicipalityID)
	}

	var profiles []profile.Profile
	if err := query.Order("created_at DESC").Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

// Save inserts or updates a profile
func (r *GormProfileRepository) Save(ctx context.Context, p *profile.Profile) error {
	return writeError(r.db.WithContext(ctx).Save(p).Error)
}

var _ profile.Repository = (*GormProfileRepository)(nil)
