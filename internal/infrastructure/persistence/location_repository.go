package persistence

import (
	"context"

	"github.com/ServiLut/tote-bag/internal/domain/location"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormLocationRepository reads department and municipality reference data
type GormLocationRepository struct {
	db *gorm.DB
}

// NewGormLocationRepository creates a new GormLocationRepository
func NewGormLocationRepository(db *gorm.DB) *GormLocationRepository {
	return &GormLocationRepository{db: db}
}

// ListDepartments returns every department ordered by name
func (r *GormLocationRepository) ListDepartments(ctx context.Context) ([]location.Department, error) {
	var departments []location.Department
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&departments).Error; err != nil {
		return nil, err
	}
	return departments, nil
}

// ListMunicipalities returns a department's municipalities ordered by name
func (r *GormLocationRepository) ListMunicipalities(ctx context.Context, departmentID uuid.UUID) ([]location.Municipality, error) {
	var municipalities []location.Municipality
	err := r.db.WithContext(ctx).
		Where("department_id = ?", departmentID).
		Order("name ASC").
		Find(&municipalities).Error
	if err != nil {
		return nil, err
	}
	return municipalities, nil
}

var _ location.Repository = (*GormLocationRepository)(nil)
