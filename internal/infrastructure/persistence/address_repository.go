package persistence

import (
	"context"

	"github.com/ServiLut/tote-bag/internal/domain/address"
	"github.com/ServiLut/tote-bag/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAddressRepository implements address.Repository using GORM
type GormAddressRepository struct {
	db *gorm.DB
}

// NewGormAddressRepository creates a new GormAddressRepository
func NewGormAddressRepository(db *gorm.DB) *GormAddressRepository {
	return &GormAddressRepository{db: db}
}

func (r *GormAddressRepository) withLocations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Department").Preload("Municipality")
}

// FindByID finds an address with its department and municipality
func (r *GormAddressRepository) FindByID(ctx context.Context, id uuid.UUID) (*address.Address, error) {
	var a address.Address
	if err := r.withLocations(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

// FindByProfile lists a profile's addresses with the default first
func (r *GormAddressRepository) FindByProfile(ctx context.Context, profileID uuid.UUID) ([]address.Address, error) {
	var addresses []address.Address
	err := r.withLocations(ctx).
		Where("profile_id = ?", profileID).
		Order("is_default DESC").
		Order("created_at DESC").
		Find(&addresses).Error
	if err != nil {
		return nil, err
	}
	return addresses, nil
}

// CountByProfile counts a profile's addresses
func (r *GormAddressRepository) CountByProfile(ctx context.Context, profileID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&address.Address{}).
		Where("profile_id = ?", profileID).
		Count(&count).Error
	return count, err
}

// FindMostRecent returns the newest address of a profile
func (r *GormAddressRepository) FindMostRecent(ctx context.Context, profileID uuid.UUID) (*address.Address, error) {
	var a address.Address
	err := r.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("created_at DESC").
		First(&a).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

// ClearDefault unsets the default flag on all of a profile's addresses
func (r *GormAddressRepository) ClearDefault(ctx context.Context, profileID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&address.Address{}).
		Where("profile_id = ? AND is_default = ?", profileID, true).
		Update("is_default", false).Error
}

// SetDefault flags one address as default
func (r *GormAddressRepository) SetDefault(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&address.Address{}).
		Where("id = ?", id).
		Update("is_default", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Save inserts or updates the address row without touching the joined
// location rows
func (r *GormAddressRepository) Save(ctx context.Context, a *address.Address) error {
	return writeError(r.db.WithContext(ctx).Omit(clause.Associations).Save(a).Error)
}

// Delete removes an address
func (r *GormAddressRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&address.Address{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ address.Repository = (*GormAddressRepository)(nil)
