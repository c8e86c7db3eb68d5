package profile

import (
	"context"
	"strings"

	"github.com/ServiLut/tote-bag/internal/domain/shared"
	"github.com/google/uuid"
)

// Role is the authorization role of a profile
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleCustomer Role = "CUSTOMER"
)

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleCustomer
}

// Profile is the store-side record of an identity-provider user
type Profile struct {
	shared.BaseEntity
	UserID         string     `gorm:"type:varchar(64);not null;uniqueIndex" json:"userId"`
	Email          string     `gorm:"type:varchar(200)" json:"email"`
	FirstName      string     `gorm:"type:varchar(100)" json:"firstName"`
	LastName       string     `gorm:"type:varchar(100)" json:"lastName"`
	Phone          string     `gorm:"type:varchar(30)" json:"phone"`
	Role           Role       `gorm:"type:varchar(20);not null;default:'CUSTOMER';index" json:"role"`
	DepartmentID   *uuid.UUID `gorm:"type:uuid;index" json:"departmentId,omitempty"`
	MunicipalityID *uuid.UUID `gorm:"type:uuid;index" json:"municipalityId,omitempty"`
	Metadata       *string    `gorm:"type:jsonb" json:"-"`
}

// TableName returns the table name for GORM
func (Profile) TableName() string {
	return "profiles"
}

// NewProfile creates a customer profile for an identity user
func NewProfile(userID, email string) (*Profile, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "User ID cannot be empty")
	}
	return &Profile{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		Email:      email,
		Role:       RoleCustomer,
	}, nil
}

// IsAdmin reports whether the profile has the ADMIN role
func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Patch holds the self-service editable fields of a profile
type Patch struct {
	FirstName      *string
	LastName       *string
	Phone          *string
	DepartmentID   *uuid.UUID
	MunicipalityID *uuid.UUID
	Metadata       *string
}

// Apply copies the non-nil fields of the patch onto the profile
func (p *Profile) Apply(patch Patch) {
	if patch.FirstName != nil {
		p.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		p.LastName = *patch.LastName
	}
	if patch.Phone != nil {
		p.Phone = *patch.Phone
	}
	if patch.DepartmentID != nil {
		p.DepartmentID = patch.DepartmentID
	}
	if patch.MunicipalityID != nil {
		p.MunicipalityID = patch.MunicipalityID
	}
	if patch.Metadata != nil {
		p.Metadata = patch.Metadata
	}
	p.Touch()
}

// Filter narrows the admin profile listing
type Filter struct {
	Role           Role
	DepartmentID   *uuid.UUID
	MunicipalityID *uuid.UUID
}

// Repository defines persistence operations for profiles
type Repository interface {
	// FindByID returns shared.ErrNotFound when absent
	FindByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	// FindByUserID looks a profile up by identity-provider user id
	FindByUserID(ctx context.Context, userID string) (*Profile, error)
	// FindAll lists profiles matching the filter, newest first
	FindAll(ctx context.Context, filter Filter) ([]Profile, error)
	// Save inserts or updates a profile
	Save(ctx context.Context, p *Profile) error
}
