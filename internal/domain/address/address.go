// Package address models the per-customer shipping address ledger.
//
// A profile owns zero or more addresses. Whenever it owns at least one,
// exactly one of them carries the default flag.
package address

import (
	"fmt"
	"strings"

	"github.com/ServiLut/tote-bag/internal/domain/location"
	"github.com/ServiLut/tote-bag/internal/domain/shared"
	"github.com/google/uuid"
)

// Address is a shipping address owned by a profile
type Address struct {
	shared.BaseEntity
	ProfileID      uuid.UUID `gorm:"type:uuid;not null;index" json:"profileId"`
	Title          string    `gorm:"type:varchar(100);not null" json:"title"`
	FirstName      string    `gorm:"type:varchar(100);not null" json:"firstName"`
	LastName       string    `gorm:"type:varchar(100);not null" json:"lastName"`
	Phone          string    `gorm:"type:varchar(30);not null" json:"phone"`
	DepartmentID   uuid.UUID `gorm:"type:uuid;not null" json:"departmentId"`
	MunicipalityID uuid.UUID `gorm:"type:uuid;not null" json:"municipalityId"`
	Address        string    `gorm:"type:varchar(300);not null" json:"address"`
	Neighborhood   string    `gorm:"type:varchar(150)" json:"neighborhood,omitempty"`
	AdditionalInfo string    `gorm:"type:varchar(300)" json:"additionalInfo,omitempty"`
	IsDefault      bool      `gorm:"not null;default:false" json:"isDefault"`

	Department   *location.Department   `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Municipality *location.Municipality `gorm:"foreignKey:MunicipalityID" json:"municipality,omitempty"`
}

// TableName returns the table name for GORM
func (Address) TableName() string {
	return "addresses"
}

// Fields carries the user-supplied content of an address
type Fields struct {
	Title          string
	FirstName      string
	LastName       string
	Phone          string
	DepartmentID   uuid.UUID
	MunicipalityID uuid.UUID
	Address        string
	Neighborhood   string
	AdditionalInfo string
}

func (f Fields) validate() error {
	required := map[string]string{
		"title":     f.Title,
		"firstName": f.FirstName,
		"lastName":  f.LastName,
		"phone":     f.Phone,
		"address":   f.Address,
	}
	for _, name := range []string{"title", "firstName", "lastName", "phone", "address"} {
		if strings.TrimSpace(required[name]) == "" {
			return shared.Validationf("%s cannot be empty", name)
		}
	}
	if f.DepartmentID == uuid.Nil {
		return shared.Validationf("departmentId is required")
	}
	if f.MunicipalityID == uuid.Nil {
		return shared.Validationf("municipalityId is required")
	}
	return nil
}

// NewAddress creates a non-default address for a profile. The ledger
// decides the final default flag.
func NewAddress(profileID uuid.UUID, f Fields) (*Address, error) {
	if profileID == uuid.Nil {
		return nil, shared.Validationf("profileId is required")
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &Address{
		BaseEntity:     shared.NewBaseEntity(),
		ProfileID:      profileID,
		Title:          f.Title,
		FirstName:      f.FirstName,
		LastName:       f.LastName,
		Phone:          f.Phone,
		DepartmentID:   f.DepartmentID,
		MunicipalityID: f.MunicipalityID,
		Address:        f.Address,
		Neighborhood:   f.Neighborhood,
		AdditionalInfo: f.AdditionalInfo,
	}, nil
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	Title          *string
	FirstName      *string
	LastName       *string
	Phone          *string
	DepartmentID   *uuid.UUID
	MunicipalityID *uuid.UUID
	Address        *string
	Neighborhood   *string
	AdditionalInfo *string
	IsDefault      *bool
}

// PromotesToDefault reports whether applying the patch turns a
// non-default address into the default one
func (p Patch) PromotesToDefault(current *Address) bool {
	return p.IsDefault != nil && *p.IsDefault && !current.IsDefault
}

// Apply copies the patch onto the address. Clearing the flag of the
// current default is ignored since the ledger would be left without one.
func (a *Address) Apply(p Patch) error {
	next := Fields{
		Title:          pick(p.Title, a.Title),
		FirstName:      pick(p.FirstName, a.FirstName),
		LastName:       pick(p.LastName, a.LastName),
		Phone:          pick(p.Phone, a.Phone),
		DepartmentID:   pickID(p.DepartmentID, a.DepartmentID),
		MunicipalityID: pickID(p.MunicipalityID, a.MunicipalityID),
		Address:        pick(p.Address, a.Address),
		Neighborhood:   pick(p.Neighborhood, a.Neighborhood),
		AdditionalInfo: pick(p.AdditionalInfo, a.AdditionalInfo),
	}
	if err := next.validate(); err != nil {
		return err
	}

	a.Title = next.Title
	a.FirstName = next.FirstName
	a.LastName = next.LastName
	a.Phone = next.Phone
	if next.DepartmentID != a.DepartmentID {
		a.DepartmentID = next.DepartmentID
		a.Department = nil
	}
	if next.MunicipalityID != a.MunicipalityID {
		a.MunicipalityID = next.MunicipalityID
		a.Municipality = nil
	}
	a.Address = next.Address
	a.Neighborhood = next.Neighborhood
	a.AdditionalInfo = next.AdditionalInfo
	if p.IsDefault != nil && *p.IsDefault {
		a.IsDefault = true
	}
	a.Touch()
	return nil
}

// Action names the operation in ownership error messages
type Action string

const (
	ActionAccess Action = "access"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// CheckOwnership fails with FORBIDDEN when the address belongs to
// another profile
func (a *Address) CheckOwnership(profileID uuid.UUID, action Action) error {
	if a.ProfileID != profileID {
		return shared.Forbiddenf("You do not have permission to %s this address", action)
	}
	return nil
}

// NotFound is the error returned for an unknown address id
func NotFound(id uuid.UUID) error {
	return shared.NewDomainError(shared.CodeNotFound, fmt.Sprintf("Address with ID %s not found", id))
}

func pick(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}

func pickID(v *uuid.UUID, fallback uuid.UUID) uuid.UUID {
	if v == nil {
		return fallback
	}
	return *v
}
