package address

import (
	"github.com/ServiLut/tote-bag/internal/domain/address"
	"github.com/google/uuid"
)

// CreateAddressRequest is the body of POST /addresses
type CreateAddressRequest struct {
	Title          string    `json:"title" binding:"required,min=1,max=100"`
	FirstName      string    `json:"firstName" binding:"required,min=1,max=100"`
	LastName       string    `json:"lastName" binding:"required,min=1,max=100"`
	Phone          string    `json:"phone" binding:"required,min=7,max=30"`
	DepartmentID   uuid.UUID `json:"departmentId" binding:"required"`
	MunicipalityID uuid.UUID `json:"municipalityId" binding:"required"`
	Address        string    `json:"address" binding:"required,min=1,max=300"`
	Neighborhood   string    `json:"neighborhood" binding:"max=150"`
	AdditionalInfo string    `json:"additionalInfo" binding:"max=300"`
	IsDefault      bool      `json:"isDefault"`
}

func (r CreateAddressRequest) fields() address.Fields {
	return address.Fields{
		Title:          r.Title,
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Phone:          r.Phone,
		DepartmentID:   r.DepartmentID,
		MunicipalityID: r.MunicipalityID,
		Address:        r.Address,
		Neighborhood:   r.Neighborhood,
		AdditionalInfo: r.AdditionalInfo,
	}
}

// UpdateAddressRequest is the body of PATCH /addresses/:id
type UpdateAddressRequest struct {
	Title          *string    `json:"title" binding:"omitempty,min=1,max=100"`
	FirstName      *string    `json:"firstName" binding:"omitempty,min=1,max=100"`
	LastName       *string    `json:"lastName" binding:"omitempty,min=1,max=100"`
	Phone          *string    `json:"phone" binding:"omitempty,min=7,max=30"`
	DepartmentID   *uuid.UUID `json:"departmentId"`
	MunicipalityID *uuid.UUID `json:"municipalityId"`
	Address        *string    `json:"address" binding:"omitempty,min=1,max=300"`
	Neighborhood   *string    `json:"neighborhood" binding:"omitempty,max=150"`
	AdditionalInfo *string    `json:"additionalInfo" binding:"omitempty,max=300"`
	IsDefault      *bool      `json:"isDefault"`
}

func (r UpdateAddressRequest) patch() address.Patch {
	return address.Patch{
		Title:          r.Title,
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Phone:          r.Phone,
		DepartmentID:   r.DepartmentID,
		MunicipalityID: r.MunicipalityID,
		Address:        r.Address,
		Neighborhood:   r.Neighborhood,
		AdditionalInfo: r.AdditionalInfo,
		IsDefault:      r.IsDefault,
	}
}
