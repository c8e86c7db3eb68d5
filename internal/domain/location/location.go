// Package location holds the Colombian department and municipality
// reference data. Rows are seeded once and never written by the API.
package location

import (
	"context"

	"github.com/google/uuid"
)

// Department is a first-level administrative division
type Department struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Code string    `gorm:"type:varchar(10);not null;uniqueIndex" json:"code"`
	Name string    `gorm:"type:varchar(100);not null" json:"name"`
}

// TableName returns the table name for GORM
func (Department) TableName() string {
	return "departments"
}

// Municipality belongs to exactly one department
type Municipality struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Code         string    `gorm:"type:varchar(10);not null;uniqueIndex" json:"code"`
	Name         string    `gorm:"type:varchar(100);not null" json:"name"`
	DepartmentID uuid.UUID `gorm:"type:uuid;not null;index" json:"departmentId"`
}

// TableName returns the table name for GORM
func (Municipality) TableName() string {
	return "municipalities"
}

// Repository reads location reference data
type Repository interface {
	// ListDepartments returns every department ordered by name
	ListDepartments(ctx context.Context) ([]Department, error)
	// ListMunicipalities returns the municipalities of a department ordered by name
	ListMunicipalities(ctx context.Context, departmentID uuid.UUID) ([]Municipality, error)
}
