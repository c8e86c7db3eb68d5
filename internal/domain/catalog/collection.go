package catalog

import (
	"strings"

	"github.com/ServiLut/tote-bag/internal/domain/shared"
)

// Collection groups products into a themed line (e.g. "Verano 2024")
type Collection struct {
	shared.BaseEntity
	Name     string `gorm:"type:varchar(150);not null;uniqueIndex" json:"name"`
	Slug     string `gorm:"type:varchar(150);not null;uniqueIndex" json:"slug"`
	IsActive bool   `gorm:"not null;default:true" json:"isActive"`
}

// TableName returns the table name for GORM
func (Collection) TableName() string {
	return "collections"
}

// NewCollection creates an active collection whose slug is derived from
// the name
func NewCollection(name string) (*Collection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.Validationf("Collection name cannot be empty")
	}
	return &Collection{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Slug:       Slugify(name),
		IsActive:   true,
	}, nil
}
