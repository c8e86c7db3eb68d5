// Package location serves the department and municipality reference data.
package location

import (
	"context"

	"github.com/ServiLut/tote-bag/internal/domain/location"
	"github.com/google/uuid"
)

// Service reads location reference data
type Service struct {
	repo location.Repository
}

// NewService creates a new location Service
func NewService(repo location.Repository) *Service {
	return &Service{repo: repo}
}

// Departments returns every department ordered by name
func (s *Service) Departments(ctx context.Context) ([]location.Department, error) {
	return s.repo.ListDepartments(ctx)
}

// Municipalities returns the municipalities of a department ordered by name
func (s *Service) Municipalities(ctx context.Context, departmentID uuid.UUID) ([]location.Municipality, error) {
	return s.repo.ListMunicipalities(ctx, departmentID)
}
