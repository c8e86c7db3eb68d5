// Package profile implements customer profile use cases.
package profile

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/ServiLut/tote-bag/internal/domain/order"
	"github.com/ServiLut/tote-bag/internal/domain/profile"
	"github.com/ServiLut/tote-bag/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrProfileNotFound is returned when an authenticated user has no profile
var ErrProfileNotFound = shared.NewDomainError(shared.CodeUnauthorized, "Profile not found")

// UpdateProfileRequest is the body of PATCH /profiles/me
type UpdateProfileRequest struct {
	FirstName      *string         `json:"firstName" binding:"omitempty,max=100"`
	LastName       *string         `json:"lastName" binding:"omitempty,max=100"`
	Phone          *string         `json:"phone" binding:"omitempty,max=30"`
	DepartmentID   *uuid.UUID      `json:"departmentId"`
	MunicipalityID *uuid.UUID      `json:"municipalityId"`
	Metadata       json.RawMessage `json:"metadata"`
}

func (r UpdateProfileRequest) patch() (profile.Patch, error) {
	p := profile.Patch{
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Phone:          r.Phone,
		DepartmentID:   r.DepartmentID,
		MunicipalityID: r.MunicipalityID,
	}
	if len(r.Metadata) > 0 && string(r.Metadata) != "null" {
		var obj map[string]any
		if err := json.Unmarshal(r.Metadata, &obj); err != nil {
			return p, shared.Validationf("metadata must be a JSON object")
		}
		s := string(r.Metadata)
		p.Metadata = &s
	}
	return p, nil
}

// ListQuery carries the admin listing filters
type ListQuery struct {
	Role         profile.Role `form:"role" binding:"omitempty,oneof=ADMIN CUSTOMER"`
	Department   string       `form:"department" binding:"omitempty,uuid"`
	Municipality string       `form:"municipality" binding:"omitempty,uuid"`
}

func (q ListQuery) filter() (profile.Filter, error) {
	f := profile.Filter{Role: q.Role}
	var err error
	if f.DepartmentID, err = optionalID("department", q.Department); err != nil {
		return f, err
	}
	if f.MunicipalityID, err = optionalID("municipality", q.Municipality); err != nil {
		return f, err
	}
	return f, nil
}

func optionalID(name, raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, shared.Validationf("%s must be a valid UUID", name)
	}
	return &id, nil
}

// Detail is a profile together with its orders
type Detail struct {
	*profile.Profile
	Orders []order.Order `json:"orders"`
}

// Service handles profile operations
type Service struct {
	repo   profile.Repository
	orders order.Repository
	logger *zap.Logger
}

// NewService creates a new profile Service
func NewService(repo profile.Repository, orders order.Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, orders: orders, logger: logger}
}

// Resolve returns the profile of an identity user. A missing profile is
// reported as unauthorized.
func (s *Service) Resolve(ctx context.Context, userID string) (*profile.Profile, error) {
	p, err := s.repo.FindByUserID(ctx, userID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Me returns the caller's profile, creating a customer profile on first
// sight of the user
func (s *Service) Me(ctx context.Context, userID, email string) (*profile.Profile, error) {
	p, err := s.repo.FindByUserID(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	p, err = profile.NewProfile(userID, email)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, p); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			// a concurrent request provisioned it first
			return s.Resolve(ctx, userID)
		}
		return nil, err
	}
	s.logger.Info("profile provisioned", zap.String("user_id", userID))
	return p, nil
}

// UpdateMe applies a self-service patch to the caller's profile
func (s *Service) UpdateMe(ctx context.Context, userID string, req UpdateProfileRequest) (*profile.Profile, error) {
	patch, err := req.patch()
	if err != nil {
		return nil, err
	}
	p, err := s.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	p.Apply(patch)
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// List returns profiles newest first
func (s *Service) List(ctx context.Context, q ListQuery) ([]profile.Profile, error) {
	filter, err := q.filter()
	if err != nil {
		return nil, err
	}
	return s.repo.FindAll(ctx, filter)
}

// Get returns a profile with its orders newest first
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Detail, error) {
	p, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.NotFoundf("Profile with ID %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.FindAll(ctx, order.Filter{ProfileID: &id})
	if err != nil {
		return nil, err
	}
	return &Detail{Profile: p, Orders: orders}, nil
}
