package audit

import (
	"context"
	"errors"

	"github.com/ServiLut/tote-bag/internal/domain/audit"
	"github.com/ServiLut/tote-bag/internal/domain/shared"
	"github.com/google/uuid"
)

// MaxTake caps the page size of audit listings
const MaxTake = 200

// ListQuery carries the audit listing filters from the query string
type ListQuery struct {
	Entity string `form:"entity"`
	Action string `form:"action"`
	UserID string `form:"userId"`
	SortBy string `form:"sortBy"`
	Order  string `form:"order" binding:"omitempty,oneof=asc desc ASC DESC"`
	Skip   int    `form:"skip" binding:"min=0"`
	Take   int    `form:"take" binding:"min=0"`
}

// Service reads the audit log
type Service struct {
	repo audit.Repository
}

// NewService creates a new audit Service
func NewService(repo audit.Repository) *Service {
	return &Service{repo: repo}
}

// List returns a window of records newest first with the total count
func (s *Service) List(ctx context.Context, q ListQuery) (shared.Page[audit.Log], error) {
	window := shared.Window{Skip: q.Skip, Take: q.Take}.Normalize(MaxTake)
	logs, total, err := s.repo.FindAll(ctx, audit.Filter{
		Entity:    q.Entity,
		Action:    q.Action,
		UserID:    q.UserID,
		SortBy:    q.SortBy,
		SortOrder: q.Order,
	}, window)
	if err != nil {
		return shared.Page[audit.Log]{}, err
	}
	return shared.NewPage(logs, total, window), nil
}

// Get returns one record
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*audit.Log, error) {
	l, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.NotFoundf("Audit log with ID %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}
