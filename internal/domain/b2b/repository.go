package b2b

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for quotes
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Quote, error)
	// FindAll lists quotes newest first
	FindAll(ctx context.Context) ([]Quote, error)
	Create(ctx context.Context, q *Quote) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	CountByStatus(ctx context.Context, status Status) (int64, error)
}
