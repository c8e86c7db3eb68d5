package audit

import (
	"context"

	"github.com/ServiLut/tote-bag/internal/domain/shared"
	"github.com/google/uuid"
)

// Filter narrows audit listings; empty fields match everything
type Filter struct {
	Entity string
	Action string
	UserID string
	// SortBy and SortOrder are validated by the repository; the default
	// is newest first
	SortBy    string
	SortOrder string
}

// Repository is append-only: there is no update or delete
type Repository interface {
	Create(ctx context.Context, l *Log) error
	FindByID(ctx context.Context, id uuid.UUID) (*Log, error)
	// FindAll returns a window of matching records and the total number
	// of matches
	FindAll(ctx context.Context, filter Filter, window shared.Window) ([]Log, int64, error)
}
