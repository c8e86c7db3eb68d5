package address

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence operations for the address ledger
type Repository interface {
	// FindByID returns the address with department and municipality
	// joined, or shared.ErrNotFound
	FindByID(ctx context.Context, id uuid.UUID) (*Address, error)

	// FindByProfile lists a profile's addresses, default first, then
	// newest first
	FindByProfile(ctx context.Context, profileID uuid.UUID) ([]Address, error)

	// CountByProfile counts a profile's addresses
	CountByProfile(ctx context.Context, profileID uuid.UUID) (int64, error)

	// FindMostRecent returns the newest address of a profile, or
	// shared.ErrNotFound when the profile has none
	FindMostRecent(ctx context.Context, profileID uuid.UUID) (*Address, error)

	// ClearDefault unsets the default flag on every address of a profile
	ClearDefault(ctx context.Context, profileID uuid.UUID) error

	// SetDefault sets the default flag on one address
	SetDefault(ctx context.Context, id uuid.UUID) error

	// Save inserts or updates an address
	Save(ctx context.Context, a *Address) error

	// Delete removes an address
	Delete(ctx context.Context, id uuid.UUID) error
}
