// Package address implements the shipping address book use cases.
package address

import (
	"context"
	"errors"

	"github.com/ServiLut/tote-bag/internal/domain/address"
	"github.com/ServiLut/tote-bag/internal/domain/shared"
	"github.com/google/uuid"
)

// Service manages a profile's addresses. Every mutation that touches the
// default flag runs in one unit of work so the profile keeps exactly one
// default address.
type Service struct {
	repo address.Repository
	uow  shared.UnitOfWork[address.Repository]
}

// NewService creates a new address Service
func NewService(repo address.Repository, uow shared.UnitOfWork[address.Repository]) *Service {
	return &Service{repo: repo, uow: uow}
}

// Create adds an address. The first address of a profile always becomes
// the default.
func (s *Service) Create(ctx context.Context, profileID uuid.UUID, req CreateAddressRequest) (*address.Address, error) {
	a, err := address.NewAddress(profileID, req.fields())
	if err != nil {
		return nil, err
	}

	err = s.uow.Do(ctx, func(repo address.Repository) error {
		if req.IsDefault {
			if err := repo.ClearDefault(ctx, profileID); err != nil {
				return err
			}
		}
		count, err := repo.CountByProfile(ctx, profileID)
		if err != nil {
			return err
		}
		a.IsDefault = count == 0 || req.IsDefault
		return repo.Save(ctx, a)
	})
	if err != nil {
		return nil, err
	}

	return s.repo.FindByID(ctx, a.ID)
}

// List returns the profile's addresses, default first
func (s *Service) List(ctx context.Context, profileID uuid.UUID) ([]address.Address, error) {
	return s.repo.FindByProfile(ctx, profileID)
}

// Get returns one address owned by the profile
func (s *Service) Get(ctx context.Context, id, profileID uuid.UUID) (*address.Address, error) {
	return s.owned(ctx, s.repo, id, profileID, address.ActionAccess)
}

// Update applies a partial update. Promoting an address to default clears
// the flag on the profile's other addresses first.
func (s *Service) Update(ctx context.Context, id, profileID uuid.UUID, req UpdateAddressRequest) (*address.Address, error) {
	patch := req.patch()
	err := s.uow.Do(ctx, func(repo address.Repository) error {
		a, err := s.owned(ctx, repo, id, profileID, address.ActionUpdate)
		if err != nil {
			return err
		}
		if patch.PromotesToDefault(a) {
			if err := repo.ClearDefault(ctx, profileID); err != nil {
				return err
			}
		}
		if err := a.Apply(patch); err != nil {
			return err
		}
		return repo.Save(ctx, a)
	})
	if err != nil {
		return nil, err
	}

	return s.repo.FindByID(ctx, id)
}

// Delete removes an address. When it was the default, the most recently
// created remaining address inherits the flag.
func (s *Service) Delete(ctx context.Context, id, profileID uuid.UUID) error {
	return s.uow.Do(ctx, func(repo address.Repository) error {
		a, err := s.owned(ctx, repo, id, profileID, address.ActionDelete)
		if err != nil {
			return err
		}
		if err := repo.Delete(ctx, id); err != nil {
			return err
		}
		if !a.IsDefault {
			return nil
		}

		next, err := repo.FindMostRecent(ctx, profileID)
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return repo.SetDefault(ctx, next.ID)
	})
}

func (s *Service) owned(ctx context.Context, repo address.Repository, id, profileID uuid.UUID, action address.Action) (*address.Address, error) {
	a, err := repo.FindByID(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, address.NotFound(id)
	}
	if err != nil {
		return nil, err
	}
	if err := a.CheckOwnership(profileID, action); err != nil {
		return nil, err
	}
	return a, nil
}
