package address

import (
	"context"
	"errors"
	"testing"

	"github.com/ServiLut/tote-bag/internal/domain/address"
	"github.com/ServiLut/tote-bag/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAddressRepository is a mock implementation of address.Repository
type MockAddressRepository struct {
	mock.Mock
}

func (m *MockAddressRepository) FindByID(ctx context.Context, id uuid.UUID) (*address.Address, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*address.Address), args.Error(1)
}

func (m *MockAddressRepository) FindByProfile(ctx context.Context, profileID uuid.UUID) ([]address.Address, error) {
	args := m.Called(ctx, profileID)
	return args.Get(0).([]address.Address), args.Error(1)
}

func (m *MockAddressRepository) CountByProfile(ctx context.Context, profileID uuid.UUID) (int64, error) {
	args := m.Called(ctx, profileID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAddressRepository) FindMostRecent(ctx context.Context, profileID uuid.UUID) (*address.Address, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*address.Address), args.Error(1)
}

func (m *MockAddressRepository) ClearDefault(ctx context.Context, profileID uuid.UUID) error {
	return m.Called(ctx, profileID).Error(0)
}

func (m *MockAddressRepository) SetDefault(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockAddressRepository) Save(ctx context.Context, a *address.Address) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAddressRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// inlineUnitOfWork runs fn directly against the mock repository
type inlineUnitOfWork struct {
	repo address.Repository
}

func (u inlineUnitOfWork) Do(_ context.Context, fn func(address.Repository) error) error {
	return fn(u.repo)
}

func newTestService() (*Service, *MockAddressRepository) {
	repo := new(MockAddressRepository)
	return NewService(repo, inlineUnitOfWork{repo: repo}), repo
}

func validCreateRequest() CreateAddressRequest {
	return CreateAddressRequest{
		Title:          "Casa",
		FirstName:      "Ana",
		LastName:       "Pérez",
		Phone:          "3001234567",
		DepartmentID:   uuid.New(),
		MunicipalityID: uuid.New(),
		Address:        "Calle 10 # 43-12",
	}
}

func storedAddress(profileID uuid.UUID, isDefault bool) *address.Address {
	return &address.Address{
		BaseEntity:     shared.NewBaseEntity(),
		ProfileID:      profileID,
		Title:          "Casa",
		FirstName:      "Ana",
		LastName:       "Pérez",
		Phone:          "3001234567",
		Address:        "Calle 10",
		DepartmentID:   uuid.New(),
		MunicipalityID: uuid.New(),
		IsDefault:      isDefault,
	}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	profileID := uuid.New()

	t.Run("first address becomes default", func(t *testing.T) {
		svc, repo := newTestService()
		repo.On("CountByProfile", ctx, profileID).Return(int64(0), nil)
		repo.On("Save", ctx, mock.MatchedBy(func(a *address.Address) bool { return a.IsDefault })).Return(nil)
		repo.On("FindByID", ctx, mock.Anything).Return(storedAddress(profileID, true), nil)

		got, err := svc.Create(ctx, profileID, validCreateRequest())
		require.NoError(t, err)
		assert.True(t, got.IsDefault)
		repo.AssertNotCalled(t, "ClearDefault", mock.Anything, mock.Anything)
		repo.AssertExpectations(t)
	})

	t.Run("later address is not default unless asked", func(t *testing.T) {
		svc, repo := newTestService()
		repo.On("CountByProfile", ctx, profileID).Return(int64(2), nil)
		repo.On("Save", ctx, mock.MatchedBy(func(a *address.Address) bool { return !a.IsDefault })).Return(nil)
		repo.On("FindByID", ctx, mock.Anything).Return(storedAddress(profileID, false), nil)

		_, err := svc.Create(ctx, profileID, validCreateRequest())
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("explicit default clears the others first", func(t *testing.T) {
		svc, repo := newTestService()
		var calls []string
		repo.On("ClearDefault", ctx, profileID).Run(func(mock.Arguments) { calls = append(calls, "clear") }).Return(nil)
		repo.On("CountByProfile", ctx, profileID).Return(int64(1), nil)
		repo.On("Save", ctx, mock.MatchedBy(func(a *address.Address) bool { return a.IsDefault })).
			Run(func(mock.Arguments) { calls = append(calls, "save") }).Return(nil)
		repo.On("FindByID", ctx, mock.Anything).Return(storedAddress(profileID, true), nil)

		req := validCreateRequest()
		req.IsDefault = true
		_, err := svc.Create(ctx, profileID, req)
		require.NoError(t, err)
		assert.Equal(t, []string{"clear", "save"}, calls)
	})

	t.Run("invalid fields", func(t *testing.T) {
		svc, repo := newTestService()
		req := validCreateRequest()
		req.Title = " "

		_, err := svc.Create(ctx, profileID, req)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, shared.CodeValidation, de.Code)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("save failure is returned", func(t *testing.T) {
		svc, repo := newTestService()
		repo.On("CountByProfile", ctx, profileID).Return(int64(0), nil)
		repo.On("Save", ctx, mock.Anything).Return(errors.New("db down"))

		_, err := svc.Create(ctx, profileID, validCreateRequest())
		assert.EqualError(t, err, "db down")
	})
}

func TestService_Get(t *testing.T) {
	ctx := context.Background()
	profileID := uuid.New()

	t.Run("not found", func(t *testing.T) {
		svc, repo := newTestService()
		id := uuid.New()
		repo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := svc.Get(ctx, id, profileID)
		assert.EqualError(t, err, "Address with ID "+id.String()+" not found")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("foreign address", func(t *testing.T) {
		svc, repo := newTestService()
		a := storedAddress(uuid.New(), true)
		repo.On("FindByID", ctx, a.ID).Return(a, nil)

		_, err := svc.Get(ctx, a.ID, profileID)
		assert.EqualError(t, err, "You do not have permission to access this address")
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("own address", func(t *testing.T) {
		svc, repo := newTestService()
		a := storedAddress(profileID, true)
		repo.On("FindByID", ctx, a.ID).Return(a, nil)

		got, err := svc.Get(ctx, a.ID, profileID)
		require.NoError(t, err)
		assert.Equal(t, a.ID, got.ID)
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	profileID := uuid.New()
	yes, no := true, false

	t.Run("promotion clears other defaults", func(t *testing.T) {
		svc, repo := newTestService()
		a := storedAddress(profileID, false)
		repo.On("FindByID", ctx, a.ID).Return(a, nil)
		repo.On("ClearDefault", ctx, profileID).Return(nil).Once()
		repo.On("Save", ctx, mock.MatchedBy(func(s *address.Address) bool { return s.IsDefault })).Return(nil)

		got, err := svc.Update(ctx, a.ID, profileID, UpdateAddressRequest{IsDefault: &yes})
		require.NoError(t, err)
		assert.True(t, got.IsDefault)
		repo.AssertExpectations(t)
	})

	t.Run("already default does not clear", func(t *testing.T) {
		svc, repo := newTestService()
		a := storedAddress(profileID, true)
		repo.On("FindByID", ctx, a.ID).Return(a, nil)
		repo.On("Save", ctx, a).Return(nil)

		_, err := svc.Update(ctx, a.ID, profileID, UpdateAddressRequest{IsDefault: &yes})
		require.NoError(t, err)
		repo.AssertNotCalled(t, "ClearDefault", mock.Anything, mock.Anything)
	})

	t.Run("unsetting the current default is ignored", func(t *testing.T) {
		svc, repo := newTestService()
		a := storedAddress(profileID, true)
		title := "Oficina"
		repo.On("FindByID", ctx, a.ID).Return(a, nil)
		repo.On("Save", ctx, mock.MatchedBy(func(s *address.Address) bool {
			return s.IsDefault && s.Title == "Oficina"
		})).Return(nil)

		_, err := svc.Update(ctx, a.ID, profileID, UpdateAddressRequest{Title: &title, IsDefault: &no})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("foreign address", func(t *testing.T) {
		svc, repo := newTestService()
		a := storedAddress(uuid.New(), false)
		repo.On("FindByID", ctx, a.ID).Return(a, nil)

		_, err := svc.Update(ctx, a.ID, profileID, UpdateAddressRequest{IsDefault: &yes})
		assert.EqualError(t, err, "You do not have permission to update this address")
		repo.AssertNotCalled(t, "ClearDefault", mock.Anything, mock.Anything)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	profileID := uuid.New()

	t.Run("deleting the default promotes the most recent", func(t *testing.T) {
		svc, repo := newTestService()
		a := storedAddress(profileID, true)
		next := storedAddress(profileID, false)
		repo.On("FindByID", ctx, a.ID).Return(a, nil)
		repo.On("Delete", ctx, a.ID).Return(nil)
		repo.On("FindMostRecent", ctx, profileID).Return(next, nil)
		repo.On("SetDefault", ctx, next.ID).Return(nil)

		require.NoError(t, svc.Delete(ctx, a.ID, profileID))
		repo.AssertExpectations(t)
	})

	t.Run("deleting the last address leaves no default", func(t *testing.T) {
		svc, repo := newTestService()
		a := storedAddress(profileID, true)
		repo.On("FindByID", ctx, a.ID).Return(a, nil)
		repo.On("Delete", ctx, a.ID).Return(nil)
		repo.On("FindMostRecent", ctx, profileID).Return(nil, shared.ErrNotFound)

		require.NoError(t, svc.Delete(ctx, a.ID, profileID))
		repo.AssertNotCalled(t, "SetDefault", mock.Anything, mock.Anything)
	})

	t.Run("deleting a non-default address", func(t *testing.T) {
		svc, repo := newTestService()
		a := storedAddress(profileID, false)
		repo.On("FindByID", ctx, a.ID).Return(a, nil)
		repo.On("Delete", ctx, a.ID).Return(nil)

		require.NoError(t, svc.Delete(ctx, a.ID, profileID))
		repo.AssertNotCalled(t, "FindMostRecent", mock.Anything, mock.Anything)
	})

	t.Run("foreign address", func(t *testing.T) {
		svc, repo := newTestService()
		a := storedAddress(uuid.New(), true)
		repo.On("FindByID", ctx, a.ID).Return(a, nil)

		err := svc.Delete(ctx, a.ID, profileID)
		assert.EqualError(t, err, "You do not have permission to delete this address")
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
