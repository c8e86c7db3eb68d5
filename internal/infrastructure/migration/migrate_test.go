package migration

import (
	"errors"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type mockEngine struct {
	mock.Mock
}

func (m *mockEngine) Up() error { return m.Called().Error(0) }
func (m *mockEngine) Down() error { return m.Called().Error(0) }
func (m *mockEngine) Steps(n int) error { return m.Called(n).Error(0) }
func (m *mockEngine) Migrate(v uint) error { return m.Called(v).Error(0) }
func (m *mockEngine) Force(v int) error { return m.Called(v).Error(0) }
func (m *mockEngine) Close() (error, error) { args := m.Called(); return args.Error(0), args.Error(1) }
func (m *mockEngine) Version() (uint, bool, error) {
	args := m.Called()
	return args.Get(0).(uint), args.Bool(1), args.Error(2)
}

func newTestMigrator(logger *zap.Logger) (*Migrator, *mockEngine) {
	e := new(mockEngine)
	return &Migrator{migrate: e, logger: logger}, e
}

func TestMigrator_Up(t *testing.T) {
	t.Run("applies and logs version", func(t *testing.T) {
		core, logs := observer.New(zap.InfoLevel)
		m, e := newTestMigrator(zap.New(core))
		e.On("Up").Return(nil)
		e.On("Version").Return(uint(3), false, nil)

		require.NoError(t, m.Up())
		entries := logs.FilterMessage("Migrations completed").All()
		require.Len(t, entries, 1)
		assert.Equal(t, uint64(3), entries[0].ContextMap()["version"])
	})

	t.Run("no change is not an error", func(t *testing.T) {
		m, e := newTestMigrator(zap.NewNop())
		e.On("Up").Return(migrate.ErrNoChange)

		require.NoError(t, m.Up())
		e.AssertNotCalled(t, "Version")
	})

	t.Run("failure is wrapped", func(t *testing.T) {
		m, e := newTestMigrator(zap.NewNop())
		e.On("Up").Return(errors.New("syntax error at or near"))

		err := m.Up()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "migration up failed")
	})
}

func TestMigrator_Version(t *testing.T) {
	t.Run("never migrated", func(t *testing.T) {
		m, e := newTestMigrator(zap.NewNop())
		e.On("Version").Return(uint(0), false, migrate.ErrNilVersion)

		v, dirty, err := m.Version()
		require.NoError(t, err)
		assert.Zero(t, v)
		assert.False(t, dirty)
	})

	t.Run("dirty", func(t *testing.T) {
		m, e := newTestMigrator(zap.NewNop())
		e.On("Version").Return(uint(2), true, nil)

		v, dirty, err := m.Version()
		require.NoError(t, err)
		assert.Equal(t, uint(2), v)
		assert.True(t, dirty)
	})
}

func TestMigrator_StepsDownGoToForce(t *testing.T) {
	m, e := newTestMigrator(zap.NewNop())
	e.On("Steps", -1).Return(nil)
	e.On("Version").Return(uint(1), false, nil)
	e.On("Down").Return(migrate.ErrNoChange)
	e.On("Migrate", uint(2)).Return(migrate.ErrNoChange)
	e.On("Force", 1).Return(nil)
	e.On("Close").Return(nil, nil)

	require.NoError(t, m.Steps(-1))
	require.NoError(t, m.Down())
	require.NoError(t, m.GoTo(2))
	require.NoError(t, m.Force(1))
	require.NoError(t, m.Close())
	e.AssertExpectations(t)
}

func TestMigrator_CloseErrors(t *testing.T) {
	m, e := newTestMigrator(zap.NewNop())
	e.On("Close").Return(nil, errors.New("connection reset"))

	err := m.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to close database")
}
