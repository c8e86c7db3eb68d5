package persistence

import (
	"context"
	"testing"

	"github.com/ServiLut/tote-bag/internal/domain/location"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormLocationRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormLocationRepository(db)
	ctx := context.Background()

	antioquia, medellin := seedLocation(t, db)
	cundinamarca := location.Department{ID: uuid.New(), Code: "25", Name: "Cundinamarca"}
	atlantico := location.Department{ID: uuid.New(), Code: "08", Name: "Atlántico"}
	require.NoError(t, db.Create(&cundinamarca).Error)
	require.NoError(t, db.Create(&atlantico).Error)

	envigado := location.Municipality{ID: uuid.New(), Code: "05266", Name: "Envigado", DepartmentID: antioquia.ID}
	soacha := location.Municipality{ID: uuid.New(), Code: "25754", Name: "Soacha", DepartmentID: cundinamarca.ID}
	require.NoError(t, db.Create(&envigado).Error)
	require.NoError(t, db.Create(&soacha).Error)

	t.Run("departments by name", func(t *testing.T) {
		departments, err := repo.ListDepartments(ctx)
		require.NoError(t, err)
		require.Len(t, departments, 3)
		assert.Equal(t, "Antioquia", departments[0].Name)
		assert.Equal(t, "Atlántico", departments[1].Name)
		assert.Equal(t, "Cundinamarca", departments[2].Name)
	})

	t.Run("municipalities of one department by name", func(t *testing.T) {
		municipalities, err := repo.ListMunicipalities(ctx, antioquia.ID)
		require.NoError(t, err)
		require.Len(t, municipalities, 2)
		assert.Equal(t, "Envigado", municipalities[0].Name)
		assert.Equal(t, medellin.ID, municipalities[1].ID)
	})

	t.Run("unknown department has none", func(t *testing.T) {
		municipalities, err := repo.ListMunicipalities(ctx, uuid.New())
		require.NoError(t, err)
		assert.Empty(t, municipalities)
	})
}
