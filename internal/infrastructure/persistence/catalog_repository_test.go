package persistence

import (
	"context"
	"testing"

	"github.com/ServiLut/tote-bag/internal/domain/catalog"
	"github.com/ServiLut/tote-bag/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormProductRepository_CreateAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	verano := seedCollection(t, db, "Verano")
	p := seedProduct(t, db, verano, "Palmera", "Rojo", "Azul")

	found, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "palmera", found.Slug)
	require.NotNil(t, found.Collection)
	assert.Equal(t, "Verano", found.Collection.Name)

	require.Len(t, found.Variants, 2)
	assert.Equal(t, "TB-VERANO-PALMERA-AZUL", found.Variants[0].SKU)
	assert.Equal(t, "TB-VERANO-PALMERA-ROJO", found.Variants[1].SKU)

	require.Len(t, found.Images, 2)
	assert.Equal(t, 0, found.Images[0].Position)
	assert.Equal(t, "https://cdn.example.com/a.jpg", found.Images[0].URL)

	bySlug, err := repo.FindBySlug(ctx, "palmera")
	require.NoError(t, err)
	assert.Equal(t, p.ID, bySlug.ID)

	_, err = repo.FindBySlug(ctx, "missing")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	var collections int64
	require.NoError(t, db.Model(&catalog.Collection{}).Count(&collections).Error)
	assert.Equal(t, int64(1), collections, "create never writes the collection")
}

func TestGormProductRepository_FindAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	verano := seedCollection(t, db, "Verano")
	invierno := seedCollection(t, db, "Invierno")
	seedProduct(t, db, verano, "Palmera", "Rojo")
	archived := seedProduct(t, db, verano, "Ola", "Azul")
	seedProduct(t, db, invierno, "Nieve", "Blanco")

	archived.Archive()
	require.NoError(t, repo.Update(ctx, archived))

	all, err := repo.FindAll(ctx, catalog.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	active, err := repo.FindAll(ctx, catalog.ProductFilter{ActiveOnly: true})
	require.NoError(t, err)
	assert.Len(t, active, 2)

	inVerano, err := repo.FindAll(ctx, catalog.ProductFilter{CollectionID: &verano.ID, ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, inVerano, 1)
	assert.Equal(t, "Palmera", inVerano[0].Name)
}

func TestGormProductRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	verano := seedCollection(t, db, "Verano")
	invierno := seedCollection(t, db, "Invierno")
	p := seedProduct(t, db, verano, "Palmera", "Rojo")

	price := int64(70000)
	inactive := false
	require.NoError(t, p.Apply(catalog.ProductPatch{BasePrice: &price, IsActive: &inactive}))
	p.MoveTo(invierno)
	require.NoError(t, repo.Update(ctx, p))

	found, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(70000), found.BasePrice)
	assert.False(t, found.IsActive)
	assert.Equal(t, invierno.ID, found.CollectionID)
	assert.Len(t, found.Variants, 1, "variants are not rewritten")

	ghost := &catalog.Product{BaseEntity: shared.NewBaseEntity()}
	assert.ErrorIs(t, repo.Update(ctx, ghost), shared.ErrNotFound)
}

func TestGormProductRepository_ReplaceImages(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	p := seedProduct(t, db, seedCollection(t, db, "Verano"), "Palmera")

	images := p.BuildImages([]catalog.ImageSpec{{URL: "https://cdn.example.com/new.jpg"}})
	require.NoError(t, repo.ReplaceImages(ctx, p.ID, images))

	found, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, found.Images, 1)
	assert.Equal(t, "https://cdn.example.com/new.jpg", found.Images[0].URL)

	require.NoError(t, repo.ReplaceImages(ctx, p.ID, nil))
	found, err = repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, found.Images)
}

func TestGormProductRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	p := seedProduct(t, db, seedCollection(t, db, "Verano"), "Palmera", "Rojo", "Azul")

	require.NoError(t, repo.Delete(ctx, p.ID))

	_, err := repo.FindByID(ctx, p.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	var variants, images int64
	require.NoError(t, db.Model(&catalog.Variant{}).Count(&variants).Error)
	require.NoError(t, db.Model(&catalog.ProductImage{}).Count(&images).Error)
	assert.Zero(t, variants)
	assert.Zero(t, images)

	assert.ErrorIs(t, repo.Delete(ctx, p.ID), shared.ErrNotFound)
}

func TestGormVariantRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormVariantRepository(db)
	ctx := context.Background()

	verano := seedCollection(t, db, "Verano")
	p := seedProduct(t, db, verano, "Palmera", "Rojo", "Azul")

	t.Run("update by sku", func(t *testing.T) {
		v := p.NewVariant(catalog.VariantSpec{SKU: "TB-VERANO-PALMERA-ROJO", Color: "Rojo", Stock: 2})
		require.NoError(t, repo.UpdateBySKU(ctx, v))

		variants, err := repo.FindByProduct(ctx, p.ID)
		require.NoError(t, err)
		require.Len(t, variants, 2)
		assert.Equal(t, 2, variants[1].Stock)

		missing := p.NewVariant(catalog.VariantSpec{SKU: "TB-NOPE"})
		assert.ErrorIs(t, repo.UpdateBySKU(ctx, missing), shared.ErrNotFound)
	})

	t.Run("count low stock", func(t *testing.T) {
		count, err := repo.CountLowStock(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("create batch rejects a taken sku", func(t *testing.T) {
		dup := p.NewVariant(catalog.VariantSpec{SKU: "TB-VERANO-PALMERA-AZUL", Color: "Azul"})
		err := repo.CreateBatch(ctx, []catalog.Variant{*dup})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("delete and create", func(t *testing.T) {
		require.NoError(t, repo.DeleteBySKU(ctx, []string{"TB-VERANO-PALMERA-AZUL"}))
		green := p.NewVariant(catalog.VariantSpec{SKU: "TB-VERANO-PALMERA-VERDE", Color: "Verde", Stock: 7})
		require.NoError(t, repo.CreateBatch(ctx, []catalog.Variant{*green}))
		require.NoError(t, repo.DeleteBySKU(ctx, nil))
		require.NoError(t, repo.CreateBatch(ctx, nil))

		variants, err := repo.FindByProduct(ctx, p.ID)
		require.NoError(t, err)
		skus := []string{variants[0].SKU, variants[1].SKU}
		assert.Equal(t, []string{"TB-VERANO-PALMERA-ROJO", "TB-VERANO-PALMERA-VERDE"}, skus)
	})
}

func TestGormCollectionRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCollectionRepository(db)
	ctx := context.Background()

	verano := seedCollection(t, db, "Verano 2024")
	seedCollection(t, db, "Invierno")

	byName, err := repo.FindByNameOrSlug(ctx, "Verano 2024", "nope")
	require.NoError(t, err)
	assert.Equal(t, verano.ID, byName.ID)

	bySlug, err := repo.FindByNameOrSlug(ctx, "nope", "verano-2024")
	require.NoError(t, err)
	assert.Equal(t, verano.ID, bySlug.ID)

	_, err = repo.FindByNameOrSlug(ctx, "Otoño", "otoo")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)

	hidden, err := catalog.NewCollection("Oculta")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, hidden))
	require.NoError(t, db.Model(hidden).Update("is_active", false).Error)

	active, err := repo.FindActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "Invierno", active[0].Name)

	dup, err := catalog.NewCollection("Invierno")
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Create(ctx, dup), shared.ErrAlreadyExists)
}
