package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ServiLut/tote-bag/internal/domain/address"
	"github.com/ServiLut/tote-bag/internal/domain/audit"
	"github.com/ServiLut/tote-bag/internal/domain/b2b"
	"github.com/ServiLut/tote-bag/internal/domain/catalog"
	"github.com/ServiLut/tote-bag/internal/domain/location"
	"github.com/ServiLut/tote-bag/internal/domain/order"
	"github.com/ServiLut/tote-bag/internal/domain/profile"
	"github.com/ServiLut/tote-bag/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a private in-memory SQLite database with every table
// migrated. The shared cache keeps one database across pool connections.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig(logger.Default.LogMode(logger.Silent)))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	err = db.AutoMigrate(
		&location.Department{},
		&location.Municipality{},
		&profile.Profile{},
		&address.Address{},
		&catalog.Collection{},
		&catalog.Product{},
		&catalog.Variant{},
		&catalog.ProductImage{},
		&order.Order{},
		&order.Item{},
		&b2b.Quote{},
		&audit.Log{},
	)
	require.NoError(t, err)
	return db
}

func seedLocation(t *testing.T, db *gorm.DB) (location.Department, location.Municipality) {
	t.Helper()
	dept := location.Department{ID: uuid.New(), Code: "05", Name: "Antioquia"}
	muni := location.Municipality{ID: uuid.New(), Code: "05001", Name: "Medellín", DepartmentID: dept.ID}
	require.NoError(t, db.Create(&dept).Error)
	require.NoError(t, db.Create(&muni).Error)
	return dept, muni
}

func seedProfile(t *testing.T, db *gorm.DB, userID string) *profile.Profile {
	t.Helper()
	p, err := profile.NewProfile(userID, userID+"@example.com")
	require.NoError(t, err)
	require.NoError(t, NewGormProfileRepository(db).Save(context.Background(), p))
	return p
}

func seedCollection(t *testing.T, db *gorm.DB, name string) *catalog.Collection {
	t.Helper()
	c, err := catalog.NewCollection(name)
	require.NoError(t, err)
	require.NoError(t, NewGormCollectionRepository(db).Create(context.Background(), c))
	return c
}

func seedProduct(t *testing.T, db *gorm.DB, c *catalog.Collection, name string, colors ...string) *catalog.Product {
	t.Helper()
	spec := catalog.ProductSpec{
		Name:      name,
		BasePrice: 65000,
		MinPrice:  50000,
		Images: []catalog.ImageSpec{
			{URL: "https://cdn.example.com/b.jpg", Position: 1},
			{URL: "https://cdn.example.com/a.jpg", Position: 0},
		},
	}
	for _, color := range colors {
		spec.Variants = append(spec.Variants, catalog.VariantSpec{
			SKU:   catalog.ExpectedSKU(c.Name, name, color),
			Color: color,
			Stock: 10,
		})
	}
	p, err := catalog.NewProduct(spec, c)
	require.NoError(t, err)
	require.NoError(t, NewGormProductRepository(db).Create(context.Background(), p))
	return p
}

func newTestAddress(t *testing.T, profileID uuid.UUID, dept location.Department, muni location.Municipality, title string, createdAt time.Time) *address.Address {
	t.Helper()
	a, err := address.NewAddress(profileID, address.Fields{
		Title:          title,
		FirstName:      "Ana",
		LastName:       "Pérez",
		Phone:          "3001234567",
		DepartmentID:   dept.ID,
		MunicipalityID: muni.ID,
		Address:        "Calle 10 # 43-12",
	})
	require.NoError(t, err)
	a.BaseEntity = shared.BaseEntity{ID: a.ID, CreatedAt: createdAt, UpdatedAt: createdAt}
	return a
}

func mustUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	require.NoError(t, err)
	return id
}
