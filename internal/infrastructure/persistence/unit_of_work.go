package persistence

import (
	"context"

	"github.com/ServiLut/tote-bag/internal/domain/address"
	"github.com/ServiLut/tote-bag/internal/domain/catalog"
	"github.com/ServiLut/tote-bag/internal/domain/order"
	"github.com/ServiLut/tote-bag/internal/domain/shared"
	"gorm.io/gorm"
)

// GormUnitOfWork runs a function inside a GORM transaction, handing it
// repositories bound to the transaction
type GormUnitOfWork[R any] struct {
	db   *gorm.DB
	bind func(tx *gorm.DB) R
}

// NewGormUnitOfWork creates a unit of work that builds R from each
// transaction with bind
func NewGormUnitOfWork[R any](db *gorm.DB, bind func(tx *gorm.DB) R) *GormUnitOfWork[R] {
	return &GormUnitOfWork[R]{db: db, bind: bind}
}

// Do executes fn in a transaction. A returned error or panic rolls back.
func (u *GormUnitOfWork[R]) Do(ctx context.Context, fn func(repos R) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(u.bind(tx))
	})
}

// NewAddressUnitOfWork scopes the address ledger to one transaction
func NewAddressUnitOfWork(db *gorm.DB) *GormUnitOfWork[address.Repository] {
	return NewGormUnitOfWork(db, func(tx *gorm.DB) address.Repository {
		return NewGormAddressRepository(tx)
	})
}

// NewCatalogUnitOfWork scopes the catalog repositories and the order
// history check to one transaction
func NewCatalogUnitOfWork(db *gorm.DB) *GormUnitOfWork[catalog.Repositories] {
	return NewGormUnitOfWork(db, func(tx *gorm.DB) catalog.Repositories {
		return catalog.Repositories{
			Products:    NewGormProductRepository(tx),
			Variants:    NewGormVariantRepository(tx),
			Collections: NewGormCollectionRepository(tx),
			Orders:      NewGormOrderRepository(tx),
		}
	})
}

// NewOrderUnitOfWork scopes order creation to one transaction
func NewOrderUnitOfWork(db *gorm.DB) *GormUnitOfWork[order.Repository] {
	return NewGormUnitOfWork(db, func(tx *gorm.DB) order.Repository {
		return NewGormOrderRepository(tx)
	})
}

var (
	_ shared.UnitOfWork[address.Repository]   = (*GormUnitOfWork[address.Repository])(nil)
	_ shared.UnitOfWork[catalog.Repositories] = (*GormUnitOfWork[catalog.Repositories])(nil)
	_ shared.UnitOfWork[order.Repository]     = (*GormUnitOfWork[order.Repository])(nil)
)
