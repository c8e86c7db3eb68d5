package order

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Filter narrows order listings
type Filter struct {
	Status    *Status
	ProfileID *uuid.UUID
}

// BatchLine is the total quantity ordered for one SKU
type BatchLine struct {
	SKU           string `json:"sku"`
	TotalQuantity int64  `json:"totalQuantity"`
}

// Repository defines persistence operations for orders
type Repository interface {
	// FindByID returns the order with items, or shared.ErrNotFound
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindAll lists orders newest first with items
	FindAll(ctx context.Context, filter Filter) ([]Order, error)

	// Create assigns the next order number and inserts the order with
	// its items. Callers run it inside a transaction.
	Create(ctx context.Context, o *Order) error

	// Update saves status and tracking columns
	Update(ctx context.Context, o *Order) error

	// CountItemsForProduct counts order lines that reference a product
	CountItemsForProduct(ctx context.Context, productID uuid.UUID) (int64, error)

	// SumQuantitySince sums item quantities of orders in statuses created
	// at or after since
	SumQuantitySince(ctx context.Context, statuses []Status, since time.Time) (int64, error)

	// ProductionBatch totals item quantities by SKU across orders whose
	// status is not in excluded
	ProductionBatch(ctx context.Context, excluded []Status) ([]BatchLine, error)
}
