// Package dashboard computes the admin dashboard figures.
package dashboard

import (
	"context"
	"time"

	"github.com/ServiLut/tote-bag/internal/domain/b2b"
	"github.com/ServiLut/tote-bag/internal/domain/catalog"
	"github.com/ServiLut/tote-bag/internal/domain/order"
)

// LowStockThreshold is the stock below which a variant counts as low
const LowStockThreshold = 5

// Stats is the dashboard headline
type Stats struct {
	DailyProduction int64 `json:"dailyProduction"`
	LowStockCount   int64 `json:"lowStockCount"`
	PendingQuotes   int64 `json:"pendingQuotes"`
}

// Service aggregates orders, stock and quotes
type Service struct {
	orders   order.Repository
	variants catalog.VariantRepository
	quotes   b2b.Repository
	now      func() time.Time
}

// NewService creates a new dashboard Service
func NewService(orders order.Repository, variants catalog.VariantRepository, quotes b2b.Repository) *Service {
	return &Service{orders: orders, variants: variants, quotes: quotes, now: time.Now}
}

// Stats returns today's produced quantity, the low stock count and the
// number of quotes awaiting review
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	now := s.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	produced, err := s.orders.SumQuantitySince(ctx, order.ProductionStatuses(), midnight)
	if err != nil {
		return nil, err
	}
	lowStock, err := s.variants.CountLowStock(ctx, LowStockThreshold)
	if err != nil {
		return nil, err
	}
	pending, err := s.quotes.CountByStatus(ctx, b2b.StatusPending)
	if err != nil {
		return nil, err
	}
	return &Stats{
		DailyProduction: produced,
		LowStockCount:   lowStock,
		PendingQuotes:   pending,
	}, nil
}

// ProductionBatch totals ordered quantities by SKU across orders that
// are paid and not cancelled
func (s *Service) ProductionBatch(ctx context.Context) ([]order.BatchLine, error) {
	lines, err := s.orders.ProductionBatch(ctx, []order.Status{order.StatusPendingPayment, order.StatusCancelled})
	if err != nil {
		return nil, err
	}
	if lines == nil {
		lines = []order.BatchLine{}
	}
	return lines, nil
}
