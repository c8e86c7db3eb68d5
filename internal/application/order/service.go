// Package order implements checkout and order fulfilment use cases.
package order

import (
	"context"
	"errors"

	"github.com/ServiLut/tote-bag/internal/domain/order"
	"github.com/ServiLut/tote-bag/internal/domain/shared"
	"github.com/ServiLut/tote-bag/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxNumberAttempts bounds retries when two checkouts race for the same
// order number
const maxNumberAttempts = 3

// Service handles order operations
type Service struct {
	repo   order.Repository
	uow    shared.UnitOfWork[order.Repository]
	logger *zap.Logger
}

// NewService creates a new order Service
func NewService(repo order.Repository, uow shared.UnitOfWork[order.Repository], logger *zap.Logger) *Service {
	return &Service{repo: repo, uow: uow, logger: logger}
}

// Create places a pending order. profileID is nil for guest checkouts.
func (s *Service) Create(ctx context.Context, profileID *uuid.UUID, req CreateOrderRequest) (*order.Order, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "create")
	defer span.End()

	o, err := order.NewOrder(req.checkout(profileID))
	if err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		err = s.uow.Do(ctx, func(repo order.Repository) error {
			return repo.Create(ctx, o)
		})
		if err == nil {
			break
		}
		if !errors.Is(err, shared.ErrAlreadyExists) || attempt == maxNumberAttempts {
			telemetry.RecordError(span, err)
			return nil, err
		}
		s.logger.Warn("order number taken, retrying",
			zap.Int64("order_number", o.OrderNumber),
			zap.Int("attempt", attempt),
		)
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderID, o.ID,
		telemetry.SpanAttrOrderNumber, o.OrderNumber,
	)
	s.logger.Info("order created",
		zap.String("order_id", o.ID.String()),
		zap.Int64("order_number", o.OrderNumber),
		zap.Int64("total_amount", o.TotalAmount),
	)
	return o, nil
}

// List returns orders newest first, optionally narrowed by status
func (s *Service) List(ctx context.Context, status *order.Status) ([]order.Order, error) {
	if status != nil && !status.IsValid() {
		return nil, shared.Validationf("Invalid order status: %s", *status)
	}
	return s.repo.FindAll(ctx, order.Filter{Status: status})
}

// ListByProfile returns the orders placed by one profile
func (s *Service) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]order.Order, error) {
	return s.repo.FindAll(ctx, order.Filter{ProfileID: &profileID})
}

// Get returns one order with its items
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	o, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, order.NotFound(id)
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

// Update changes status and shipment tracking
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateOrderRequest) (*order.Order, error) {
	o, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	from := o.Status
	if err := o.Apply(req.update()); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}

	if from != o.Status {
		s.logger.Info("order status changed",
			zap.String("order_id", id.String()),
			zap.String("from", string(from)),
			zap.String("to", string(o.Status)),
		)
	}
	return o, nil
}
