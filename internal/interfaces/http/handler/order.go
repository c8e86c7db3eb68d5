package handler

import (
	"context"

	orderapp "github.com/ServiLut/tote-bag/internal/application/order"
	"github.com/ServiLut/tote-bag/internal/domain/order"
	"github.com/ServiLut/tote-bag/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OrderService is checkout and order management as seen by the HTTP layer
type OrderService interface {
	Create(ctx context.Context, profileID *uuid.UUID, req orderapp.CreateOrderRequest) (*order.Order, error)
	List(ctx context.Context, status *order.Status) ([]order.Order, error)
	ListByProfile(ctx context.Context, profileID uuid.UUID) ([]order.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*order.Order, error)
	Update(ctx context.Context, id uuid.UUID, req orderapp.UpdateOrderRequest) (*order.Order, error)
}

// OrderHandler handles /orders
type OrderHandler struct {
	BaseHandler
	service OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(service OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// ListOrdersQuery filters the admin order listing
type ListOrdersQuery struct {
	Status order.Status `form:"status" binding:"omitempty,oneof=PENDING_PAYMENT PAID IN_PRODUCTION SHIPPED DELIVERED CANCELLED"`
}

// Create godoc
// @Summary      Place an order
// @Description  Guest or authenticated checkout. Totals are computed from the items.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body orderapp.CreateOrderRequest true "Checkout"
// @Success      201 {object} dto.Response{data=order.Order}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	var req orderapp.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	var profileID *uuid.UUID
	if p := middleware.GetProfile(c); p != nil {
		profileID = &p.ID
	}

	o, err := h.service.Create(c.Request.Context(), profileID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, o)
}

// List returns every order, newest first
func (h *OrderHandler) List(c *gin.Context) {
	var q ListOrdersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.HandleBindError(c, err)
		return
	}
	var status *order.Status
	if q.Status != "" {
		status = &q.Status
	}

	orders, err := h.service.List(c.Request.Context(), status)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, nonNil(orders))
}

// Mine returns the caller's orders
func (h *OrderHandler) Mine(c *gin.Context) {
	orders, err := h.service.ListByProfile(c.Request.Context(), middleware.GetProfile(c).ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, nonNil(orders))
}

// Get returns one order with its items
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	o, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, o)
}

// Update godoc
// @Summary      Update order status and tracking
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID"
// @Param        request body orderapp.UpdateOrderRequest true "Changes"
// @Success      200 {object} dto.Response{data=order.Order}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id} [patch]
func (h *OrderHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req orderapp.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	o, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, o)
}

// nonNil turns a nil slice into an empty one so lists encode as []
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
