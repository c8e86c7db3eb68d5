package handler

import (
	"context"

	"github.com/ServiLut/tote-bag/internal/application/dashboard"
	"github.com/ServiLut/tote-bag/internal/domain/order"
	"github.com/gin-gonic/gin"
)

// DashboardService computes the back-office figures
type DashboardService interface {
	Stats(ctx context.Context) (*dashboard.Stats, error)
	ProductionBatch(ctx context.Context) ([]order.BatchLine, error)
}

// DashboardHandler handles /dashboard
type DashboardHandler struct {
	BaseHandler
	service DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(service DashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Stats returns daily production, low stock and pending quotes
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// ProductionBatch returns quantities to produce grouped by SKU
func (h *DashboardHandler) ProductionBatch(c *gin.Context) {
	lines, err := h.service.ProductionBatch(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, nonNil(lines))
}
