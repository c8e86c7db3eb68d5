package handler

import (
	"context"

	"github.com/ServiLut/tote-bag/internal/domain/location"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LocationService serves the department and municipality reference data
type LocationService interface {
	Departments(ctx context.Context) ([]location.Department, error)
	Municipalities(ctx context.Context, departmentID uuid.UUID) ([]location.Municipality, error)
}

// LocationHandler handles /locations
type LocationHandler struct {
	BaseHandler
	service LocationService
}

// NewLocationHandler creates a new LocationHandler
func NewLocationHandler(service LocationService) *LocationHandler {
	return &LocationHandler{service: service}
}

// Departments lists departments by name
func (h *LocationHandler) Departments(c *gin.Context) {
	departments, err := h.service.Departments(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, nonNil(departments))
}

// Municipalities lists the municipalities of a department by name
func (h *LocationHandler) Municipalities(c *gin.Context) {
	departmentID, ok := h.pathID(c, "departmentId")
	if !ok {
		return
	}
	municipalities, err := h.service.Municipalities(c.Request.Context(), departmentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, nonNil(municipalities))
}
