package handler

import (
	"context"

	addressapp "github.com/ServiLut/tote-bag/internal/application/address"
	"github.com/ServiLut/tote-bag/internal/domain/address"
	"github.com/ServiLut/tote-bag/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AddressService is the address ledger as seen by the HTTP layer
type AddressService interface {
	Create(ctx context.Context, profileID uuid.UUID, req addressapp.CreateAddressRequest) (*address.Address, error)
	List(ctx context.Context, profileID uuid.UUID) ([]address.Address, error)
	Get(ctx context.Context, id, profileID uuid.UUID) (*address.Address, error)
	Update(ctx context.Context, id, profileID uuid.UUID, req addressapp.UpdateAddressRequest) (*address.Address, error)
	Delete(ctx context.Context, id, profileID uuid.UUID) error
}

// AddressHandler serves /addresses. Every route runs behind
// middleware.RequireProfile.
type AddressHandler struct {
	BaseHandler
	service AddressService
}

// NewAddressHandler creates a new AddressHandler
func NewAddressHandler(service AddressService) *AddressHandler {
	return &AddressHandler{service: service}
}

// Create godoc
// @Summary      Create an address
// @Description  The first address of a profile becomes its default
// @Tags         addresses
// @Accept       json
// @Produce      json
// @Param        request body addressapp.CreateAddressRequest true "Address"
// @Success      201 {object} dto.Response{data=address.Address}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /addresses [post]
func (h *AddressHandler) Create(c *gin.Context) {
	var req addressapp.CreateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	a, err := h.service.Create(c.Request.Context(), middleware.GetProfile(c).ID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, a)
}

// List returns the caller's addresses, default first
func (h *AddressHandler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context(), middleware.GetProfile(c).ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, nonNil(list))
}

// Get returns one of the caller's addresses
func (h *AddressHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	a, err := h.service.Get(c.Request.Context(), id, middleware.GetProfile(c).ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, a)
}

// Update godoc
// @Summary      Update an address
// @Description  Setting isDefault moves the default flag to this address
// @Tags         addresses
// @Accept       json
// @Produce      json
// @Param        id path string true "Address ID"
// @Param        request body addressapp.UpdateAddressRequest true "Changes"
// @Success      200 {object} dto.Response{data=address.Address}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /addresses/{id} [patch]
func (h *AddressHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req addressapp.UpdateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	a, err := h.service.Update(c.Request.Context(), id, middleware.GetProfile(c).ID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, a)
}

// Delete removes an address. Deleting the default promotes the newest
// remaining one.
func (h *AddressHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id, middleware.GetProfile(c).ID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
