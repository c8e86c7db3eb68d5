package handler

import (
	"context"

	profileapp "github.com/ServiLut/tote-bag/internal/application/profile"
	"github.com/ServiLut/tote-bag/internal/domain/profile"
	"github.com/ServiLut/tote-bag/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProfileService is customer profile management as seen by the HTTP layer
type ProfileService interface {
	Me(ctx context.Context, userID, email string) (*profile.Profile, error)
	UpdateMe(ctx context.Context, userID string, req profileapp.UpdateProfileRequest) (*profile.Profile, error)
	List(ctx context.Context, q profileapp.ListQuery) ([]profile.Profile, error)
	Get(ctx context.Context, id uuid.UUID) (*profileapp.Detail, error)
}

// ProfileHandler handles /profiles
type ProfileHandler struct {
	BaseHandler
	service ProfileService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(service ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// Me godoc
// @Summary      Get the caller's profile
// @Description  A customer profile is created on the first call of a new user
// @Tags         profiles
// @Produce      json
// @Success      200 {object} dto.Response{data=profile.Profile}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /profiles/me [get]
func (h *ProfileHandler) Me(c *gin.Context) {
	ident := middleware.GetIdentity(c)
	if ident == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	p, err := h.service.Me(c.Request.Context(), ident.UserID, ident.Email)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// UpdateMe patches the caller's own profile
func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	ident := middleware.GetIdentity(c)
	if ident == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	var req profileapp.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}
	p, err := h.service.UpdateMe(c.Request.Context(), ident.UserID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// List returns profiles filtered by role, department and municipality
func (h *ProfileHandler) List(c *gin.Context) {
	var q profileapp.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.HandleBindError(c, err)
		return
	}
	profiles, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, nonNil(profiles))
}

// Get returns a profile with its orders
func (h *ProfileHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	detail, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, detail)
}
