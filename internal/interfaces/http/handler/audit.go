package handler

import (
	"context"
	"net/http"

	auditapp "github.com/ServiLut/tote-bag/internal/application/audit"
	"github.com/ServiLut/tote-bag/internal/domain/audit"
	"github.com/ServiLut/tote-bag/internal/domain/shared"
	"github.com/ServiLut/tote-bag/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditService reads the audit trail
type AuditService interface {
	List(ctx context.Context, q auditapp.ListQuery) (shared.Page[audit.Log], error)
	Get(ctx context.Context, id uuid.UUID) (*audit.Log, error)
}

// AuditHandler handles /audit
type AuditHandler struct {
	BaseHandler
	service AuditService
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(service AuditService) *AuditHandler {
	return &AuditHandler{service: service}
}

// List godoc
// @Summary      List audit records
// @Tags         audit
// @Produce      json
// @Param        entity query string false "Entity name"
// @Param        action query string false "HTTP method"
// @Param        userId query string false "Acting user"
// @Param        skip   query int false "Offset" default(0)
// @Param        take   query int false "Page size" default(50)
// @Success      200 {object} dto.Response{data=[]audit.Log,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /audit [get]
func (h *AuditHandler) List(c *gin.Context) {
	var q auditapp.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.HandleBindError(c, err)
		return
	}
	page, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPageResponse(page))
}

// Get returns one audit record
func (h *AuditHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	l, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, l)
}
