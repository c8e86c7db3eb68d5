package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	b2bapp "github.com/ServiLut/tote-bag/internal/application/b2b"
	"github.com/ServiLut/tote-bag/internal/domain/b2b"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LogoField is the multipart field carrying the optional logo
const LogoField = "logo"

// QuoteService is B2B quote intake as seen by the HTTP layer
type QuoteService interface {
	Create(ctx context.Context, req b2bapp.CreateQuoteRequest, logo *b2bapp.Logo) (*b2bapp.CreateQuoteResponse, error)
	List(ctx context.Context) ([]b2b.Quote, error)
	ApproveDesign(ctx context.Context, id uuid.UUID) (*b2b.Quote, error)
}

// B2BHandler handles /b2b
type B2BHandler struct {
	BaseHandler
	service QuoteService
}

// NewB2BHandler creates a new B2BHandler
func NewB2BHandler(service QuoteService) *B2BHandler {
	return &B2BHandler{service: service}
}

// CreateQuote godoc
// @Summary      Request a corporate quote
// @Description  Multipart form. The package tier follows the quantity unless a reachable tier is requested.
// @Tags         b2b
// @Accept       multipart/form-data
// @Produce      json
// @Param        logo formData file false "Corporate logo"
// @Success      201 {object} b2bapp.CreateQuoteResponse
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /b2b/quote [post]
func (h *B2BHandler) CreateQuote(c *gin.Context) {
	var req b2bapp.CreateQuoteRequest
	if err := c.ShouldBind(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	logo, err := readLogo(c)
	if err != nil {
		h.BadRequest(c, "Invalid logo upload")
		return
	}

	resp, err := h.service.Create(c.Request.Context(), req, logo)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	// The intake response carries its own success flag
	c.JSON(http.StatusCreated, resp)
}

func readLogo(c *gin.Context) (*b2bapp.Logo, error) {
	header, err := c.FormFile(LogoField)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &b2bapp.Logo{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// ListQuotes returns quotes newest first
func (h *B2BHandler) ListQuotes(c *gin.Context) {
	quotes, err := h.service.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, nonNil(quotes))
}

// ApproveDesign moves a quote to DESIGN_APPROVED
func (h *B2BHandler) ApproveDesign(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	q, err := h.service.ApproveDesign(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, q)
}
