package handler

import (
	"context"

	catalogapp "github.com/ServiLut/tote-bag/internal/application/catalog"
	"github.com/ServiLut/tote-bag/internal/domain/catalog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProductService is the catalog as seen by the HTTP layer
type ProductService interface {
	Create(ctx context.Context, req catalogapp.CreateProductRequest) (*catalog.Product, error)
	Update(ctx context.Context, id uuid.UUID, req catalogapp.UpdateProductRequest) (*catalog.Product, error)
	Remove(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, collectionID *uuid.UUID) ([]catalog.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*catalog.Product, error)
	GetBySlug(ctx context.Context, slug string) (*catalog.Product, error)
	ListCollections(ctx context.Context) ([]catalog.Collection, error)
}

// ProductHandler handles product and collection endpoints
type ProductHandler struct {
	BaseHandler
	service ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(service ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// ListProductsQuery filters the storefront listing
type ListProductsQuery struct {
	Collection string `form:"collection" binding:"omitempty,uuid"`
}

// Create godoc
// @Summary      Create a product
// @Description  Creates a product with its variants and images. Variant SKUs must follow TB-<COLLECTION>-<DESIGN>-<COLOR>.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateProductRequest true "Product"
// @Success      201 {object} dto.Response{data=catalog.Product}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	p, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, p)
}

// Update godoc
// @Summary      Update a product
// @Description  Scalar fields are patched; a variants list is reconciled by SKU and an images list replaces the gallery
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID"
// @Param        request body catalogapp.UpdateProductRequest true "Changes"
// @Success      200 {object} dto.Response{data=catalog.Product}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products/{id} [patch]
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	p, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// Remove archives a product with order history, else deletes it
func (h *ProductHandler) Remove(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Remove(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// List returns active products, optionally of one collection
func (h *ProductHandler) List(c *gin.Context) {
	var q ListProductsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.HandleBindError(c, err)
		return
	}
	var collectionID *uuid.UUID
	if q.Collection != "" {
		id := uuid.MustParse(q.Collection)
		collectionID = &id
	}

	products, err := h.service.List(c.Request.Context(), collectionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, nonNil(products))
}

// Get returns a product by id
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	p, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// GetBySlug returns a product by slug
func (h *ProductHandler) GetBySlug(c *gin.Context) {
	p, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// ListCollections returns the active collections
func (h *ProductHandler) ListCollections(c *gin.Context) {
	collections, err := h.service.ListCollections(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, nonNil(collections))
}
