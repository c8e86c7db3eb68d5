package catalog

import (
	"github.com/ServiLut/tote-bag/internal/domain/catalog"
	"github.com/google/uuid"
)

// VariantInput is one variant in a create or update body
type VariantInput struct {
	SKU      string `json:"sku" binding:"required,max=120"`
	Color    string `json:"color" binding:"required,max=60"`
	ImageURL string `json:"imageUrl" binding:"omitempty,max=500"`
	Stock    int    `json:"stock" binding:"min=0"`
}

// ImageInput is one gallery image in a create or update body
type ImageInput struct {
	URL      string `json:"url" binding:"required,url,max=500"`
	Alt      string `json:"alt" binding:"max=200"`
	Position int    `json:"position" binding:"min=0"`
}

// CreateProductRequest is the body of POST /products
type CreateProductRequest struct {
	Name           string                `json:"name" binding:"required,min=1,max=200"`
	Slug           string                `json:"slug" binding:"omitempty,max=200"`
	Description    string                `json:"description" binding:"max=5000"`
	BasePrice      int64                 `json:"basePrice" binding:"min=0"`
	MinPrice       int64                 `json:"minPrice" binding:"min=0"`
	CostPrice      *int64                `json:"costPrice" binding:"omitempty,min=0"`
	ComparePrice   *int64                `json:"comparePrice" binding:"omitempty,min=0"`
	Status         catalog.ProductStatus `json:"status" binding:"omitempty,oneof=AVAILABLE BACKORDER PRESALE"`
	CollectionID   *uuid.UUID            `json:"collectionId"`
	CollectionName string                `json:"collectionName" binding:"max=150"`
	Variants       []VariantInput        `json:"variants" binding:"dive"`
	Images         []ImageInput          `json:"images" binding:"dive"`
}

func (r CreateProductRequest) spec() catalog.ProductSpec {
	return catalog.ProductSpec{
		Name:         r.Name,
		Slug:         r.Slug,
		Description:  r.Description,
		BasePrice:    r.BasePrice,
		MinPrice:     r.MinPrice,
		CostPrice:    r.CostPrice,
		ComparePrice: r.ComparePrice,
		Status:       r.Status,
		Variants:     variantSpecs(r.Variants),
		Images:       imageSpecs(r.Images),
	}
}

// UpdateProductRequest is the body of PATCH /products/:id. Absent
// variants or images leave them untouched; an empty list clears them.
type UpdateProductRequest struct {
	Name           *string                `json:"name" binding:"omitempty,min=1,max=200"`
	Slug           *string                `json:"slug" binding:"omitempty,max=200"`
	Description    *string                `json:"description" binding:"omitempty,max=5000"`
	BasePrice      *int64                 `json:"basePrice" binding:"omitempty,min=0"`
	MinPrice       *int64                 `json:"minPrice" binding:"omitempty,min=0"`
	CostPrice      *int64                 `json:"costPrice" binding:"omitempty,min=0"`
	ComparePrice   *int64                 `json:"comparePrice" binding:"omitempty,min=0"`
	Status         *catalog.ProductStatus `json:"status" binding:"omitempty,oneof=AVAILABLE BACKORDER PRESALE"`
	IsActive       *bool                  `json:"isActive"`
	CollectionID   *uuid.UUID             `json:"collectionId"`
	CollectionName *string                `json:"collectionName" binding:"omitempty,min=1,max=150"`
	Variants       []VariantInput         `json:"variants" binding:"omitempty,dive"`
	Images         []ImageInput           `json:"images" binding:"omitempty,dive"`
}

func (r UpdateProductRequest) patch() catalog.ProductPatch {
	return catalog.ProductPatch{
		Name:         r.Name,
		Slug:         r.Slug,
		Description:  r.Description,
		BasePrice:    r.BasePrice,
		MinPrice:     r.MinPrice,
		CostPrice:    r.CostPrice,
		ComparePrice: r.ComparePrice,
		Status:       r.Status,
		IsActive:     r.IsActive,
	}
}

func variantSpecs(in []VariantInput) []catalog.VariantSpec {
	if in == nil {
		return nil
	}
	out := make([]catalog.VariantSpec, 0, len(in))
	for _, v := range in {
		out = append(out, catalog.VariantSpec{
			SKU:      v.SKU,
			Color:    v.Color,
			ImageURL: v.ImageURL,
			Stock:    v.Stock,
		})
	}
	return out
}

func imageSpecs(in []ImageInput) []catalog.ImageSpec {
	if in == nil {
		return nil
	}
	out := make([]catalog.ImageSpec, 0, len(in))
	for _, img := range in {
		out = append(out, catalog.ImageSpec{URL: img.URL, Alt: img.Alt, Position: img.Position})
	}
	return out
}
