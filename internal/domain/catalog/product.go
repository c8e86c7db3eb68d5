package catalog

import (
	"strings"

	"github.com/ServiLut/tote-bag/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductStatus represents the availability of a product
type ProductStatus string

const (
	ProductStatusAvailable ProductStatus = "AVAILABLE"
	ProductStatusBackorder ProductStatus = "BACKORDER"
	ProductStatusPresale   ProductStatus = "PRESALE"
)

// IsValid reports whether s is a known status
func (s ProductStatus) IsValid() bool {
	switch s {
	case ProductStatusAvailable, ProductStatusBackorder, ProductStatusPresale:
		return true
	}
	return false
}

// Product is the aggregate root of the catalog. It owns its variants and
// images; both cascade on delete.
type Product struct {
	shared.BaseEntity
	Name         string        `gorm:"type:varchar(200);not null" json:"name"`
	Slug         string        `gorm:"type:varchar(200);not null;uniqueIndex" json:"slug"`
	Description  string        `gorm:"type:text" json:"description"`
	BasePrice    int64         `gorm:"not null" json:"basePrice"`
	MinPrice     int64         `gorm:"not null" json:"minPrice"`
	CostPrice    *int64        `json:"costPrice,omitempty"`
	ComparePrice *int64        `json:"comparePrice,omitempty"`
	Status       ProductStatus `gorm:"type:varchar(20);not null;default:'AVAILABLE'" json:"status"`
	IsActive     bool          `gorm:"not null;default:true;index" json:"isActive"`
	CollectionID uuid.UUID     `gorm:"type:uuid;not null;index" json:"collectionId"`

	Collection *Collection     `gorm:"foreignKey:CollectionID" json:"collection,omitempty"`
	Images     []ProductImage  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images"`
	Variants   []Variant       `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variants"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// Variant is a sellable SKU/color/stock combination of a product
type Variant struct {
	shared.BaseEntity
	SKU       string    `gorm:"column:sku;type:varchar(120);not null;uniqueIndex" json:"sku"`
	Color     string    `gorm:"type:varchar(60);not null" json:"color"`
	ImageURL  string    `gorm:"column:image_url;type:varchar(500)" json:"imageUrl,omitempty"`
	Stock     int       `gorm:"not null;default:0" json:"stock"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"productId"`
}

// TableName returns the table name for GORM
func (Variant) TableName() string {
	return "variants"
}

// ProductImage is one entry of a product's ordered gallery
type ProductImage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"productId"`
	URL       string    `gorm:"column:url;type:varchar(500);not null" json:"url"`
	Alt       string    `gorm:"type:varchar(200)" json:"alt,omitempty"`
	Position  int       `gorm:"not null;default:0" json:"position"`
}

// TableName returns the table name for GORM
func (ProductImage) TableName() string {
	return "product_images"
}

// VariantSpec is the caller-supplied shape of a variant
type VariantSpec struct {
	SKU      string
	Color    string
	ImageURL string
	Stock    int
}

// ImageSpec is the caller-supplied shape of an image
type ImageSpec struct {
	URL      string
	Alt      string
	Position int
}

// ProductSpec carries everything needed to create a product
type ProductSpec struct {
	Name         string
	Slug         string
	Description  string
	BasePrice    int64
	MinPrice     int64
	CostPrice    *int64
	ComparePrice *int64
	Status       ProductStatus
	Variants     []VariantSpec
	Images       []ImageSpec
}

// ValidatePrices enforces basePrice >= minPrice
func ValidatePrices(basePrice, minPrice int64) error {
	if basePrice < minPrice {
		return shared.Validationf("Base price (%d) cannot be lower than Minimum Price (%d)", basePrice, minPrice)
	}
	return nil
}

// ValidateVariantSKUs checks every trimmed variant SKU against the format
// of the collection and design. The first mismatch is reported with the
// SKU the caller should have sent.
func ValidateVariantSKUs(collectionName, design string, variants []VariantSpec) error {
	for _, v := range variants {
		if !ValidSKU(NormalizeSKUKey(v.SKU), collectionName, design, v.Color) {
			return shared.Validationf("Invalid SKU format: %s. Expected: %s",
				v.SKU, ExpectedSKU(collectionName, design, v.Color))
		}
	}
	return nil
}

// NewProduct validates the spec against its collection and builds the
// product with variants and images
func NewProduct(spec ProductSpec, collection *Collection) (*Product, error) {
	if err := ValidatePrices(spec.BasePrice, spec.MinPrice); err != nil {
		return nil, err
	}
	if strings.TrimSpace(spec.Name) == "" {
		return nil, shared.Validationf("Product name cannot be empty")
	}
	if collection == nil {
		return nil, shared.Validationf("Either collectionId or collectionName is required")
	}
	if err := ValidateVariantSKUs(collection.Name, spec.Name, spec.Variants); err != nil {
		return nil, err
	}

	status := spec.Status
	if status == "" {
		status = ProductStatusAvailable
	}
	if !status.IsValid() {
		return nil, shared.Validationf("Invalid product status: %s", status)
	}
	slug := spec.Slug
	if slug == "" {
		slug = Slugify(spec.Name)
	}

	p := &Product{
		BaseEntity:   shared.NewBaseEntity(),
		Name:         spec.Name,
		Slug:         slug,
		Description:  spec.Description,
		BasePrice:    spec.BasePrice,
		MinPrice:     spec.MinPrice,
		CostPrice:    spec.CostPrice,
		ComparePrice: spec.ComparePrice,
		Status:       status,
		IsActive:     true,
		CollectionID: collection.ID,
		Collection:   collection,
	}
	p.Images = p.BuildImages(spec.Images)
	for _, v := range spec.Variants {
		p.Variants = append(p.Variants, *p.NewVariant(v))
	}
	return p, nil
}

// NewVariant builds a variant bound to the product. The SKU is stored
// trimmed so reconciliation keys match what was persisted.
func (p *Product) NewVariant(v VariantSpec) *Variant {
	return &Variant{
		BaseEntity: shared.NewBaseEntity(),
		SKU:        NormalizeSKUKey(v.SKU),
		Color:      v.Color,
		ImageURL:   v.ImageURL,
		Stock:      v.Stock,
		ProductID:  p.ID,
	}
}

// BuildImages turns image specs into rows bound to the product
func (p *Product) BuildImages(specs []ImageSpec) []ProductImage {
	images := make([]ProductImage, 0, len(specs))
	for _, img := range specs {
		images = append(images, ProductImage{
			ID:        uuid.New(),
			ProductID: p.ID,
			URL:       img.URL,
			Alt:       img.Alt,
			Position:  img.Position,
		})
	}
	return images
}

// ProductPatch holds the scalar fields of a product update
type ProductPatch struct {
	Name         *string
	Slug         *string
	Description  *string
	BasePrice    *int64
	MinPrice     *int64
	CostPrice    *int64
	ComparePrice *int64
	Status       *ProductStatus
	IsActive     *bool
}

// Apply copies the non-nil scalar fields onto the product
func (p *Product) Apply(patch ProductPatch) error {
	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return shared.Validationf("Product name cannot be empty")
		}
		p.Name = *patch.Name
	}
	if patch.Slug != nil && *patch.Slug != "" {
		p.Slug = *patch.Slug
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.BasePrice != nil {
		p.BasePrice = *patch.BasePrice
	}
	if patch.MinPrice != nil {
		p.MinPrice = *patch.MinPrice
	}
	if patch.CostPrice != nil {
		p.CostPrice = patch.CostPrice
	}
	if patch.ComparePrice != nil {
		p.ComparePrice = patch.ComparePrice
	}
	if patch.Status != nil {
		if !patch.Status.IsValid() {
			return shared.Validationf("Invalid product status: %s", *patch.Status)
		}
		p.Status = *patch.Status
	}
	if patch.IsActive != nil {
		p.IsActive = *patch.IsActive
	}
	p.Touch()
	return nil
}

// MoveTo rebinds the product to another collection
func (p *Product) MoveTo(c *Collection) {
	p.CollectionID = c.ID
	p.Collection = c
	p.Touch()
}

// Archive is the soft delete applied when orders still reference the
// product
func (p *Product) Archive() {
	p.IsActive = false
	p.Status = ProductStatusBackorder
	p.Touch()
}
