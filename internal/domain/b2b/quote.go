// Package b2b models corporate bulk-order quotes.
package b2b

import (
	"strings"
	"time"

	"github.com/ServiLut/tote-bag/internal/domain/shared"
	"github.com/google/uuid"
)

// Package is the quantity-based pricing tier of a quote
type Package string

const (
	PackageStarter Package = "Starter"
	PackagePro     Package = "Pro"
	PackageEvento  Package = "Evento"
)

// minimumQuantity is the smallest quantity that may request each tier
var minimumQuantity = map[Package]int{
	PackageStarter: 12,
	PackagePro:     50,
	PackageEvento:  200,
}

// IsValid reports whether p is a known tier
func (p Package) IsValid() bool {
	_, ok := minimumQuantity[p]
	return ok
}

// CalculatePackage assigns a tier from the quantity alone
func CalculatePackage(quantity int) Package {
	switch {
	case quantity < 50:
		return PackageStarter
	case quantity <= 200:
		return PackagePro
	default:
		return PackageEvento
	}
}

// ResolvePackage applies a requested tier when the quantity meets its
// minimum and falls back to the calculated tier otherwise
func ResolvePackage(quantity int, requested *Package) Package {
	computed := CalculatePackage(quantity)
	if requested == nil {
		return computed
	}
	if floor, ok := minimumQuantity[*requested]; ok && quantity >= floor {
		return *requested
	}
	return computed
}

// QrType says what the printed QR code points to
type QrType string

const (
	QrTypeWhatsApp  QrType = "WHATSAPP"
	QrTypeWeb       QrType = "WEB"
	QrTypeInstagram QrType = "INSTAGRAM"
)

// IsValid reports whether t is a known QR type
func (t QrType) IsValid() bool {
	switch t {
	case QrTypeWhatsApp, QrTypeWeb, QrTypeInstagram:
		return true
	}
	return false
}

// Status is the review state of a quote
type Status string

const (
	StatusPending        Status = "PENDING"
	StatusDesignApproved Status = "DESIGN_APPROVED"
)

// Quote is a B2B bulk-order request
type Quote struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BusinessName string    `gorm:"type:varchar(200);not null" json:"businessName"`
	Quantity     int       `gorm:"not null" json:"quantity"`
	Department   string    `gorm:"type:varchar(100);not null" json:"department"`
	Municipality string    `gorm:"type:varchar(100);not null" json:"municipality"`
	Neighborhood string    `gorm:"type:varchar(150);not null" json:"neighborhood"`
	Address      string    `gorm:"type:varchar(300);not null" json:"address"`
	ContactPhone string    `gorm:"type:varchar(30);not null" json:"contactPhone"`
	QrType       QrType    `gorm:"type:varchar(20);not null" json:"qrType"`
	QrData       string    `gorm:"type:varchar(500);not null" json:"qrData"`
	Package      Package   `gorm:"type:varchar(20);not null" json:"package"`
	LogoURL      *string   `gorm:"column:logo_url;type:varchar(500)" json:"logoUrl"`
	Status       Status    `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	CreatedAt    time.Time `gorm:"not null;index" json:"createdAt"`
}

// TableName returns the table name for GORM
func (Quote) TableName() string {
	return "b2b_quotes"
}

// Request is the intake form of a quote
type Request struct {
	BusinessName string
	Quantity     int
	Department   string
	Municipality string
	Neighborhood string
	Address      string
	ContactPhone string
	QrType       QrType
	QrData       string
	Package      *Package
}

// NewQuote validates the request and assigns its tier
func NewQuote(r Request, logoURL *string) (*Quote, error) {
	if r.Quantity < 1 {
		return nil, shared.Validationf("quantity must be at least 1")
	}
	if !r.QrType.IsValid() {
		return nil, shared.Validationf("Invalid QR type: %s", r.QrType)
	}
	if r.Package != nil && !r.Package.IsValid() {
		return nil, shared.Validationf("Invalid package: %s", *r.Package)
	}
	required := []struct{ name, value string }{
		{"businessName", r.BusinessName},
		{"department", r.Department},
		{"municipality", r.Municipality},
		{"neighborhood", r.Neighborhood},
		{"address", r.Address},
		{"contactPhone", r.ContactPhone},
		{"qrData", r.QrData},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return nil, shared.Validationf("%s cannot be empty", f.name)
		}
	}

	return &Quote{
		ID:           uuid.New(),
		BusinessName: r.BusinessName,
		Quantity:     r.Quantity,
		Department:   r.Department,
		Municipality: r.Municipality,
		Neighborhood: r.Neighborhood,
		Address:      r.Address,
		ContactPhone: r.ContactPhone,
		QrType:       r.QrType,
		QrData:       r.QrData,
		Package:      ResolvePackage(r.Quantity, r.Package),
		LogoURL:      logoURL,
		Status:       StatusPending,
		CreatedAt:    time.Now(),
	}, nil
}

// ApproveDesign marks the quote's artwork as approved
func (q *Quote) ApproveDesign() {
	q.Status = StatusDesignApproved
}

// NotFound is the error returned for an unknown quote id
func NotFound(id uuid.UUID) error {
	return shared.NotFoundf("Quote with ID %s not found", id)
}
