// Package order models checkout orders and their fulfilment lifecycle.
package order

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/ServiLut/tote-bag/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the fulfilment state of an order
type Status string

const (
	StatusPendingPayment Status = "PENDING_PAYMENT"
	StatusPaid           Status = "PAID"
	StatusInProduction   Status = "IN_PRODUCTION"
	StatusShipped        Status = "SHIPPED"
	StatusDelivered      Status = "DELIVERED"
	StatusCancelled      Status = "CANCELLED"
)

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	switch s {
	case StatusPendingPayment, StatusPaid, StatusInProduction,
		StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// ProductionStatuses are the states whose items count as produced or in
// production
func ProductionStatuses() []Status {
	return []Status{StatusPaid, StatusInProduction, StatusShipped, StatusDelivered}
}

// ShippingAddress is stored as a JSON column on the order
type ShippingAddress struct {
	City    string `json:"city"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// Value implements driver.Valuer
func (s ShippingAddress) Value() (driver.Value, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (s *ShippingAddress) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*s = ShippingAddress{}
		return nil
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("cannot scan %T into ShippingAddress", value)
	}
}

// Order is a customer purchase
type Order struct {
	shared.BaseEntity
	OrderNumber     int64           `gorm:"not null;uniqueIndex" json:"orderNumber"`
	ProfileID       *uuid.UUID      `gorm:"type:uuid;index" json:"profileId,omitempty"`
	CustomerEmail   string          `gorm:"type:varchar(200);not null" json:"customerEmail"`
	CustomerPhone   string          `gorm:"type:varchar(30);not null" json:"customerPhone"`
	FirstName       string          `gorm:"type:varchar(100);not null" json:"firstName"`
	LastName        string          `gorm:"type:varchar(100);not null" json:"lastName"`
	Department      string          `gorm:"type:varchar(100);not null" json:"department"`
	City            string          `gorm:"type:varchar(100);not null" json:"city"`
	ShippingAddress ShippingAddress `gorm:"type:jsonb;not null" json:"shippingAddress"`
	TotalAmount     int64           `gorm:"not null" json:"totalAmount"`
	Status          Status          `gorm:"type:varchar(20);not null;default:'PENDING_PAYMENT';index" json:"status"`
	TrackingNumber  *string         `gorm:"type:varchar(100)" json:"trackingNumber,omitempty"`
	Carrier         *string         `gorm:"type:varchar(100)" json:"carrier,omitempty"`

	Items []Item `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// Item is one line of an order. Price is the unit price at checkout.
type Item struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index" json:"orderId"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"productId"`
	VariantID uuid.UUID `gorm:"type:uuid;not null" json:"variantId"`
	SKU       string    `gorm:"column:sku;type:varchar(120);not null;index" json:"sku"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Price     int64     `gorm:"not null" json:"price"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "order_items"
}

// ItemSpec is a cart line as submitted at checkout
type ItemSpec struct {
	ProductID uuid.UUID
	VariantID uuid.UUID
	SKU       string
	Quantity  int
	Price     int64
}

// Checkout is everything the customer submits to place an order
type Checkout struct {
	ProfileID       *uuid.UUID
	CustomerEmail   string
	CustomerPhone   string
	FirstName       string
	LastName        string
	Department      string
	City            string
	ShippingAddress ShippingAddress
	Items           []ItemSpec
}

// NewOrder builds a pending order and computes its total. The order
// number is assigned by the repository on insert.
func NewOrder(c Checkout) (*Order, error) {
	if len(c.Items) == 0 {
		return nil, shared.Validationf("Order must contain at least one item")
	}
	required := []struct{ name, value string }{
		{"customerEmail", c.CustomerEmail},
		{"customerPhone", c.CustomerPhone},
		{"firstName", c.FirstName},
		{"lastName", c.LastName},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return nil, shared.Validationf("%s cannot be empty", f.name)
		}
	}

	o := &Order{
		BaseEntity:      shared.NewBaseEntity(),
		ProfileID:       c.ProfileID,
		CustomerEmail:   c.CustomerEmail,
		CustomerPhone:   c.CustomerPhone,
		FirstName:       c.FirstName,
		LastName:        c.LastName,
		Department:      c.Department,
		City:            c.City,
		ShippingAddress: c.ShippingAddress,
		Status:          StatusPendingPayment,
	}

	total := decimal.Zero
	for _, spec := range c.Items {
		if spec.Quantity <= 0 {
			return nil, shared.Validationf("Quantity for %s must be positive", spec.SKU)
		}
		if spec.Price < 0 {
			return nil, shared.Validationf("Price for %s cannot be negative", spec.SKU)
		}
		total = total.Add(decimal.NewFromInt(spec.Price).Mul(decimal.NewFromInt(int64(spec.Quantity))))
		o.Items = append(o.Items, Item{
			ID:        uuid.New(),
			OrderID:   o.ID,
			ProductID: spec.ProductID,
			VariantID: spec.VariantID,
			SKU:       strings.TrimSpace(spec.SKU),
			Quantity:  spec.Quantity,
			Price:     spec.Price,
		})
	}
	if total.GreaterThan(decimal.NewFromInt(math.MaxInt64)) {
		return nil, shared.Validationf("Order total exceeds the allowed amount")
	}
	o.TotalAmount = total.IntPart()
	return o, nil
}

// Update is the admin patch of an order
type Update struct {
	Status         *Status
	TrackingNumber *string
	Carrier        *string
}

// Apply changes status and shipment tracking. Delivered and cancelled
// orders only accept tracking changes.
func (o *Order) Apply(u Update) error {
	if u.Status != nil && *u.Status != o.Status {
		if !u.Status.IsValid() {
			return shared.Validationf("Invalid order status: %s", *u.Status)
		}
		if o.Status.IsTerminal() {
			return shared.NewDomainError(shared.CodeInvalidState,
				fmt.Sprintf("Order %d is %s and cannot change status", o.OrderNumber, o.Status))
		}
		o.Status = *u.Status
	}
	if u.TrackingNumber != nil {
		o.TrackingNumber = emptyToNil(*u.TrackingNumber)
	}
	if u.Carrier != nil {
		o.Carrier = emptyToNil(*u.Carrier)
	}
	o.Touch()
	return nil
}

// NotFound is the error returned for an unknown order id
func NotFound(id uuid.UUID) error {
	return shared.NotFoundf("Order with ID %s not found", id)
}

func emptyToNil(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
