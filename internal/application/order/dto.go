package order

import (
	"github.com/ServiLut/tote-bag/internal/domain/order"
	"github.com/google/uuid"
)

// ItemInput is one cart line of a checkout
type ItemInput struct {
	ProductID uuid.UUID `json:"productId" binding:"required"`
	VariantID uuid.UUID `json:"variantId" binding:"required"`
	SKU       string    `json:"sku" binding:"required,max=120"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
	Price     int64     `json:"price" binding:"min=0"`
}

// ShippingAddressInput is the delivery destination of a checkout
type ShippingAddressInput struct {
	City    string `json:"city" binding:"required,max=100"`
	Address string `json:"address" binding:"required,max=300"`
	Phone   string `json:"phone" binding:"required,max=30"`
}

// CreateOrderRequest is the body of POST /orders
type CreateOrderRequest struct {
	CustomerEmail   string               `json:"customerEmail" binding:"required,email,max=200"`
	CustomerPhone   string               `json:"customerPhone" binding:"required,max=30"`
	FirstName       string               `json:"firstName" binding:"required,max=100"`
	LastName        string               `json:"lastName" binding:"required,max=100"`
	Department      string               `json:"department" binding:"required,max=100"`
	City            string               `json:"city" binding:"required,max=100"`
	ShippingAddress ShippingAddressInput `json:"shippingAddress" binding:"required"`
	Items           []ItemInput          `json:"items" binding:"required,min=1,dive"`
}

func (r CreateOrderRequest) checkout(profileID *uuid.UUID) order.Checkout {
	items := make([]order.ItemSpec, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, order.ItemSpec{
			ProductID: it.ProductID,
			VariantID: it.VariantID,
			SKU:       it.SKU,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}
	return order.Checkout{
		ProfileID:     profileID,
		CustomerEmail: r.CustomerEmail,
		CustomerPhone: r.CustomerPhone,
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		Department:    r.Department,
		City:          r.City,
		ShippingAddress: order.ShippingAddress{
			City:    r.ShippingAddress.City,
			Address: r.ShippingAddress.Address,
			Phone:   r.ShippingAddress.Phone,
		},
		Items: items,
	}
}

// UpdateOrderRequest is the body of PATCH /orders/:id
type UpdateOrderRequest struct {
	Status         *order.Status `json:"status" binding:"omitempty,oneof=PENDING_PAYMENT PAID IN_PRODUCTION SHIPPED DELIVERED CANCELLED"`
	TrackingNumber *string       `json:"trackingNumber" binding:"omitempty,max=100"`
	Carrier        *string       `json:"carrier" binding:"omitempty,max=100"`
}

func (r UpdateOrderRequest) update() order.Update {
	return order.Update{
		Status:         r.Status,
		TrackingNumber: r.TrackingNumber,
		Carrier:        r.Carrier,
	}
}
