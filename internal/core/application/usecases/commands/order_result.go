package commands

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

// OrderView is the caller-facing representation of an order header.
type OrderView struct {
	ID                  string                `json:"id"`
	BuyerID             string                `json:"buyerId"`
	SupplierID          string                `json:"supplierId"`
	Status              string                `json:"status"`
	TotalAmount         kernel.Money          `json:"totalAmount"`
	DeliveryAddress     order.ShippingAddress `json:"deliveryAddress"`
	PaymentMethod       order.PaymentMethod   `json:"paymentMethod"`
	PaymentStatus       order.PaymentStatus   `json:"paymentStatus"`
	Currency            string                `json:"currency"`
	SpecialInstructions string                `json:"specialInstructions,omitempty"`
	TrackingNumber      string                `json:"trackingNumber,omitempty"`
	Version             int                   `json:"version"`
	CreatedAt           time.Time             `json:"createdAt"`
	UpdatedAt           time.Time             `json:"updatedAt"`
}

// ItemView is one persisted order line.
type ItemView struct {
	ProductID  string       `json:"productId"`
	Quantity   int          `json:"quantity"`
	UnitPrice  kernel.Money `json:"unitPrice"`
	TotalPrice kernel.Money `json:"totalPrice"`
}

// Pricing is the breakdown behind an order total.
type Pricing struct {
	Subtotal       kernel.Money `json:"subtotal"`
	Taxes          kernel.Money `json:"taxes"`
	Shipping       kernel.Money `json:"shipping"`
	DiscountAmount kernel.Money `json:"discountAmount"`
	Discounts      []string     `json:"discounts"`
	Total          kernel.Money `json:"total"`
}

// OrderResult is returned by order creation.
type OrderResult struct {
	Order   OrderView  `json:"order"`
	Items   []ItemView `json:"items"`
	Pricing Pricing    `json:"pricing"`
}

// NewOrderView maps the aggregate to its caller-facing form.
func NewOrderView(o *order.Order) OrderView {
	a := o.DeliveryAddress()
	return OrderView{
		ID:          o.ID().String(),
		BuyerID:     o.BuyerID(),
		SupplierID:  o.SupplierID(),
		Status:      o.Status().String(),
		TotalAmount: o.TotalAmount(),
		DeliveryAddress: order.ShippingAddress{
			Street:     a.Street(),
			City:       a.City(),
			State:      a.State(),
			PostalCode: a.PostalCode(),
			Country:    a.Country(),
		},
		PaymentMethod:       o.PaymentMethod(),
		PaymentStatus:       o.PaymentStatus(),
		Currency:            o.Currency(),
		SpecialInstructions: o.SpecialInstructions(),
		TrackingNumber:      o.TrackingNumber(),
		Version:             o.Version(),
		CreatedAt:           o.CreatedAt(),
		UpdatedAt:           o.UpdatedAt(),
	}
}

// NewItemViews maps persisted order lines.
func NewItemViews(items []order.Item) []ItemView {
	views := make([]ItemView, 0, len(items))
	for _, it := range items {
		views = append(views, ItemView{
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			UnitPrice:  it.UnitPrice,
			TotalPrice: it.TotalPrice,
		})
	}
	return views
}
