package order

import (
	"marketplace/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// Request is what a buyer submits to place an order. It is transient: it is
// validated as a whole, converted into line items and discarded.
type Request struct {
	BuyerID             string          `json:"buyerId"`
	Items               []RequestItem   `json:"items"`
	ShippingAddress     ShippingAddress `json:"shippingAddress"`
	PaymentDetails      PaymentDetails  `json:"paymentDetails"`
	SpecialInstructions string          `json:"specialInstructions,omitempty"`
}

// RequestItem is one requested product. UnitPrice is the price the buyer saw,
// kept as a raw decimal so that a negative or over-precise price reaches the
// validator instead of failing the decode.
type RequestItem struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// ShippingAddress is the unvalidated address of a request.
type ShippingAddress struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// ToAddress validates the components and builds a kernel.Address.
func (a ShippingAddress) ToAddress() (kernel.Address, error) {
	return kernel.NewAddress(a.Street, a.City, a.State, a.PostalCode, a.Country)
}

// PaymentDetails describes how the order will be paid.
type PaymentDetails struct {
	Method   PaymentMethod `json:"method"`
	Currency string        `json:"currency"`
}
