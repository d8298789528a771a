// Package queries contains read operations that bypass the aggregates and
// read the order tables directly.
package queries

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/guard"
)

var (
	ErrGetOrderQueryIsNotConstructed = errors.New(
		"GetOrderQuery must be created via NewGetOrderQuery constructor",
	)
)

// GetOrderQuery retrieves one order with its items.
//
// Example:
//
//	query, err := NewGetOrderQuery(orderID)
//	if err != nil {
//	    return err
//	}
//
//	resp, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get order: %w", err)
//	}
//
//	for _, item := range resp.Items {
//	    fmt.Printf("%s x%d (available: %t)\n", item.ProductName, item.Quantity, item.Available)
//	}
type GetOrderQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for the given order id.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetOrderQueryResponse is an order header plus its items enriched from the catalog.
type GetOrderQueryResponse struct {
	ID                  string                 `json:"id"`
	BuyerID             string                 `json:"buyerId"`
	SupplierID          string                 `json:"supplierId"`
	Status              string                 `json:"status"`
	TotalAmount         kernel.Money           `json:"totalAmount"`
	DeliveryAddress     order.ShippingAddress  `json:"deliveryAddress"`
	PaymentMethod       string                 `json:"paymentMethod"`
	PaymentStatus       string                 `json:"paymentStatus"`
	Currency            string                 `json:"currency"`
	SpecialInstructions string                 `json:"specialInstructions,omitempty"`
	TrackingNumber      string                 `json:"trackingNumber,omitempty"`
	Version             int                    `json:"version"`
	CreatedAt           time.Time              `json:"createdAt"`
	UpdatedAt           time.Time              `json:"updatedAt"`
	Items               []GetOrderItemResponse `json:"items"`
}

// GetOrderItemResponse is one order line. Products missing from the catalog
// are reported with the name "Unknown product" and as unavailable.
type GetOrderItemResponse struct {
	ProductID   string       `json:"productId"`
	ProductName string       `json:"productName"`
	Available   bool         `json:"available"`
	Quantity    int          `json:"quantity"`
	UnitPrice   kernel.Money `json:"unitPrice"`
	TotalPrice  kernel.Money `json:"totalPrice"`
}
