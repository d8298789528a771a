package queries

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/guard"
)

var (
	ErrGetOrderHistoryQueryIsNotConstructed = errors.New(
		"GetOrderHistoryQuery must be created via NewGetOrderHistoryQuery constructor",
	)
)

// GetOrderHistoryQuery retrieves the modification history of an order.
type GetOrderHistoryQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderHistoryQuery creates a history query for the given order id.
func NewGetOrderHistoryQuery(orderID kernel.UUID) (GetOrderHistoryQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderHistoryQuery{}, err
	}

	return GetOrderHistoryQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderHistoryQueryIsNotConstructed)
}

func (q GetOrderHistoryQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetOrderHistoryQueryResponse lists modifications oldest first.
type GetOrderHistoryQueryResponse struct {
	OrderID       string               `json:"orderId"`
	Modifications []order.Modification `json:"modifications"`
}
