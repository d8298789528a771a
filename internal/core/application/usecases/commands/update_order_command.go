package commands

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/guard"
)

var ErrUpdateOrderCommandIsNotConstructed = errors.New(
	"UpdateOrderCommand must be created via NewUpdateOrderCommand constructor",
)

// SystemUser is recorded as the actor when no user is known.
const SystemUser = "system"

// UpdateOrderCommand is a post-creation change request.
//
// Example:
//
//	cmd, err := NewUpdateOrderCommand(orderID, order.UpdateCancel, order.UpdateValue{},
//	    "buyer changed mind", true, "u-42")
type UpdateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID        kernel.UUID
	updateType     order.UpdateType
	value          order.UpdateValue
	reason         string
	notifyCustomer bool
	userID         string

	guard guard.ConstructorGuard
}

// NewUpdateOrderCommand validates the order id and update type. The new value
// is validated when it is applied. An empty userID becomes SystemUser.
func NewUpdateOrderCommand(
	orderID kernel.UUID,
	updateType order.UpdateType,
	value order.UpdateValue,
	reason string,
	notifyCustomer bool,
	userID string,
) (UpdateOrderCommand, error) {
	if err := errors.Join(orderID.Validate(), updateType.Validate()); err != nil {
		return UpdateOrderCommand{}, err
	}

	if strings.TrimSpace(userID) == "" {
		userID = SystemUser
	}

	return UpdateOrderCommand{
		orderID:        orderID,
		updateType:     updateType,
		value:          value,
		reason:         reason,
		notifyCustomer: notifyCustomer,
		userID:         userID,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateOrderCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderCommandIsNotConstructed)
}

func (c UpdateOrderCommand) OrderID() kernel.UUID         { return c.orderID }
func (c UpdateOrderCommand) UpdateType() order.UpdateType { return c.updateType }
func (c UpdateOrderCommand) Value() order.UpdateValue     { return c.value }
func (c UpdateOrderCommand) Reason() string               { return c.reason }
func (c UpdateOrderCommand) NotifyCustomer() bool         { return c.notifyCustomer }
func (c UpdateOrderCommand) UserID() string               { return c.userID }
