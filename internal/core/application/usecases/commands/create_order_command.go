package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand carries a validated order request.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(req)
//	if err != nil {
//	    // *order.ValidationError with every problem of req
//	    return err
//	}
//	result, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	request order.Request

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand runs the request validator and returns an
// *order.ValidationError listing every problem found.
func NewCreateOrderCommand(req order.Request) (CreateOrderCommand, error) {
	if err := services.NewOrderRequestValidator().Validate(req).Err(); err != nil {
		return CreateOrderCommand{}, err
	}

	return CreateOrderCommand{
		request: req,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) Request() order.Request {
	return c.request
}
