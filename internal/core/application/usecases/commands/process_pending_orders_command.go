package commands

import (
	"errors"

	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

const MaxPendingOrdersBatch = 100

var ErrProcessPendingOrdersCommandIsNotConstructed = errors.New(
	"ProcessPendingOrdersCommand must be created via NewProcessPendingOrdersCommand constructor",
)

// ProcessPendingOrdersCommand drives the oldest pending orders through the
// fulfillment pipeline.
//
// Example:
//
//	cmd, _ := NewProcessPendingOrdersCommand(10)
//	result, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, ErrNoPendingOrders) {
//	    return
//	}
type ProcessPendingOrdersCommand struct { //nolint:recvcheck //using for validation
	batchSize int

	guard guard.ConstructorGuard
}

// NewProcessPendingOrdersCommand creates a command picking at most batchSize orders.
func NewProcessPendingOrdersCommand(batchSize int) (ProcessPendingOrdersCommand, error) {
	if batchSize < 1 || batchSize > MaxPendingOrdersBatch {
		return ProcessPendingOrdersCommand{}, errs.NewValueIsOutOfRangeError("batchSize", batchSize, 1, MaxPendingOrdersBatch)
	}

	return ProcessPendingOrdersCommand{
		batchSize: batchSize,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ProcessPendingOrdersCommand) Validate() error {
	return c.guard.Validate(ErrProcessPendingOrdersCommandIsNotConstructed)
}

func (c ProcessPendingOrdersCommand) BatchSize() int {
	return c.batchSize
}
