package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

var ErrNoPendingOrders = errors.New("no orders awaiting fulfillment")

// DefaultRetryBackoff is how long an order whose run failed waits before the
// batch picks it up again.
const DefaultRetryBackoff = time.Minute

// OrderProcessor runs the fulfillment pipeline for one order.
type OrderProcessor interface {
	Handle(ctx context.Context, cmd ProcessOrderCommand) (ProcessOrderResult, error)
}

// ProcessPendingOrdersResult counts the outcome of one batch.
type ProcessPendingOrdersResult struct {
	Processed int
	Failed    int
}

// ProcessPendingOrdersCommandHandler picks the orders due for fulfillment and
// runs the pipeline on each, resuming part-fulfilled ones. A failing order does
// not stop the batch and is deferred by the retry back-off, so orders stuck on
// payment queue behind the ones created after them.
//
// Example:
//
//	handler := NewProcessPendingOrdersCommandHandler(uowFactory, &pipeline, logger)
//	result, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, ErrNoPendingOrders):
//	    // nothing to do
//	case err != nil:
//	    log.Printf("Batch failed: %v", err)
//	default:
//	    log.Printf("%d processed, %d failed", result.Processed, result.Failed)
//	}
type ProcessPendingOrdersCommandHandler struct {
	uowFactory OrderUoWFactory
	processor  OrderProcessor
	logger     *slog.Logger
	now        Clock
	backoff    time.Duration
}

func NewProcessPendingOrdersCommandHandler(
	uowFactory OrderUoWFactory,
	processor OrderProcessor,
	logger *slog.Logger,
) ProcessPendingOrdersCommandHandler {
	return ProcessPendingOrdersCommandHandler{
		uowFactory: uowFactory,
		processor:  processor,
		logger:     logger.With("component", "pending_orders"),
		now:        systemClock,
		backoff:    DefaultRetryBackoff,
	}
}

// WithClock returns a copy of the handler using the given clock.
func (h ProcessPendingOrdersCommandHandler) WithClock(now Clock) ProcessPendingOrdersCommandHandler {
	h.now = now
	return h
}

// WithRetryBackoff returns a copy of the handler deferring failed orders by backoff.
func (h ProcessPendingOrdersCommandHandler) WithRetryBackoff(backoff time.Duration) ProcessPendingOrdersCommandHandler {
	h.backoff = backoff
	return h
}

// Handle returns ErrNoPendingOrders when there is nothing to process.
func (h ProcessPendingOrdersCommandHandler) Handle(
	ctx context.Context,
	command ProcessPendingOrdersCommand,
) (ProcessPendingOrdersResult, error) {
	if err := command.Validate(); err != nil {
		return ProcessPendingOrdersResult{}, err
	}

	repo := h.uowFactory.Create().OrderRepository()
	due, err := repo.ListDueForFulfillment(ctx, h.now(), command.BatchSize())
	if err != nil {
		return ProcessPendingOrdersResult{}, err
	}
	if len(due) == 0 {
		return ProcessPendingOrdersResult{}, ErrNoPendingOrders
	}

	var result ProcessPendingOrdersResult
	for _, o := range due {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		cmd, cmdErr := NewProcessOrderCommand(o.ID())
		if cmdErr != nil {
			return result, cmdErr
		}

		if _, runErr := h.processor.Handle(ctx, cmd); runErr != nil {
			result.Failed++
			retryAt := h.now().Add(h.backoff)
			attempts, deferErr := repo.DeferFulfillment(ctx, o.ID(), retryAt)
			if deferErr != nil {
				h.logger.ErrorContext(ctx, "Failed order not deferred",
					"order_id", o.ID().String(), "error", deferErr)
			}
			h.logger.WarnContext(ctx, "Order not processed",
				"order_id", o.ID().String(), "attempts", attempts, "retry_at", retryAt, "error", runErr)
			continue
		}
		result.Processed++
	}

	return result, nil
}
