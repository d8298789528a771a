package jobs

import (
	"context"
	"errors"
	"log/slog"

	"marketplace/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// PendingOrdersHandler processes a batch of pending orders.
type PendingOrdersHandler interface {
	Handle(ctx context.Context, cmd commands.ProcessPendingOrdersCommand) (commands.ProcessPendingOrdersResult, error)
}

// OrderFulfillmentJob periodically drives pending orders through the
// fulfillment pipeline. A tick that is still running when the next one is due
// makes the next one skip.
type OrderFulfillmentJob struct {
	handler   PendingOrdersHandler
	schedule  string
	batchSize int
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewOrderFulfillmentJob creates the job. schedule is a cron expression with a
// leading seconds field, e.g. "*/5 * * * * *".
func NewOrderFulfillmentJob(
	handler PendingOrdersHandler,
	schedule string,
	batchSize int,
	logger *slog.Logger,
) *OrderFulfillmentJob {
	return &OrderFulfillmentJob{
		handler:   handler,
		schedule:  schedule,
		batchSize: batchSize,
		cron:      cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:    logger.With("component", "order_fulfillment_job"),
	}
}

// Start registers the schedule and starts the scheduler.
func (j *OrderFulfillmentJob) Start() error {
	if _, err := commands.NewProcessPendingOrdersCommand(j.batchSize); err != nil {
		return err
	}

	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Order fulfillment job started",
		"schedule", j.schedule, "batch_size", j.batchSize)
	return nil
}

// Run processes one batch. Having nothing to do is not worth a log line.
func (j *OrderFulfillmentJob) Run(ctx context.Context) {
	cmd, err := commands.NewProcessPendingOrdersCommand(j.batchSize)
	if err != nil {
		j.logger.ErrorContext(ctx, "Order fulfillment job misconfigured", "error", err)
		return
	}

	result, err := j.handler.Handle(ctx, cmd)
	switch {
	case errors.Is(err, commands.ErrNoPendingOrders):
	case err != nil:
		j.logger.ErrorContext(ctx, "Order fulfillment job failed", "error", err)
	default:
		j.logger.InfoContext(ctx, "Pending orders processed",
			"processed", result.Processed, "failed", result.Failed)
	}
}

// Stop stops the scheduler and waits for a running tick to finish.
func (j *OrderFulfillmentJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Order fulfillment job stopped")
}
