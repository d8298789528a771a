package jobs

import (
	"fmt"
	"log/slog"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	orderFulfillmentJob *OrderFulfillmentJob
}

// NewJobManager creates a new job manager. An empty schedule disables the
// fulfillment job, leaving orders to be processed on request only.
func NewJobManager(
	pendingOrdersHandler PendingOrdersHandler,
	fulfillmentSchedule string,
	fulfillmentBatchSize int,
	logger *slog.Logger,
) *JobManager {
	jm := &JobManager{}
	if fulfillmentSchedule != "" {
		jm.orderFulfillmentJob = NewOrderFulfillmentJob(
			pendingOrdersHandler, fulfillmentSchedule, fulfillmentBatchSize, logger,
		)
	}
	return jm
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if jm.orderFulfillmentJob == nil {
		return nil
	}

	if err := jm.orderFulfillmentJob.Start(); err != nil {
		return fmt.Errorf("failed to start order fulfillment job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	if jm.orderFulfillmentJob != nil {
		jm.orderFulfillmentJob.Stop()
	}
}
