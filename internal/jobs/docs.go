// Package jobs provides scheduled background tasks for the order service.
//
// Jobs are cron-based (github.com/robfig/cron/v3, with a seconds field).
//
// # Available Jobs
//
// OrderFulfillmentJob picks the orders due for fulfillment on every tick and
// runs the pipeline on each of them, resuming orders a previous run left
// halfway. Orders that fail are deferred by a back-off and retried on a later
// tick behind newer orders.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(pendingOrdersHandler, "*/5 * * * * *", 10, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Having nothing due is silent; every other failure is logged and the
// job keeps its schedule.
package jobs
