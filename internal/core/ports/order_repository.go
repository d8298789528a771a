// Package ports defines the contracts between the order core and its
// infrastructure: persistence, the product catalog, fulfillment collaborators,
// notifications and authorization.
package ports

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// It is the only component touching the store directly.
type OrderRepository interface {
	// Add persists a new order together with its line items.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists header changes of an existing order using a
	// compare-and-swap on the version the order was loaded with. On success the
	// aggregate carries the incremented version.
	//
	// Returns errs.ObjectNotFoundError when the order does not exist and
	// errs.VersionIsInvalidError when it was modified since it was read.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order with its items.
	// Returns errs.ObjectNotFoundError when absent.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// CountForBuyer returns how many orders the buyer has placed so far.
	CountForBuyer(ctx context.Context, buyerID string) (int64, error)

	// ListDueForFulfillment returns up to limit orders that still await
	// fulfillment (pending up to ready_for_pickup) and are not deferred past
	// now. Orders come in the order of their next attempt; an order never
	// deferred is due from its creation time.
	ListDueForFulfillment(ctx context.Context, now time.Time, limit int) ([]*order.Order, error)

	// DeferFulfillment counts a failed fulfillment attempt and hides the order
	// from ListDueForFulfillment until retryAt. It returns the attempt count.
	// The order version is left untouched.
	DeferFulfillment(ctx context.Context, id kernel.UUID, retryAt time.Time) (int, error)

	// AppendModification adds an entry to the append-only modification history.
	AppendModification(ctx context.Context, orderID kernel.UUID, modification order.Modification) error

	// ListModifications returns the modification history, oldest first.
	ListModifications(ctx context.Context, orderID kernel.UUID) ([]order.Modification, error)
}
