package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

// PaymentGateway verifies that the order amount can be collected.
type PaymentGateway interface {
	// VerifyPayment returns a gateway reference on success.
	VerifyPayment(ctx context.Context, o *order.Order) (string, error)
}

// Warehouse packs the items of an order.
type Warehouse interface {
	// Pack returns a package reference on success.
	Pack(ctx context.Context, orderID kernel.UUID, items []order.Item) (string, error)
}

// ShippingCarrier creates labels and registers parcels for tracking.
type ShippingCarrier interface {
	// CreateLabel returns the tracking number of the new label.
	CreateLabel(ctx context.Context, o *order.Order) (string, error)

	// StartTracking hands the parcel over to the delivery partner.
	StartTracking(ctx context.Context, orderID kernel.UUID, trackingNumber string) error
}

// StepLedger keeps idempotency markers for completed fulfillment steps so a
// re-invoked run does not repeat side effects.
type StepLedger interface {
	// Completed returns the details recorded for each completed step, keyed by
	// step number.
	Completed(ctx context.Context, orderID kernel.UUID) (map[int]string, error)

	// MarkCompleted records that a step finished with the given details.
	MarkCompleted(ctx context.Context, orderID kernel.UUID, step int, details string) error
}
