package ports

import "context"

// Notification events emitted by the order core.
const (
	EventOrderProcessed = "order.processed"
	EventOrderUpdated   = "order.updated"
)

// Notification is a customer-facing event about an order.
type Notification struct {
	Event   string
	OrderID string
	Status  string
	Data    map[string]any
}

// Notifier delivers notifications. Callers treat failures as best-effort.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
}
