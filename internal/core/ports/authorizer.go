package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

// Authorizer decides whether an actor may change an order. Role rules,
// including any administrative bypass, live behind this interface and never
// in the order core.
type Authorizer interface {
	// CanUpdate returns order.PermissionDeniedError when the actor may not apply
	// an update of the given type.
	CanUpdate(ctx context.Context, actor string, orderID kernel.UUID, kind order.UpdateType) error
}
