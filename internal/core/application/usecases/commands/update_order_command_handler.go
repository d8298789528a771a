package commands

import (
	"context"
	"errors"
	"log/slog"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// ConcurrentModificationReason is reported when the optimistic version check fails.
const ConcurrentModificationReason = "order was modified concurrently"

// UpdateOrderResult describes an applied update.
type UpdateOrderResult struct {
	OrderID             string               `json:"orderId"`
	UpdateType          order.UpdateType     `json:"updateType"`
	PreviousValue       string               `json:"previousValue"`
	NewValue            string               `json:"newValue"`
	Status              string               `json:"status"`
	Version             int                  `json:"version"`
	Notified            bool                 `json:"notified"`
	NotificationError   string               `json:"notificationError,omitempty"`
	ModificationHistory []order.Modification `json:"modificationHistory"`
}

// UpdateOrderCommandHandler applies post-creation changes under the conflict
// rules of the order and records each change in the modification history.
//
// Flow: authorize -> load -> conflict check -> apply -> versioned update ->
// audit entry -> commit -> optional best-effort notification.
type UpdateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	authorizer ports.Authorizer
	notifier   ports.Notifier
	logger     *slog.Logger
	now        Clock
}

// NewUpdateOrderCommandHandler creates the update handler.
func NewUpdateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	authorizer ports.Authorizer,
	notifier ports.Notifier,
	logger *slog.Logger,
) UpdateOrderCommandHandler {
	return UpdateOrderCommandHandler{
		uowFactory: uowFactory,
		authorizer: authorizer,
		notifier:   notifier,
		logger:     logger.With("component", "order_updates"),
		now:        systemClock,
	}
}

// WithClock returns a copy of the handler using the given clock.
func (h UpdateOrderCommandHandler) WithClock(now Clock) UpdateOrderCommandHandler {
	h.now = now
	return h
}

// Handle applies the update. Errors: *order.PermissionDeniedError,
// *order.OrderNotFoundError, *order.UpdateConflictError (state rules and stale
// versions) and *order.ValidationError for an unusable new value.
func (h *UpdateOrderCommandHandler) Handle(ctx context.Context, cmd UpdateOrderCommand) (UpdateOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return UpdateOrderResult{}, err
	}

	if err := h.authorizer.CanUpdate(ctx, cmd.UserID(), cmd.OrderID(), cmd.UpdateType()); err != nil {
		return UpdateOrderResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return UpdateOrderResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return UpdateOrderResult{}, order.NewOrderNotFoundError(cmd.OrderID().String())
		}
		return UpdateOrderResult{}, err
	}

	if reasons := o.UpdateConflicts(cmd.UpdateType()); len(reasons) > 0 {
		return UpdateOrderResult{}, order.NewUpdateConflictError(reasons...)
	}

	at := h.now()
	previous, current, err := o.ApplyUpdate(cmd.UpdateType(), cmd.Value(), at)
	if err != nil {
		return UpdateOrderResult{}, order.NewValidationError(err.Error())
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		if errors.Is(err, errs.ErrVersionIsInvalid) {
			return UpdateOrderResult{}, order.NewUpdateConflictError(ConcurrentModificationReason)
		}
		return UpdateOrderResult{}, err
	}

	if err = orderRepo.AppendModification(ctx, o.ID(), order.Modification{
		Timestamp:  at,
		UpdateType: cmd.UpdateType(),
		OldValue:   previous,
		NewValue:   current,
		Reason:     cmd.Reason(),
		UserID:     cmd.UserID(),
	}); err != nil {
		return UpdateOrderResult{}, err
	}

	history, err := orderRepo.ListModifications(ctx, o.ID())
	if err != nil {
		return UpdateOrderResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return UpdateOrderResult{}, err
	}

	result := UpdateOrderResult{
		OrderID:             o.ID().String(),
		UpdateType:          cmd.UpdateType(),
		PreviousValue:       previous,
		NewValue:            current,
		Status:              o.Status().String(),
		Version:             o.Version(),
		ModificationHistory: history,
	}

	if cmd.NotifyCustomer() {
		err = h.notifier.Send(ctx, ports.Notification{
			Event:   ports.EventOrderUpdated,
			OrderID: result.OrderID,
			Status:  result.Status,
			Data: map[string]any{
				"updateType":    string(cmd.UpdateType()),
				"previousValue": previous,
				"newValue":      current,
				"reason":        cmd.Reason(),
			},
		})
		if err != nil {
			h.logger.WarnContext(ctx, "Customer notification failed",
				"order_id", result.OrderID, "error", err)
			result.NotificationError = err.Error()
		} else {
			result.Notified = true
		}
	}

	return result, nil
}
