package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/fulfillment"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// DeliveryEstimate is added to the run time to estimate delivery.
const DeliveryEstimate = 5 * 24 * time.Hour

// ProcessOrderResult describes where a run left the order.
type ProcessOrderResult struct {
	OrderID               string             `json:"orderId"`
	CurrentStatus         string             `json:"currentStatus"`
	CurrentStep           int                `json:"currentStep"`
	TotalSteps            int                `json:"totalSteps"`
	Steps                 []fulfillment.Step `json:"steps"`
	EstimatedDeliveryDate time.Time          `json:"estimatedDeliveryDate"`
	TrackingNumber        string             `json:"trackingNumber,omitempty"`
}

// ProcessOrderCommandHandler runs the fulfillment pipeline:
//
//	1 Verify Payment          -> status unchanged
//	2 Check Inventory         -> confirmed
//	3 Pack Items              -> preparing
//	4 Generate Shipping Label -> ready_for_pickup, tracking number assigned
//	5 Update Tracking         -> out_for_delivery
//	6 Notify Customer         -> best effort
//
// Steps run strictly in sequence. A failure in steps 1-5 stops the run with an
// *order.ProcessingError; statuses already written stay written. A failure of
// step 6 is recorded on the step and the run still succeeds.
//
// Every status change is committed on its own, so a re-invoked run resumes
// from the first step not yet reflected in the order status or in the step
// ledger, without repeating earlier side effects.
type ProcessOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	arbiter    services.InventoryArbiter
	payments   ports.PaymentGateway
	warehouse  ports.Warehouse
	carrier    ports.ShippingCarrier
	notifier   ports.Notifier
	ledger     ports.StepLedger
	logger     *slog.Logger
	now        Clock
}

// NewProcessOrderCommandHandler creates the pipeline handler.
func NewProcessOrderCommandHandler(
	uowFactory OrderUoWFactory,
	products ports.ProductCatalog,
	payments ports.PaymentGateway,
	warehouse ports.Warehouse,
	carrier ports.ShippingCarrier,
	notifier ports.Notifier,
	ledger ports.StepLedger,
	logger *slog.Logger,
) ProcessOrderCommandHandler {
	return ProcessOrderCommandHandler{
		uowFactory: uowFactory,
		arbiter:    services.NewInventoryArbiter(products),
		payments:   payments,
		warehouse:  warehouse,
		carrier:    carrier,
		notifier:   notifier,
		ledger:     ledger,
		logger:     logger.With("component", "fulfillment_pipeline"),
		now:        systemClock,
	}
}

// WithClock returns a copy of the handler using the given clock.
func (h ProcessOrderCommandHandler) WithClock(now Clock) ProcessOrderCommandHandler {
	h.now = now
	return h
}

// run holds the state of one pipeline execution.
type run struct {
	order     *order.Order
	persisted order.Status
	tracking  string
	done      map[int]string
	startedAt time.Time
}

// Handle runs the pipeline for one order. On a step failure the returned
// result is still populated and the error is an *order.ProcessingError.
func (h *ProcessOrderCommandHandler) Handle(ctx context.Context, cmd ProcessOrderCommand) (ProcessOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return ProcessOrderResult{}, err
	}

	o, err := h.uowFactory.Create().OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return ProcessOrderResult{}, order.NewOrderNotFoundError(cmd.OrderID().String())
		}
		return ProcessOrderResult{}, err
	}
	if o.Status() == order.Cancelled {
		return ProcessOrderResult{}, order.NewUpdateConflictError(
			fmt.Sprintf("order is %s and cannot be processed", o.Status()),
		)
	}

	r := &run{
		order:     o,
		persisted: o.Status(),
		tracking:  o.TrackingNumber(),
		done:      h.completedSteps(ctx, o.ID()),
		startedAt: h.now(),
	}
	log := h.logger.With("order_id", o.ID().String())

	steps := fulfillment.NewSteps()
	for i := range steps {
		step := &steps[i]
		step.Start(h.now())

		if details, ok := h.alreadyCompleted(r, step.StepNumber); ok {
			step.Complete(h.now(), details+" (already completed)")
			continue
		}

		details, stepErr := h.execute(ctx, r, step.StepNumber)
		if stepErr != nil {
			step.Fail(h.now(), stepErr)
			if fulfillment.IsBestEffort(step.StepNumber) {
				log.WarnContext(ctx, "Best-effort step failed", "step", step.StepNumber, "error", stepErr)
				continue
			}
			log.ErrorContext(ctx, "Fulfillment step failed", "step", step.StepNumber, "error", stepErr)
			return h.result(r, steps), order.NewProcessingError(step.StepNumber, step.StepName, stepErr.Error())
		}

		step.Complete(h.now(), details)
		if markErr := h.ledger.MarkCompleted(ctx, o.ID(), step.StepNumber, details); markErr != nil {
			log.WarnContext(ctx, "Failed to record step marker", "step", step.StepNumber, "error", markErr)
		}
	}

	log.InfoContext(ctx, "Order processed", "status", r.persisted.String())
	return h.result(r, steps), nil
}

func (h *ProcessOrderCommandHandler) completedSteps(ctx context.Context, orderID kernel.UUID) map[int]string {
	done, err := h.ledger.Completed(ctx, orderID)
	if err != nil {
		h.logger.WarnContext(ctx, "Step ledger unavailable, assuming no completed steps",
			"order_id", orderID.String(), "error", err)
		return map[int]string{}
	}
	if done == nil {
		return map[int]string{}
	}
	return done
}

// alreadyCompleted reports whether the effect of a step is already in place,
// either through its ledger marker or through the persisted order status.
func (h *ProcessOrderCommandHandler) alreadyCompleted(r *run, step int) (string, bool) {
	if details, ok := r.done[step]; ok {
		if details == "" {
			details = fulfillment.StepName(step)
		}
		return details, true
	}

	reached := false
	if status, moves := fulfillment.ResultingStatus(step); moves {
		reached = r.persisted.HasReached(status)
	} else if step == fulfillment.VerifyPayment {
		// inventory is only checked after a successful payment verification
		reached = r.persisted.HasReached(order.Confirmed)
	}
	if !reached {
		return "", false
	}
	return fmt.Sprintf("Order already %s", r.persisted), true
}

func (h *ProcessOrderCommandHandler) execute(ctx context.Context, r *run, step int) (string, error) {
	o := r.order
	switch step {
	case fulfillment.VerifyPayment:
		ref, err := h.payments.VerifyPayment(ctx, o)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Payment of %s %s verified (reference %s)", o.TotalAmount(), o.Currency(), ref), nil

	case fulfillment.CheckInventory:
		lineItems := make([]order.LineItem, 0, len(o.Items()))
		for _, it := range o.Items() {
			lineItems = append(lineItems, it.LineItem())
		}
		availability, err := h.arbiter.CheckAvailability(ctx, lineItems)
		if err != nil {
			return "", err
		}
		if !availability.AllAvailable {
			ids := make([]string, 0, len(availability.UnavailableItems))
			for _, it := range availability.UnavailableItems {
				ids = append(ids, it.ProductID)
			}
			return "", fmt.Errorf("items out of stock: %s", strings.Join(ids, ", "))
		}
		if err = h.advance(ctx, r, order.Confirmed); err != nil {
			return "", err
		}
		return fmt.Sprintf("All %d items in stock", len(lineItems)), nil

	case fulfillment.PackItems:
		ref, err := h.warehouse.Pack(ctx, o.ID(), o.Items())
		if err != nil {
			return "", err
		}
		if err = h.advance(ctx, r, order.Preparing); err != nil {
			return "", err
		}
		return fmt.Sprintf("Items packed (package %s)", ref), nil

	case fulfillment.GenerateShippingLabel:
		tracking, err := h.carrier.CreateLabel(ctx, o)
		if err != nil {
			return "", err
		}
		if err = o.AssignTrackingNumber(tracking, h.now()); err != nil {
			return "", err
		}
		if err = h.advance(ctx, r, order.ReadyForPickup); err != nil {
			return "", err
		}
		r.tracking = tracking
		return fmt.Sprintf("Shipping label created, tracking number %s", tracking), nil

	case fulfillment.UpdateTracking:
		if err := h.carrier.StartTracking(ctx, o.ID(), r.tracking); err != nil {
			return "", err
		}
		if err := h.advance(ctx, r, order.OutForDelivery); err != nil {
			return "", err
		}
		return fmt.Sprintf("Tracking started for %s", r.tracking), nil

	case fulfillment.NotifyCustomer:
		err := h.notifier.Send(ctx, ports.Notification{
			Event:   ports.EventOrderProcessed,
			OrderID: o.ID().String(),
			Status:  r.persisted.String(),
			Data: map[string]any{
				"buyerId":               o.BuyerID(),
				"trackingNumber":        r.tracking,
				"estimatedDeliveryDate": estimatedDelivery(r.startedAt),
			},
		})
		if err != nil {
			return "", err
		}
		return "Customer notified", nil
	}

	return "", fmt.Errorf("unknown step %d", step)
}

// advance moves the order one status forward and commits it on its own.
func (h *ProcessOrderCommandHandler) advance(ctx context.Context, r *run, next order.Status) error {
	if err := r.order.Advance(next, h.now()); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.OrderRepository().Update(ctx, r.order); err != nil {
		return err
	}
	if err := uow.Commit(ctx); err != nil {
		return err
	}

	r.persisted = next
	return nil
}

func (h *ProcessOrderCommandHandler) result(r *run, steps []fulfillment.Step) ProcessOrderResult {
	tracking := ""
	if r.persisted.HasReached(order.ReadyForPickup) {
		tracking = r.tracking
	}
	return ProcessOrderResult{
		OrderID:               r.order.ID().String(),
		CurrentStatus:         r.persisted.String(),
		CurrentStep:           fulfillment.LastCompleted(steps),
		TotalSteps:            fulfillment.TotalSteps,
		Steps:                 steps,
		EstimatedDeliveryDate: estimatedDelivery(r.startedAt),
		TrackingNumber:        tracking,
	}
}

func estimatedDelivery(from time.Time) time.Time {
	return from.Add(DeliveryEstimate).Truncate(24 * time.Hour)
}
