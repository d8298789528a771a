package order

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	Pending ─> Confirmed ─> Preparing ─> ReadyForPickup ─> OutForDelivery ─> Delivered
//	   │           │            │              │                  │
//	   └───────────┴────────────┴──────────────┴──────────────────┴──> Cancelled
//
// Forward transitions are driven by the fulfillment pipeline one step at a time.
// Cancelled is set only through an explicit update.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// Pending is the initial status of a newly created order.
	Pending

	// Confirmed means payment was verified and stock was found.
	Confirmed

	// Preparing means the supplier is packing the items.
	Preparing

	// ReadyForPickup means a shipping label exists and the parcel awaits the delivery partner.
	ReadyForPickup

	// OutForDelivery means the delivery partner has the parcel.
	OutForDelivery

	// Delivered is final for fulfillment; only a cancellation may follow.
	Delivered

	// Cancelled is final.
	Cancelled
)

var statusNames = map[Status]string{
	Pending:        "pending",
	Confirmed:      "confirmed",
	Preparing:      "preparing",
	ReadyForPickup: "ready_for_pickup",
	OutForDelivery: "out_for_delivery",
	Delivered:      "delivered",
	Cancelled:      "cancelled",
}

// ParseStatus converts the persisted/wire name into a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range statusNames {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks that the status is one of the defined states.
func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name, e.g. "ready_for_pickup", or "unknown".
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// IsFulfillmentState reports whether s lies on the forward chain Pending..Delivered.
func (s Status) IsFulfillmentState() bool {
	return s >= Pending && s <= Delivered
}

// HasReached reports whether s is at or beyond target on the forward chain.
// A cancelled order has reached nothing.
//
// Example:
//
//	ReadyForPickup.HasReached(Confirmed) // true
//	Cancelled.HasReached(Confirmed)      // false
func (s Status) HasReached(target Status) bool {
	return s.IsFulfillmentState() && target.IsFulfillmentState() && s >= target
}

// Next returns the following state on the forward chain.
//
// Returns an error for Delivered, Cancelled and Unknown, none of which has a
// forward successor.
func (s Status) Next() (Status, error) {
	if !s.IsFulfillmentState() || s == Delivered {
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s has no next status", s),
		)
	}
	return s + 1, nil
}

// AwaitsFulfillment reports whether the pipeline still has status-changing
// work to do for an order in s.
func (s Status) AwaitsFulfillment() bool {
	return s >= Pending && s < OutForDelivery
}
