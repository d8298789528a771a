// Package fulfillment models the steps of an order processing run.
//
// A run is an ordered sequence of Step values. Steps are not persisted one by
// one; only the resulting order status and the idempotency markers of the step
// ledger outlive a run.
package fulfillment

import (
	"time"

	"marketplace/internal/core/domain/model/order"
)

// StepStatus is the tagged outcome of a single step.
type StepStatus string

const (
	StepPending    StepStatus = "pending"
	StepInProgress StepStatus = "in_progress"
	StepCompleted  StepStatus = "completed"
	StepFailed     StepStatus = "failed"
)

// Step numbers of the fixed processing sequence.
const (
	VerifyPayment = iota + 1
	CheckInventory
	PackItems
	GenerateShippingLabel
	UpdateTracking
	NotifyCustomer
)

// TotalSteps is the length of the processing sequence.
const TotalSteps = NotifyCustomer

var stepNames = map[int]string{
	VerifyPayment:         "Verify Payment",
	CheckInventory:        "Check Inventory",
	PackItems:             "Pack Items",
	GenerateShippingLabel: "Generate Shipping Label",
	UpdateTracking:        "Update Tracking",
	NotifyCustomer:        "Notify Customer",
}

// resultingStatus is the order status a step leaves behind on success.
// Steps that do not move the order are absent.
var resultingStatus = map[int]order.Status{
	CheckInventory:        order.Confirmed,
	PackItems:             order.Preparing,
	GenerateShippingLabel: order.ReadyForPickup,
	UpdateTracking:        order.OutForDelivery,
}

// StepName returns the display name of a step number.
func StepName(number int) string {
	return stepNames[number]
}

// ResultingStatus returns the status set by a successful step and whether the
// step changes the status at all.
func ResultingStatus(number int) (order.Status, bool) {
	s, ok := resultingStatus[number]
	return s, ok
}

// IsBestEffort reports whether a failure of the step leaves the run successful.
func IsBestEffort(number int) bool {
	return number == NotifyCustomer
}

// Step is the record of one step within a run.
type Step struct {
	StepNumber int        `json:"stepNumber"`
	StepName   string     `json:"stepName"`
	Status     StepStatus `json:"status"`
	Timestamp  *time.Time `json:"timestamp,omitempty"`
	Details    string     `json:"details,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// NewSteps returns the full sequence with every step pending.
func NewSteps() []Step {
	steps := make([]Step, 0, TotalSteps)
	for n := 1; n <= TotalSteps; n++ {
		steps = append(steps, Step{StepNumber: n, StepName: StepName(n), Status: StepPending})
	}
	return steps
}

// Start marks the step in progress.
func (s *Step) Start(at time.Time) {
	s.Status = StepInProgress
	s.Timestamp = &at
}

// Complete marks the step completed with a human-readable outcome.
func (s *Step) Complete(at time.Time, details string) {
	s.Status = StepCompleted
	s.Timestamp = &at
	s.Details = details
	s.Error = ""
}

// Fail marks the step failed and captures the error text.
func (s *Step) Fail(at time.Time, err error) {
	s.Status = StepFailed
	s.Timestamp = &at
	if err != nil {
		s.Error = err.Error()
	}
}

// LastCompleted returns the highest step number N such that steps 1..N are all
// completed, or 0 when the first step did not complete.
func LastCompleted(steps []Step) int {
	last := 0
	for _, s := range steps {
		if s.Status != StepCompleted {
			break
		}
		last = s.StepNumber
	}
	return last
}
