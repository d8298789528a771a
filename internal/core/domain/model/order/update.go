package order

import (
	"fmt"
	"time"

	"marketplace/internal/pkg/errs"
)

// UpdateType selects which part of an order a post-creation update changes.
type UpdateType string

const (
	UpdateStatus   UpdateType = "status"
	UpdateShipping UpdateType = "shipping"
	UpdatePayment  UpdateType = "payment"
	UpdateCancel   UpdateType = "cancel"
)

// Validate rejects unknown update types.
func (t UpdateType) Validate() error {
	switch t {
	case UpdateStatus, UpdateShipping, UpdatePayment, UpdateCancel:
		return nil
	case "":
		return errs.NewValueIsRequiredError("updateType")
	default:
		return errs.NewValueIsInvalidErrorWithCause("updateType", fmt.Errorf("%q is not supported", string(t)))
	}
}

// UpdateValue is the requested new value. Text is used by status and payment
// updates, Address by shipping updates; cancellations ignore both.
type UpdateValue struct {
	Text    string
	Address ShippingAddress
}

// Modification is one entry of an order's append-only modification history.
type Modification struct {
	Timestamp  time.Time  `json:"timestamp"`
	UpdateType UpdateType `json:"updateType"`
	OldValue   string     `json:"oldValue"`
	NewValue   string     `json:"newValue"`
	Reason     string     `json:"reason,omitempty"`
	UserID     string     `json:"userId"`
}
