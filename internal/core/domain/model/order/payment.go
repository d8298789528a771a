package order

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// PaymentMethod is how the buyer intends to pay.
type PaymentMethod string

const (
	CreditCard    PaymentMethod = "credit_card"
	BankTransfer  PaymentMethod = "bank_transfer"
	DigitalWallet PaymentMethod = "digital_wallet"
)

// Validate rejects empty and unsupported methods.
func (m PaymentMethod) Validate() error {
	switch m {
	case CreditCard, BankTransfer, DigitalWallet:
		return nil
	case "":
		return errs.NewValueIsRequiredError("paymentMethod")
	default:
		return errs.NewValueIsInvalidErrorWithCause("paymentMethod", fmt.Errorf("%q is not supported", string(m)))
	}
}

// PaymentStatus tracks settlement of the order amount.
type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentAuthorized PaymentStatus = "authorized"
	PaymentPaid       PaymentStatus = "paid"
	PaymentFailed     PaymentStatus = "failed"
	PaymentRefunded   PaymentStatus = "refunded"
)

// Validate rejects unknown payment statuses.
func (s PaymentStatus) Validate() error {
	switch s {
	case PaymentPending, PaymentAuthorized, PaymentPaid, PaymentFailed, PaymentRefunded:
		return nil
	case "":
		return errs.NewValueIsRequiredError("paymentStatus")
	default:
		return errs.NewValueIsInvalidErrorWithCause("paymentStatus", fmt.Errorf("%q is not a valid payment status", string(s)))
	}
}
