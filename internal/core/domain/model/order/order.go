package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Order is the aggregate root of the marketplace order core. It owns the order
// header and its immutable line items.
//
// Order follows these invariants:
//   - Has a valid identifier, buyer, supplier and delivery address
//   - Has at least one item; every item has quantity > 0 and unit price > 0
//   - TotalAmount is set once at creation
//   - Status changes follow the rules of Status and the update conflict rules
//   - Version increases with every persisted change
type Order struct {
	id         kernel.UUID
	buyerID    string
	supplierID string
	items      []Item

	status              Status
	totalAmount         kernel.Money
	deliveryAddress     kernel.Address
	paymentMethod       PaymentMethod
	paymentStatus       PaymentStatus
	currency            string
	specialInstructions string
	trackingNumber      string

	version   int
	createdAt time.Time
	updatedAt time.Time

	isConstructed bool
}

// Draft carries everything needed to create a new order. The total is computed
// by the pricing engine before the order exists.
type Draft struct {
	ID                  kernel.UUID
	BuyerID             string
	SupplierID          string
	Items               []LineItem
	DeliveryAddress     kernel.Address
	PaymentMethod       PaymentMethod
	Currency            string
	SpecialInstructions string
	TotalAmount         kernel.Money
	CreatedAt           time.Time
}

// NewOrder creates a pending order with payment status pending and version 1.
//
// Example:
//
//	o, err := order.NewOrder(order.Draft{
//	    ID:              kernel.NewUUID(),
//	    BuyerID:         "b1",
//	    SupplierID:      "s1",
//	    Items:           lineItems,
//	    DeliveryAddress: address,
//	    PaymentMethod:   order.CreditCard,
//	    Currency:        "USD",
//	    TotalAmount:     totals.Total,
//	    CreatedAt:       time.Now(),
//	})
func NewOrder(d Draft) (*Order, error) {
	o := &Order{
		status:              Pending,
		paymentStatus:       PaymentPending,
		specialInstructions: d.SpecialInstructions,
		totalAmount:         d.TotalAmount,
		version:             1,
		createdAt:           d.CreatedAt,
		updatedAt:           d.CreatedAt,
		isConstructed:       true,
	}

	if err := errors.Join(
		o.setID(d.ID),
		o.setBuyerID(d.BuyerID),
		o.setSupplierID(d.SupplierID),
		o.setItems(d.Items),
		o.setDeliveryAddress(d.DeliveryAddress),
		o.setPaymentMethod(d.PaymentMethod),
		o.setCurrency(d.Currency),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Snapshot is the full persisted state of an order, used by repositories to
// rebuild the aggregate.
type Snapshot struct {
	ID                  kernel.UUID
	BuyerID             string
	SupplierID          string
	Items               []Item
	Status              Status
	TotalAmount         kernel.Money
	DeliveryAddress     kernel.Address
	PaymentMethod       PaymentMethod
	PaymentStatus       PaymentStatus
	Currency            string
	SpecialInstructions string
	TrackingNumber      string
	Version             int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// RestoreOrder rebuilds an order from persistence. It validates the same
// invariants as NewOrder plus status, payment status and version.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{
		items:               append([]Item(nil), s.Items...),
		totalAmount:         s.TotalAmount,
		paymentStatus:       s.PaymentStatus,
		specialInstructions: s.SpecialInstructions,
		trackingNumber:      s.TrackingNumber,
		version:             s.Version,
		createdAt:           s.CreatedAt,
		updatedAt:           s.UpdatedAt,
		isConstructed:       true,
	}

	var errItems, errVersion error
	if len(s.Items) == 0 {
		errItems = errs.NewValueIsRequiredError("items")
	}
	if s.Version < 1 {
		errVersion = errs.NewValueIsOutOfRangeError("version", s.Version, 1, "unbounded")
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setBuyerID(s.BuyerID),
		o.setSupplierID(s.SupplierID),
		errItems,
		o.setStatus(s.Status),
		o.setDeliveryAddress(s.DeliveryAddress),
		o.setPaymentMethod(s.PaymentMethod),
		s.PaymentStatus.Validate(),
		o.setCurrency(s.Currency),
		errVersion,
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order instance was created through NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) ID() kernel.UUID                 { return o.id }
func (o *Order) BuyerID() string                 { return o.buyerID }
func (o *Order) SupplierID() string              { return o.supplierID }
func (o *Order) Status() Status                  { return o.status }
func (o *Order) TotalAmount() kernel.Money       { return o.totalAmount }
func (o *Order) DeliveryAddress() kernel.Address { return o.deliveryAddress }
func (o *Order) PaymentMethod() PaymentMethod    { return o.paymentMethod }
func (o *Order) PaymentStatus() PaymentStatus    { return o.paymentStatus }
func (o *Order) Currency() string                { return o.currency }
func (o *Order) SpecialInstructions() string     { return o.specialInstructions }
func (o *Order) TrackingNumber() string          { return o.trackingNumber }
func (o *Order) Version() int                    { return o.version }
func (o *Order) CreatedAt() time.Time            { return o.createdAt }
func (o *Order) UpdatedAt() time.Time            { return o.updatedAt }

// Items returns a copy of the order lines.
func (o *Order) Items() []Item {
	return append([]Item(nil), o.items...)
}

// SetVersion is called by repositories after a successful optimistic write.
func (o *Order) SetVersion(v int) {
	o.version = v
}

// Advance moves the order to the next fulfillment state. to must be exactly
// the successor of the current status.
func (o *Order) Advance(to Status, at time.Time) error {
	next, err := o.status.Next()
	if err != nil {
		return err
	}
	if next != to {
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("cannot move from %s to %s", o.status, to),
		)
	}
	o.status = to
	o.updatedAt = at
	return nil
}

// AssignTrackingNumber records the carrier tracking number of the shipping label.
func (o *Order) AssignTrackingNumber(trackingNumber string, at time.Time) error {
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return errs.NewValueIsRequiredError("trackingNumber")
	}
	o.trackingNumber = trackingNumber
	o.updatedAt = at
	return nil
}

// UpdateConflicts lists the reasons an update of the given type cannot be
// applied in the current state. An empty result means the update may proceed.
//
// Rules:
//   - a cancelled order accepts no update at all
//   - a delivered order accepts only a cancellation
func (o *Order) UpdateConflicts(kind UpdateType) []string {
	var reasons []string
	switch {
	case o.status == Cancelled:
		reasons = append(reasons, "order is already cancelled")
	case o.status == Delivered && kind != UpdateCancel:
		reasons = append(reasons, fmt.Sprintf("order is already delivered; %s updates are not allowed", kind))
	}
	return reasons
}

// ApplyUpdate performs the field change of an update and returns the previous
// and new value as display strings. It does not check conflicts; callers run
// UpdateConflicts first.
//
// Field mapping:
//   - status   -> Status (any defined status)
//   - shipping -> DeliveryAddress
//   - payment  -> PaymentStatus
//   - cancel   -> Status = cancelled, whatever value was passed
func (o *Order) ApplyUpdate(kind UpdateType, value UpdateValue, at time.Time) (string, string, error) {
	if err := kind.Validate(); err != nil {
		return "", "", err
	}

	var previous, current string
	switch kind {
	case UpdateStatus:
		status, err := ParseStatus(value.Text)
		if err != nil {
			return "", "", err
		}
		previous, current = o.status.String(), status.String()
		o.status = status
	case UpdateShipping:
		address, err := value.Address.ToAddress()
		if err != nil {
			return "", "", err
		}
		previous, current = o.deliveryAddress.String(), address.String()
		o.deliveryAddress = address
	case UpdatePayment:
		paymentStatus := PaymentStatus(value.Text)
		if err := paymentStatus.Validate(); err != nil {
			return "", "", err
		}
		previous, current = string(o.paymentStatus), string(paymentStatus)
		o.paymentStatus = paymentStatus
	case UpdateCancel:
		previous, current = o.status.String(), Cancelled.String()
		o.status = Cancelled
	}

	o.updatedAt = at
	return previous, current, nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setBuyerID(buyerID string) error {
	if strings.TrimSpace(buyerID) == "" {
		return errs.NewValueIsRequiredError("buyerId")
	}
	o.buyerID = buyerID
	return nil
}

func (o *Order) setSupplierID(supplierID string) error {
	if strings.TrimSpace(supplierID) == "" {
		return errs.NewValueIsRequiredError("supplierId")
	}
	o.supplierID = supplierID
	return nil
}

func (o *Order) setItems(lineItems []LineItem) error {
	if len(lineItems) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	items := make([]Item, 0, len(lineItems))
	for _, li := range lineItems {
		if li.Quantity <= 0 || !li.UnitPrice.IsPositive() {
			return errs.NewValueIsInvalidErrorWithCause(
				"items",
				fmt.Errorf("item %s must have positive quantity and unit price", li.ProductID),
			)
		}
		items = append(items, newItem(li))
	}
	o.items = items
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

func (o *Order) setDeliveryAddress(address kernel.Address) error {
	if err := address.Validate(); err != nil {
		return err
	}
	o.deliveryAddress = address
	return nil
}

func (o *Order) setPaymentMethod(method PaymentMethod) error {
	if err := method.Validate(); err != nil {
		return err
	}
	o.paymentMethod = method
	return nil
}

func (o *Order) setCurrency(currency string) error {
	if strings.TrimSpace(currency) == "" {
		return errs.NewValueIsRequiredError("currency")
	}
	o.currency = currency
	return nil
}
