// Package simulated provides in-process stand-ins for the payment gateway,
// the warehouse and the shipping carrier. They never call the network and
// only fail on inputs a real provider would reject as well.
package simulated

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/google/uuid"
)

const trackingNumberStart = "TRK-"

var (
	ErrPaymentDeclined = errors.New("payment declined")
	ErrNothingToPack   = errors.New("nothing to pack")
	ErrUnknownTracking = errors.New("unknown tracking number")
)

// PaymentGateway accepts every order whose payment has not failed or been refunded.
type PaymentGateway struct {
	logger *slog.Logger
}

func NewPaymentGateway(logger *slog.Logger) *PaymentGateway {
	return &PaymentGateway{logger: logger.With("component", "simulated_payment_gateway")}
}

func (g *PaymentGateway) VerifyPayment(ctx context.Context, o *order.Order) (string, error) {
	switch o.PaymentStatus() {
	case order.PaymentFailed, order.PaymentRefunded:
		return "", fmt.Errorf("%w: payment is %s", ErrPaymentDeclined, o.PaymentStatus())
	}

	ref := reference("PAY-", 8)
	g.logger.DebugContext(ctx, "Payment verified",
		"order_id", o.ID().String(), "amount", o.TotalAmount().String(), "reference", ref)
	return ref, nil
}

// Warehouse packs any non-empty list of items.
type Warehouse struct {
	logger *slog.Logger
}

func NewWarehouse(logger *slog.Logger) *Warehouse {
	return &Warehouse{logger: logger.With("component", "simulated_warehouse")}
}

func (w *Warehouse) Pack(ctx context.Context, orderID kernel.UUID, items []order.Item) (string, error) {
	if len(items) == 0 {
		return "", ErrNothingToPack
	}

	ref := reference("PKG-", 8)
	w.logger.DebugContext(ctx, "Items packed",
		"order_id", orderID.String(), "items", len(items), "package", ref)
	return ref, nil
}

// ShippingCarrier issues TRK- tracking numbers.
type ShippingCarrier struct {
	logger *slog.Logger
}

func NewShippingCarrier(logger *slog.Logger) *ShippingCarrier {
	return &ShippingCarrier{logger: logger.With("component", "simulated_shipping_carrier")}
}

// CreateLabel returns TRK- followed by 12 upper-case hex characters.
func (c *ShippingCarrier) CreateLabel(ctx context.Context, o *order.Order) (string, error) {
	tracking := reference(trackingNumberStart, 12)
	c.logger.DebugContext(ctx, "Label created",
		"order_id", o.ID().String(), "tracking_number", tracking, "city", o.DeliveryAddress().City())
	return tracking, nil
}

func (c *ShippingCarrier) StartTracking(ctx context.Context, orderID kernel.UUID, trackingNumber string) error {
	if !strings.HasPrefix(trackingNumber, trackingNumberStart) {
		return fmt.Errorf("%w: %q", ErrUnknownTracking, trackingNumber)
	}

	c.logger.DebugContext(ctx, "Tracking started",
		"order_id", orderID.String(), "tracking_number", trackingNumber)
	return nil
}

func reference(prefix string, length int) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + strings.ToUpper(hex[:length])
}
