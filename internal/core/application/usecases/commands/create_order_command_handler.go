package commands

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
)

// CreateOrderCommandHandler turns a validated request into a persisted order.
//
// Flow: line items -> inventory check (one catalog call) -> supplier
// resolution -> pricing with the buyer's order count -> persistence.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, productCatalog)
//	result, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Pricing.Total)
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	arbiter    services.InventoryArbiter
	pricing    services.PricingEngine
	suppliers  services.SupplierResolver
	now        Clock
}

// NewCreateOrderCommandHandler creates a handler for order creation.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	products ports.ProductCatalog,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		arbiter:    services.NewInventoryArbiter(products),
		pricing:    services.NewPricingEngine(),
		suppliers:  services.NewSupplierResolver(),
		now:        systemClock,
	}
}

// WithClock returns a copy of the handler using the given clock.
func (h CreateOrderCommandHandler) WithClock(now Clock) CreateOrderCommandHandler {
	h.now = now
	return h
}

// Handle creates the order. Errors are domain errors where the cause is known:
// *order.InsufficientInventoryError, *order.InventoryLookupError or
// *order.ValidationError; store failures are returned as is.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (OrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return OrderResult{}, err
	}
	req := cmd.Request()

	lineItems, err := order.LineItemsFromRequest(req.Items)
	if err != nil {
		return OrderResult{}, order.NewValidationError(err.Error())
	}

	availability, err := h.arbiter.CheckAvailability(ctx, lineItems)
	if err != nil {
		return OrderResult{}, err
	}
	if err = availability.Err(); err != nil {
		return OrderResult{}, err
	}

	supplierID, err := h.suppliers.Resolve(lineItems, availability.Products)
	if err != nil {
		return OrderResult{}, err
	}

	address, err := req.ShippingAddress.ToAddress()
	if err != nil {
		return OrderResult{}, order.NewValidationError(err.Error())
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return OrderResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	totals := h.pricing.CalculateTotals(lineItems)
	discount, err := h.pricing.CalculateDiscounts(ctx, orderRepo, req.BuyerID, totals.Subtotal)
	if err != nil {
		return OrderResult{}, err
	}
	total := totals.Total.Sub(discount.Amount)

	o, err := order.NewOrder(order.Draft{
		ID:                  kernel.NewUUID(),
		BuyerID:             req.BuyerID,
		SupplierID:          supplierID,
		Items:               lineItems,
		DeliveryAddress:     address,
		PaymentMethod:       req.PaymentDetails.Method,
		Currency:            req.PaymentDetails.Currency,
		SpecialInstructions: req.SpecialInstructions,
		TotalAmount:         total,
		CreatedAt:           h.now(),
	})
	if err != nil {
		return OrderResult{}, order.NewValidationError(err.Error())
	}

	if err = orderRepo.Add(ctx, o); err != nil {
		return OrderResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return OrderResult{}, err
	}

	discounts := discount.Discounts
	if discounts == nil {
		discounts = []string{}
	}

	return OrderResult{
		Order: NewOrderView(o),
		Items: NewItemViews(o.Items()),
		Pricing: Pricing{
			Subtotal:       totals.Subtotal,
			Taxes:          totals.Taxes,
			Shipping:       totals.Shipping,
			DiscountAmount: discount.Amount,
			Discounts:      discounts,
			Total:          total,
		},
	}, nil
}
