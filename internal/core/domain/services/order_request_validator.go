package services

import (
	"fmt"
	"strings"

	"marketplace/internal/core/domain/model/order"
)

// ValidationResult is the outcome of validating an order request.
type ValidationResult struct {
	IsValid bool
	Errors  []string
}

// Err converts an invalid result into an order.ValidationError.
func (r ValidationResult) Err() error {
	if r.IsValid {
		return nil
	}
	return order.NewValidationError(r.Errors...)
}

// OrderRequestValidator checks an order request without side effects.
type OrderRequestValidator struct{}

func NewOrderRequestValidator() OrderRequestValidator {
	return OrderRequestValidator{}
}

// Validate collects every problem of the request in a fixed order: buyer,
// items presence, shipping address, payment details, then each item with its
// 1-based index. It never short-circuits.
func (OrderRequestValidator) Validate(req order.Request) ValidationResult {
	var problems []string
	add := func(msg string) { problems = append(problems, msg) }

	if blank(req.BuyerID) {
		add("Buyer ID is required")
	}
	if len(req.Items) == 0 {
		add("Order must contain at least one item")
	}

	addr := req.ShippingAddress
	if blank(addr.Street) {
		add("Shipping street is required")
	}
	if blank(addr.City) {
		add("Shipping city is required")
	}
	if blank(addr.PostalCode) {
		add("Shipping postal code is required")
	}
	if blank(addr.State) {
		add("Shipping state is required")
	}
	if blank(addr.Country) {
		add("Shipping country is required")
	}

	switch method := req.PaymentDetails.Method; {
	case blank(string(method)):
		add("Payment method is required")
	case method.Validate() != nil:
		add(fmt.Sprintf("Payment method %q is not supported", string(method)))
	}
	switch currency := req.PaymentDetails.Currency; {
	case blank(currency):
		add("Currency is required")
	case !isCurrencyCode(currency):
		add(fmt.Sprintf("Currency %q must be a three-letter ISO 4217 code", currency))
	}

	for i, item := range req.Items {
		n := i + 1
		if blank(item.ProductID) {
			add(fmt.Sprintf("Item %d: Product ID is required", n))
		}
		if item.Quantity <= 0 {
			add(fmt.Sprintf("Item %d: Quantity must be greater than 0", n))
		}
		switch price := item.UnitPrice; {
		case !price.IsPositive():
			add(fmt.Sprintf("Item %d: Unit price must be greater than 0", n))
		case !price.Equal(price.Round(priceScale)):
			add(fmt.Sprintf("Item %d: Unit price must have at most %d decimal places", n, priceScale))
		}
	}

	return ValidationResult{IsValid: len(problems) == 0, Errors: problems}
}

// priceScale matches the scale of the stored unit price column.
const priceScale = 2

func isCurrencyCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return false
		}
	}
	return true
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
