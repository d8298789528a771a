package services

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// Pricing rules. Never reassigned.
var (
	taxRate               = decimal.RequireFromString("0.10")
	freeShippingThreshold = kernel.MustMoney("100")
	flatShippingCost      = kernel.MustMoney("15")
	firstOrderDiscount    = decimal.RequireFromString("0.10")
	volumeThreshold       = kernel.MustMoney("500")
	volumeDiscount        = decimal.RequireFromString("0.05")
)

const (
	FirstOrderDiscountLabel = "First-time buyer discount (10%)"
	VolumeDiscountLabel     = "Volume discount (5%)"
)

// Totals is the price breakdown before discounts.
type Totals struct {
	Subtotal kernel.Money
	Taxes    kernel.Money
	Shipping kernel.Money
	Total    kernel.Money
}

// Discount is the sum of every applicable discount with their labels.
type Discount struct {
	Amount    kernel.Money
	Discounts []string
}

// BuyerOrderCounter counts the orders a buyer placed before.
type BuyerOrderCounter interface {
	CountForBuyer(ctx context.Context, buyerID string) (int64, error)
}

// PricingEngine computes order totals and discounts.
type PricingEngine struct{}

func NewPricingEngine() PricingEngine {
	return PricingEngine{}
}

// CalculateTotals computes subtotal, 10% tax, shipping (free above 100, else
// 15) and their sum.
func (PricingEngine) CalculateTotals(items []order.LineItem) Totals {
	subtotal := kernel.ZeroMoney()
	for _, item := range items {
		subtotal = subtotal.Add(item.Total())
	}

	taxes := subtotal.Rate(taxRate)
	shipping := flatShippingCost
	if subtotal.GreaterThan(freeShippingThreshold) {
		shipping = kernel.ZeroMoney()
	}

	return Totals{
		Subtotal: subtotal,
		Taxes:    taxes,
		Shipping: shipping,
		Total:    subtotal.Add(taxes).Add(shipping),
	}
}

// CalculateDiscounts applies the first-order and volume discounts. Both are
// computed on the same subtotal and added together.
func (PricingEngine) CalculateDiscounts(
	ctx context.Context,
	counter BuyerOrderCounter,
	buyerID string,
	subtotal kernel.Money,
) (Discount, error) {
	previous, err := counter.CountForBuyer(ctx, buyerID)
	if err != nil {
		return Discount{}, err
	}

	d := Discount{Amount: kernel.ZeroMoney()}
	if previous == 0 {
		d.Amount = d.Amount.Add(subtotal.Rate(firstOrderDiscount))
		d.Discounts = append(d.Discounts, FirstOrderDiscountLabel)
	}
	if subtotal.GreaterThan(volumeThreshold) {
		d.Amount = d.Amount.Add(subtotal.Rate(volumeDiscount))
		d.Discounts = append(d.Discounts, VolumeDiscountLabel)
	}
	return d, nil
}
