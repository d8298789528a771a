package order

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// LineItem is one product/quantity/price tuple of an order.
type LineItem struct {
	ProductID string
	Quantity  int
	UnitPrice kernel.Money
}

// NewLineItem enforces quantity > 0 and unitPrice > 0.
func NewLineItem(productID string, quantity int, unitPrice kernel.Money) (LineItem, error) {
	var errProduct, errQuantity, errPrice error
	productID = strings.TrimSpace(productID)
	if productID == "" {
		errProduct = errs.NewValueIsRequiredError("productId")
	}
	if quantity <= 0 {
		errQuantity = errs.NewValueIsOutOfRangeError("quantity", quantity, 1, "unbounded")
	}
	if !unitPrice.IsPositive() {
		errPrice = errs.NewValueIsOutOfRangeError("unitPrice", unitPrice.String(), "0 (exclusive)", "unbounded")
	}
	if err := errors.Join(errProduct, errQuantity, errPrice); err != nil {
		return LineItem{}, err
	}
	return LineItem{ProductID: productID, Quantity: quantity, UnitPrice: unitPrice}, nil
}

// LineItemsFromRequest converts validated request items.
func LineItemsFromRequest(items []RequestItem) ([]LineItem, error) {
	lineItems := make([]LineItem, 0, len(items))
	for _, it := range items {
		price, err := kernel.NewMoney(it.UnitPrice)
		if err != nil {
			return nil, err
		}
		li, err := NewLineItem(it.ProductID, it.Quantity, price)
		if err != nil {
			return nil, err
		}
		lineItems = append(lineItems, li)
	}
	return lineItems, nil
}

// Total returns quantity × unit price.
func (li LineItem) Total() kernel.Money {
	return li.UnitPrice.Times(li.Quantity)
}

// Item is a persisted order line. Items are written once with the order and
// never change afterwards.
type Item struct {
	ProductID  string
	Quantity   int
	UnitPrice  kernel.Money
	TotalPrice kernel.Money
}

func newItem(li LineItem) Item {
	return Item{
		ProductID:  li.ProductID,
		Quantity:   li.Quantity,
		UnitPrice:  li.UnitPrice,
		TotalPrice: li.Total(),
	}
}

// LineItem converts a persisted item back into a line item, e.g. to re-check stock.
func (i Item) LineItem() LineItem {
	return LineItem{ProductID: i.ProductID, Quantity: i.Quantity, UnitPrice: i.UnitPrice}
}
