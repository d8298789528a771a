package services

import (
	"context"

	"marketplace/internal/core/domain/model/catalog"
	"marketplace/internal/core/domain/model/order"
)

// UnknownProductName is reported for products missing from the catalog.
const UnknownProductName = "Unknown product"

// ProductSource is the batched catalog lookup the arbiter depends on.
type ProductSource interface {
	GetProductsByIDs(ctx context.Context, ids []string) ([]catalog.Product, error)
}

// Availability is the outcome of an inventory check.
//
// Products holds every catalog entry found, so callers can resolve suppliers
// and names without a second lookup.
type Availability struct {
	AllAvailable     bool
	UnavailableItems []order.UnavailableItem
	Products         map[string]catalog.Product
}

// Err converts an unsuccessful check into an order.InsufficientInventoryError.
func (a Availability) Err() error {
	if a.AllAvailable {
		return nil
	}
	return order.NewInsufficientInventoryError(a.UnavailableItems)
}

// InventoryArbiter checks requested line items against catalog availability.
type InventoryArbiter struct {
	products ProductSource
}

func NewInventoryArbiter(products ProductSource) InventoryArbiter {
	return InventoryArbiter{products: products}
}

// CheckAvailability resolves all distinct product ids of items in exactly one
// catalog call, whatever the number of items. A product is unavailable when it
// is missing or flagged out of stock; its available quantity is reported as 0.
//
// Catalog failures are returned as order.InventoryLookupError.
func (a InventoryArbiter) CheckAvailability(ctx context.Context, items []order.LineItem) (Availability, error) {
	ids := distinctProductIDs(items)

	found, err := a.products.GetProductsByIDs(ctx, ids)
	if err != nil {
		return Availability{}, order.NewInventoryLookupError(err)
	}
	byID := catalog.Index(found)

	var unavailable []order.UnavailableItem
	for _, item := range items {
		p, ok := byID[item.ProductID]
		if ok && p.Available {
			continue
		}
		name := UnknownProductName
		if ok {
			name = p.Name
		}
		unavailable = append(unavailable, order.UnavailableItem{
			ProductID:         item.ProductID,
			ProductName:       name,
			RequestedQuantity: item.Quantity,
			AvailableQuantity: 0,
		})
	}

	return Availability{
		AllAvailable:     len(unavailable) == 0,
		UnavailableItems: unavailable,
		Products:         byID,
	}, nil
}

func distinctProductIDs(items []order.LineItem) []string {
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}
