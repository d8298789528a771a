package services

import (
	"fmt"
	"strings"

	"marketplace/internal/core/domain/model/catalog"
	"marketplace/internal/core/domain/model/order"
)

// MultipleSuppliersMessage is the validation message for mixed-supplier orders.
const MultipleSuppliersMessage = "items from multiple suppliers must be ordered separately"

// SupplierResolver derives the supplier of an order from its products.
// An order belongs to exactly one supplier; mixed baskets are rejected rather
// than attributed to the supplier of the first item.
type SupplierResolver struct{}

func NewSupplierResolver() SupplierResolver {
	return SupplierResolver{}
}

// Resolve returns the single supplier owning every item. Products must already
// be known to be available.
func (SupplierResolver) Resolve(items []order.LineItem, products map[string]catalog.Product) (string, error) {
	var suppliers []string
	seen := make(map[string]struct{})
	for _, item := range items {
		p, ok := products[item.ProductID]
		if !ok || strings.TrimSpace(p.SupplierID) == "" {
			return "", order.NewValidationError(fmt.Sprintf("product %s has no supplier", item.ProductID))
		}
		if _, dup := seen[p.SupplierID]; !dup {
			seen[p.SupplierID] = struct{}{}
			suppliers = append(suppliers, p.SupplierID)
		}
	}

	switch len(suppliers) {
	case 0:
		return "", order.NewValidationError("Order must contain at least one item")
	case 1:
		return suppliers[0], nil
	default:
		return "", order.NewValidationError(MultipleSuppliersMessage)
	}
}
