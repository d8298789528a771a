// Package catalog holds the read-only view of supplier products that the order
// core consults for availability and supplier ownership.
package catalog

// Product is a catalog entry as seen by the order core. Stock quantities are not
// tracked here: a product is either available or flagged out of stock.
type Product struct {
	ID         string
	Name       string
	SupplierID string
	Available  bool
}

// Index maps products by id for constant-time lookups after a batched fetch.
func Index(products []Product) map[string]Product {
	byID := make(map[string]Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID
}
