package ports

import (
	"context"

	"marketplace/internal/core/domain/model/catalog"
)

// ProductCatalog resolves products in batches.
type ProductCatalog interface {
	// GetProductsByIDs returns the known products among ids in a single round
	// trip. Unknown ids are simply absent from the result.
	GetProductsByIDs(ctx context.Context, ids []string) ([]catalog.Product, error)
}
