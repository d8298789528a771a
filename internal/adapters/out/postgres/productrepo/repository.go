package productrepo

import (
	"context"

	"marketplace/internal/core/domain/model/catalog"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductRepository implements ProductCatalog using GORM.
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GORM product repository.
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// GetProductsByIDs loads all requested products with one IN query.
// Unknown ids are absent from the result.
func (r *GormProductRepository) GetProductsByIDs(ctx context.Context, ids []string) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}

	var dtos []ProductDTO
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&dtos).Error; err != nil {
		return nil, err
	}

	products := make([]catalog.Product, 0, len(dtos))
	for _, dto := range dtos {
		products = append(products, toDomain(dto))
	}
	return products, nil
}

// Save inserts products or overwrites the existing rows with the same id.
func (r *GormProductRepository) Save(ctx context.Context, products ...catalog.Product) error {
	if len(products) == 0 {
		return nil
	}

	dtos := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		dtos = append(dtos, fromDomain(p))
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&dtos).Error
}
