// Package productrepo reads the supplier product catalog.
package productrepo

import "marketplace/internal/core/domain/model/catalog"

// ProductDTO is a row of the products table.
type ProductDTO struct {
	ID         string `gorm:"primaryKey;size:64"`
	Name       string `gorm:"not null"`
	SupplierID string `gorm:"index"`
	Available  bool   `gorm:"not null"`
}

func (ProductDTO) TableName() string {
	return "products"
}

func fromDomain(p catalog.Product) ProductDTO {
	return ProductDTO{
		ID:         p.ID,
		Name:       p.Name,
		SupplierID: p.SupplierID,
		Available:  p.Available,
	}
}

func toDomain(dto ProductDTO) catalog.Product {
	return catalog.Product{
		ID:         dto.ID,
		Name:       dto.Name,
		SupplierID: dto.SupplierID,
		Available:  dto.Available,
	}
}
