package product

import (
	"github.com/phrazzld/shop-api/internal/domain"
	"github.com/phrazzld/shop-api/internal/store"
)

// toEntity drops ServiceAddress; the surrogate ID is filled in by the caller
// when updating an existing row.
func toEntity(p domain.Product) store.ProductEntity {
	return store.ProductEntity{
		Version:   p.Version,
		ProductID: p.ProductID,
		Name:      p.Name,
		Weight:    p.Weight,
	}
}

func fromEntity(e store.ProductEntity) domain.Product {
	return domain.Product{
		ProductID: e.ProductID,
		Name:      e.Name,
		Weight:    e.Weight,
		Version:   e.Version,
	}
}
