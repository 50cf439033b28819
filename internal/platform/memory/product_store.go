package memory

import (
	"cmp"
	"context"
	"strconv"

	"github.com/phrazzld/shop-api/internal/store"
)

// ProductStore is an in-memory store.ProductStore.
type ProductStore struct {
	rows *table[store.ProductEntity]
}

var _ store.ProductStore = (*ProductStore)(nil)

// NewProductStore returns an empty ProductStore.
func NewProductStore() *ProductStore {
	return &ProductStore{rows: newTable(schema[store.ProductEntity]{
		entity:     "product",
		id:         func(e store.ProductEntity) int64 { return e.ID },
		setID:      func(e *store.ProductEntity, id int64) { e.ID = id },
		version:    func(e store.ProductEntity) int { return e.Version },
		setVersion: func(e *store.ProductEntity, v int) { e.Version = v },
		naturalKey: func(e store.ProductEntity) string { return strconv.Itoa(e.ProductID) },
		compare:    func(a, b store.ProductEntity) int { return cmp.Compare(a.ID, b.ID) },
		notFound:   store.ErrProductNotFound,
		duplicate:  store.ErrDuplicateProduct,
	})}
}

// FindByProductID implements store.ProductStore.
func (s *ProductStore) FindByProductID(ctx context.Context, productID int) ([]store.ProductEntity, error) {
	return s.rows.find(ctx, func(e store.ProductEntity) bool { return e.ProductID == productID })
}

// FindByID implements store.ProductStore.
func (s *ProductStore) FindByID(ctx context.Context, id int64) (store.ProductEntity, error) {
	return s.rows.get(ctx, id)
}

// Save implements store.ProductStore.
func (s *ProductStore) Save(ctx context.Context, entity store.ProductEntity) (store.ProductEntity, error) {
	return s.rows.save(ctx, entity)
}

// Delete implements store.ProductStore.
func (s *ProductStore) Delete(ctx context.Context, entity store.ProductEntity) error {
	return s.rows.delete(ctx, entity.ID)
}

// DeleteAll implements store.ProductStore.
func (s *ProductStore) DeleteAll(ctx context.Context) error {
	return s.rows.clear(ctx)
}

// Count implements store.ProductStore.
func (s *ProductStore) Count(ctx context.Context) (int, error) {
	return s.rows.count(ctx)
}
