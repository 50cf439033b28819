package memory

import (
	"cmp"
	"context"
	"fmt"

	"github.com/phrazzld/shop-api/internal/store"
)

// ReviewStore is an in-memory store.ReviewStore.
type ReviewStore struct {
	rows *table[store.ReviewEntity]
}

var _ store.ReviewStore = (*ReviewStore)(nil)

// NewReviewStore returns an empty ReviewStore.
func NewReviewStore() *ReviewStore {
	return &ReviewStore{rows: newTable(schema[store.ReviewEntity]{
		entity:     "review",
		id:         func(e store.ReviewEntity) int64 { return e.ID },
		setID:      func(e *store.ReviewEntity, id int64) { e.ID = id },
		version:    func(e store.ReviewEntity) int { return e.Version },
		setVersion: func(e *store.ReviewEntity, v int) { e.Version = v },
		naturalKey: func(e store.ReviewEntity) string { return fmt.Sprintf("%d/%d", e.ProductID, e.ReviewID) },
		compare: func(a, b store.ReviewEntity) int {
			return cmp.Or(cmp.Compare(a.ReviewID, b.ReviewID), cmp.Compare(a.ID, b.ID))
		},
		notFound:  store.ErrReviewNotFound,
		duplicate: store.ErrDuplicateReview,
	})}
}

// FindByProductID implements store.ReviewStore.
func (s *ReviewStore) FindByProductID(ctx context.Context, productID int) ([]store.ReviewEntity, error) {
	return s.rows.find(ctx, func(e store.ReviewEntity) bool { return e.ProductID == productID })
}

// FindByID implements store.ReviewStore.
func (s *ReviewStore) FindByID(ctx context.Context, id int64) (store.ReviewEntity, error) {
	return s.rows.get(ctx, id)
}

// Save implements store.ReviewStore.
func (s *ReviewStore) Save(ctx context.Context, entity store.ReviewEntity) (store.ReviewEntity, error) {
	return s.rows.save(ctx, entity)
}

// Delete implements store.ReviewStore.
func (s *ReviewStore) Delete(ctx context.Context, entity store.ReviewEntity) error {
	return s.rows.delete(ctx, entity.ID)
}

// DeleteAll implements store.ReviewStore.
func (s *ReviewStore) DeleteAll(ctx context.Context) error {
	return s.rows.clear(ctx)
}

// Count implements store.ReviewStore.
func (s *ReviewStore) Count(ctx context.Context) (int, error) {
	return s.rows.count(ctx)
}
