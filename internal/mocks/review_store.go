package mocks

import (
	"context"

	"github.com/phrazzld/shop-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockReviewStore mocks the store.ReviewStore interface
type MockReviewStore struct {
	mock.Mock
}

var _ store.ReviewStore = (*MockReviewStore)(nil)

func (m *MockReviewStore) FindByProductID(ctx context.Context, productID int) ([]store.ReviewEntity, error) {
	args := m.Called(ctx, productID)
	rows, _ := args.Get(0).([]store.ReviewEntity)
	return rows, args.Error(1)
}

func (m *MockReviewStore) FindByID(ctx context.Context, id int64) (store.ReviewEntity, error) {
	args := m.Called(ctx, id)
	row, _ := args.Get(0).(store.ReviewEntity)
	return row, args.Error(1)
}

func (m *MockReviewStore) Save(ctx context.Context, entity store.ReviewEntity) (store.ReviewEntity, error) {
	args := m.Called(ctx, entity)
	row, _ := args.Get(0).(store.ReviewEntity)
	return row, args.Error(1)
}

func (m *MockReviewStore) Delete(ctx context.Context, entity store.ReviewEntity) error {
	return m.Called(ctx, entity).Error(0)
}

func (m *MockReviewStore) DeleteAll(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockReviewStore) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
