package mocks

import (
	"context"

	"github.com/phrazzld/shop-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockProductStore mocks the store.ProductStore interface
type MockProductStore struct {
	mock.Mock
}

var _ store.ProductStore = (*MockProductStore)(nil)

func (m *MockProductStore) FindByProductID(ctx context.Context, productID int) ([]store.ProductEntity, error) {
	args := m.Called(ctx, productID)
	rows, _ := args.Get(0).([]store.ProductEntity)
	return rows, args.Error(1)
}

func (m *MockProductStore) FindByID(ctx context.Context, id int64) (store.ProductEntity, error) {
	args := m.Called(ctx, id)
	row, _ := args.Get(0).(store.ProductEntity)
	return row, args.Error(1)
}

func (m *MockProductStore) Save(ctx context.Context, entity store.ProductEntity) (store.ProductEntity, error) {
	args := m.Called(ctx, entity)
	row, _ := args.Get(0).(store.ProductEntity)
	return row, args.Error(1)
}

func (m *MockProductStore) Delete(ctx context.Context, entity store.ProductEntity) error {
	return m.Called(ctx, entity).Error(0)
}

func (m *MockProductStore) DeleteAll(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockProductStore) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
