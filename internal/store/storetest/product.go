package storetest

import (
	"context"
	"sync"
	"testing"

	"github.com/phrazzld/shop-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ProductFactory returns an empty store for one subtest.
type ProductFactory func(t *testing.T) store.ProductStore

func product(productID int) store.ProductEntity {
	return store.ProductEntity{ProductID: productID, Name: "Product " + itoa(productID), Weight: productID + 1}
}

// RunProductStoreTests exercises the ProductStore contract.
func RunProductStoreTests(t *testing.T, newStore ProductFactory) {
	t.Run("CreateStampsIDAndVersionZero", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		saved, err := s.Save(ctx, product(1))

		require.NoError(t, err)
		assert.NotZero(t, saved.ID)
		assert.Equal(t, 0, saved.Version)

		found, err := s.FindByID(ctx, saved.ID)
		require.NoError(t, err)
		assert.Equal(t, saved, found)
	})

	t.Run("FindByProductID", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		saved, err := s.Save(ctx, product(1))
		require.NoError(t, err)
		_, err = s.Save(ctx, product(2))
		require.NoError(t, err)

		found, err := s.FindByProductID(ctx, 1)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, saved, found[0])

		none, err := s.FindByProductID(ctx, 99)
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("UpdateIncrementsVersion", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		saved, err := s.Save(ctx, product(1))
		require.NoError(t, err)

		saved.Name = "Renamed product"
		updated, err := s.Save(ctx, saved)

		require.NoError(t, err)
		assert.Equal(t, saved.ID, updated.ID)
		assert.Equal(t, 1, updated.Version)
		assert.Equal(t, "Renamed product", updated.Name)

		found, err := s.FindByID(ctx, saved.ID)
		require.NoError(t, err)
		assert.Equal(t, updated, found)
	})

	t.Run("StaleVersionIsRejected", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		saved, err := s.Save(ctx, product(1))
		require.NoError(t, err)

		first, err := s.FindByID(ctx, saved.ID)
		require.NoError(t, err)
		second, err := s.FindByID(ctx, saved.ID)
		require.NoError(t, err)

		first.Name = "First writer"
		_, err = s.Save(ctx, first)
		require.NoError(t, err)

		second.Name = "Second writer"
		_, err = s.Save(ctx, second)
		assert.ErrorIs(t, err, store.ErrVersionConflict)

		found, err := s.FindByID(ctx, saved.ID)
		require.NoError(t, err)
		assert.Equal(t, "First writer", found.Name)
		assert.Equal(t, saved.Version+1, found.Version)
	})

	t.Run("DuplicateProductID", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		_, err := s.Save(ctx, product(1))
		require.NoError(t, err)

		_, err = s.Save(ctx, product(1))

		assert.ErrorIs(t, err, store.ErrDuplicate)
		count, err := s.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("UpdateToTakenProductID", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		_, err := s.Save(ctx, product(1))
		require.NoError(t, err)
		second, err := s.Save(ctx, product(2))
		require.NoError(t, err)

		second.ProductID = 1
		_, err = s.Save(ctx, second)

		assert.ErrorIs(t, err, store.ErrDuplicate)
	})

	t.Run("UpdateMissingRow", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		saved, err := s.Save(ctx, product(1))
		require.NoError(t, err)
		require.NoError(t, s.Delete(ctx, saved))

		_, err = s.Save(ctx, saved)

		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		saved, err := s.Save(ctx, product(1))
		require.NoError(t, err)

		require.NoError(t, s.Delete(ctx, saved))

		_, err = s.FindByID(ctx, saved.ID)
		assert.ErrorIs(t, err, store.ErrProductNotFound)
		assert.ErrorIs(t, s.Delete(ctx, saved), store.ErrNotFound)
	})

	t.Run("CountAndDeleteAll", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		for i := 1; i <= 3; i++ {
			_, err := s.Save(ctx, product(i))
			require.NoError(t, err)
		}

		count, err := s.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, count)

		require.NoError(t, s.DeleteAll(ctx))
		count, err = s.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("ConcurrentUpdatesOneWinner", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		saved, err := s.Save(ctx, product(1))
		require.NoError(t, err)

		const writers = 8
		var wg sync.WaitGroup
		errs := make([]error, writers)
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				e := saved
				e.Name = "Writer " + itoa(i)
				_, errs[i] = s.Save(ctx, e)
			}(i)
		}
		wg.Wait()

		wins := 0
		for _, err := range errs {
			if err == nil {
				wins++
				continue
			}
			assert.ErrorIs(t, err, store.ErrVersionConflict)
		}
		assert.Equal(t, 1, wins)

		found, err := s.FindByID(ctx, saved.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, found.Version)
	})
}
