package storetest

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/phrazzld/shop-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ReviewFactory returns an empty store for one subtest.
type ReviewFactory func(t *testing.T) store.ReviewStore

var reviewDate = time.Date(2024, time.March, 9, 0, 0, 0, 0, time.UTC)

func review(productID, reviewID int) store.ReviewEntity {
	return store.ReviewEntity{
		ProductID: productID,
		ReviewID:  reviewID,
		Author:    "Author " + itoa(reviewID),
		Subject:   "Subject " + itoa(reviewID),
		Content:   "A review body that is long enough to pass every content rule.",
		Rating:    reviewID%5 + 1,
		Date:      reviewDate,
	}
}

func itoa(n int) string { return strconv.Itoa(n) }

// assertSameReview compares rows field by field; drivers may return dates in
// a different location, so Date is compared as an instant.
func assertSameReview(t *testing.T, want, got store.ReviewEntity) {
	t.Helper()
	assert.True(t, want.Date.Equal(got.Date), "date: want %v, got %v", want.Date, got.Date)
	want.Date, got.Date = time.Time{}, time.Time{}
	assert.Equal(t, want, got)
}

// RunReviewStoreTests exercises the ReviewStore contract.
func RunReviewStoreTests(t *testing.T, newStore ReviewFactory) {
	t.Run("CreateStampsIDAndVersionZero", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		saved, err := s.Save(ctx, review(1, 1))

		require.NoError(t, err)
		assert.NotZero(t, saved.ID)
		assert.Equal(t, 0, saved.Version)

		found, err := s.FindByID(ctx, saved.ID)
		require.NoError(t, err)
		assertSameReview(t, saved, found)
	})

	t.Run("FindByProductIDOrderedByReviewID", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		for _, id := range []int{3, 1, 2} {
			_, err := s.Save(ctx, review(1, id))
			require.NoError(t, err)
		}
		_, err := s.Save(ctx, review(2, 1))
		require.NoError(t, err)

		found, err := s.FindByProductID(ctx, 1)

		require.NoError(t, err)
		require.Len(t, found, 3)
		for i, r := range found {
			assert.Equal(t, 1, r.ProductID)
			assert.Equal(t, i+1, r.ReviewID)
		}

		none, err := s.FindByProductID(ctx, 99)
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("UpdateIncrementsVersion", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		saved, err := s.Save(ctx, review(1, 1))
		require.NoError(t, err)

		saved.Subject = "Changed subject"
		updated, err := s.Save(ctx, saved)

		require.NoError(t, err)
		assert.Equal(t, 1, updated.Version)

		found, err := s.FindByID(ctx, saved.ID)
		require.NoError(t, err)
		assertSameReview(t, updated, found)
	})

	t.Run("StaleVersionIsRejected", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		saved, err := s.Save(ctx, review(1, 1))
		require.NoError(t, err)

		first, second := saved, saved
		first.Author = "First writer"
		_, err = s.Save(ctx, first)
		require.NoError(t, err)

		second.Author = "Second writer"
		_, err = s.Save(ctx, second)
		assert.ErrorIs(t, err, store.ErrVersionConflict)

		found, err := s.FindByID(ctx, saved.ID)
		require.NoError(t, err)
		assert.Equal(t, "First writer", found.Author)
		assert.Equal(t, 1, found.Version)
	})

	t.Run("DuplicateNaturalKey", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		_, err := s.Save(ctx, review(1, 1))
		require.NoError(t, err)
		_, err = s.Save(ctx, review(1, 2))
		require.NoError(t, err, "same product, different review id")

		_, err = s.Save(ctx, review(1, 1))

		assert.ErrorIs(t, err, store.ErrDuplicate)
		count, err := s.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("DeleteAndUpdateMissingRow", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		saved, err := s.Save(ctx, review(1, 1))
		require.NoError(t, err)

		require.NoError(t, s.Delete(ctx, saved))

		_, err = s.FindByID(ctx, saved.ID)
		assert.ErrorIs(t, err, store.ErrReviewNotFound)
		assert.ErrorIs(t, s.Delete(ctx, saved), store.ErrNotFound)
		_, err = s.Save(ctx, saved)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("CountAndDeleteAll", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)
		for i := 1; i <= 3; i++ {
			_, err := s.Save(ctx, review(i, i))
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
}
