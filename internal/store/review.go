package store

import (
	"context"
	"time"
)

// ReviewEntity is the persisted form of a review.
// ID == 0 means the row has not been inserted yet.
type ReviewEntity struct {
	ID        int64
	Version   int
	ProductID int
	ReviewID  int
	Author    string
	Subject   string
	Content   string
	Rating    int
	Date      time.Time
}

// ReviewStore defines the interface for review persistence.
// Its semantics mirror ProductStore with (ProductID, ReviewID) as the
// natural key.
type ReviewStore interface {
	// FindByProductID returns every review of the product, ordered by reviewId.
	FindByProductID(ctx context.Context, productID int) ([]ReviewEntity, error)

	// FindByID retrieves a row by its surrogate ID.
	// Returns ErrReviewNotFound if the row does not exist.
	FindByID(ctx context.Context, id int64) (ReviewEntity, error)

	// Save inserts or version-checked updates the row.
	// Returns ErrDuplicateReview, ErrVersionConflict or ErrReviewNotFound.
	Save(ctx context.Context, entity ReviewEntity) (ReviewEntity, error)

	// Delete removes the row with entity.ID.
	// Returns ErrReviewNotFound if the row does not exist.
	Delete(ctx context.Context, entity ReviewEntity) error

	// DeleteAll removes every row. Used by tests and tooling.
	DeleteAll(ctx context.Context) error

	// Count returns the number of live rows.
	Count(ctx context.Context) (int, error)
}
