package store

import "context"

// ProductEntity is the persisted form of a product.
// ID == 0 means the row has not been inserted yet.
type ProductEntity struct {
	ID        int64
	Version   int
	ProductID int
	Name      string
	Weight    int
}

// ProductStore defines the interface for product persistence.
type ProductStore interface {
	// FindByProductID returns every row whose natural key is productID.
	// An empty slice, not an error, is returned when nothing matches.
	FindByProductID(ctx context.Context, productID int) ([]ProductEntity, error)

	// FindByID retrieves a row by its surrogate ID.
	// Returns ErrProductNotFound if the row does not exist.
	FindByID(ctx context.Context, id int64) (ProductEntity, error)

	// Save inserts the row when ID is zero, stamping Version 0. Otherwise it
	// updates the row with a single conditional write that succeeds only if the
	// stored version equals entity.Version, and increments the version.
	//
	// Returns ErrDuplicateProduct when productId is already taken,
	// ErrVersionConflict on a stale version and ErrProductNotFound when the
	// row to update is gone.
	Save(ctx context.Context, entity ProductEntity) (ProductEntity, error)

	// Delete removes the row with entity.ID.
	// Returns ErrProductNotFound if the row does not exist.
	Delete(ctx context.Context, entity ProductEntity) error

	// DeleteAll removes every row. Used by tests and tooling.
	DeleteAll(ctx context.Context) error

	// Count returns the number of live rows.
	Count(ctx context.Context) (int, error)
}
