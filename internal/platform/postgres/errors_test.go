package postgres_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/shop-api/internal/platform/postgres"
	"github.com/phrazzld/shop-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func newPgError(code, constraint string) *pgconn.PgError {
	return &pgconn.PgError{
		Code:           code,
		Message:        "error message",
		TableName:      "products",
		ColumnName:     "name",
		ConstraintName: constraint,
	}
}

func TestMapError(t *testing.T) {
	t.Parallel()

	generic := errors.New("connection reset by peer")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "no rows", err: sql.ErrNoRows, want: store.ErrNotFound},
		{name: "unique violation", err: newPgError("23505", "products_product_id_key"), want: store.ErrDuplicate},
		{name: "foreign key violation", err: newPgError("23503", "fk"), want: store.ErrInvalidEntity},
		{name: "check violation", err: newPgError("23514", "weight_positive"), want: store.ErrInvalidEntity},
		{name: "not null violation", err: newPgError("23502", ""), want: store.ErrInvalidEntity},
		{
			name: "wrapped unique violation",
			err:  fmt.Errorf("insert: %w", newPgError("23505", "products_product_id_key")),
			want: store.ErrDuplicate,
		},
		{name: "unmapped code", err: newPgError("40001", ""), want: nil},
		{name: "generic error", err: generic, want: generic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := postgres.MapError(tt.err)
			assert.Error(t, got)
			if tt.want != nil {
				assert.ErrorIs(t, got, tt.want)
			} else {
				assert.False(t, store.IsDuplicateError(got))
				assert.False(t, store.IsNotFoundError(got))
			}
		})
	}

	assert.NoError(t, postgres.MapError(nil))
}

func TestMapUniqueViolation(t *testing.T) {
	t.Parallel()

	err := postgres.MapUniqueViolation(newPgError("23505", "products_product_id_key"), store.ErrDuplicateProduct)
	assert.ErrorIs(t, err, store.ErrDuplicateProduct)
	assert.ErrorIs(t, err, store.ErrDuplicate)
	assert.Contains(t, err.Error(), "products_product_id_key")

	err = postgres.MapUniqueViolation(sql.ErrNoRows, store.ErrDuplicateProduct)
	assert.ErrorIs(t, err, store.ErrNotFound, "non-unique errors fall through to MapError")
}

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	assert.NoError(t, postgres.CheckRowsAffected(sqlmock.NewResult(0, 1), store.ErrProductNotFound))
	assert.ErrorIs(t,
		postgres.CheckRowsAffected(sqlmock.NewResult(0, 0), store.ErrProductNotFound),
		store.ErrProductNotFound)
	assert.Error(t, postgres.CheckRowsAffected(nil, store.ErrProductNotFound))

	resultErr := errors.New("driver does not support RowsAffected")
	assert.ErrorIs(t,
		postgres.CheckRowsAffected(sqlmock.NewErrorResult(resultErr), store.ErrProductNotFound),
		resultErr)
}
