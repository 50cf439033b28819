package mysql

import (
	"database/sql"
	"errors"
	"testing"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/phrazzld/shop-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "no rows", err: sql.ErrNoRows, want: store.ErrNotFound},
		{name: "duplicate entry", err: &gomysql.MySQLError{Number: 1062, Message: "Duplicate entry '1-1'"}, want: store.ErrDuplicate},
		{name: "bad null", err: &gomysql.MySQLError{Number: 1048}, want: store.ErrInvalidEntity},
		{name: "data too long", err: &gomysql.MySQLError{Number: 1406, Message: "Data too long for column 'author' at row 1"}, want: store.ErrInvalidEntity},
		{name: "foreign key", err: &gomysql.MySQLError{Number: 1452}, want: store.ErrInvalidEntity},
		{name: "check constraint", err: &gomysql.MySQLError{Number: 3819}, want: store.ErrInvalidEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.ErrorIs(t, MapError(tt.err), tt.want)
		})
	}

	assert.NoError(t, MapError(nil))

	lockWait := &gomysql.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"}
	assert.Same(t, lockWait, MapError(lockWait), "unmapped errors pass through unchanged")

	transient := errors.New("invalid connection")
	assert.Equal(t, transient, MapError(transient))
}

func TestMapDuplicate(t *testing.T) {
	t.Parallel()

	err := mapDuplicate(&gomysql.MySQLError{Number: 1062}, store.ErrDuplicateReview)
	assert.ErrorIs(t, err, store.ErrDuplicateReview)
	assert.True(t, IsDuplicateEntry(&gomysql.MySQLError{Number: 1062}))
	assert.False(t, IsDuplicateEntry(errors.New("other")))

	assert.ErrorIs(t, mapDuplicate(sql.ErrNoRows, store.ErrDuplicateReview), store.ErrNotFound)
}
