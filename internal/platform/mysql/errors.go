package mysql

import (
	"database/sql"
	"errors"
	"fmt"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/phrazzld/shop-api/internal/store"
)

// MySQL server error numbers
const (
	duplicateEntryCode  = 1062
	badNullCode         = 1048
	dataTooLongCode     = 1406
	noReferencedRowCode = 1452
	checkViolationCode  = 3819
)

// MapError maps a MySQL error to an appropriate store error, wrapping the
// original for context. Errors without a mapping are returned unchanged.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	var myErr *gomysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case duplicateEntryCode:
			return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
		case badNullCode:
			return fmt.Errorf("%w: not null violation: %v", store.ErrInvalidEntity, err)
		case dataTooLongCode:
			return fmt.Errorf("%w: value too long: %v", store.ErrInvalidEntity, err)
		case noReferencedRowCode:
			return fmt.Errorf("%w: foreign key violation: %v", store.ErrInvalidEntity, err)
		case checkViolationCode:
			return fmt.Errorf("%w: check constraint violation: %v", store.ErrInvalidEntity, err)
		}
	}

	return err
}

// IsDuplicateEntry reports whether err is a MySQL duplicate key error.
func IsDuplicateEntry(err error) bool {
	var myErr *gomysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == duplicateEntryCode
}

// mapDuplicate maps a duplicate key error to specificError and anything
// else through MapError.
func mapDuplicate(err error, specificError error) error {
	if !IsDuplicateEntry(err) {
		return MapError(err)
	}
	return fmt.Errorf("%w: %v", specificError, err)
}
