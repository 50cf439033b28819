// Package postgres provides the PostgreSQL implementation of store.ProductStore.
// It handles connection setup through the pgx stdlib driver, embedded goose
// migrations, query execution, and the mapping of PostgreSQL error codes onto
// the sentinel errors of the internal/store package.
package postgres
