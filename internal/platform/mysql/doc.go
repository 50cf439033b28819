// Package mysql provides the MySQL implementation of store.ReviewStore on top
// of go-sql-driver/mysql, with its own embedded goose migrations.
package mysql
