// Package store defines the record store contracts used by the services.
// Rows carry a store-assigned surrogate ID and a store-managed Version used
// for optimistic concurrency: an update is accepted only when the submitted
// Version equals the stored one, and every accepted update increments it by
// exactly one.
//
// Implementations live under internal/platform (postgres, mysql, memory) and
// report failures with the sentinel errors declared in errors.go instead of
// driver-specific types.
package store
