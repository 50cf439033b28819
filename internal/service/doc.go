// Package service holds what the product and review services share: the
// error taxonomy and the single translation point from store errors into it.
//
// The per-entity services live in the product and review subpackages. Each one
// runs the same pipeline for every write, whether it arrives as a direct call
// or through the event bridge: validate, map to a store row, save, map back.
//
// Error kinds:
//
//   - ErrInvalidInput: field validation failures, duplicate natural keys and
//     out-of-domain key parameters. Never retried by the services.
//   - ErrVersionConflict: an update raced another writer. Returned as is; the
//     caller decides whether to retry.
//   - ErrNotFound: a read or update that requires an existing row found none.
//     Delete never returns it.
//
// Transient store errors pass through untouched.
package service
