// Package storetest holds conformance suites that every store.ProductStore
// and store.ReviewStore implementation must pass. Each suite receives a
// factory returning an empty store and runs its cases as subtests.
package storetest
