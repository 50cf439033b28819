// Package mocks provides testify mocks of the store contracts for tests that
// need to inject store failures the in-memory stores never produce.
package mocks
