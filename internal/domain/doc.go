// Package domain contains the catalog entities exchanged with callers
// (products and their reviews) together with the field rules every incoming
// write must satisfy. It has no knowledge of storage or transport.
package domain
