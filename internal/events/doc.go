// Package events defines the CREATE/DELETE event envelope exchanged between
// services and the message bus contract used to move it.
//
// The primary components are:
//   - Event: the generic envelope carrying a natural key and, for CREATE, the entity
//   - Publisher and Subscriber: the partitioned bus contract
//   - InMemoryBus: a process-local Bus used by tests and single-node deployments
//
// A message is acknowledged only after its handler returns nil. Events of one
// key always land in the same partition, and each partition is consumed by a
// single handler goroutine, so per-key order is the publish order.
package events
