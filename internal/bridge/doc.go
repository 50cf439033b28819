// Package bridge connects the message bus to the domain services.
//
// A Processor decodes an event envelope and calls the same service operation
// a direct caller would: CREATE maps to create, DELETE maps to delete by key.
// It never swallows a service error. A Consumer owns the redelivery policy on
// top of that: it runs one goroutine per partition, retries version conflicts
// and transient failures with exponential backoff, and moves events that
// cannot succeed to the dead-letter topic.
package bridge
