// Package redisbus implements the events bus on Redis Streams.
//
// Each topic partition is one stream named "<topic>.<partition>". Consumers
// read through a consumer group, acknowledge with XACK after the handler
// accepts a message, and reclaim entries left pending by a dead consumer with
// XAUTOCLAIM once they have been idle longer than ClaimMinIdle.
package redisbus
