package events

import (
	"context"
	"errors"
)

// ErrBufferFull is returned by Publish when a partition already holds its
// maximum number of messages unacknowledged by a subscribed group.
var ErrBufferFull = errors.New("partition buffer full")

// DeadLetterSuffix is appended to a topic name to form its dead-letter topic.
const DeadLetterSuffix = ".dlq"

// Message is one delivery from a topic partition.
type Message struct {
	ID        string
	Topic     string
	Partition int
	Key       int
	Payload   []byte
}

// Handler processes a delivered message. Returning nil acknowledges it; any
// error leaves it for redelivery.
type Handler func(ctx context.Context, msg Message) error

// Publisher appends payloads to a topic, routing by key.
type Publisher interface {
	Publish(ctx context.Context, topic string, key int, payload []byte) error
}

// Subscriber consumes one partition of a topic on behalf of a consumer group.
// Subscribe blocks until ctx is done and returns nil in that case.
type Subscriber interface {
	Subscribe(ctx context.Context, topic, group string, partition int, h Handler) error
}

// Bus is a partitioned publish/subscribe transport.
type Bus interface {
	Publisher
	Subscriber
	Partitions() int
}

// PartitionFor maps key onto one of count partitions. Negative keys are
// folded into range so routing never panics.
func PartitionFor(key, count int) int {
	if count <= 1 {
		return 0
	}
	p := key % count
	if p < 0 {
		p += count
	}
	return p
}

// DeadLetterTopic returns the topic that receives messages from topic that
// could not be processed.
func DeadLetterTopic(topic string) string {
	return topic + DeadLetterSuffix
}
