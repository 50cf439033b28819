package events

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"
)

// DefaultRedeliveryDelay is how long InMemoryBus waits before handing a
// rejected message back to its handler.
const DefaultRedeliveryDelay = 50 * time.Millisecond

// InMemoryBus is a process-local Bus. Each topic partition keeps a log of
// messages that at least one subscribed group has not yet acknowledged. A
// partition no group has subscribed to keeps its newest bufferSize messages.
type InMemoryBus struct {
	partitions      int
	bufferSize      int
	redeliveryDelay time.Duration
	logger          *slog.Logger

	mu     sync.Mutex
	topics map[string][]*partitionLog
	seq    uint64
}

var _ Bus = (*InMemoryBus)(nil)

// InMemoryOption configures an InMemoryBus.
type InMemoryOption func(*InMemoryBus)

// WithRedeliveryDelay overrides DefaultRedeliveryDelay.
func WithRedeliveryDelay(d time.Duration) InMemoryOption {
	return func(b *InMemoryBus) {
		b.redeliveryDelay = d
	}
}

// NewInMemoryBus creates a bus with the given partition count and per-partition
// buffer size. Values below one are raised to one.
func NewInMemoryBus(partitions, bufferSize int, logger *slog.Logger, opts ...InMemoryOption) *InMemoryBus {
	if partitions < 1 {
		partitions = 1
	}
	if bufferSize < 1 {
		bufferSize = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	b := &InMemoryBus{
		partitions:      partitions,
		bufferSize:      bufferSize,
		redeliveryDelay: DefaultRedeliveryDelay,
		logger:          logger.With("component", "in_memory_bus"),
		topics:          make(map[string][]*partitionLog),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Partitions returns the number of partitions per topic.
func (b *InMemoryBus) Partitions() int {
	return b.partitions
}

func (b *InMemoryBus) partition(topic string, partition int) *partitionLog {
	b.mu.Lock()
	defer b.mu.Unlock()

	logs, ok := b.topics[topic]
	if !ok {
		logs = make([]*partitionLog, b.partitions)
		for i := range logs {
			logs[i] = newPartitionLog()
		}
		b.topics[topic] = logs
	}
	return logs[partition]
}

// Publish appends payload to the partition that owns key.
func (b *InMemoryBus) Publish(ctx context.Context, topic string, key int, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	partition := PartitionFor(key, b.partitions)

	b.mu.Lock()
	b.seq++
	id := strconv.FormatUint(b.seq, 10)
	b.mu.Unlock()

	msg := Message{
		ID:        id,
		Topic:     topic,
		Partition: partition,
		Key:       key,
		Payload:   append([]byte(nil), payload...),
	}
	if err := b.partition(topic, partition).append(msg, b.bufferSize); err != nil {
		b.logger.Warn("dropping message, partition buffer full",
			"topic", topic,
			"partition", partition,
			"key", key,
			"buffer_size", b.bufferSize)
		return err
	}

	b.logger.Debug("message published",
		"topic", topic,
		"partition", partition,
		"key", key,
		"message_id", id)
	return nil
}

// Subscribe delivers messages of one partition to h in order. A message is
// redelivered after the redelivery delay until h accepts it.
func (b *InMemoryBus) Subscribe(ctx context.Context, topic, group string, partition int, h Handler) error {
	if partition < 0 || partition >= b.partitions {
		return fmt.Errorf("partition %d out of range [0, %d)", partition, b.partitions)
	}
	log := b.partition(topic, partition)
	log.join(group)

	b.logger.Debug("subscribed",
		"topic", topic,
		"group", group,
		"partition", partition)

	for {
		msg, ok, wake := log.next(group)
		if !ok {
			select {
			case <-ctx.Done():
				return nil
			case <-wake:
				continue
			}
		}

		if err := h(ctx, msg); err != nil {
			b.logger.Debug("message rejected, will redeliver",
				"topic", topic,
				"group", group,
				"message_id", msg.ID,
				"error", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(b.redeliveryDelay):
				continue
			}
		}

		log.ack(group)
	}
}

// Pending returns the number of messages in topic not yet acknowledged by
// group, across all partitions.
func (b *InMemoryBus) Pending(topic, group string) int {
	total := 0
	for p := 0; p < b.partitions; p++ {
		total += b.partition(topic, p).pending(group)
	}
	return total
}

// partitionLog holds messages from base onward. Offsets are absolute
// positions in the partition.
type partitionLog struct {
	mu      sync.Mutex
	base    int
	msgs    []Message
	offsets map[string]int
	wake    chan struct{}
}

func newPartitionLog() *partitionLog {
	return &partitionLog{
		offsets: make(map[string]int),
		wake:    make(chan struct{}),
	}
}

func (l *partitionLog) append(msg Message, limit int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.msgs) >= limit {
		if len(l.offsets) > 0 {
			return ErrBufferFull
		}
		// Nobody reads this partition yet; keep the newest messages.
		l.msgs = append([]Message(nil), l.msgs[1:]...)
		l.base++
	}
	l.msgs = append(l.msgs, msg)
	close(l.wake)
	l.wake = make(chan struct{})
	return nil
}

// join registers group at the oldest retained message.
func (l *partitionLog) join(group string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.offsets[group]; !ok {
		l.offsets[group] = l.base
	}
}

func (l *partitionLog) next(group string) (Message, bool, <-chan struct{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.offsets[group] - l.base
	if i < len(l.msgs) {
		return l.msgs[i], true, nil
	}
	return Message{}, false, l.wake
}

func (l *partitionLog) ack(group string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.offsets[group]++
	l.trim()
}

// trim drops messages every joined group has acknowledged.
func (l *partitionLog) trim() {
	low := l.base + len(l.msgs)
	for _, off := range l.offsets {
		if off < low {
			low = off
		}
	}
	if n := low - l.base; n > 0 {
		l.msgs = append([]Message(nil), l.msgs[n:]...)
		l.base = low
	}
}

func (l *partitionLog) pending(group string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	off, ok := l.offsets[group]
	if !ok {
		return len(l.msgs)
	}
	return l.base + len(l.msgs) - off
}
