package redisbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/phrazzld/shop-api/internal/events"
	"github.com/phrazzld/shop-api/internal/redact"
	"github.com/redis/go-redis/v9"
)

// Stream entry fields.
const (
	fieldKey     = "key"
	fieldPayload = "payload"
)

// Defaults applied by New for zero Options fields.
const (
	DefaultClaimMinIdle    = 30 * time.Second
	DefaultBlock           = 2 * time.Second
	DefaultBatchSize       = 16
	DefaultRedeliveryDelay = 500 * time.Millisecond
)

// Options tunes a Bus.
type Options struct {
	// Partitions is the number of streams per topic.
	Partitions int
	// Consumer names this process inside each consumer group. Defaults to
	// the hostname.
	Consumer string
	// ClaimMinIdle is how long an entry must sit unacknowledged before
	// another consumer may take it over.
	ClaimMinIdle    time.Duration
	Block           time.Duration
	BatchSize       int64
	RedeliveryDelay time.Duration
}

// Bus is an events.Bus backed by Redis Streams.
type Bus struct {
	client redis.UniversalClient
	opts   Options
	logger *slog.Logger
}

var _ events.Bus = (*Bus)(nil)

// Open parses a redis:// URL, connects and verifies the connection.
func Open(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// New creates a Bus on client.
// If logger is nil, a default logger will be used.
func New(client redis.UniversalClient, opts Options, logger *slog.Logger) *Bus {
	if client == nil {
		panic("redis client cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Partitions < 1 {
		opts.Partitions = 1
	}
	if opts.Consumer == "" {
		host, err := os.Hostname()
		if err != nil || host == "" {
			host = "shop"
		}
		opts.Consumer = host
	}
	if opts.ClaimMinIdle <= 0 {
		opts.ClaimMinIdle = DefaultClaimMinIdle
	}
	if opts.Block <= 0 {
		opts.Block = DefaultBlock
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.RedeliveryDelay <= 0 {
		opts.RedeliveryDelay = DefaultRedeliveryDelay
	}
	return &Bus{
		client: client,
		opts:   opts,
		logger: logger.With("component", "redis_bus"),
	}
}

// Partitions returns the number of streams per topic.
func (b *Bus) Partitions() int {
	return b.opts.Partitions
}

// StreamName returns the stream that holds one partition of topic.
func StreamName(topic string, partition int) string {
	return topic + "." + strconv.Itoa(partition)
}

// Publish appends payload to the stream of the partition that owns key.
func (b *Bus) Publish(ctx context.Context, topic string, key int, payload []byte) error {
	stream := StreamName(topic, events.PartitionFor(key, b.opts.Partitions))
	id, err := b.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{
			fieldKey:     strconv.Itoa(key),
			fieldPayload: payload,
		},
	}).Result()
	if err != nil {
		b.logger.Error("failed to publish message",
			"stream", stream,
			"key", key,
			"error", redact.Error(err))
		return fmt.Errorf("failed to publish to %s: %w", stream, err)
	}

	b.logger.Debug("message published", "stream", stream, "key", key, "message_id", id)
	return nil
}

// EnsureGroup creates group on the partition stream, creating the stream if
// needed. An existing group is not an error.
func (b *Bus) EnsureGroup(ctx context.Context, topic, group string, partition int) error {
	stream := StreamName(topic, partition)
	err := b.client.XGroupCreateMkStream(ctx, stream, group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("failed to create group %s on %s: %w", group, stream, err)
	}
	return nil
}

// Subscribe consumes one partition until ctx is done. Entries this consumer
// already owns are delivered before new ones, and a rejected entry stops the
// batch so later entries never overtake it.
func (b *Bus) Subscribe(ctx context.Context, topic, group string, partition int, h events.Handler) error {
	if partition < 0 || partition >= b.opts.Partitions {
		return fmt.Errorf("partition %d out of range [0, %d)", partition, b.opts.Partitions)
	}
	if err := b.EnsureGroup(ctx, topic, group, partition); err != nil {
		return err
	}

	stream := StreamName(topic, partition)
	consumer := b.opts.Consumer + "-" + strconv.Itoa(partition)
	log := b.logger.With("stream", stream, "group", group, "consumer", consumer)
	log.Info("subscribed")

	// "0" reads this consumer's pending entries; ">" reads new ones.
	cursor := "0"
	for ctx.Err() == nil {
		if cursor == ">" {
			claimed, err := b.claim(ctx, stream, group, consumer)
			if err != nil && ctx.Err() == nil {
				log.Warn("failed to reclaim idle entries", "error", redact.Error(err))
			}
			if claimed > 0 {
				log.Info("reclaimed idle entries", "count", claimed)
				cursor = "0"
			}
		}

		res, err := b.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    group,
			Consumer: consumer,
			Streams:  []string{stream, cursor},
			Count:    b.opts.BatchSize,
			Block:    b.opts.Block,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || ctx.Err() != nil {
				continue
			}
			log.Error("failed to read stream", "error", redact.Error(err))
			b.pause(ctx)
			continue
		}

		var msgs []redis.XMessage
		for _, s := range res {
			msgs = append(msgs, s.Messages...)
		}
		if len(msgs) == 0 {
			cursor = ">"
			continue
		}

		if b.deliver(ctx, log, topic, group, stream, partition, msgs, h) {
			continue
		}
		// A rejected entry stays pending; re-read pending after a pause.
		cursor = "0"
		b.pause(ctx)
	}
	return nil
}

// deliver hands msgs to h in order and acknowledges each accepted entry. It
// reports false as soon as h rejects one.
func (b *Bus) deliver(
	ctx context.Context,
	log *slog.Logger,
	topic, group, stream string,
	partition int,
	msgs []redis.XMessage,
	h events.Handler,
) bool {
	for _, xm := range msgs {
		msg, err := decodeMessage(topic, partition, xm)
		if err != nil {
			// Not ours to interpret; drop it so it cannot block the partition.
			log.Error("dropping undecodable stream entry", "message_id", xm.ID, "error", err)
			b.ack(ctx, log, stream, group, xm.ID)
			continue
		}

		if err := h(ctx, msg); err != nil {
			log.Debug("message rejected, leaving pending",
				"message_id", xm.ID,
				"error", redact.Error(err))
			return false
		}
		b.ack(ctx, log, stream, group, xm.ID)
	}
	return true
}

func (b *Bus) ack(ctx context.Context, log *slog.Logger, stream, group, id string) {
	if err := b.client.XAck(ctx, stream, group, id).Err(); err != nil {
		log.Warn("failed to acknowledge entry", "message_id", id, "error", redact.Error(err))
	}
}

// claim moves entries idle longer than ClaimMinIdle to consumer.
func (b *Bus) claim(ctx context.Context, stream, group, consumer string) (int, error) {
	msgs, _, err := b.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   stream,
		Group:    group,
		Consumer: consumer,
		MinIdle:  b.opts.ClaimMinIdle,
		Start:    "0-0",
		Count:    b.opts.BatchSize,
	}).Result()
	if err != nil {
		return 0, err
	}
	return len(msgs), nil
}

func (b *Bus) pause(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(b.opts.RedeliveryDelay):
	}
}

// decodeMessage converts a stream entry into an events.Message.
func decodeMessage(topic string, partition int, xm redis.XMessage) (events.Message, error) {
	rawKey, ok := xm.Values[fieldKey].(string)
	if !ok {
		return events.Message{}, fmt.Errorf("entry %s has no %q field", xm.ID, fieldKey)
	}
	key, err := strconv.Atoi(rawKey)
	if err != nil {
		return events.Message{}, fmt.Errorf("entry %s has non-integer key %q", xm.ID, rawKey)
	}
	payload, ok := xm.Values[fieldPayload].(string)
	if !ok {
		return events.Message{}, fmt.Errorf("entry %s has no %q field", xm.ID, fieldPayload)
	}

	return events.Message{
		ID:        xm.ID,
		Topic:     topic,
		Partition: partition,
		Key:       key,
		Payload:   []byte(payload),
	}, nil
}
