package bridge

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/shop-api/internal/events"
	"github.com/phrazzld/shop-api/internal/platform/metrics"
	"github.com/phrazzld/shop-api/internal/redact"
	"github.com/phrazzld/shop-api/internal/service"
	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/errgroup"
)

// unknownType labels events whose envelope could not be decoded.
const unknownType = "UNKNOWN"

// Topics and consumer groups of the two entity streams.
const (
	ProductsTopic = "products"
	ProductsGroup = "productsGroup"
	ReviewsTopic  = "reviews"
	ReviewsGroup  = "reviewsGroup"
)

// ConsumerConfig holds the redelivery policy of a Consumer.
type ConsumerConfig struct {
	Topic string
	Group string

	// MaxAttempts bounds how many times one event is handed to the handler.
	MaxAttempts int

	// BackoffInitial is the wait before the second attempt; each further
	// wait doubles up to BackoffMax.
	BackoffInitial time.Duration
	BackoffMax     time.Duration
}

// DefaultConsumerConfig returns a ConsumerConfig with reasonable defaults
func DefaultConsumerConfig(topic, group string) ConsumerConfig {
	return ConsumerConfig{
		Topic:          topic,
		Group:          group,
		MaxAttempts:    3,
		BackoffInitial: 100 * time.Millisecond,
		BackoffMax:     2 * time.Second,
	}
}

// Consumer feeds one topic into an EventHandler.
type Consumer struct {
	bus     events.Bus
	handler EventHandler
	config  ConsumerConfig
	metrics *metrics.Bridge
	logger  *slog.Logger
}

// NewConsumer creates a consumer. A nil m records into unregistered
// collectors.
// If logger is nil, a default logger will be used.
func NewConsumer(
	bus events.Bus,
	handler EventHandler,
	config ConsumerConfig,
	m *metrics.Bridge,
	logger *slog.Logger,
) *Consumer {
	if bus == nil || handler == nil {
		panic("consumer bus and handler cannot be nil")
	}
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}
	if config.BackoffInitial <= 0 {
		config.BackoffInitial = DefaultConsumerConfig("", "").BackoffInitial
	}
	if config.BackoffMax < config.BackoffInitial {
		config.BackoffMax = config.BackoffInitial
	}
	if m == nil {
		m = metrics.NewBridge(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Consumer{
		bus:     bus,
		handler: handler,
		config:  config,
		metrics: m,
		logger:  logger.With("component", "event_consumer", "topic", config.Topic),
	}
}

// Run consumes every partition of the topic until ctx is done or a partition
// subscription fails.
func (c *Consumer) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for p := 0; p < c.bus.Partitions(); p++ {
		partition := p
		g.Go(func() error {
			return c.bus.Subscribe(gctx, c.config.Topic, c.config.Group, partition, c.HandleMessage)
		})
	}

	c.logger.Info("consumer started",
		"group", c.config.Group,
		"partitions", c.bus.Partitions())
	err := g.Wait()
	c.logger.Info("consumer stopped", "group", c.config.Group)
	return err
}

// Retryable reports whether err may succeed on a later attempt. Invalid
// input, missing rows and undecodable or unsupported envelopes never do.
func Retryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrNotFound),
		errors.Is(err, events.ErrMalformedEvent),
		errors.Is(err, events.ErrUnsupportedEventType):
		return false
	default:
		return true
	}
}

func (c *Consumer) backoff() retry.Backoff {
	b := retry.NewExponential(c.config.BackoffInitial)
	b = retry.WithCappedDuration(c.config.BackoffMax, b)
	return retry.WithMaxRetries(uint64(c.config.MaxAttempts-1), b)
}

// HandleMessage runs the handler under the retry policy. It returns nil once
// the message is processed or dead-lettered, and an error only when the
// message must stay on the bus for redelivery.
func (c *Consumer) HandleMessage(ctx context.Context, msg events.Message) error {
	start := time.Now()
	eventType := unknownType
	attempt := 0

	err := retry.Do(ctx, c.backoff(), func(ctx context.Context) error {
		attempt++
		if attempt > 1 {
			c.metrics.Retried(c.config.Topic, eventType)
		}

		t, err := c.handler.Handle(ctx, msg.Payload)
		if t != "" {
			eventType = string(t)
		}
		if err == nil {
			return nil
		}
		if Retryable(err) {
			c.logger.Debug("event failed, may retry",
				"message_id", msg.ID,
				"event_type", eventType,
				"attempt", attempt,
				"error", redact.Error(err))
			return retry.RetryableError(err)
		}
		return err
	})

	if err == nil {
		c.metrics.Observe(c.config.Topic, eventType, metrics.OutcomeProcessed, time.Since(start))
		return nil
	}

	if ctx.Err() != nil {
		// Shutting down; leave the message for the next consumer.
		return ctx.Err()
	}

	log := c.logger.With(
		"message_id", msg.ID,
		"partition", msg.Partition,
		"key", msg.Key,
		"event_type", eventType,
		"attempts", attempt)

	dlq := events.DeadLetterTopic(c.config.Topic)
	if pubErr := c.bus.Publish(ctx, dlq, msg.Key, msg.Payload); pubErr != nil {
		log.Error("failed to dead-letter event",
			"error", redact.Error(err),
			"dlq_error", redact.Error(pubErr))
		c.metrics.Observe(c.config.Topic, eventType, metrics.OutcomeFailed, time.Since(start))
		return pubErr
	}

	log.Warn("event dead-lettered",
		"dead_letter_topic", dlq,
		"error", redact.Error(err))
	c.metrics.Observe(c.config.Topic, eventType, metrics.OutcomeDeadLetter, time.Since(start))
	return nil
}
