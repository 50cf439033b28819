package bridge

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/shop-api/internal/domain"
	"github.com/phrazzld/shop-api/internal/events"
	"github.com/phrazzld/shop-api/internal/platform/memory"
	"github.com/phrazzld/shop-api/internal/platform/metrics"
	"github.com/phrazzld/shop-api/internal/service"
	"github.com/phrazzld/shop-api/internal/service/product"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func testConfig() ConsumerConfig {
	cfg := DefaultConsumerConfig(ProductsTopic, ProductsGroup)
	cfg.BackoffInitial = time.Millisecond
	cfg.BackoffMax = 2 * time.Millisecond
	return cfg
}

// scripted returns the queued errors in order, then nil.
type scripted struct {
	mu    sync.Mutex
	errs  []error
	calls int
}

func (s *scripted) Handle(context.Context, []byte) (events.Type, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if len(s.errs) == 0 {
		return events.TypeCreate, nil
	}
	err := s.errs[0]
	s.errs = s.errs[1:]
	return events.TypeCreate, err
}

func (s *scripted) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func counter(reg *prometheus.Registry, outcome string) float64 {
	families, _ := reg.Gather()
	for _, f := range families {
		if f.GetName() != "shop_bridge_events_total" {
			continue
		}
		for _, metric := range f.GetMetric() {
			for _, l := range metric.GetLabel() {
				if l.GetName() == "outcome" && l.GetValue() == outcome {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestHandleMessageRetriesConflicts(t *testing.T) {
	bus := events.NewInMemoryBus(1, 8, discard)
	reg := prometheus.NewRegistry()
	m := metrics.NewBridge(reg)
	h := &scripted{errs: []error{
		&service.ConflictError{Message: "raced"},
		errors.New("connection reset"),
	}}
	c := NewConsumer(bus, h, testConfig(), m, discard)

	err := c.HandleMessage(context.Background(), events.Message{ID: "1", Topic: ProductsTopic, Key: 1})

	require.NoError(t, err)
	assert.Equal(t, 3, h.count())
	assert.Equal(t, 1.0, counter(reg, metrics.OutcomeProcessed))
	assert.Equal(t, 2.0, counter(reg, metrics.OutcomeRetried))
	assert.Zero(t, bus.Pending(events.DeadLetterTopic(ProductsTopic), "inspect"))
}

func TestHandleMessageDeadLettersAfterMaxAttempts(t *testing.T) {
	bus := events.NewInMemoryBus(1, 8, discard)
	reg := prometheus.NewRegistry()
	m := metrics.NewBridge(reg)
	transient := errors.New("connection reset")
	h := &scripted{errs: []error{transient, transient, transient, transient}}
	c := NewConsumer(bus, h, testConfig(), m, discard)

	err := c.HandleMessage(context.Background(), events.Message{ID: "1", Key: 3, Payload: []byte("p")})

	require.NoError(t, err, "a dead-lettered message is acknowledged")
	assert.Equal(t, 3, h.count())
	assert.Equal(t, 1, bus.Pending(events.DeadLetterTopic(ProductsTopic), "inspect"))
	assert.Equal(t, 1.0, counter(reg, metrics.OutcomeDeadLetter))
}

func TestHandleMessageDoesNotRetryInvalidInput(t *testing.T) {
	bus := events.NewInMemoryBus(1, 8, discard)
	h := &scripted{errs: []error{service.NewInvalidInput("Duplicate key, Product Id: 1")}}
	c := NewConsumer(bus, h, testConfig(), nil, discard)

	err := c.HandleMessage(context.Background(), events.Message{ID: "1", Key: 1})

	require.NoError(t, err)
	assert.Equal(t, 1, h.count())
	assert.Equal(t, 1, bus.Pending(events.DeadLetterTopic(ProductsTopic), "inspect"))
}

func TestHandleMessageLeavesMessageOnShutdown(t *testing.T) {
	bus := events.NewInMemoryBus(1, 8, discard)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := NewConsumer(bus, &scripted{}, testConfig(), nil, discard)

	err := c.HandleMessage(ctx, events.Message{ID: "1", Key: 1})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, bus.Pending(events.DeadLetterTopic(ProductsTopic), "inspect"))
}

func TestConsumerRunEndToEnd(t *testing.T) {
	bus := events.NewInMemoryBus(2, 16, discard, events.WithRedeliveryDelay(time.Millisecond))
	s := memory.NewProductStore()
	svc, err := product.NewService(s, "host/127.0.0.1:7001", discard)
	require.NoError(t, err)
	c := NewConsumer(bus, NewProductProcessor(svc, discard), testConfig(), nil, discard)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	publish := func(e events.Event[domain.Product]) {
		payload, err := e.Encode()
		require.NoError(t, err)
		require.NoError(t, bus.Publish(ctx, ProductsTopic, e.Key, payload))
	}
	for id := 1; id <= 4; id++ {
		publish(events.NewCreateEvent(id, domain.Product{ProductID: id, Name: "Tests", Weight: 1}))
	}
	publish(events.NewCreateEvent(2, domain.Product{ProductID: 2, Name: "Again", Weight: 1}))
	publish(events.NewDeleteEvent[domain.Product](3))

	require.Eventually(t, func() bool {
		return bus.Pending(ProductsTopic, ProductsGroup) == 0
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	count, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	found, err := svc.ListProducts(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Tests", found[0].Name, "the duplicate CREATE must not overwrite")
	assert.Equal(t, 1, bus.Pending(events.DeadLetterTopic(ProductsTopic), "inspect"))
}

func TestNewConsumerNormalizesConfig(t *testing.T) {
	bus := events.NewInMemoryBus(1, 1, discard)
	c := NewConsumer(bus, &scripted{}, ConsumerConfig{Topic: ProductsTopic, BackoffMax: time.Nanosecond}, nil, nil)

	assert.Equal(t, 1, c.config.MaxAttempts)
	assert.Equal(t, 100*time.Millisecond, c.config.BackoffInitial)
	assert.Equal(t, c.config.BackoffInitial, c.config.BackoffMax)
	assert.Panics(t, func() { NewConsumer(nil, &scripted{}, c.config, nil, nil) })
}
