package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	"github.com/phrazzld/shop-api/internal/bridge"
	"github.com/phrazzld/shop-api/internal/config"
	"github.com/phrazzld/shop-api/internal/events"
	"github.com/phrazzld/shop-api/internal/platform/metrics"
	"github.com/phrazzld/shop-api/internal/platform/redisbus"
	"github.com/phrazzld/shop-api/internal/platform/serviceaddr"
	"github.com/phrazzld/shop-api/internal/service/product"
	"github.com/phrazzld/shop-api/internal/service/review"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// Connections closed by cleanup; nil entries are skipped.
	productDB *sql.DB
	reviewDB  *sql.DB
	busCloser io.Closer

	registry *prometheus.Registry

	productService *product.Service
	reviewService  *review.Service

	bus       events.Bus
	consumers []*bridge.Consumer
}

// newApplication creates a new application instance with all dependencies
// initialized. On error, everything opened so far is closed again.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *application, err error) {
	app := &application{
		config:   cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
	}
	defer func() {
		if err != nil {
			app.cleanup()
		}
	}()

	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	productStore, productDB, err := app.setupProductStore(ctx)
	if err != nil {
		return nil, err
	}
	app.productDB = productDB

	reviewStore, reviewDB, err := app.setupReviewStore(ctx)
	if err != nil {
		return nil, err
	}
	app.reviewDB = reviewDB

	address := serviceaddr.Resolve(cfg.Server.Port)
	logger.Info("Service address resolved", "service_address", address)

	app.productService, err = product.NewService(productStore, address, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create product service: %w", err)
	}
	app.reviewService, err = review.NewService(reviewStore, address, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create review service: %w", err)
	}

	app.bus, err = app.setupBus(ctx)
	if err != nil {
		return nil, err
	}

	m := metrics.NewBridge(app.registry)
	consumerConfig := func(topic, group string) bridge.ConsumerConfig {
		return bridge.ConsumerConfig{
			Topic:          topic,
			Group:          group,
			MaxAttempts:    cfg.Events.MaxAttempts,
			BackoffInitial: cfg.Events.BackoffInitial,
			BackoffMax:     cfg.Events.BackoffMax,
		}
	}
	app.consumers = []*bridge.Consumer{
		bridge.NewConsumer(app.bus,
			bridge.NewProductProcessor(app.productService, logger),
			consumerConfig(bridge.ProductsTopic, bridge.ProductsGroup), m, logger),
		bridge.NewConsumer(app.bus,
			bridge.NewReviewProcessor(app.reviewService, logger),
			consumerConfig(bridge.ReviewsTopic, bridge.ReviewsGroup), m, logger),
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// setupBus creates the configured message bus.
func (app *application) setupBus(ctx context.Context) (events.Bus, error) {
	cfg := app.config.Events
	if cfg.Bus == "memory" {
		return events.NewInMemoryBus(cfg.PartitionCount, cfg.BufferSize, app.logger), nil
	}

	client, err := redisbus.Open(ctx, cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open event bus: %w", err)
	}
	app.busCloser = client
	app.logger.Info("Redis event bus connection established")
	return redisbus.New(client, redisbus.Options{
		Partitions:   cfg.PartitionCount,
		ClaimMinIdle: cfg.ClaimMinIdle,
	}, app.logger), nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	for name, c := range map[string]io.Closer{
		"product database": closerOrNil(app.productDB),
		"review database":  closerOrNil(app.reviewDB),
		"event bus":        app.busCloser,
	} {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil {
			app.logger.Error("Error closing connection", "resource", name, "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}

// closerOrNil keeps a nil *sql.DB from becoming a non-nil io.Closer.
func closerOrNil(db *sql.DB) io.Closer {
	if db == nil {
		return nil
	}
	return db
}
