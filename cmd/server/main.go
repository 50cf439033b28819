// Package main implements the entry point for the shop API server, which
// serves the product and review services over HTTP and consumes their
// CREATE/DELETE event streams.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/shop-api/internal/config"
	"github.com/phrazzld/shop-api/internal/platform/logger"
	"github.com/phrazzld/shop-api/internal/redact"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Printf("server exited with error: %s", redact.Error(err))
		stop()
		os.Exit(1)
	}
}

// run loads configuration, builds the application and serves until ctx is
// done.
func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"product_store", cfg.ProductStore.Driver,
		"review_store", cfg.ReviewStore.Driver,
		"event_bus", cfg.Events.Bus,
		"partitions", cfg.Events.PartitionCount)

	app, err := newApplication(ctx, cfg, l)
	if err != nil {
		return err
	}
	return app.Run(ctx)
}
