package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/phrazzld/shop-api/internal/platform/memory"
	"github.com/phrazzld/shop-api/internal/platform/mysql"
	"github.com/phrazzld/shop-api/internal/platform/postgres"
	"github.com/phrazzld/shop-api/internal/store"
)

// setupProductStore opens the configured product store, applying migrations
// for PostgreSQL. The returned *sql.DB is nil for the memory driver.
func (app *application) setupProductStore(ctx context.Context) (store.ProductStore, *sql.DB, error) {
	cfg := app.config.ProductStore
	if cfg.Driver == "memory" {
		app.logger.Warn("using in-memory product store, data is not persisted")
		return memory.NewProductStore(), nil, nil
	}

	db, err := postgres.Open(ctx, cfg.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open product database: %w", err)
	}
	if err := postgres.Migrate(ctx, db, app.logger); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to migrate product database: %w", err)
	}

	app.logger.Info("Product database connection established")
	return postgres.NewPostgresProductStore(db, app.logger), db, nil
}

// setupReviewStore opens the configured review store, applying migrations
// for MySQL. The returned *sql.DB is nil for the memory driver.
func (app *application) setupReviewStore(ctx context.Context) (store.ReviewStore, *sql.DB, error) {
	cfg := app.config.ReviewStore
	if cfg.Driver == "memory" {
		app.logger.Warn("using in-memory review store, data is not persisted")
		return memory.NewReviewStore(), nil, nil
	}

	db, err := mysql.Open(ctx, cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open review database: %w", err)
	}
	if err := mysql.Migrate(ctx, db, app.logger); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to migrate review database: %w", err)
	}

	app.logger.Info("Review database connection established")
	return mysql.NewReviewStore(db, app.logger), db, nil
}
