package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/phrazzld/shop-api/internal/api"
	"golang.org/x/sync/errgroup"
)

// Run serves HTTP and runs the event consumers until ctx is done or one of
// them fails, then shuts everything down.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	server := &http.Server{
		Addr: fmt.Sprintf(":%d", app.config.Server.Port),
		Handler: api.NewRouter(api.RouterConfig{
			Products: app.productService,
			Reviews:  app.reviewService,
			Gatherer: app.registry,
			Logger:   app.logger,
		}),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.logger.Info("Starting server", "port", app.config.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	for _, c := range app.consumers {
		g.Go(func() error {
			return c.Run(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		app.logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	err := g.Wait()
	app.logger.Info("Server shutdown completed")
	return err
}
