package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"future-workshop/internal/logging"
)

// Config captures the HTTP server configuration.
type Config struct {
	Port            int
	ShutdownTimeout time.Duration
}

// App owns the lifecycle of the HTTP server.
type App struct {
	cfg    Config
	logger logging.Logger
	server *http.Server
}

// New creates a new App instance serving the provided handler.
func New(cfg Config, logger logging.Logger, handler http.Handler) (*App, error) {
	if cfg.Port == 0 {
		return nil, fmt.Errorf("http port must be provided")
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: handler,
	}

	return &App{cfg: cfg, logger: logger, server: server}, nil
}

// Run starts the HTTP server and blocks until the context is cancelled or a
// fatal error occurs, then shuts the server down gracefully.
func (a *App) Run(ctx context.Context) error {
	a.logger.With(logging.Field{Key: "addr", Value: a.server.Addr}).Info("starting http server")

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return ctx.Err()
}
