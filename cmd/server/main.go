package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orglink/internal/app"
	"orglink/internal/platform/config"
	"orglink/internal/platform/httpserver"
	"orglink/internal/platform/logger"
)

const shutdownTimeout = 10 * time.Second

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Linkage logic lives in internal/linkage.
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	// A failed first load leaves the cache not ready; admin resolution
	// endpoints answer 503 until a later refresh succeeds.
	if sizes, err := a.Service.RefreshCache(ctx); err != nil {
		log.Error("initial registry load failed", "error", err)
	} else {
		log.Info("registry cache loaded", "names", sizes.Names, "acronyms", sizes.Acronyms, "external_ids", sizes.ExternalIDs)
	}
	go a.RunRefresher(ctx, cfg.Linkage.RefreshInterval)

	srv := httpserver.New(cfg.Server.Addr, a.Router())
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting orglink", "addr", cfg.Server.Addr, "fuzzy_enabled", cfg.Linkage.FuzzyEnabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
