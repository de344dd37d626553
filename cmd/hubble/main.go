// Command hubble ingests the public IMDb bulk dataset into a local store and
// serves ranked title lookups over HTTP.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/sylv/hubble/internal/config"
	"github.com/sylv/hubble/internal/httpapi"
	"github.com/sylv/hubble/internal/logging"
	"github.com/sylv/hubble/internal/query"
	"github.com/sylv/hubble/internal/store"
	hsync "github.com/sylv/hubble/internal/sync"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "hubble:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	log := logging.New(cfg.LogLevel)

	st, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	defer st.Close()

	orchestrator := hsync.New(cfg.DataDir, st, log)
	facade := query.NewFacade(st.DB())
	server := httpapi.NewServer(facade, st.DB(), orchestrator, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go runRefreshLoop(ctx, orchestrator, cfg.RefreshInterval, log)

	addr := cfg.Host + ":" + cfg.Port
	httpServer := &http.Server{Addr: addr, Handler: server.Handler()}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err := <-errCh:
		return fmt.Errorf("http: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// runRefreshLoop drives the ingest orchestrator on a periodic timer. A
// sweep's failure is recoverable: it logs and retries on the next tick
// (spec.md §7).
func runRefreshLoop(ctx context.Context, orchestrator *hsync.Orchestrator, interval time.Duration, log zerolog.Logger) {
	runSweep(ctx, orchestrator, log)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runSweep(ctx, orchestrator, log)
		}
	}
}

func runSweep(ctx context.Context, orchestrator *hsync.Orchestrator, log zerolog.Logger) {
	if err := orchestrator.Sweep(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		log.Error().Err(err).Msg("sweep failed, will retry next tick")
	}
}
