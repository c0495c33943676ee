package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spacesedan/sentiscore/config"
	"github.com/spacesedan/sentiscore/internal/clients"
	"github.com/spacesedan/sentiscore/internal/logging"
	"github.com/spacesedan/sentiscore/internal/monitoring"
	"github.com/spacesedan/sentiscore/internal/sentiment"
	"github.com/spacesedan/sentiscore/internal/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)

	cfg, err := config.Load()
	if err != nil {
		// slog is not configured yet
		log.Fatalf("Failed to load config: %v", err)
	}
	logging.InitLogger(cfg.LogLevel)

	if err := run(cfg); err != nil {
		slog.Error("[Main] Server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cache sentiment.ScoreCache
	if cfg.CacheEnabled() {
		valkeyClient, err := clients.NewValkeyClient(ctx, cfg.ValkeyAddress, cfg.ValkeyPassword, cfg.ValkeyTLS)
		if err != nil {
			slog.Warn("[Main] Score cache unavailable, continuing without it",
				slog.String("error", err.Error()))
		} else {
			defer valkeyClient.Close()
			cache = valkeyClient
		}
	}

	scorer, err := sentiment.New(cfg, cache)
	if err != nil {
		return fmt.Errorf("failed to build scorer: %w", err)
	}
	if closer, ok := scorer.(io.Closer); ok {
		defer closer.Close()
	}

	var scorerHealthy atomic.Bool
	if checker, ok := scorer.(sentiment.HealthChecker); ok {
		go monitoring.MonitorScorerHealth(ctx, checker, &scorerHealthy, cfg.HealthCheckInterval)
	} else {
		scorerHealthy.Store(true)
	}

	srv := server.New(cfg, scorer, &scorerHealthy)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("[Main] Shutting down server gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
