package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/spacesedan/sentiscore/internal/metrics"
	"github.com/spacesedan/sentiscore/internal/sentiment"
)

const healthCheckTimeout = 5 * time.Second

// MonitorScorerHealth runs checker once immediately and then on every tick,
// storing the outcome in healthy. It returns when ctx is done.
func MonitorScorerHealth(ctx context.Context, checker sentiment.HealthChecker, healthy *atomic.Bool, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	check(ctx, checker, healthy, true)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check(ctx, checker, healthy, false)
		}
	}
}

// check logs the outcome on the first run and on every change after that.
func check(ctx context.Context, checker sentiment.HealthChecker, healthy *atomic.Bool, first bool) {
	checkCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	err := checker.HealthCheck(checkCtx)
	isHealthy := err == nil

	if was := healthy.Swap(isHealthy); first || was != isHealthy {
		if isHealthy {
			slog.Info("[HealthCheck] Scorer is healthy")
		} else {
			slog.Warn("[HealthCheck] Scorer is unhealthy", slog.String("error", err.Error()))
		}
	}

	if isHealthy {
		metrics.ScorerHealthy.Set(1)
	} else {
		metrics.ScorerHealthy.Set(0)
	}
}
