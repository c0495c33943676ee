package sentiment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"time"

	"github.com/spacesedan/sentiscore/internal/metrics"
)

const (
	cacheKeyPrefix = "sentiment:score:"

	DefaultCacheTimeout = 250 * time.Millisecond
)

// ScoreCache stores scores by key. A miss is (0, false, nil).
type ScoreCache interface {
	GetScore(ctx context.Context, key string) (float64, bool, error)
	SetScore(ctx context.Context, key string, score float64, ttl time.Duration) error
}

// CachedScorer memoizes another Scorer. Cache failures never fail a score;
// they are logged and the wrapped scorer is used. Each cache call gets at
// most timeout, so a slow cache leaves the scorer its own budget.
type CachedScorer struct {
	next    Scorer
	cache   ScoreCache
	ttl     time.Duration
	timeout time.Duration
	engine  string
}

func NewCachedScorer(next Scorer, cache ScoreCache, engine string, ttl, timeout time.Duration) *CachedScorer {
	if timeout <= 0 {
		timeout = DefaultCacheTimeout
	}
	return &CachedScorer{next: next, cache: cache, ttl: ttl, timeout: timeout, engine: engine}
}

func (c *CachedScorer) Score(ctx context.Context, text string) (float64, error) {
	key := CacheKey(c.engine, text)

	score, ok, err := c.lookup(ctx, key)
	switch {
	case err != nil:
		metrics.ScoreCacheLookups.WithLabelValues("error").Inc()
		slog.Warn("[ScoreCache] Lookup failed, scoring directly",
			slog.String("error", err.Error()))
	case ok:
		metrics.ScoreCacheLookups.WithLabelValues("hit").Inc()
		return score, nil
	default:
		metrics.ScoreCacheLookups.WithLabelValues("miss").Inc()
	}

	score, err = c.next.Score(ctx, text)
	if err != nil {
		return 0, err
	}

	if err := c.store(ctx, key, score); err != nil {
		slog.Warn("[ScoreCache] Failed to store score",
			slog.String("error", err.Error()))
	}

	return score, nil
}

func (c *CachedScorer) lookup(ctx context.Context, key string) (float64, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.cache.GetScore(ctx, key)
}

func (c *CachedScorer) store(ctx context.Context, key string, score float64) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.cache.SetScore(ctx, key, score, c.ttl)
}

func (c *CachedScorer) HealthCheck(ctx context.Context) error {
	if hc, ok := c.next.(HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}

func (c *CachedScorer) Close() error {
	if closer, ok := c.next.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// CacheKey namespaces by engine so switching engines never serves stale scores.
func CacheKey(engine, text string) string {
	sum := sha256.Sum256([]byte(text))
	return cacheKeyPrefix + engine + ":" + hex.EncodeToString(sum[:])
}
