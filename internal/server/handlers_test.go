package server

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spacesedan/sentiscore/config"
)

// fakeScorer returns a fixed score and records how often it was called.
type fakeScorer struct {
	mu    sync.Mutex
	score float64
	err   error
	delay time.Duration
	texts []string
}

func (f *fakeScorer) Score(ctx context.Context, text string) (float64, error) {
	f.mu.Lock()
	f.texts = append(f.texts, text)
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(f.delay):
		}
	}
	return f.score, f.err
}

func (f *fakeScorer) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.texts)
}

type testServerOption func(*config.Config, *atomic.Bool)

func withBodyLimit(limit string) testServerOption {
	return func(cfg *config.Config, _ *atomic.Bool) { cfg.BodyLimit = limit }
}

func withScorerTimeout(d time.Duration) testServerOption {
	return func(cfg *config.Config, _ *atomic.Bool) { cfg.ScorerTimeout = d }
}

func withUnhealthyScorer() testServerOption {
	return func(_ *config.Config, healthy *atomic.Bool) { healthy.Store(false) }
}

func newTestServer(t *testing.T, scorer *fakeScorer, opts ...testServerOption) *Server {
	t.Helper()

	cfg := &config.Config{
		Port:          5001,
		BodyLimit:     "1K",
		ScorerEngine:  "fake",
		ScorerTimeout: time.Second,
	}
	var healthy atomic.Bool
	healthy.Store(true)

	for _, opt := range opts {
		opt(cfg, &healthy)
	}

	return New(cfg, scorer, &healthy)
}

// serve runs a request through the full echo stack, middleware included.
func serve(srv *Server, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	return rec
}
