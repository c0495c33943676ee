package clients

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/failsafe-go/failsafe-go/circuitbreaker"
	"github.com/spacesedan/sentiscore/internal/metrics"
	"github.com/valkey-io/valkey-go"
)

// ValkeyClient backs the score cache. Commands go through a circuit breaker
// so an unreachable Valkey fails fast instead of eating request deadlines,
// and reconnects run in the background, one at a time.
type ValkeyClient struct {
	Client       valkey.Client
	opts         valkey.ClientOption
	mu           sync.RWMutex
	breaker      circuitbreaker.CircuitBreaker[any]
	reconnecting atomic.Bool
}

func NewValkeyClient(ctx context.Context, addr, password string, useTLS bool) (*ValkeyClient, error) {
	opts := valkey.ClientOption{
		InitAddress: []string{
			addr,
		},
		Password:         password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}

	if useTLS {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	}

	client, err := connect(ctx, opts)
	if err != nil {
		return nil, err
	}

	slog.Info("[ValkeyClient] Successfully connected to valkey", slog.String("address", addr))
	return newValkeyClient(client, opts), nil
}

func newValkeyClient(client valkey.Client, opts valkey.ClientOption) *ValkeyClient {
	return &ValkeyClient{Client: client, opts: opts, breaker: newCacheBreaker()}
}

func newCacheBreaker() circuitbreaker.CircuitBreaker[any] {
	metrics.CircuitBreakerState.WithLabelValues("valkey").Set(0)

	return circuitbreaker.NewBuilder[any]().
		WithFailureThreshold(VALKEY_BREAKER_FAILURES).
		WithDelay(VALKEY_BREAKER_DELAY).
		WithSuccessThreshold(1).
		OnStateChanged(func(e circuitbreaker.StateChangedEvent) {
			slog.Warn("[ValkeyClient] Circuit breaker state changed",
				slog.String("from", e.OldState.String()),
				slog.String("to", e.NewState.String()))
			metrics.CircuitBreakerStateChanges.WithLabelValues("valkey", e.NewState.String()).Inc()
			metrics.CircuitBreakerState.WithLabelValues("valkey").Set(stateToFloat(e.NewState))
		}).
		Build()
}

func stateToFloat(state circuitbreaker.State) float64 {
	switch state {
	case circuitbreaker.ClosedState:
		return 0
	case circuitbreaker.HalfOpenState:
		return 1
	case circuitbreaker.OpenState:
		return 2
	default:
		return -1
	}
}

func connect(ctx context.Context, opts valkey.ClientOption) (valkey.Client, error) {
	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to create Valkey: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := client.Do(pingCtx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("[ValkeyClient] failed to ping Valkey: %w", err)
	}
	return client, nil
}

func (vc *ValkeyClient) client() valkey.Client {
	vc.mu.RLock()
	defer vc.mu.RUnlock()
	return vc.Client
}

// reconnectAsync starts a background reconnect unless one is running.
// Callers never wait on it.
func (vc *ValkeyClient) reconnectAsync() {
	if len(vc.opts.InitAddress) == 0 || !vc.reconnecting.CompareAndSwap(false, true) {
		return
	}

	go func() {
		defer vc.reconnecting.Store(false)

		ctx, cancel := context.WithTimeout(context.Background(), VALKEY_RECONNECT_TIMEOUT)
		defer cancel()
		vc.recreateClient(ctx)
	}()
}

func (vc *ValkeyClient) recreateClient(ctx context.Context) {
	slog.Warn("[ValkeyClient] Attempting to recreate Valkey client...")

	// Dial outside the lock; only the swap is exclusive.
	client, err := connect(ctx, vc.opts)
	if err != nil {
		slog.Error("[ValkeyClient] Recreate failed", slog.String("error", err.Error()))
		return
	}

	vc.mu.Lock()
	old := vc.Client
	vc.Client = client
	vc.mu.Unlock()

	old.Close()
	slog.Info("[ValkeyClient] Successfully reconnected to valkey")
}

func (vc *ValkeyClient) Close() {
	vc.client().Close()
}

func (vc *ValkeyClient) Ping(ctx context.Context) error {
	c := vc.client()
	return c.Do(ctx, c.B().Ping().Build()).Error()
}

func (vc *ValkeyClient) GetScore(ctx context.Context, key string) (float64, bool, error) {
	res, err := vc.do(ctx, func(c valkey.Client) valkey.Completed {
		return c.B().Get().Key(key).Build()
	})
	if err != nil {
		return 0, false, err
	}
	if valkey.IsValkeyNil(res.Error()) {
		return 0, false, nil
	}

	score, err := res.AsFloat64()
	if err != nil {
		return 0, false, fmt.Errorf("cached score for %s is not a float: %w", key, err)
	}
	return score, true, nil
}

func (vc *ValkeyClient) SetScore(ctx context.Context, key string, score float64, ttl time.Duration) error {
	_, err := vc.do(ctx, func(c valkey.Client) valkey.Completed {
		return c.B().Set().Key(key).Value(formatScore(score)).ExSeconds(int64(ttl / time.Second)).Build()
	})
	return err
}

// do runs one command behind the circuit breaker. A nil reply is returned
// as a result with a nil error.
func (vc *ValkeyClient) do(ctx context.Context, build func(valkey.Client) valkey.Completed) (valkey.ValkeyResult, error) {
	if !vc.breaker.TryAcquirePermit() {
		return valkey.ValkeyResult{}, fmt.Errorf("valkey circuit breaker open: %w", circuitbreaker.ErrOpen)
	}

	res := vc.DoWithRetry(ctx, build, VALKEY_RETRIES)
	if err := res.Error(); err != nil && !valkey.IsValkeyNil(err) {
		vc.breaker.RecordError(err)
		if isConnectionError(err) {
			vc.reconnectAsync()
		}
		return res, err
	}

	vc.breaker.RecordSuccess()
	return res, nil
}

// DoWithRetry retries failed commands. Commands are recycled after Do, so
// build is called once per attempt. A nil reply is a result, not a failure.
func (vc *ValkeyClient) DoWithRetry(ctx context.Context, build func(valkey.Client) valkey.Completed, retries int) valkey.ValkeyResult {
	var result valkey.ValkeyResult
	for i := 0; i < retries; i++ {
		c := vc.client()
		result = c.Do(ctx, build(c))
		err := result.Error()
		if err == nil || valkey.IsValkeyNil(err) {
			break
		}

		slog.Warn("[ValkeyClient] Do failed",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))

		if i == retries-1 {
			break
		}
		select {
		case <-ctx.Done():
			return result
		case <-time.After(VALKEY_RETRY_DELAY):
		}
	}

	return result
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout")
}
