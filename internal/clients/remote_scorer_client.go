package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/spacesedan/sentiscore/internal/models"
)

var errMissingSentiment = errors.New("remote scorer response has no sentiment field")

// RemoteScorerClient delegates scoring to another service that speaks the
// /analyze wire format.
type RemoteScorerClient struct {
	Client         *http.Client
	endpoint       string
	healthEndpoint string
	maxRetries     int
	initialBackoff time.Duration
}

func NewRemoteScorerClient(endpoint, healthEndpoint string, timeout time.Duration) *RemoteScorerClient {
	slog.Info("[RemoteScorerClient] Initializing Client",
		slog.String("endpoint", endpoint),
		slog.Duration("timeout", timeout))

	return &RemoteScorerClient{
		Client:         &http.Client{Timeout: timeout},
		endpoint:       endpoint,
		healthEndpoint: healthEndpoint,
		maxRetries:     MAX_RETRIES,
		initialBackoff: INITIAL_BACKOFF,
	}
}

func (r *RemoteScorerClient) Score(ctx context.Context, text string) (float64, error) {
	var result models.RemoteScoreResponse
	start := time.Now()

	if err := r.postJSON(ctx, r.endpoint, models.RemoteScoreRequest{Text: text}, &result); err != nil {
		slog.Error("[RemoteScorerClient] Score request failed",
			slog.Duration("elapsed", time.Since(start)))
		return 0, err
	}
	if result.Sentiment == nil {
		return 0, errMissingSentiment
	}

	slog.Debug("[RemoteScorerClient] Score request successful",
		slog.Duration("elapsed", time.Since(start)))
	return *result.Sentiment, nil
}

// HealthCheck GETs the health endpoint. Without one the scorer is assumed healthy.
func (r *RemoteScorerClient) HealthCheck(ctx context.Context) error {
	if r.healthEndpoint == "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.healthEndpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build health request: %w", err)
	}
	req.Header.Set("User-Agent", USER_AGENT)

	resp, err := r.Client.Do(req)
	if err != nil {
		return fmt.Errorf("health request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status code %d", resp.StatusCode)
	}
	return nil
}

// DoWithRetry retries transport errors and 5xx responses with exponential
// backoff. newReq is called per attempt so the body is never reused.
func (r *RemoteScorerClient) DoWithRetry(ctx context.Context, newReq func() (*http.Request, error)) (*http.Response, error) {
	var lastErr error
	backoff := r.initialBackoff

	for attempt := 0; attempt < r.maxRetries; attempt++ {
		req, err := newReq()
		if err != nil {
			return nil, err
		}

		resp, err := r.Client.Do(req)
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}

		if resp != nil {
			resp.Body.Close()
		}
		lastErr = errors.New(errMsg(err, resp))

		slog.Warn("[RemoteScorerClient] Request failed, will retry",
			slog.Int("attempt", attempt+1),
			slog.String("error", lastErr.Error()))

		if attempt == r.maxRetries-1 {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, MAX_BACKOFF)
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", r.maxRetries, lastErr)
}

func (r *RemoteScorerClient) postJSON(ctx context.Context, endpoint string, input interface{}, output interface{}) error {
	body, err := json.Marshal(input)
	if err != nil {
		return fmt.Errorf("failed to marshal input: %w", err)
	}

	resp, err := r.DoWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", USER_AGENT)
		return req, nil
	})
	if err != nil {
		slog.Error("[RemoteScorerClient] Failed request after retries",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		slog.Error("[RemoteScorerClient] Unexpected status",
			slog.String("endpoint", endpoint),
			slog.Int("status", resp.StatusCode),
			getPreview(respBody))
		return fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	if err := json.Unmarshal(respBody, output); err != nil {
		slog.Error("[RemoteScorerClient] Failed to unmarshal response",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()),
			getPreview(respBody),
			slog.Int("raw_response_length", len(respBody)))
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}

func getPreview(respBody []byte) slog.Attr {
	raw := string(respBody)
	if len(raw) > 50 {
		raw = raw[:50]
	}
	return slog.String("raw_response", raw)
}

func errMsg(err error, resp *http.Response) string {
	if err != nil {
		return err.Error()
	}
	if resp != nil {
		return fmt.Sprintf("status code %d", resp.StatusCode)
	}
	return "unknown error"
}
