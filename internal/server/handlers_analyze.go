package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spacesedan/sentiscore/internal/metrics"
	"github.com/spacesedan/sentiscore/internal/models"
	"github.com/spacesedan/sentiscore/internal/sentiment"
)

// Messages returned to clients. Internal errors never reach the response.
var (
	errEmptyBody     = errors.New("request body is empty")
	errInvalidJSON   = errors.New("request body is not valid JSON")
	errNotObject     = errors.New("request body must be a JSON object")
	errTextNotString = errors.New("text must be a string")
	errReadBody      = errors.New("failed to read request body")
)

const scoringFailedMessage = "sentiment scoring failed"

func (s *Server) handleAnalyze(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		// BodyLimit reports oversize bodies as an echo.HTTPError (413).
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			metrics.AnalyzeRequestsTotal.WithLabelValues("bad_request").Inc()
			return httpErr
		}
		return s.rejectRequest(c, errReadBody)
	}

	req, err := decodeAnalyzeRequest(body)
	if err != nil {
		return s.rejectRequest(c, err)
	}

	text := req.TextOrEmpty()
	if strings.TrimSpace(text) == "" {
		metrics.AnalyzeRequestsTotal.WithLabelValues("empty").Inc()
		return c.JSON(http.StatusOK, models.AnalyzeResponse{Sentiment: 0})
	}

	score, err := s.score(c.Request().Context(), text)
	if err != nil {
		metrics.AnalyzeRequestsTotal.WithLabelValues("scorer_error").Inc()
		slog.Error("[AnalyzeHandler] Scoring failed",
			slog.String("engine", s.config.ScorerEngine),
			slog.Int("text_length", len(text)),
			slog.String("error", err.Error()))
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: scoringFailedMessage})
	}

	metrics.AnalyzeRequestsTotal.WithLabelValues("scored").Inc()
	return c.JSON(http.StatusOK, models.AnalyzeResponse{Sentiment: score})
}

func (s *Server) score(ctx context.Context, text string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.ScorerTimeout)
	defer cancel()

	start := time.Now()
	raw, err := s.scorer.Score(ctx, text)
	metrics.ScorerDuration.WithLabelValues(s.config.ScorerEngine).Observe(time.Since(start).Seconds())
	if err != nil {
		return 0, err
	}

	return sentiment.Normalize(raw)
}

func (s *Server) rejectRequest(c echo.Context, err error) error {
	metrics.AnalyzeRequestsTotal.WithLabelValues("bad_request").Inc()
	return c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
}

// decodeAnalyzeRequest accepts exactly one JSON object. A missing or null
// text field is left nil. The key match is exact: encoding/json would also
// accept "Text" or "TEXT" when decoding straight into the struct.
func decodeAnalyzeRequest(body []byte) (models.AnalyzeRequest, error) {
	var req models.AnalyzeRequest

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return req, errEmptyBody
	}
	if !json.Valid(trimmed) {
		return req, errInvalidJSON
	}
	if trimmed[0] != '{' {
		return req, errNotObject
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return req, errNotObject
	}

	raw, ok := fields["text"]
	if !ok {
		return req, nil
	}
	if err := json.Unmarshal(raw, &req.Text); err != nil {
		return req, errTextNotString
	}
	return req, nil
}
