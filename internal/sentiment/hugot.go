//go:build ORT || ALL

package sentiment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"
)

const hugotPipelineName = "sentimentClassificationPipeline"

var errNoClassification = errors.New("pipeline returned no classification")

// HugotScorer runs a local ONNX text classification model. Labels are
// mapped onto polarity with labelPolarity.
type HugotScorer struct {
	session  *hugot.Session
	pipeline *pipelines.TextClassificationPipeline
	mu       sync.Mutex
}

func newHugotScorer(modelName, modelDir string) (Scorer, error) {
	return NewHugotScorer(modelName, modelDir)
}

func NewHugotScorer(modelName, modelDir string) (*HugotScorer, error) {
	modelPath, err := ensureModel(modelName, modelDir)
	if err != nil {
		return nil, err
	}

	session, err := hugot.NewORTSession()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize hugot session: %w", err)
	}

	config := hugot.TextClassificationConfig{
		ModelPath: modelPath,
		Name:      hugotPipelineName,
	}
	pipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		_ = session.Destroy()
		return nil, fmt.Errorf("failed to initialize classification pipeline: %w", err)
	}

	slog.Info("[HugotScorer] Pipeline ready", slog.String("model", modelPath))
	return &HugotScorer{session: session, pipeline: pipeline}, nil
}

func ensureModel(modelName, modelDir string) (string, error) {
	if err := os.MkdirAll(modelDir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create model directory: %w", err)
	}

	modelPath := filepath.Join(modelDir, strings.ReplaceAll(modelName, "/", "_"))
	if _, err := os.Stat(modelPath); err == nil {
		slog.Info("[HugotScorer] Using existing model", slog.String("path", modelPath))
		return modelPath, nil
	}

	slog.Info("[HugotScorer] Model not found, downloading...", slog.String("model", modelName))
	downloaded, err := hugot.DownloadModel(modelName, modelDir, hugot.NewDownloadOptions())
	if err != nil {
		return "", fmt.Errorf("failed to download model %s: %w", modelName, err)
	}
	slog.Info("[HugotScorer] Model downloaded successfully", slog.String("path", downloaded))
	return downloaded, nil
}

func (h *HugotScorer) Score(ctx context.Context, text string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	h.mu.Lock()
	output, err := h.pipeline.RunPipeline([]string{text})
	h.mu.Unlock()
	if err != nil {
		return 0, fmt.Errorf("classification failed: %w", err)
	}

	if len(output.ClassificationOutputs) == 0 || len(output.ClassificationOutputs[0]) == 0 {
		return 0, errNoClassification
	}

	best := output.ClassificationOutputs[0][0]
	return labelPolarity(best.Label, float64(best.Score)), nil
}

func (h *HugotScorer) HealthCheck(ctx context.Context) error {
	_, err := h.Score(ctx, "ok")
	return err
}

func (h *HugotScorer) Close() error {
	return h.session.Destroy()
}
