package sentiment

import (
	"fmt"
	"log/slog"

	"github.com/spacesedan/sentiscore/config"
	"github.com/spacesedan/sentiscore/internal/clients"
)

// New builds the scorer selected by cfg.ScorerEngine, wrapped in a
// CachedScorer when cache is non-nil.
func New(cfg *config.Config, cache ScoreCache) (Scorer, error) {
	var (
		scorer Scorer
		err    error
	)

	switch cfg.ScorerEngine {
	case config.EngineVader:
		scorer = NewVaderScorer()
	case config.EngineRemote:
		scorer = clients.NewRemoteScorerClient(cfg.RemoteScorerURL, cfg.RemoteScorerHealthURL, cfg.ScorerTimeout)
	case config.EngineHugot:
		scorer, err = newHugotScorer(cfg.HugotModel, cfg.HugotModelDir)
	case config.EngineOpenAI:
		scorer = clients.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.ScorerTimeout)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, cfg.ScorerEngine)
	}
	if err != nil {
		return nil, err
	}

	slog.Info("[Scorer] Engine initialized", slog.String("engine", cfg.ScorerEngine))

	if cache != nil {
		slog.Info("[Scorer] Score cache enabled", slog.Duration("ttl", cfg.ScoreCacheTTL))
		return NewCachedScorer(scorer, cache, cfg.ScorerEngine, cfg.ScoreCacheTTL, cfg.ScoreCacheTimeout), nil
	}
	return scorer, nil
}
