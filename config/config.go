package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/labstack/gommon/bytes"
	"go-simpler.org/env"
)

const (
	EngineVader  = "vader"
	EngineRemote = "remote"
	EngineHugot  = "hugot"
	EngineOpenAI = "openai"
)

type Config struct {
	AppEnv   string `env:"APP_ENV" default:"dev"`
	Port     int    `env:"PORT" default:"5001"`
	LogLevel string `env:"LOG_LEVEL" default:"info"`

	// BodyLimit uses echo's size notation, e.g. 512K or 1M.
	BodyLimit           string        `env:"BODY_LIMIT" default:"1M"`
	HealthCheckInterval time.Duration `env:"HEALTHCHECK_INTERVAL" default:"15s"`

	ScorerEngine  string        `env:"SCORER_ENGINE" default:"vader"`
	ScorerTimeout time.Duration `env:"SCORER_TIMEOUT" default:"10s"`

	RemoteScorerURL       string `env:"REMOTE_SCORER_URL"`
	RemoteScorerHealthURL string `env:"REMOTE_SCORER_HEALTH_URL"`

	HugotModel    string `env:"HUGOT_MODEL" default:"KnightsAnalytics/distilbert-base-uncased-finetuned-sst-2-english"`
	HugotModelDir string `env:"HUGOT_MODEL_DIR" default:"./models"`

	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
	OpenAIModel  string `env:"OPENAI_MODEL" default:"gpt-4o-mini"`

	ValkeyAddress     string        `env:"VALKEY_INIT_ADDRESS"`
	ValkeyPassword    string        `env:"VALKEY_PASSWORD"`
	ValkeyTLS         bool          `env:"VALKEY_TLS"`
	ScoreCacheTTL     time.Duration `env:"SCORE_CACHE_TTL" default:"24h"`
	ScoreCacheTimeout time.Duration `env:"SCORE_CACHE_TIMEOUT" default:"250ms"`
}

// Load builds a Config from the process environment. Call LoadEnv first to
// pick up an env file.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) CacheEnabled() bool {
	return c.ValkeyAddress != ""
}

func validate(cfg *Config) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", cfg.Port)
	}
	if limit, err := bytes.Parse(cfg.BodyLimit); err != nil || limit <= 0 {
		return fmt.Errorf("BODY_LIMIT %q is not a valid size", cfg.BodyLimit)
	}
	if cfg.ScorerTimeout <= 0 {
		return errors.New("SCORER_TIMEOUT must be positive")
	}
	if cfg.HealthCheckInterval <= 0 {
		return errors.New("HEALTHCHECK_INTERVAL must be positive")
	}
	if cfg.CacheEnabled() && cfg.ScoreCacheTTL < time.Second {
		return errors.New("SCORE_CACHE_TTL must be at least 1s")
	}
	if cfg.CacheEnabled() && cfg.ScoreCacheTimeout <= 0 {
		return errors.New("SCORE_CACHE_TIMEOUT must be positive")
	}

	switch cfg.ScorerEngine {
	case EngineVader:
	case EngineRemote:
		if cfg.RemoteScorerURL == "" {
			return errors.New("REMOTE_SCORER_URL is required for the remote engine")
		}
	case EngineHugot:
		if cfg.HugotModel == "" || cfg.HugotModelDir == "" {
			return errors.New("HUGOT_MODEL and HUGOT_MODEL_DIR are required for the hugot engine")
		}
	case EngineOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return errors.New("OPENAI_API_KEY is required for the openai engine")
		}
	default:
		return fmt.Errorf("unknown SCORER_ENGINE %q", cfg.ScorerEngine)
	}

	return nil
}
