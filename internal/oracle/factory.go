package oracle

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/aksara/internal/cache"
	"github.com/ppiankov/aksara/internal/worker"
)

func errShortResult(want, got int) error {
	return fmt.Errorf("expected %d results, got %d", want, got)
}

// NewOracle creates a new oracle based on configuration
func NewOracle(config Config, logger *zap.Logger) (Oracle, error) {
	provider := strings.ToLower(config.Provider)

	switch provider {
	case "http", "sidecar":
		return NewHTTPOracle(config, logger)

	case "openai":
		return NewOpenAIOracle(config, logger)

	case "static":
		return NewStatic(config.StaticLoss, config.ContextLimit), nil

	case "":
		return nil, fmt.Errorf("oracle provider is required (supported: http, openai, static)")

	default:
		return nil, fmt.Errorf("unknown oracle provider: %s (supported: http, openai, static)", config.Provider)
	}
}

// Build creates the configured oracle and layers the optional decorators
// over it: rate limiting per call, parallel sub-batches, then caching so
// cache hits cost neither a token nor a worker. limiter and c may be nil.
func Build(config Config, limiter *worker.Limiter, c cache.Cache, logger *zap.Logger) (Oracle, error) {
	o, err := NewOracle(config, logger)
	if err != nil {
		return nil, err
	}

	remote := o.Name() != "static"

	if limiter != nil && remote {
		o = NewLimited(o, limiter, config.BaseURL)
	}

	if config.Workers > 1 {
		o = NewParallel(o, config.Workers)
	}

	if c != nil && remote {
		o = NewCached(o, c, Namespace(config), logger)
	}

	return o, nil
}

// Namespace identifies the provider, endpoint and model whose results a
// cache entry holds
func Namespace(config Config) string {
	return strings.ToLower(config.Provider) + "|" + config.BaseURL + "|" + config.Model
}
