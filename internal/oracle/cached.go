package oracle

import (
	"context"
	"encoding/json"
	"strconv"

	"go.uber.org/zap"

	"github.com/ppiankov/aksara/internal/cache"
)

// Cached memoizes reconstructions and token counts per text. Only the
// misses of a batch reach the wrapped oracle.
type Cached struct {
	Oracle
	cache     cache.Cache
	namespace string
	logger    *zap.Logger
}

// NewCached wraps o. namespace must change whenever the model does, so
// entries from different models never mix.
func NewCached(o Oracle, c cache.Cache, namespace string, logger *zap.Logger) *Cached {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cached{
		Oracle:    o,
		cache:     c,
		namespace: namespace,
		logger:    logger,
	}
}

// CountTokens returns the cached count or asks the wrapped oracle
func (c *Cached) CountTokens(ctx context.Context, text string) (int, error) {
	key := cache.Key("tokens", c.namespace, text)
	if data, ok := c.cache.Get(key); ok {
		if n, err := strconv.Atoi(string(data)); err == nil {
			return n, nil
		}
	}

	n, err := c.Oracle.CountTokens(ctx, text)
	if err != nil {
		return 0, err
	}

	if err := c.cache.Set(key, []byte(strconv.Itoa(n)), 0); err != nil {
		c.logger.Debug("Token count not cached", zap.Error(err))
	}
	return n, nil
}

// Reconstruct serves cached texts and forwards the rest in one call
func (c *Cached) Reconstruct(ctx context.Context, texts []string) ([]Reconstruction, error) {
	results := make([]Reconstruction, len(texts))
	keys := make([]string, len(texts))

	var missIdx []int
	var missTexts []string
	for i, text := range texts {
		keys[i] = cache.Key("loss", c.namespace, text)
		if data, ok := c.cache.Get(keys[i]); ok {
			if err := json.Unmarshal(data, &results[i]); err == nil {
				continue
			}
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, text)
	}

	c.logger.Debug("Oracle cache lookup",
		zap.Int("hits", len(texts)-len(missIdx)),
		zap.Int("misses", len(missIdx)))

	if len(missTexts) == 0 {
		return results, nil
	}

	fresh, err := c.Oracle.Reconstruct(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(fresh) != len(missTexts) {
		return nil, errShortResult(len(missTexts), len(fresh))
	}

	for i, j := range missIdx {
		results[j] = fresh[i]

		data, err := json.Marshal(fresh[i])
		if err != nil {
			continue
		}
		if err := c.cache.Set(keys[j], data, 0); err != nil {
			c.logger.Debug("Reconstruction not cached", zap.Error(err))
		}
	}

	return results, nil
}
