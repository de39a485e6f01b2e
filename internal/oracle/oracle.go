package oracle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/aksara/internal/model"
)

// MinWords is the shortest input the oracle is asked to reconstruct
const MinWords = 5

// Oracle scores how well a language model reconstructs text
type Oracle interface {
	// Name returns the provider name
	Name() string

	// ContextLimit returns the model's maximum input length in tokens
	ContextLimit() int

	// CountTokens returns the number of tokens the model's tokenizer produces for text
	CountTokens(ctx context.Context, text string) (int, error)

	// Reconstruct returns one result per text, in order
	Reconstruct(ctx context.Context, texts []string) ([]Reconstruction, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Reconstruction is the oracle's verdict on one text
type Reconstruction struct {
	Loss       float64 `json:"loss"`       // Mean cross-entropy per token; lower is more predictable
	Confidence float64 `json:"confidence"` // Mean probability of the observed tokens (0-1)
	Evaluated  bool    `json:"-"`          // False when the input was too short to send
}

// Config holds oracle provider configuration
type Config struct {
	// Provider name: "http", "openai", "static"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI-compatible endpoints
	APIKey string

	// BaseURL of the sidecar or OpenAI-compatible endpoint
	BaseURL string

	Timeout      time.Duration
	ContextLimit int

	// StaticLoss is returned for every text by the static provider
	StaticLoss float64

	// Workers is the number of parallel sub-batches (1 = sequential)
	Workers int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// ConfigFromModel converts the oracle and HTTP sections of the application config
func ConfigFromModel(oc model.OracleConfig, hc model.HTTPConfig) Config {
	return Config{
		Provider:     oc.Provider,
		Model:        oc.Model,
		APIKey:       oc.APIKey,
		BaseURL:      oc.BaseURL,
		Timeout:      oc.Timeout,
		ContextLimit: oc.ContextLimit,
		StaticLoss:   oc.StaticLoss,
		Workers:      oc.Workers,
		HTTPProxy:    hc.HTTPProxy,
		HTTPSProxy:   hc.HTTPSProxy,
		NoProxy:      hc.NoProxy,
	}
}

// Eligible reports whether text is long enough to be sent to the oracle
func Eligible(text string) bool {
	return len(strings.Fields(text)) >= MinWords
}

// Score reconstructs texts in ordered batches of batchSize. Inputs that are
// blank or shorter than MinWords get a zero result with Evaluated=false
// and are never sent. Any oracle error aborts the whole call.
func Score(ctx context.Context, o Oracle, texts []string, batchSize int) ([]Reconstruction, error) {
	if batchSize <= 0 {
		batchSize = 1
	}

	results := make([]Reconstruction, len(texts))

	var pending []int
	for i, text := range texts {
		if Eligible(text) {
			pending = append(pending, i)
		}
	}

	for start := 0; start < len(pending); start += batchSize {
		end := min(start+batchSize, len(pending))
		idx := pending[start:end]

		batch := make([]string, len(idx))
		for i, j := range idx {
			batch[i] = texts[j]
		}

		recs, err := o.Reconstruct(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", o.Name(), err)
		}
		if len(recs) != len(batch) {
			return nil, fmt.Errorf("%s: returned %d results for %d texts", o.Name(), len(recs), len(batch))
		}

		for i, j := range idx {
			results[j] = recs[i]
			results[j].Evaluated = true
		}
	}

	return results, nil
}
