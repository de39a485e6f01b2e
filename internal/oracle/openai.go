package oracle

import (
	"context"
	"errors"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/ppiankov/aksara/internal/util"
)

const defaultCompletionModel = "davinci-002"

// OpenAIOracle scores text through an OpenAI-compatible completions
// endpoint by echoing the prompt with per-token log probabilities
type OpenAIOracle struct {
	client       *openai.Client
	model        string
	contextLimit int
	logger       *zap.Logger
}

// NewOpenAIOracle creates a new OpenAI-compatible oracle. A key is required
// unless a custom endpoint (vLLM, llama.cpp server) is configured.
func NewOpenAIOracle(config Config, logger *zap.Logger) (*OpenAIOracle, error) {
	if config.APIKey == "" && config.BaseURL == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	clientConfig.HTTPClient = util.NewHTTPClient(config.Timeout, config.HTTPProxy, config.HTTPSProxy, config.NoProxy)

	model := config.Model
	if model == "" {
		model = defaultCompletionModel
	}

	contextLimit := config.ContextLimit
	if contextLimit <= 0 {
		contextLimit = 512
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &OpenAIOracle{
		client:       openai.NewClientWithConfig(clientConfig),
		model:        model,
		contextLimit: contextLimit,
		logger:       logger,
	}, nil
}

// Name returns the provider name
func (o *OpenAIOracle) Name() string {
	return "openai"
}

// ContextLimit returns the model's maximum input length in tokens
func (o *OpenAIOracle) ContextLimit() int {
	return o.contextLimit
}

// IsAvailable checks if the endpoint accepts the credentials
func (o *OpenAIOracle) IsAvailable(ctx context.Context) bool {
	if _, err := o.client.ListModels(ctx); err != nil {
		o.logger.Warn("OpenAI API check failed", zap.Error(err))
		return false
	}
	return true
}

// CountTokens reads the prompt token count from the usage block
func (o *OpenAIOracle) CountTokens(ctx context.Context, text string) (int, error) {
	resp, err := o.client.CreateCompletion(ctx, openai.CompletionRequest{
		Model:     o.model,
		Prompt:    text,
		MaxTokens: 1,
		Echo:      true,
	})
	if err != nil {
		return 0, fmt.Errorf("OpenAI API error: %w", err)
	}
	return resp.Usage.PromptTokens, nil
}

// Reconstruct scores all texts in one completion request
func (o *OpenAIOracle) Reconstruct(ctx context.Context, texts []string) ([]Reconstruction, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := o.client.CreateCompletion(ctx, openai.CompletionRequest{
		Model:       o.model,
		Prompt:      texts,
		MaxTokens:   1,
		Echo:        true,
		LogProbs:    1,
		Temperature: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) != len(texts) {
		return nil, fmt.Errorf("expected %d choices, got %d", len(texts), len(resp.Choices))
	}

	results := make([]Reconstruction, len(texts))
	seen := make([]bool, len(texts))
	for _, choice := range resp.Choices {
		if choice.Index < 0 || choice.Index >= len(texts) || seen[choice.Index] {
			return nil, fmt.Errorf("unexpected choice index %d", choice.Index)
		}
		seen[choice.Index] = true
		results[choice.Index] = fromLogprobs(choice.LogProbs, utf8.RuneCountInString(texts[choice.Index]))
	}

	return results, nil
}

// fromLogprobs averages the log probabilities of the echoed prompt tokens.
// Offsets are in characters.
// The first token has no context and the generated token lies past the
// prompt; both are left out.
func fromLogprobs(lp openai.LogprobResult, promptLen int) Reconstruction {
	var sumLogprob, sumProb float64
	var n int

	for i, logprob := range lp.TokenLogprobs {
		if i == 0 {
			continue
		}
		if i < len(lp.TextOffset) && lp.TextOffset[i] >= promptLen {
			break
		}
		sumLogprob += float64(logprob)
		sumProb += math.Exp(float64(logprob))
		n++
	}

	if n == 0 {
		return Reconstruction{}
	}

	return Reconstruction{
		Loss:       -sumLogprob / float64(n),
		Confidence: sumProb / float64(n),
	}
}
