package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/aksara/internal/util"
)

// HTTPOracle talks to a model-serving sidecar that runs the masked or
// causal language model next to aksara
type HTTPOracle struct {
	baseURL      string
	model        string
	contextLimit int
	httpClient   *http.Client
	logger       *zap.Logger
}

// Sidecar API structures
type scoreRequest struct {
	Model string   `json:"model,omitempty"`
	Texts []string `json:"texts"`
}

type scoreResponse struct {
	Model   string           `json:"model"`
	Results []Reconstruction `json:"results"`
}

type tokenizeRequest struct {
	Model string `json:"model,omitempty"`
	Text  string `json:"text"`
}

type tokenizeResponse struct {
	Count int `json:"count"`
}

type sidecarError struct {
	Error string `json:"error"`
}

// NewHTTPOracle creates a new sidecar oracle
func NewHTTPOracle(config Config, logger *zap.Logger) (*HTTPOracle, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:8088"
	}
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return nil, fmt.Errorf("invalid sidecar URL %q: scheme must be http or https", baseURL)
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second // CPU inference on long batches is slow
	}

	contextLimit := config.ContextLimit
	if contextLimit <= 0 {
		contextLimit = 512
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &HTTPOracle{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		model:        config.Model,
		contextLimit: contextLimit,
		httpClient:   util.NewHTTPClient(timeout, config.HTTPProxy, config.HTTPSProxy, config.NoProxy),
		logger:       logger,
	}, nil
}

// Name returns the provider name
func (o *HTTPOracle) Name() string {
	return "http"
}

// ContextLimit returns the model's maximum input length in tokens
func (o *HTTPOracle) ContextLimit() int {
	return o.contextLimit
}

// IsAvailable checks if the sidecar answers its health endpoint
func (o *HTTPOracle) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/health", nil)
	if err != nil {
		o.logger.Warn("Oracle availability check failed", zap.Error(err))
		return false
	}

	resp, err := o.httpClient.Do(req)
	if err != nil {
		o.logger.Warn("Oracle availability check failed", zap.String("url", o.baseURL), zap.Error(err))
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		o.logger.Warn("Oracle availability check failed", zap.String("url", o.baseURL), zap.Int("status", resp.StatusCode))
		return false
	}

	return true
}

// CountTokens asks the sidecar's tokenizer for the token count of text
func (o *HTTPOracle) CountTokens(ctx context.Context, text string) (int, error) {
	var resp tokenizeResponse
	if err := o.post(ctx, "/v1/tokenize", tokenizeRequest{Model: o.model, Text: text}, &resp); err != nil {
		return 0, fmt.Errorf("tokenize: %w", err)
	}
	return resp.Count, nil
}

// Reconstruct sends one batch to the sidecar's scoring endpoint
func (o *HTTPOracle) Reconstruct(ctx context.Context, texts []string) ([]Reconstruction, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	start := time.Now()

	var resp scoreResponse
	if err := o.post(ctx, "/v1/score", scoreRequest{Model: o.model, Texts: texts}, &resp); err != nil {
		return nil, fmt.Errorf("score: %w", err)
	}

	if len(resp.Results) != len(texts) {
		return nil, fmt.Errorf("score: expected %d results, got %d", len(texts), len(resp.Results))
	}

	o.logger.Debug("Oracle batch scored",
		zap.String("model", resp.Model),
		zap.Int("texts", len(texts)),
		zap.Duration("elapsed", time.Since(start)))

	return resp.Results, nil
}

// post makes a JSON POST request to the sidecar
func (o *HTTPOracle) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		var apiErr sidecarError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("API error (%d): %s", httpResp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("API error (%d): %s", httpResp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	return nil
}
