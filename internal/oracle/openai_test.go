package oracle

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
)

// echoLogprobs builds the echo response for "Saya pergi ke pasar hari ini"
// followed by one generated token
func echoLogprobs() openai.LogprobResult {
	return openai.LogprobResult{
		Tokens:        []string{"Saya", " pergi", " ke", " pasar", " hari", " ini", "."},
		TokenLogprobs: []float32{0, -1, -2, -1, -2, -1, -5},
		TextOffset:    []int{0, 4, 10, 13, 19, 24, 28},
	}
}

func newCompletionServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/completions" {
			t.Errorf("Expected path /completions, got %s", r.URL.Path)
		}

		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Decode request: %v", err)
		}
		if req["echo"] != true {
			t.Errorf("Expected echo=true, got %v", req["echo"])
		}

		var prompts []any
		switch p := req["prompt"].(type) {
		case []any:
			prompts = p
		default:
			prompts = []any{p}
		}

		resp := openai.CompletionResponse{
			Model: "davinci-002",
			Usage: &openai.Usage{PromptTokens: 6},
		}
		// Choices in reverse order to check reassembly by index
		for i := len(prompts) - 1; i >= 0; i-- {
			resp.Choices = append(resp.Choices, openai.CompletionChoice{
				Index:    i,
				LogProbs: echoLogprobs(),
			})
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestOpenAIOracle_Reconstruct(t *testing.T) {
	server := newCompletionServer(t)
	defer server.Close()

	o, err := NewOpenAIOracle(Config{APIKey: "test-key", BaseURL: server.URL}, nil)
	if err != nil {
		t.Fatalf("Failed to create oracle: %v", err)
	}

	text := "Saya pergi ke pasar hari ini"
	recs, err := o.Reconstruct(context.Background(), []string{text, text})
	if err != nil {
		t.Fatalf("Reconstruct failed: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(recs))
	}

	// Tokens 1..5 are prompt tokens: mean logprob -7/5
	if math.Abs(recs[0].Loss-1.4) > 1e-6 {
		t.Errorf("Expected loss 1.4, got %f", recs[0].Loss)
	}

	wantConf := (3*math.Exp(-1) + 2*math.Exp(-2)) / 5
	if math.Abs(recs[1].Confidence-wantConf) > 1e-6 {
		t.Errorf("Expected confidence %f, got %f", wantConf, recs[1].Confidence)
	}
}

func TestOpenAIOracle_CountTokens(t *testing.T) {
	server := newCompletionServer(t)
	defer server.Close()

	o, _ := NewOpenAIOracle(Config{APIKey: "test-key", BaseURL: server.URL}, nil)

	n, err := o.CountTokens(context.Background(), "Saya pergi ke pasar hari ini")
	if err != nil {
		t.Fatalf("CountTokens failed: %v", err)
	}
	if n != 6 {
		t.Errorf("Expected 6 tokens, got %d", n)
	}
}

func TestOpenAIOracle_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "Invalid API key", "type": "invalid_request_error"}}`))
	}))
	defer server.Close()

	o, _ := NewOpenAIOracle(Config{APIKey: "bad-key", BaseURL: server.URL}, nil)

	if _, err := o.Reconstruct(context.Background(), []string{"satu dua tiga empat lima"}); err == nil {
		t.Error("Expected error, got nil")
	}
}

func TestNewOpenAIOracle_Validation(t *testing.T) {
	if _, err := NewOpenAIOracle(Config{}, nil); err == nil {
		t.Error("Expected error without key or endpoint")
	}

	o, err := NewOpenAIOracle(Config{BaseURL: "http://localhost:8000/v1"}, nil)
	if err != nil {
		t.Fatalf("Expected keyless custom endpoint to be accepted: %v", err)
	}
	if o.model != defaultCompletionModel {
		t.Errorf("Expected default model %s, got %s", defaultCompletionModel, o.model)
	}
}

func TestFromLogprobs_Empty(t *testing.T) {
	r := fromLogprobs(openai.LogprobResult{TokenLogprobs: []float32{0}, TextOffset: []int{0}}, 4)
	if r.Loss != 0 || r.Confidence != 0 {
		t.Errorf("Expected zero result for a single token, got %+v", r)
	}
}
