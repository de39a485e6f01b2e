package oracle

import (
	"context"
	"math"
	"strings"
	"sync/atomic"
)

// Static returns the same loss for every text. It needs no model and is
// used for dry runs and tests.
type Static struct {
	loss         float64
	contextLimit int
	calls        atomic.Int64
}

// NewStatic creates a static oracle
func NewStatic(loss float64, contextLimit int) *Static {
	if contextLimit <= 0 {
		contextLimit = 512
	}
	return &Static{loss: loss, contextLimit: contextLimit}
}

// Name returns the provider name
func (s *Static) Name() string {
	return "static"
}

// ContextLimit returns the configured context limit
func (s *Static) ContextLimit() int {
	return s.contextLimit
}

// CountTokens counts whitespace-delimited words
func (s *Static) CountTokens(_ context.Context, text string) (int, error) {
	return len(strings.Fields(text)), nil
}

// Reconstruct returns the configured loss for every text
func (s *Static) Reconstruct(_ context.Context, texts []string) ([]Reconstruction, error) {
	s.calls.Add(1)

	results := make([]Reconstruction, len(texts))
	for i := range texts {
		results[i] = Reconstruction{Loss: s.loss, Confidence: math.Exp(-s.loss)}
	}
	return results, nil
}

// IsAvailable always returns true
func (s *Static) IsAvailable(context.Context) bool {
	return true
}

// Calls returns the number of Reconstruct calls made so far
func (s *Static) Calls() int {
	return int(s.calls.Load())
}

// Func computes the loss of each text with a function. Tokens are counted
// as whitespace-delimited words.
type Func func(text string) float64

// Name returns the provider name
func (f Func) Name() string {
	return "func"
}

// ContextLimit returns 512
func (f Func) ContextLimit() int {
	return 512
}

// CountTokens counts whitespace-delimited words
func (f Func) CountTokens(_ context.Context, text string) (int, error) {
	return len(strings.Fields(text)), nil
}

// Reconstruct applies f to every text
func (f Func) Reconstruct(_ context.Context, texts []string) ([]Reconstruction, error) {
	results := make([]Reconstruction, len(texts))
	for i, text := range texts {
		loss := f(text)
		results[i] = Reconstruction{Loss: loss, Confidence: math.Exp(-loss)}
	}
	return results, nil
}

// IsAvailable always returns true
func (f Func) IsAvailable(context.Context) bool {
	return true
}
