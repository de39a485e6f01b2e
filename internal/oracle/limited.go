package oracle

import (
	"context"
	"fmt"

	"github.com/ppiankov/aksara/internal/worker"
)

// Limited throttles calls to a remote oracle. Every CountTokens and
// Reconstruct call waits for one token of the endpoint's budget.
type Limited struct {
	Oracle
	limiter  *worker.Limiter
	endpoint string
}

// NewLimited wraps o; endpoint keys the limiter so oracles sharing a host
// share its budget
func NewLimited(o Oracle, limiter *worker.Limiter, endpoint string) *Limited {
	if endpoint == "" {
		endpoint = o.Name()
	}
	return &Limited{Oracle: o, limiter: limiter, endpoint: endpoint}
}

// CountTokens waits for rate limit clearance before counting
func (l *Limited) CountTokens(ctx context.Context, text string) (int, error) {
	if err := l.limiter.Wait(ctx, l.endpoint); err != nil {
		return 0, fmt.Errorf("rate limit: %w", err)
	}
	return l.Oracle.CountTokens(ctx, text)
}

// Reconstruct waits for rate limit clearance before scoring
func (l *Limited) Reconstruct(ctx context.Context, texts []string) ([]Reconstruction, error) {
	if err := l.limiter.Wait(ctx, l.endpoint); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}
	return l.Oracle.Reconstruct(ctx, texts)
}
