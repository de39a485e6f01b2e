package oracle

import (
	"context"
	"fmt"

	"github.com/ppiankov/aksara/internal/worker"
)

// Parallel splits each batch into sub-batches scored concurrently on a
// worker pool. Results are reassembled in input order.
type Parallel struct {
	Oracle
	workers int
}

// NewParallel wraps o with the given number of workers
func NewParallel(o Oracle, workers int) *Parallel {
	return &Parallel{Oracle: o, workers: max(1, workers)}
}

type chunkResult struct {
	recs []Reconstruction
	err  error
}

func (r *chunkResult) GetError() error {
	return r.err
}

// Reconstruct scores texts in up to p.workers concurrent sub-batches
func (p *Parallel) Reconstruct(ctx context.Context, texts []string) ([]Reconstruction, error) {
	if p.workers <= 1 || len(texts) <= 1 {
		return p.Oracle.Reconstruct(ctx, texts)
	}

	size := (len(texts) + p.workers - 1) / p.workers

	var jobs []worker.Job
	for start := 0; start < len(texts); start += size {
		chunk := texts[start:min(start+size, len(texts))]
		jobs = append(jobs, worker.JobFunc(func(ctx context.Context) worker.Result {
			recs, err := p.Oracle.Reconstruct(ctx, chunk)
			return &chunkResult{recs: recs, err: err}
		}))
	}

	results := worker.Run(ctx, p.workers, jobs)

	out := make([]Reconstruction, 0, len(texts))
	for i, r := range results {
		if r == nil {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return nil, fmt.Errorf("sub-batch %d did not complete", i)
		}
		if err := r.GetError(); err != nil {
			return nil, fmt.Errorf("sub-batch %d: %w", i, err)
		}
		out = append(out, r.(*chunkResult).recs...)
	}

	if len(out) != len(texts) {
		return nil, errShortResult(len(texts), len(out))
	}
	return out, nil
}
