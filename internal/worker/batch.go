package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/aksara/internal/model"
)

// Analyzer analyzes one source (a file path or URL) into a report
type Analyzer interface {
	AnalyzeSource(ctx context.Context, source string) (*model.Report, error)
}

// AnalyzeJob analyzes a single source
type AnalyzeJob struct {
	Source   string
	Analyzer Analyzer
}

// Execute executes the analyze job
func (j *AnalyzeJob) Execute(ctx context.Context) Result {
	report, err := j.Analyzer.AnalyzeSource(ctx, j.Source)
	return &BatchResult{
		Source: j.Source,
		Report: report,
		Error:  err,
	}
}

// BatchResult is the outcome for one source of a batch
type BatchResult struct {
	Source string
	Report *model.Report
	Error  error
}

// GetError returns the error from the batch result
func (r *BatchResult) GetError() error {
	return r.Error
}

// BatchProcessor analyzes multiple sources concurrently
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(analyzer Analyzer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
	}
}

// ProcessSources analyzes sources concurrently. Results are in input order;
// sources never reached because ctx was cancelled carry ctx.Err().
func (b *BatchProcessor) ProcessSources(ctx context.Context, sources []string) []*BatchResult {
	if len(sources) == 0 {
		return []*BatchResult{}
	}

	jobs := make([]Job, len(sources))
	for i, source := range sources {
		jobs[i] = &AnalyzeJob{
			Source:   source,
			Analyzer: b.analyzer,
		}
	}

	results := Run(ctx, b.concurrency, jobs)

	batch := make([]*BatchResult, len(sources))
	for i, source := range sources {
		if r, ok := results[i].(*BatchResult); ok {
			batch[i] = r
			continue
		}
		batch[i] = &BatchResult{Source: source, Error: ctx.Err()}
	}

	return batch
}

// ProcessFile reads sources from a file and analyzes them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*BatchResult, error) {
	sources, err := ReadSourcesFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read sources: %w", err)
	}

	return b.ProcessSources(ctx, sources), nil
}

// ReadSourcesFromFile reads file paths or URLs from a file (one per line).
// Blank lines and lines starting with # are ignored; duplicates are dropped.
func ReadSourcesFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var sources []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			sources = append(sources, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return sources, nil
}
