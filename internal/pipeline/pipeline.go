package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/aksara/internal/cache"
	"github.com/ppiankov/aksara/internal/extract"
	"github.com/ppiankov/aksara/internal/ingest"
	"github.com/ppiankov/aksara/internal/langid"
	"github.com/ppiankov/aksara/internal/model"
	"github.com/ppiankov/aksara/internal/oracle"
	"github.com/ppiankov/aksara/internal/worker"
)

// Source kinds recorded on reports
const (
	SourceText = "text"
	SourceFile = "file"
	SourceURL  = "url"
)

// ReportStore persists finished reports
type ReportStore interface {
	Save(ctx context.Context, report *model.Report, text string) error
}

// Pipeline orchestrates ingestion, analysis and persistence
type Pipeline struct {
	engine   *Engine
	fetcher  *ingest.Fetcher
	cache    cache.Cache
	store    ReportStore // nil when reports are not persisted
	renderer *Renderer
	config   *model.Config
	logger   *zap.Logger
}

// NewPipeline wires the language filter, the oracle with its cache and
// rate limiter, and the URL fetcher from configuration
func NewPipeline(cfg *model.Config, logger *zap.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	identifier, err := langid.NewWhatlangIdentifier(cfg.LangID.Candidates, cfg.LangID.MinConfidence)
	if err != nil {
		return nil, fmt.Errorf("language identifier: %w", err)
	}
	languages := langid.NewFilter(identifier, cfg.LangID.Target, cfg.LangID.Aliases, logger)

	c, err := cache.New(cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}

	limiter := worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)

	o, err := oracle.Build(oracle.ConfigFromModel(cfg.Oracle, cfg.HTTP), limiter, c, logger)
	if err != nil {
		return nil, fmt.Errorf("oracle: %w", err)
	}

	p := New(cfg, NewEngine(cfg.Engine, o, languages, logger), logger)
	p.fetcher = ingest.NewFetcher(cfg.HTTP, limiter, logger)
	p.cache = c

	return p, nil
}

// New creates a pipeline around an existing engine. URL analysis uses a
// fetcher built from cfg.HTTP without rate limiting.
func New(cfg *model.Config, engine *Engine, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		engine:   engine,
		fetcher:  ingest.NewFetcher(cfg.HTTP, nil, logger),
		renderer: NewRenderer(cfg.Output.IncludeFooter),
		config:   cfg,
		logger:   logger,
	}
}

// SetStore makes every successful analysis persist its report; nil disables it
func (p *Pipeline) SetStore(s ReportStore) {
	p.store = s
}

// SetObserver forwards to the engine
func (p *Pipeline) SetObserver(o Observer) {
	p.engine.SetObserver(o)
}

// Engine returns the scoring engine
func (p *Pipeline) Engine() *Engine {
	return p.engine
}

// Renderer returns the report renderer
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}

// Close releases the oracle cache
func (p *Pipeline) Close() error {
	if closer, ok := p.cache.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// AnalyzeText scores text and wraps the result in a report
func (p *Pipeline) AnalyzeText(ctx context.Context, subject, source, text string, forceFull bool) (*model.Report, error) {
	result, err := p.engine.Analyze(ctx, text, forceFull)
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256([]byte(text))
	report := &model.Report{
		Subject:   subject,
		Source:    source,
		Digest:    hex.EncodeToString(sum[:]),
		Words:     extract.WordCount(text),
		ScannedAt: time.Now().UTC(),
		Oracle:    p.engine.Oracle().Name(),
		Result:    result,
	}

	if p.store != nil {
		if err := p.store.Save(ctx, report, text); err != nil {
			return nil, fmt.Errorf("save report: %w", err)
		}
	}

	p.logger.Info("analysis complete",
		zap.String("subject", subject),
		zap.Float64("probability", result.Probability),
		zap.String("status", string(result.Status)),
		zap.Int("words", report.Words))

	return report, nil
}

// AnalyzeFile reads a document from disk and analyzes it
func (p *Pipeline) AnalyzeFile(ctx context.Context, path string, forceFull bool) (*model.Report, error) {
	text, err := ingest.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ingest %s: %w", path, err)
	}
	return p.AnalyzeText(ctx, filepath.Base(path), SourceFile, text, forceFull)
}

// AnalyzeDocument decodes uploaded document content and analyzes it
func (p *Pipeline) AnalyzeDocument(ctx context.Context, name string, raw []byte, forceFull bool) (*model.Report, error) {
	text, err := ingest.ParseFile(name, raw)
	if err != nil {
		return nil, fmt.Errorf("ingest %s: %w", name, err)
	}
	return p.AnalyzeText(ctx, name, SourceFile, text, forceFull)
}

// AnalyzeURL fetches a page and analyzes its visible text
func (p *Pipeline) AnalyzeURL(ctx context.Context, rawURL string, forceFull bool) (*model.Report, error) {
	fetched, err := p.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	if fetched.Truncated {
		p.logger.Warn("response truncated", zap.String("url", fetched.FinalURL))
	}

	return p.AnalyzeText(ctx, fetched.Subject, SourceURL, fetched.Text, forceFull)
}

// AnalyzeSource analyzes a URL or a file path, whichever source names
func (p *Pipeline) AnalyzeSource(ctx context.Context, source string) (*model.Report, error) {
	if IsURL(source) {
		return p.AnalyzeURL(ctx, source, false)
	}
	return p.AnalyzeFile(ctx, source, false)
}

// IsURL reports whether source is an http(s) URL
func IsURL(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// RenderReport writes the report to the requested outputs and prints a
// summary to w
func (p *Pipeline) RenderReport(w io.Writer, report *model.Report, jsonPath, mdPath string) error {
	var errs []error

	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			errs = append(errs, fmt.Errorf("render JSON: %w", err))
		} else if p.config.Output.Verbose {
			fmt.Fprintf(w, "✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			errs = append(errs, fmt.Errorf("render markdown: %w", err))
		} else if p.config.Output.Verbose {
			fmt.Fprintf(w, "✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	p.renderer.RenderSummary(w, report)

	return errors.Join(errs...)
}
