package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/aksara/internal/citation"
	"github.com/ppiankov/aksara/internal/extract"
	"github.com/ppiankov/aksara/internal/features"
	"github.com/ppiankov/aksara/internal/fingerprint"
	"github.com/ppiankov/aksara/internal/langid"
	"github.com/ppiankov/aksara/internal/model"
	"github.com/ppiankov/aksara/internal/oracle"
	"github.com/ppiankov/aksara/internal/sample"
	"github.com/ppiankov/aksara/internal/score"
)

// ErrScoringUnavailable is returned when the oracle fails. No partial
// result is produced.
var ErrScoringUnavailable = errors.New("scoring unavailable")

// Observer receives the outcome of every analysis
type Observer interface {
	ScanCompleted(result *model.ScanResult, elapsed time.Duration)
	ScanFailed(err error)
}

// Engine turns raw text into a scan result. It holds no per-call state and
// is safe for concurrent use.
type Engine struct {
	cfg         model.EngineConfig
	oracle      oracle.Oracle
	sampler     *sample.Sampler
	languages   *langid.Filter
	citations   *citation.Detector
	naturalness *features.Naturalness
	scorer      *score.Scorer
	fingerprint *fingerprint.Analyzer // nil when attribution is disabled
	observer    Observer
	logger      *zap.Logger
}

// NewEngine creates an engine around an oracle and a language filter
func NewEngine(cfg model.EngineConfig, o oracle.Oracle, languages *langid.Filter, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	e := &Engine{
		cfg:         cfg,
		oracle:      o,
		sampler:     sample.NewSampler(cfg, o.ContextLimit()),
		languages:   languages,
		citations:   citation.NewDetector(),
		naturalness: features.NewNaturalness(features.DefaultLexicon()),
		scorer:      score.NewScorer(cfg),
		logger:      logger,
	}

	if cfg.Fingerprint {
		e.fingerprint = fingerprint.NewAnalyzer()
	}

	return e
}

// SetObserver installs an observer; nil removes it
func (e *Engine) SetObserver(o Observer) {
	e.observer = o
}

// Citations exposes the detector so callers can register extra categories
// before the engine is shared
func (e *Engine) Citations() *citation.Detector {
	return e.citations
}

// Oracle returns the engine's oracle
func (e *Engine) Oracle() oracle.Oracle {
	return e.oracle
}

// Analyze scores text. forceFull disables hybrid sampling and scores every
// annotated segment.
func (e *Engine) Analyze(ctx context.Context, text string, forceFull bool) (*model.ScanResult, error) {
	start := time.Now()

	result, err := e.analyze(ctx, text, forceFull)
	if err != nil {
		if e.observer != nil {
			e.observer.ScanFailed(err)
		}
		return nil, err
	}

	if e.observer != nil {
		e.observer.ScanCompleted(result, time.Since(start))
	}
	return result, nil
}

func (e *Engine) analyze(ctx context.Context, text string, forceFull bool) (*model.ScanResult, error) {
	normalized := extract.Normalize(text)
	if normalized == "" {
		return e.scorer.Calculate(score.Input{Burstiness: features.Burstiness("")}), nil
	}

	// 1. Token count decides between full and hybrid scanning
	tokens, err := e.oracle.CountTokens(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("%w: count tokens: %w", ErrScoringUnavailable, err)
	}

	// 2. Segment and sample
	pieces := extract.Segment(normalized)
	plan := e.sampler.Plan(len(pieces), tokens, forceFull)

	segments := make([]model.Segment, plan.Annotated)
	for i := range segments {
		segments[i] = model.Segment{
			Text:    pieces[i],
			Index:   i,
			Words:   extract.WordCount(pieces[i]),
			Skipped: !plan.IsSelected(i),
		}
	}

	// 3. Language filter, then citations on what remains
	e.languages.Apply(segments)
	for i := range segments {
		if segments[i].Excluded() {
			continue
		}
		if category, ok := e.citations.Match(segments[i].Text); ok {
			segments[i].IsCitation = true
			segments[i].Category = category
		}
	}

	// 4. Oracle scoring of the selected target-language segments
	if err := e.scoreSegments(ctx, segments); err != nil {
		return nil, err
	}

	global, err := oracle.Score(ctx, e.oracle, []string{globalSample(normalized, e.cfg.GlobalSampleChars)}, 1)
	if err != nil {
		return nil, fmt.Errorf("%w: global sample: %w", ErrScoringUnavailable, err)
	}

	// 5. Features and fusion
	result := e.scorer.Calculate(score.Input{
		Segments:        segments,
		GlobalLoss:      global[0].Loss,
		GlobalEvaluated: global[0].Evaluated,
		Burstiness:      features.Burstiness(normalized),
		Naturalness:     e.naturalness.Bonus(normalized),
	})
	result.TokenCount = tokens
	result.PartiallyAnalyzed = plan.Partial

	if e.fingerprint != nil {
		result.AISource = e.fingerprint.Identify(normalized, result.Probability)
	}

	e.logger.Debug("ensemble debate",
		zap.Float64("semantic", result.Opinions.Semantic),
		zap.Float64("perplexity", result.Opinions.Perplexity),
		zap.Float64("burstiness", result.Opinions.Burstiness),
		zap.Float64("humanity_bonus", result.HumanityBonus),
		zap.Float64("probability", result.Probability),
		zap.String("status", string(result.Status)),
		zap.Int("segments", len(segments)),
		zap.Int("tokens", tokens),
		zap.Bool("partial", plan.Partial))

	return result, nil
}

// scoreSegments sends selected, non-foreign segments to the oracle and
// records the losses it evaluated
func (e *Engine) scoreSegments(ctx context.Context, segments []model.Segment) error {
	var idx []int
	var texts []string
	for i, seg := range segments {
		if seg.Skipped || seg.Excluded() {
			continue
		}
		idx = append(idx, i)
		texts = append(texts, seg.Text)
	}

	if len(texts) == 0 {
		return nil
	}

	recs, err := oracle.Score(ctx, e.oracle, texts, e.cfg.BatchSize)
	if err != nil {
		return fmt.Errorf("%w: segments: %w", ErrScoringUnavailable, err)
	}

	for i, j := range idx {
		if !recs[i].Evaluated {
			continue
		}
		loss := recs[i].Loss
		segments[j].Loss = &loss
	}

	return nil
}

// globalSample returns the first n runes of text
func globalSample(text string, n int) string {
	if n <= 0 {
		return text
	}

	count := 0
	for i := range text {
		if count == n {
			return text[:i]
		}
		count++
	}
	return text
}
