package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ppiankov/aksara/internal/langid"
	"github.com/ppiankov/aksara/internal/model"
	"github.com/ppiankov/aksara/internal/oracle"
)

// indonesian identifies everything as the target language except text
// containing an English article
var indonesian = langid.IdentifierFunc(func(text string) (string, error) {
	if strings.Contains(strings.ToLower(text), "the ") {
		return "en", nil
	}
	return "id", nil
})

func newTestEngine(cfg model.EngineConfig, o oracle.Oracle) *Engine {
	return NewEngine(cfg, o, langid.NewFilter(indonesian, "id", []string{"ms"}, nil), nil)
}

// uniformText returns n sentences of eight words each
func uniformText(n int) string {
	sentences := make([]string, n)
	for i := range sentences {
		sentences[i] = fmt.Sprintf("Kalimat nomor %d ini menjelaskan proses kerja sistem.", i+1)
	}
	return strings.Join(sentences, " ")
}

type recordingOracle struct {
	oracle.Func
	mu    sync.Mutex
	texts []string
}

func (r *recordingOracle) Reconstruct(ctx context.Context, texts []string) ([]oracle.Reconstruction, error) {
	r.mu.Lock()
	r.texts = append(r.texts, texts...)
	r.mu.Unlock()
	return r.Func.Reconstruct(ctx, texts)
}

type failingOracle struct {
	oracle.Func
	tokenErr bool
}

func (f failingOracle) CountTokens(ctx context.Context, text string) (int, error) {
	if f.tokenErr {
		return 0, errors.New("tokenizer offline")
	}
	return f.Func.CountTokens(ctx, text)
}

func (f failingOracle) Reconstruct(context.Context, []string) ([]oracle.Reconstruction, error) {
	return nil, errors.New("model offline")
}

type recordingObserver struct {
	mu        sync.Mutex
	completed []*model.ScanResult
	failed    []error
}

func (o *recordingObserver) ScanCompleted(result *model.ScanResult, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.completed = append(o.completed, result)
}

func (o *recordingObserver) ScanFailed(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failed = append(o.failed, err)
}

func TestEngine_EmptyText(t *testing.T) {
	o := oracle.NewStatic(0.5, 512)
	e := newTestEngine(model.DefaultConfig().Engine, o)

	for _, text := range []string{"", "   ", "\n\n\t\n\n"} {
		result, err := e.Analyze(context.Background(), text, false)
		if err != nil {
			t.Fatalf("Analyze(%q) failed: %v", text, err)
		}
		if result.Probability != 0 {
			t.Errorf("Expected probability 0 for %q, got %v", text, result.Probability)
		}
		if result.Status != model.StatusHumanWritten {
			t.Errorf("Expected %s for %q, got %s", model.StatusHumanWritten, text, result.Status)
		}
		if len(result.Segments) != 0 {
			t.Errorf("Expected no segments, got %d", len(result.Segments))
		}
	}

	if o.Calls() != 0 {
		t.Errorf("Expected no oracle calls for empty input, got %d", o.Calls())
	}
}

func TestEngine_LowLossIsAI(t *testing.T) {
	e := newTestEngine(model.DefaultConfig().Engine, oracle.NewStatic(0.5, 512))

	result, err := e.Analyze(context.Background(), uniformText(6), false)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if result.Status != model.StatusAIGenerated {
		t.Errorf("Expected %s, got %s (%.2f)", model.StatusAIGenerated, result.Status, result.Probability)
	}
	if result.Probability < 90 {
		t.Errorf("Expected probability >= 90, got %v", result.Probability)
	}
	if result.Counts.AI != 6 {
		t.Errorf("Expected 6 AI segments, got %d", result.Counts.AI)
	}
	if result.PartiallyAnalyzed {
		t.Error("Expected full analysis for a short document")
	}
	if result.TokenCount != 48 {
		t.Errorf("Expected 48 tokens, got %d", result.TokenCount)
	}
	for _, seg := range result.Segments {
		if !seg.Scored() {
			t.Errorf("Expected segment %d to be scored", seg.Index)
		}
	}
}

func TestEngine_HighLossIsHuman(t *testing.T) {
	e := newTestEngine(model.DefaultConfig().Engine, oracle.NewStatic(4.0, 512))

	result, err := e.Analyze(context.Background(), uniformText(6), false)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if result.Status != model.StatusHumanWritten {
		t.Errorf("Expected %s, got %s (%.2f)", model.StatusHumanWritten, result.Status, result.Probability)
	}
	if result.Opinions.Semantic != 0 || result.Opinions.Perplexity != 0 {
		t.Errorf("Expected zero semantic and perplexity opinions, got %+v", result.Opinions)
	}
	if result.Counts.Human != 6 {
		t.Errorf("Expected 6 human segments, got %d", result.Counts.Human)
	}
}

func TestEngine_ForeignSegmentsExcluded(t *testing.T) {
	o := &recordingOracle{Func: func(string) float64 { return 0.5 }}
	e := newTestEngine(model.DefaultConfig().Engine, o)

	text := uniformText(3) + " The system processes every request in strict order. " + uniformText(2)

	result, err := e.Analyze(context.Background(), text, false)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if result.Counts.Foreign != 1 {
		t.Fatalf("Expected 1 foreign segment, got %d", result.Counts.Foreign)
	}

	var foreign *model.Segment
	for i := range result.Segments {
		if result.Segments[i].Excluded() {
			foreign = &result.Segments[i]
		}
	}
	if foreign == nil {
		t.Fatal("Expected an excluded segment")
	}
	if foreign.Score != model.ExcludedScore {
		t.Errorf("Expected score %v, got %v", model.ExcludedScore, foreign.Score)
	}
	if foreign.Scored() {
		t.Error("Expected foreign segment to have no loss")
	}
	for _, sent := range o.texts {
		if sent == foreign.Text {
			t.Error("Expected foreign segment not to be sent to the oracle")
		}
	}
}

func TestEngine_HybridSampling(t *testing.T) {
	cfg := model.DefaultConfig().Engine
	cfg.HeadSegments = 2
	cfg.MiddleSegments = 2
	cfg.TailSegments = 2

	// Context limit 2 with factor 4: anything above 8 tokens is sampled
	o := oracle.NewStatic(0.5, 2)
	e := newTestEngine(cfg, o)
	text := uniformText(20)

	result, err := e.Analyze(context.Background(), text, false)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if !result.PartiallyAnalyzed {
		t.Error("Expected hybrid sampling")
	}
	if result.Counts.Skipped != 14 {
		t.Errorf("Expected 14 skipped segments, got %d", result.Counts.Skipped)
	}
	if len(result.Segments) != 20 {
		t.Errorf("Expected 20 annotated segments, got %d", len(result.Segments))
	}

	scored := map[int]bool{}
	for _, seg := range result.Segments {
		if seg.Scored() {
			scored[seg.Index] = true
		}
	}
	for _, i := range []int{0, 1, 9, 10, 18, 19} {
		if !scored[i] {
			t.Errorf("Expected segment %d to be scored", i)
		}
	}

	full, err := e.Analyze(context.Background(), text, true)
	if err != nil {
		t.Fatalf("Analyze(forceFull) failed: %v", err)
	}
	if full.PartiallyAnalyzed {
		t.Error("Expected forceFull to disable hybrid sampling")
	}
	if full.Counts.Skipped != 0 {
		t.Errorf("Expected no skipped segments with forceFull, got %d", full.Counts.Skipped)
	}
}

func TestEngine_AnnotateLimit(t *testing.T) {
	cfg := model.DefaultConfig().Engine
	cfg.AnnotateLimit = 10
	cfg.FullScanLimit = 5

	e := newTestEngine(cfg, oracle.NewStatic(0.5, 4096))

	result, err := e.Analyze(context.Background(), uniformText(30), false)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if len(result.Segments) != 10 {
		t.Errorf("Expected 10 annotated segments, got %d", len(result.Segments))
	}
	if result.Counts.Skipped != 5 {
		t.Errorf("Expected 5 skipped segments, got %d", result.Counts.Skipped)
	}
}

func TestEngine_OracleFailure(t *testing.T) {
	tests := []struct {
		name   string
		oracle oracle.Oracle
	}{
		{"reconstruct", failingOracle{Func: func(string) float64 { return 1 }}},
		{"count tokens", failingOracle{Func: func(string) float64 { return 1 }, tokenErr: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := &recordingObserver{}
			e := newTestEngine(model.DefaultConfig().Engine, tt.oracle)
			e.SetObserver(obs)

			result, err := e.Analyze(context.Background(), uniformText(4), false)
			if !errors.Is(err, ErrScoringUnavailable) {
				t.Fatalf("Expected ErrScoringUnavailable, got %v", err)
			}
			if result != nil {
				t.Error("Expected no partial result")
			}
			if len(obs.failed) != 1 || len(obs.completed) != 0 {
				t.Errorf("Expected 1 failure and no completion, got %d/%d", len(obs.failed), len(obs.completed))
			}
		})
	}
}

func TestEngine_ObserverCompleted(t *testing.T) {
	obs := &recordingObserver{}
	e := newTestEngine(model.DefaultConfig().Engine, oracle.NewStatic(2.0, 512))
	e.SetObserver(obs)

	if _, err := e.Analyze(context.Background(), uniformText(3), false); err != nil {
		t.Fatal(err)
	}

	if len(obs.completed) != 1 {
		t.Errorf("Expected 1 completion, got %d", len(obs.completed))
	}
}

func TestEngine_Fingerprint(t *testing.T) {
	text := uniformText(4) + " Kita akan delve lebih dalam ke proses kerja sistem."

	cfg := model.DefaultConfig().Engine
	e := newTestEngine(cfg, oracle.NewStatic(0.5, 512))

	result, err := e.Analyze(context.Background(), text, false)
	if err != nil {
		t.Fatal(err)
	}
	if result.AISource != "GPT-4 / GPT-4o" {
		t.Errorf("Expected GPT-4 / GPT-4o attribution, got %q", result.AISource)
	}

	cfg.Fingerprint = false
	e = newTestEngine(cfg, oracle.NewStatic(0.5, 512))
	result, err = e.Analyze(context.Background(), text, false)
	if err != nil {
		t.Fatal(err)
	}
	if result.AISource != "" {
		t.Errorf("Expected no attribution when disabled, got %q", result.AISource)
	}
}

func TestEngine_ConcurrentAnalyze(t *testing.T) {
	e := newTestEngine(model.DefaultConfig().Engine, oracle.NewStatic(1.0, 512))

	var wg sync.WaitGroup
	probabilities := make([]float64, 8)
	for i := range probabilities {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := e.Analyze(context.Background(), uniformText(5), false)
			if err != nil {
				t.Errorf("Analyze failed: %v", err)
				return
			}
			probabilities[i] = result.Probability
		}(i)
	}
	wg.Wait()

	for i, p := range probabilities {
		if p != probabilities[0] {
			t.Errorf("Expected identical results, run %d got %v vs %v", i, p, probabilities[0])
		}
	}
}

func TestGlobalSample(t *testing.T) {
	tests := []struct {
		text string
		n    int
		want string
	}{
		{"abcdef", 3, "abc"},
		{"abc", 10, "abc"},
		{"ééé", 2, "éé"},
		{"abc", 0, "abc"},
	}

	for _, tt := range tests {
		if got := globalSample(tt.text, tt.n); got != tt.want {
			t.Errorf("globalSample(%q, %d): expected %q, got %q", tt.text, tt.n, tt.want, got)
		}
	}
}
