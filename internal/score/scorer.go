package score

import (
	"math"
	"unicode"

	"github.com/ppiankov/aksara/internal/model"
)

// Ensemble weights
const (
	SemanticWeight   = 0.55
	PerplexityWeight = 0.35
	BurstinessWeight = 0.10
)

const (
	humanityMultiplier = 1.1
	strongSignal       = 80.0 // Above this the humanity bonus is capped
	strongSignalBonus  = 20.0
	perplexityScale    = 75.0
	burstinessPivot    = 0.75
	burstinessScale    = 110.0
	lengthWeightWords  = 15.0
	minWeighedWords    = 5
	maxSymbolRatio     = 0.4
)

// Scorer fuses segment losses and document features into a probability
type Scorer struct {
	baseline float64
	ai       float64
	para     float64
	mixed    float64
}

// NewScorer creates a scorer from the engine configuration
func NewScorer(cfg model.EngineConfig) *Scorer {
	return &Scorer{
		baseline: cfg.TargetBaseline,
		ai:       cfg.AIThreshold,
		para:     cfg.ParaThreshold,
		mixed:    cfg.MixedThreshold,
	}
}

// Input is everything the scorer needs from one analysis
type Input struct {
	Segments        []model.Segment // Annotated segments; scores are written in place
	GlobalLoss      float64
	GlobalEvaluated bool // The document sample was long enough for the oracle
	Burstiness      float64
	Naturalness     float64
}

// Calculate scores every annotated segment and fuses the three opinions.
// The returned result shares in.Segments.
func (s *Scorer) Calculate(in Input) *model.ScanResult {
	result := &model.ScanResult{
		Burstiness: in.Burstiness,
		GlobalLoss: in.GlobalLoss,
		Segments:   in.Segments,
	}

	// 1. Semantic opinion
	result.Opinions.Semantic = s.semantic(in.Segments, &result.Counts)
	result.CitationPercentage = citationPercentage(in.Segments, result.Counts.Citation)

	// 2. Perplexity opinion
	if in.GlobalEvaluated {
		result.Opinions.Perplexity = clamp((s.baseline - in.GlobalLoss) * perplexityScale)
	}

	// 3. Burstiness opinion
	result.Opinions.Burstiness = clamp((burstinessPivot - in.Burstiness) * burstinessScale)

	ensemble := SemanticWeight*result.Opinions.Semantic +
		PerplexityWeight*result.Opinions.Perplexity +
		BurstinessWeight*result.Opinions.Burstiness

	// A strong AI signal cannot be fully offset by surface cues
	bonus := in.Naturalness * humanityMultiplier
	if ensemble > strongSignal {
		bonus = math.Min(bonus, strongSignalBonus)
	}

	result.HumanityBonus = round2(bonus)
	result.Probability = round2(clamp(ensemble - bonus))
	result.Status = Classify(result.Probability)

	return result
}

// semantic writes segment scores, fills counts and returns the weighted mean
func (s *Scorer) semantic(segments []model.Segment, counts *model.Counts) float64 {
	var weighted, total float64

	for i := range segments {
		seg := &segments[i]

		if seg.Excluded() {
			seg.Score = model.ExcludedScore
			counts.Foreign++
			continue
		}

		if seg.IsCitation {
			counts.Citation++
		}

		if seg.Skipped {
			seg.Score = 0
			counts.Skipped++
			continue
		}

		seg.Noise = seg.Words < minWeighedWords || SymbolRatio(seg.Text) > maxSymbolRatio

		var score, weight float64
		if seg.Scored() {
			score, weight = s.SegmentScore(*seg.Loss)
		}
		seg.Score = round2(score)

		switch {
		case seg.IsCitation:
			continue
		case seg.Noise || !seg.Scored():
			counts.Noise++
			continue
		}

		lengthWeight := float64(seg.Words) / lengthWeightWords
		weighted += score * weight * lengthWeight
		total += weight * lengthWeight

		s.bucket(score, counts)
	}

	if total <= 0 {
		return 0
	}
	return clamp(weighted / total)
}

// SegmentScore maps a segment loss to a score and a confidence weight
func (s *Scorer) SegmentScore(loss float64) (float64, float64) {
	diff := s.baseline - loss
	switch {
	case diff > 0.6:
		return clamp(diff * 140), 1.5
	case diff > 0.3:
		return clamp(diff * 105), 1.2
	default:
		return clamp(diff * 72), 0.4
	}
}

// bucket counts a weighed segment by its score
func (s *Scorer) bucket(score float64, counts *model.Counts) {
	switch {
	case score > s.ai:
		counts.AI++
	case score > s.para:
		counts.Paraphrase++
	case score > s.mixed:
		counts.Mixed++
	default:
		counts.Human++
	}
}

// Classify maps a final probability to its status
func Classify(probability float64) model.Status {
	switch {
	case probability < 20:
		return model.StatusHumanWritten
	case probability < 50:
		return model.StatusLikelyHuman
	case probability < 75:
		return model.StatusLikelyAI
	default:
		return model.StatusAIGenerated
	}
}

// SymbolRatio returns the share of non-space runes that are neither letters
// nor digits
func SymbolRatio(text string) float64 {
	var symbols, total int
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			symbols++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(symbols) / float64(total)
}

// citationPercentage is the share of target-language annotated segments
// flagged as citations
func citationPercentage(segments []model.Segment, citations int) float64 {
	eligible := 0
	for _, seg := range segments {
		if !seg.Excluded() {
			eligible++
		}
	}
	if eligible == 0 {
		return 0
	}
	return round2(float64(citations) / float64(eligible) * 100)
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
