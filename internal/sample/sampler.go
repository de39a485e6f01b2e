package sample

import "github.com/ppiankov/aksara/internal/model"

// Sampler chooses which segments receive oracle scoring
type Sampler struct {
	contextLimit  int
	hybridFactor  int
	head          int
	middle        int
	tail          int
	fullScanLimit int
	annotateLimit int
}

// NewSampler creates a sampler for an oracle with the given context limit
func NewSampler(cfg model.EngineConfig, contextLimit int) *Sampler {
	return &Sampler{
		contextLimit:  contextLimit,
		hybridFactor:  cfg.HybridFactor,
		head:          cfg.HeadSegments,
		middle:        cfg.MiddleSegments,
		tail:          cfg.TailSegments,
		fullScanLimit: cfg.FullScanLimit,
		annotateLimit: cfg.AnnotateLimit,
	}
}

// Plan is the outcome of sampling one document
type Plan struct {
	Annotated int          // Segments reported in the output (a prefix of the document)
	Selected  map[int]bool // Indexes chosen for scoring, all below Annotated
	Partial   bool         // Hybrid head/middle/tail sampling was used
}

// IsSelected reports whether segment i is scored
func (p Plan) IsSelected(i int) bool {
	return p.Selected[i]
}

// Hybrid reports whether a document of the given token count needs sampling
func (s *Sampler) Hybrid(tokens int, forceFull bool) bool {
	return !forceFull && tokens > s.hybridFactor*s.contextLimit
}

// Plan selects segments to score from a document of n segments.
//
// Long documents get head, middle and tail windows. Otherwise the first
// fullScanLimit segments are scored, or every annotated one when forceFull
// is set. Only the first annotateLimit segments are ever considered.
func (s *Sampler) Plan(n, tokens int, forceFull bool) Plan {
	plan := Plan{
		Annotated: min(n, s.annotateLimit),
		Selected:  make(map[int]bool),
	}

	if s.Hybrid(tokens, forceFull) {
		plan.Partial = true

		// Head
		plan.selectRange(0, s.head)

		// Middle window centered on the midpoint
		mid := n / 2
		plan.selectRange(mid-s.middle/2, mid+s.middle-s.middle/2)

		// Tail
		plan.selectRange(n-s.tail, n)

		return plan
	}

	limit := s.fullScanLimit
	if forceFull {
		limit = plan.Annotated
	}
	plan.selectRange(0, limit)

	return plan
}

// selectRange marks [from, to) clamped to the annotated prefix
func (p *Plan) selectRange(from, to int) {
	from = max(from, 0)
	to = min(to, p.Annotated)
	for i := from; i < to; i++ {
		p.Selected[i] = true
	}
}
