package model

// Language tags a segment relative to the configured target language
type Language string

const (
	LanguageTarget  Language = "target"  // Identified as the target language
	LanguageOther   Language = "other"   // Identified as another language, excluded from scoring
	LanguageUnknown Language = "unknown" // Too short to identify, treated as target
)

// ExcludedScore marks a segment that was not scored because it is not in the target language
const ExcludedScore = -1.0

// Segment is a sentence-like unit of a document
type Segment struct {
	Text       string   `json:"text"`
	Index      int      `json:"index"`              // Ordinal position in the document (0-based)
	Words      int      `json:"words"`              // Whitespace-delimited word count
	Language   Language `json:"language"`           // target, other or unknown
	IsCitation bool     `json:"is_citation"`        // Quotation, reference or metadata
	Loss       *float64 `json:"loss,omitempty"`     // Oracle reconstruction loss, if scored
	Score      float64  `json:"score"`              // 0-100, or ExcludedScore
	Skipped    bool     `json:"skipped,omitempty"`  // Not selected by the sampler
	Noise      bool     `json:"noise,omitempty"`    // Too short or symbol-heavy to weigh
	Category   string   `json:"category,omitempty"` // Citation category that matched (trace only)
}

// Excluded reports whether the segment was dropped by the language filter
func (s Segment) Excluded() bool {
	return s.Language == LanguageOther
}

// Scored reports whether the oracle produced a loss for the segment
func (s Segment) Scored() bool {
	return s.Loss != nil
}

// Document is the per-call working state of a single analysis
type Document struct {
	Raw        string
	Normalized string
	Tokens     int
	Segments   []Segment
}
