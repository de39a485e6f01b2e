package model

import "time"

// Status is the final classification bucket of a scan
type Status string

const (
	StatusHumanWritten Status = "Human Written"
	StatusLikelyHuman  Status = "Likely Human"
	StatusLikelyAI     Status = "Likely AI"
	StatusAIGenerated  Status = "AI Generated"
)

// OpinionName identifies one of the three ensemble opinions
type OpinionName string

const (
	OpinionSemantic   OpinionName = "semantic"
	OpinionPerplexity OpinionName = "perplexity"
	OpinionBurstiness OpinionName = "burstiness"
)

// Opinions holds the three independent AI-likelihood estimates (each 0-100)
type Opinions struct {
	Semantic   float64 `json:"semantic"`
	Perplexity float64 `json:"perplexity"`
	Burstiness float64 `json:"burstiness"`
}

// Get returns the opinion with the given name
func (o Opinions) Get(name OpinionName) float64 {
	switch name {
	case OpinionSemantic:
		return o.Semantic
	case OpinionPerplexity:
		return o.Perplexity
	case OpinionBurstiness:
		return o.Burstiness
	default:
		return 0
	}
}

// Counts partitions the annotated segments
type Counts struct {
	AI         int `json:"ai"`         // Segment score > ai threshold
	Paraphrase int `json:"paraphrase"` // Segment score > paraphrase threshold
	Mixed      int `json:"mixed"`      // Segment score > mixed threshold
	Human      int `json:"human"`      // Everything else that was weighed
	Citation   int `json:"citation"`   // Citation-flagged segments (tracked separately)
	Foreign    int `json:"foreign"`    // Non-target language segments
	Skipped    int `json:"skipped"`    // Annotated but not sampled
	Noise      int `json:"noise"`      // Too short or symbol-heavy to weigh
}

// ScanResult is the aggregate output of one engine call
type ScanResult struct {
	Probability        float64   `json:"ai_probability"`      // Final probability (0-100, 2 decimals)
	Status             Status    `json:"status"`              // Classification bucket
	Burstiness         float64   `json:"burstiness"`          // Coefficient of variation of sentence lengths
	GlobalLoss         float64   `json:"perplexity"`          // Document-level oracle loss
	TokenCount         int       `json:"token_count"`         // Oracle tokenizer count of the normalized text
	Segments           []Segment `json:"sentences"`           // Annotated breakdown (first 150 segments)
	Counts             Counts    `json:"counts"`              // Per-bucket counts
	CitationPercentage float64   `json:"citation_percentage"` // Share of annotated target segments flagged as citations
	Opinions           Opinions  `json:"opinions"`
	HumanityBonus      float64   `json:"opinion_humanity"`    // Bonus actually subtracted
	PartiallyAnalyzed  bool      `json:"partially_analyzed"`  // Hybrid sampling was used
	AISource           string    `json:"ai_source,omitempty"` // Advisory fingerprint attribution
}

// Report wraps a scan result with its provenance for rendering and persistence
type Report struct {
	ID        string      `json:"id,omitempty"`
	Subject   string      `json:"subject"`           // File name, URL or "stdin"
	Source    string      `json:"source,omitempty"`  // Where the text came from
	Digest    string      `json:"sha256"`            // SHA-256 of the raw text
	Preview   string      `json:"preview,omitempty"` // Leading characters kept by the store
	Words     int         `json:"words"`
	ScannedAt time.Time   `json:"scanned_at"`
	Oracle    string      `json:"oracle"` // Oracle provider name
	Result    *ScanResult `json:"result"`
}

// CertificateThreshold is the highest probability for which an authenticity certificate is issued
const CertificateThreshold = 45.0

// CertificateEligible reports whether the scan qualifies for an authenticity certificate
func (r *Report) CertificateEligible() bool {
	return r.Result != nil && r.Result.Probability <= CertificateThreshold
}
