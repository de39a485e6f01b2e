package fingerprint

import (
	"regexp"
	"unicode"
	"unicode/utf8"
)

const (
	// GenericFamily is reported for strong signals that match no family
	GenericFamily = "Generative AI"

	// MinProbability is the lowest probability that is fingerprinted at all
	MinProbability = 30.0

	// GenericProbability is the lowest probability that falls back to GenericFamily
	GenericProbability = 50.0
)

// Signature is the lexical bias of one generator family
type Signature struct {
	Family    string
	Phrases   []string
	Threshold int // Distinct phrases that must appear
	patterns  []*regexp.Regexp
}

// Analyzer attributes likely-generated text to a generator family.
// Attribution is advisory and never affects the probability.
type Analyzer struct {
	signatures []Signature
}

// NewAnalyzer creates an analyzer with the built-in signatures
func NewAnalyzer() *Analyzer {
	return NewAnalyzerWith(DefaultSignatures())
}

// NewAnalyzerWith creates an analyzer from custom signatures. Declaration
// order breaks ties.
func NewAnalyzerWith(signatures []Signature) *Analyzer {
	compiled := make([]Signature, len(signatures))
	for i, sig := range signatures {
		sig.patterns = make([]*regexp.Regexp, len(sig.Phrases))
		for j, p := range sig.Phrases {
			sig.patterns[j] = compilePhrase(p)
		}
		compiled[i] = sig
	}
	return &Analyzer{signatures: compiled}
}

// compilePhrase matches a phrase case-insensitively, on word boundaries
// where the phrase starts or ends with a word character
func compilePhrase(phrase string) *regexp.Regexp {
	pattern := regexp.QuoteMeta(phrase)

	if first, _ := utf8.DecodeRuneInString(phrase); isWordRune(first) {
		pattern = `\b` + pattern
	}
	if last, _ := utf8.DecodeLastRuneInString(phrase); isWordRune(last) {
		pattern += `\b`
	}

	return regexp.MustCompile(`(?i)` + pattern)
}

func isWordRune(r rune) bool {
	return r == '_' || (r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)))
}

// Identify returns the most likely generator family, or "" when the text is
// not attributed
func (a *Analyzer) Identify(text string, probability float64) string {
	if probability < MinProbability {
		return ""
	}

	best, bestCount := "", 0
	for _, sig := range a.signatures {
		count := 0
		for _, p := range sig.patterns {
			if p.MatchString(text) {
				count++
			}
		}
		if count >= sig.Threshold && count > bestCount {
			best, bestCount = sig.Family, count
		}
	}

	if best == "" && probability >= GenericProbability {
		return GenericFamily
	}
	return best
}

// Families returns the configured family names in declaration order
func (a *Analyzer) Families() []string {
	names := make([]string, len(a.signatures))
	for i, sig := range a.signatures {
		names[i] = sig.Family
	}
	return names
}

// DefaultSignatures returns the built-in signature sets
func DefaultSignatures() []Signature {
	return []Signature{
		{
			Family: "GPT-4 / GPT-4o",
			Phrases: []string{
				"delve", "comprehensive", "transformative", "vibrant", "tapestry",
				"embark", "meticulous", "testament", "foster",
				"menyelami", "permadani", "transformatif", "lanskap", "bukti nyata",
			},
			Threshold: 1,
		},
		{
			Family: "Claude (Anthropic)",
			Phrases: []string{
				"I understand that", "Actually,", "It's important to note", "however,",
				"I apologize if", "Let's look at this",
				"Saya memahami bahwa", "Perlu dicatat bahwa", "Mohon maaf jika",
			},
			Threshold: 2,
		},
		{
			Family: "Gemini (Google)",
			Phrases: []string{
				"Here are", "let's explore", "key takeaway", "in summary", "consider this",
				"Berikut adalah", "mari kita jelajahi", "poin penting", "kesimpulannya",
			},
			Threshold: 1,
		},
	}
}
