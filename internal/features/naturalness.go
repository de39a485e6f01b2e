package features

import (
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Naturalness weights. Informal markers dominate the structural cues.
const (
	RunOnBonus      = 10.0 // Long text with at most one period
	LowercaseBonus  = 5.0  // Text starting with a lowercase letter
	InformalBonus   = 12.0 // Per informal marker occurrence
	FormalPenalty   = 6.0  // Per formal marker occurrence
	runOnMinWords   = 20
	lengthNormWords = 250.0
	maxRunOnPeriods = 1
)

// Naturalness scores lexical cues of human writing. It is safe for
// concurrent use.
type Naturalness struct {
	informal *regexp.Regexp
	formal   *regexp.Regexp
}

// NewNaturalness compiles the lexicon into matchers
func NewNaturalness(lex Lexicon) *Naturalness {
	return &Naturalness{
		informal: compileMarkers(lex.Informal),
		formal:   compileMarkers(lex.Formal),
	}
}

// compileMarkers builds one case-insensitive whole-word alternation
func compileMarkers(markers []string) *regexp.Regexp {
	if len(markers) == 0 {
		return nil
	}
	quoted := make([]string, len(markers))
	for i, m := range markers {
		quoted[i] = regexp.QuoteMeta(strings.ToLower(m))
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

// countMatches counts non-overlapping marker occurrences
func countMatches(re *regexp.Regexp, text string) int {
	if re == nil {
		return 0
	}
	return len(re.FindAllStringIndex(text, -1))
}

// Bonus returns the humanity bonus for the text, never below 0.
// The total is scaled by min(1, 250/(words+1)) so long documents do not
// accumulate an unbounded bonus.
func (n *Naturalness) Bonus(text string) float64 {
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}

	bonus := 0.0

	if words > runOnMinWords && strings.Count(text, ".") <= maxRunOnPeriods {
		bonus += RunOnBonus
	}

	if first, _ := utf8.DecodeRuneInString(text); unicode.IsLower(first) {
		bonus += LowercaseBonus
	}

	bonus += float64(countMatches(n.informal, text)) * InformalBonus
	bonus -= float64(countMatches(n.formal, text)) * FormalPenalty

	bonus *= math.Min(1, lengthNormWords/float64(words+1))

	return math.Max(0, bonus)
}
