package features

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

// minFragmentChars is the length a fragment must exceed to count as a sentence
const minFragmentChars = 10

var fragmentBoundary = regexp.MustCompile(`[.!?\n]+`)

// Burstiness returns the coefficient of variation (population standard
// deviation over mean) of sentence word counts. Low values mean uniform
// sentence lengths. Text with one qualifying sentence or none returns 1.0.
func Burstiness(text string) float64 {
	var lengths []float64
	for _, fragment := range fragmentBoundary.Split(text, -1) {
		fragment = strings.TrimSpace(fragment)
		if utf8.RuneCountInString(fragment) > minFragmentChars {
			lengths = append(lengths, float64(len(strings.Fields(fragment))))
		}
	}

	if len(lengths) <= 1 {
		return 1.0
	}

	var sum float64
	for _, l := range lengths {
		sum += l
	}
	mean := sum / float64(len(lengths))
	if mean == 0 {
		return 0.0
	}

	var variance float64
	for _, l := range lengths {
		variance += (l - mean) * (l - mean)
	}
	variance /= float64(len(lengths))

	return math.Sqrt(variance) / mean
}
