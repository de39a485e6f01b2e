package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinSegmentChars is the length a segment must exceed to be kept
const MinSegmentChars = 5

var (
	// quotedSpan matches text bounded by straight or curly double quotes
	quotedSpan = regexp.MustCompile(`["“][^"”]*["”]`)

	// terminal matches sentence-ending punctuation and the whitespace after it
	terminal = regexp.MustCompile(`[.!?]\s+`)
)

// Segment splits normalized text into sentence-like units.
//
// Quoted spans are isolated first and kept whole, since their register may
// not match the surrounding prose. The remaining text is split on terminal
// punctuation followed by an uppercase letter or an opening quote, and on
// paragraph breaks. Segments of MinSegmentChars runes or fewer are dropped.
// If nothing survives, the whole text is returned as a single segment.
func Segment(text string) []string {
	var raw []string

	last := 0
	for _, loc := range quotedSpan.FindAllStringIndex(text, -1) {
		raw = append(raw, splitSentences(text[last:loc[0]])...)
		raw = append(raw, strings.TrimSpace(text[loc[0]:loc[1]]))
		last = loc[1]
	}
	raw = append(raw, splitSentences(text[last:])...)

	var segments []string
	for _, s := range raw {
		if utf8.RuneCountInString(s) > MinSegmentChars {
			segments = append(segments, s)
		}
	}

	if len(segments) == 0 {
		if whole := strings.TrimSpace(text); whole != "" {
			return []string{whole}
		}
		return nil
	}

	return segments
}

// splitSentences splits unquoted text on sentence boundaries
func splitSentences(text string) []string {
	var sentences []string

	for _, paragraph := range strings.Split(text, ParagraphBreak) {
		start := 0
		for _, loc := range terminal.FindAllStringIndex(paragraph, -1) {
			next, _ := utf8.DecodeRuneInString(paragraph[loc[1]:])
			if !opensSentence(next) {
				continue
			}
			// Keep the terminator with its sentence
			sentences = appendTrimmed(sentences, paragraph[start:loc[0]+1])
			start = loc[1]
		}
		sentences = appendTrimmed(sentences, paragraph[start:])
	}

	return sentences
}

func opensSentence(r rune) bool {
	return unicode.IsUpper(r) || r == '"' || r == '“'
}

func appendTrimmed(list []string, s string) []string {
	if s = strings.TrimSpace(s); s != "" {
		list = append(list, s)
	}
	return list
}
