package extract

import (
	"regexp"
	"strings"
)

var (
	spaceRun       = regexp.MustCompile(` +`)
	layoutReplacer = strings.NewReplacer("\n", " ", "\t", " ")
)

// ParagraphBreak separates paragraphs in normalized text
const ParagraphBreak = "\n\n"

// Normalize collapses layout artifacts left by document conversion.
// A double line break is a paragraph boundary and survives as ParagraphBreak;
// a single line break or tab becomes a space. Runs of spaces collapse to one.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var paragraphs []string
	for _, p := range strings.Split(text, ParagraphBreak) {
		p = layoutReplacer.Replace(p)
		p = strings.TrimSpace(spaceRun.ReplaceAllString(p, " "))
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
	}

	return strings.Join(paragraphs, ParagraphBreak)
}

// WordCount returns the number of whitespace-delimited words
func WordCount(text string) int {
	return len(strings.Fields(text))
}
