package citation

import (
	"regexp"
	"strings"
)

// Tier orders categories by how strongly a match excludes a segment
type Tier int

const (
	TierHard      Tier = iota // Headers, URLs, emails, metadata, legal references
	TierReference             // Quotes and reference markers
	TierHeuristic             // Short segments opening with a reporting phrase
)

// Category is a named, compiled citation pattern
type Category struct {
	Name     string
	Tier     Tier
	Pattern  *regexp.Regexp
	MaxWords int // Only segments with fewer words match (0 = any length)
}

// matches checks the pattern and word limit
func (c Category) matches(text string, words int) bool {
	if c.MaxWords > 0 && words >= c.MaxWords {
		return false
	}
	return c.Pattern.MatchString(text)
}

// Detector flags segments that are quotations, references or metadata.
// Categories are evaluated tier by tier, in registration order within a tier;
// the first match wins.
type Detector struct {
	categories []Category
}

// NewDetector creates a detector with the built-in categories
func NewDetector() *Detector {
	d := &Detector{}
	for _, c := range builtinCategories() {
		d.Register(c)
	}
	return d
}

// Register adds a category after every existing category of the same or a
// stronger tier, so existing priorities never change
func (d *Detector) Register(c Category) {
	pos := len(d.categories)
	for i, existing := range d.categories {
		if existing.Tier > c.Tier {
			pos = i
			break
		}
	}

	d.categories = append(d.categories, Category{})
	copy(d.categories[pos+1:], d.categories[pos:])
	d.categories[pos] = c
}

// Match returns the name of the first category that matches the text
func (d *Detector) Match(text string) (string, bool) {
	words := len(strings.Fields(text))
	for _, c := range d.categories {
		if c.matches(text, words) {
			return c.Name, true
		}
	}
	return "", false
}

// IsCitation reports whether the text is a citation
func (d *Detector) IsCitation(text string) bool {
	_, ok := d.Match(text)
	return ok
}

// Categories returns category names in evaluation order
func (d *Detector) Categories() []string {
	names := make([]string, len(d.categories))
	for i, c := range d.categories {
		names[i] = c.Name
	}
	return names
}
