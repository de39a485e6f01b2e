package langid

import (
	"errors"
	"fmt"

	"github.com/abadojack/whatlanggo"
)

// ErrUndetermined is returned when no language can be identified with confidence
var ErrUndetermined = errors.New("language could not be determined")

// Identifier maps text to an ISO 639-1 language code
type Identifier interface {
	Identify(text string) (string, error)
}

// IdentifierFunc adapts a function to the Identifier interface
type IdentifierFunc func(text string) (string, error)

// Identify calls f(text)
func (f IdentifierFunc) Identify(text string) (string, error) {
	return f(text)
}

// isoLangs maps ISO 639-1 codes to whatlanggo languages
var isoLangs = map[string]whatlanggo.Lang{
	"id": whatlanggo.Ind,
	"en": whatlanggo.Eng,
	"jv": whatlanggo.Jav,
	"nl": whatlanggo.Nld,
	"de": whatlanggo.Deu,
	"fr": whatlanggo.Fra,
	"es": whatlanggo.Spa,
	"pt": whatlanggo.Por,
	"it": whatlanggo.Ita,
	"tl": whatlanggo.Tgl,
	"vi": whatlanggo.Vie,
	"th": whatlanggo.Tha,
	"tr": whatlanggo.Tur,
	"ru": whatlanggo.Rus,
	"ar": whatlanggo.Arb,
	"hi": whatlanggo.Hin,
	"ja": whatlanggo.Jpn,
	"ko": whatlanggo.Kor,
	"zh": whatlanggo.Cmn,
}

// codeOf returns the ISO 639-1 code for a detected language
func codeOf(lang whatlanggo.Lang) string {
	for code, l := range isoLangs {
		if l == lang {
			return code
		}
	}
	return fmt.Sprintf("x-%d", int(lang))
}

// WhatlangIdentifier identifies languages with trigram statistics.
// Detection is deterministic for identical input.
type WhatlangIdentifier struct {
	options       whatlanggo.Options
	minConfidence float64
}

// NewWhatlangIdentifier creates an identifier restricted to the given
// ISO 639-1 candidates (empty means every supported language)
func NewWhatlangIdentifier(candidates []string, minConfidence float64) (*WhatlangIdentifier, error) {
	id := &WhatlangIdentifier{minConfidence: minConfidence}

	if len(candidates) > 0 {
		whitelist := make(map[whatlanggo.Lang]bool, len(candidates))
		for _, code := range candidates {
			lang, ok := isoLangs[code]
			if !ok {
				continue // Not detectable; may still be configured as an alias
			}
			whitelist[lang] = true
		}
		if len(whitelist) == 0 {
			return nil, fmt.Errorf("no supported language among candidates %v", candidates)
		}
		id.options.Whitelist = whitelist
	}

	return id, nil
}

// Identify returns the ISO 639-1 code of the text's language
func (w *WhatlangIdentifier) Identify(text string) (string, error) {
	info := whatlanggo.DetectWithOptions(text, w.options)
	if info.Lang < 0 || info.Confidence < w.minConfidence {
		return "", ErrUndetermined
	}
	return codeOf(info.Lang), nil
}

// Supported reports whether an ISO 639-1 code can be detected
func Supported(code string) bool {
	_, ok := isoLangs[code]
	return ok
}
