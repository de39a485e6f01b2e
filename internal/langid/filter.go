package langid

import (
	"strings"

	"github.com/ppiankov/aksara/internal/model"
	"go.uber.org/zap"
)

// MinIdentifyWords is the word count a segment must exceed to be identified
const MinIdentifyWords = 3

// Filter tags segments relative to the target language. Identification
// failures never surface: the segment is treated as target language.
type Filter struct {
	identifier Identifier
	target     map[string]bool
	logger     *zap.Logger
}

// NewFilter creates a filter for the target language and its aliases
func NewFilter(identifier Identifier, target string, aliases []string, logger *zap.Logger) *Filter {
	if logger == nil {
		logger = zap.NewNop()
	}

	codes := map[string]bool{strings.ToLower(target): true}
	for _, a := range aliases {
		codes[strings.ToLower(a)] = true
	}

	return &Filter{
		identifier: identifier,
		target:     codes,
		logger:     logger,
	}
}

// Classify returns the language tag for one segment
func (f *Filter) Classify(text string) model.Language {
	if len(strings.Fields(text)) <= MinIdentifyWords {
		return model.LanguageUnknown
	}

	code, err := f.identifier.Identify(text)
	if err != nil {
		f.logger.Debug("language identification failed, assuming target", zap.Error(err))
		return model.LanguageTarget
	}

	if f.target[strings.ToLower(code)] {
		return model.LanguageTarget
	}
	return model.LanguageOther
}

// Apply tags every segment in place and marks foreign ones as excluded
func (f *Filter) Apply(segments []model.Segment) {
	for i := range segments {
		segments[i].Language = f.Classify(segments[i].Text)
		if segments[i].Excluded() {
			segments[i].Score = model.ExcludedScore
		}
	}
}
