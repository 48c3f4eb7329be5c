package speech

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/leafdoc-core/server/internal/agent/model"
)

// DefaultMaxChars bounds the narration sent to the TTS endpoint.
const DefaultMaxChars = 1200

// NarrationText builds the text read aloud for a diagnosis: disease name,
// description, symptoms and preventive measures, punctuated for lang.
func NarrationText(res model.AnalysisResult, lang model.Language, maxChars int) string {
	info := lang.Info()
	sections := []string{
		res.DiseaseName,
		res.Description,
		strings.Join(res.Symptoms, info.ListSeparator),
		strings.Join(res.Prevention, info.ListSeparator),
	}

	var b strings.Builder
	for _, s := range sections {
		s = strings.TrimRightFunc(strings.TrimSpace(s), func(r rune) bool {
			return r == '.' || r == '।' || unicode.IsSpace(r)
		})
		if s == "" {
			continue
		}
		b.WriteString(s)
		b.WriteString(info.SentenceEnd)
	}
	return truncate(strings.TrimSpace(b.String()), maxChars)
}

// truncate cuts s to at most max runes, preferring the last word boundary.
func truncate(s string, max int) string {
	if max <= 0 {
		max = DefaultMaxChars
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)[:max]
	cut := string(runes)
	if i := strings.LastIndexFunc(cut, unicode.IsSpace); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut)
}
