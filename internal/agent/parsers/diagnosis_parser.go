package parsers

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/leafdoc-core/server/internal/agent/model"
	errx "github.com/leafdoc-core/server/internal/core/error"
	logx "github.com/leafdoc-core/server/pkg/logger"
)

// DefaultConfidence is used when the model omits a usable confidence score.
const DefaultConfidence = 85

// basic safety limits to avoid pathological inputs
const (
	maxContentLen = 256 * 1024 // 256KB
	maxListItems  = 50
	maxErrSnippet = 200
)

// Generic labels for citations that arrive without a title.
const (
	webSourceLabel     = "Web source"
	mapSourceLabel     = "Map location"
	contextSourceLabel = "Reference"
)

// GroundingMetadata is the provider-neutral shape of the citation metadata that
// accompanies a model answer. Field names follow the Gemini wire format so the
// provider payload can be decoded into it directly.
type GroundingMetadata struct {
	Chunks []GroundingChunk `json:"groundingChunks,omitempty"`
}

// GroundingChunk holds at most one populated source per kind.
type GroundingChunk struct {
	Web              *SourceRef `json:"web,omitempty"`
	Maps             *SourceRef `json:"maps,omitempty"`
	RetrievedContext *SourceRef `json:"retrievedContext,omitempty"`
}

// SourceRef is a citation target.
type SourceRef struct {
	URI   string `json:"uri,omitempty"`
	Title string `json:"title,omitempty"`
}

// ParseDiagnosis extracts and normalizes the diagnosis JSON object embedded in
// free-form model text. Any failure to locate or decode the object is reported
// as an invalid response format error.
func ParseDiagnosis(content string, meta *GroundingMetadata) (res *model.AnalysisResult, err error) {
	// panic safety
	defer func() {
		if r := recover(); r != nil {
			logx.Error().Str("component", "diagnosis_parser").Msgf("panic recovered: %v", r)
			err = errx.New(errx.KindInvalidResponseFormat, fmt.Errorf("diagnosis parser panic"), "")
			res = nil
		}
	}()

	if len(content) > maxContentLen {
		logx.Warn().
			Str("component", "diagnosis_parser").
			Int("max_len", maxContentLen).
			Int("orig_len", len(content)).
			Msg("content truncated due to size limit")
		content = content[:maxContentLen]
	}

	candidate, err := ExtractJSONObject(content)
	if err != nil {
		return nil, err
	}
	candidate = StripControlChars(candidate)

	fields, err := decodeObject(candidate)
	if err != nil {
		logx.Warn().
			Str("component", "diagnosis_parser").
			Str("snippet", safeSnippet(candidate)).
			Err(err).
			Msg("diagnosis json rejected")
		return nil, errx.New(errx.KindInvalidResponseFormat, err, "")
	}

	res = &model.AnalysisResult{
		DiseaseName:     stringField(fields, "diseaseName"),
		ConfidenceScore: NormalizeConfidence(fields["confidenceScore"]),
		IsHealthy:       boolField(fields, "isHealthy"),
		Description:     stringField(fields, "description"),
		Symptoms:        listField(fields, "symptoms"),
		Prevention:      listField(fields, "preventiveMeasures"),
		CropMismatch:    boolField(fields, "cropMismatch"),
		MismatchReason:  stringField(fields, "mismatchReason"),
	}
	if rem, ok := fields["remedies"].(map[string]any); ok {
		res.Remedies = model.Remedies{
			Chemical: listField(rem, "chemical"),
			Organic:  listField(rem, "organic"),
		}
	}
	if res.Remedies.Chemical == nil {
		res.Remedies.Chemical = []string{}
	}
	if res.Remedies.Organic == nil {
		res.Remedies.Organic = []string{}
	}

	res.GroundingLinks = mergeLinks(GroundingLinks(meta), inlineLinks(fields["groundingLinks"]))
	return res, nil
}

// ExtractJSONObject returns the substring from the first '{' to the last '}'.
func ExtractJSONObject(content string) (string, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end < 0 || end < start {
		return "", errx.New(errx.KindInvalidResponseFormat, fmt.Errorf("no json object in %d bytes of model output", len(content)), "")
	}
	return content[start : end+1], nil
}

// StripControlChars removes C0 and C1 control characters. Tabs and line breaks
// become spaces so adjacent words inside strings stay separated.
func StripControlChars(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			return ' '
		case r < 0x20, r >= 0x7f && r <= 0x9f:
			return -1
		}
		return r
	}, s)
}

// NormalizeConfidence maps a raw confidence value onto an integer in [0,100].
// Fractions in (0,1] are scaled by 100; missing or non-numeric values default
// to DefaultConfidence.
func NormalizeConfidence(v any) int {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case int:
		f = float64(x)
	case json.Number:
		n, err := x.Float64()
		if err != nil {
			return DefaultConfidence
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(x), "%"), 64)
		if err != nil {
			return DefaultConfidence
		}
		f = n
	default:
		return DefaultConfidence
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return DefaultConfidence
	}
	if f > 0 && f <= 1 {
		return int(math.Round(f * 100))
	}
	return int(math.Round(math.Max(0, math.Min(100, f))))
}

// GroundingLinks flattens citation chunks into an ordered, de-duplicated list.
func GroundingLinks(meta *GroundingMetadata) []model.GroundingLink {
	links := []model.GroundingLink{}
	if meta == nil {
		return links
	}
	for _, ch := range meta.Chunks {
		switch {
		case ch.Maps != nil:
			links = appendLink(links, ch.Maps, mapSourceLabel)
		case ch.Web != nil:
			links = appendLink(links, ch.Web, webSourceLabel)
		case ch.RetrievedContext != nil:
			links = appendLink(links, ch.RetrievedContext, contextSourceLabel)
		}
	}
	return links
}

func appendLink(links []model.GroundingLink, ref *SourceRef, fallback string) []model.GroundingLink {
	uri := strings.TrimSpace(ref.URI)
	if uri == "" {
		return links
	}
	for _, l := range links {
		if l.URI == uri {
			return links
		}
	}
	title := strings.TrimSpace(ref.Title)
	if title == "" {
		title = fallback
	}
	return append(links, model.GroundingLink{Title: title, URI: uri})
}

// inlineLinks reads links the model wrote into the JSON itself.
func inlineLinks(v any) []model.GroundingLink {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	links := []model.GroundingLink{}
	for _, it := range arr {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		links = appendLink(links, &SourceRef{URI: stringField(m, "uri"), Title: stringField(m, "title")}, webSourceLabel)
	}
	return links
}

func mergeLinks(primary, extra []model.GroundingLink) []model.GroundingLink {
	for _, l := range extra {
		primary = appendLink(primary, &SourceRef{URI: l.URI, Title: l.Title}, webSourceLabel)
	}
	return primary
}

// decodeObject parses strictly first and retries once after removing trailing
// commas, the most common defect in hand-written-looking model JSON.
func decodeObject(s string) (map[string]any, error) {
	var m map[string]any
	err := json.Unmarshal([]byte(s), &m)
	if err == nil {
		return m, nil
	}
	repaired := removeTrailingCommas(s)
	if repaired == s {
		return nil, err
	}
	if err2 := json.Unmarshal([]byte(repaired), &m); err2 != nil {
		return nil, err
	}
	return m, nil
}

func removeTrailingCommas(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			b.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		if c == '"' {
			inString = true
			b.WriteByte(c)
			continue
		}
		if c == ',' {
			j := i + 1
			for j < len(s) && (s[j] == ' ' || s[j] == '\n' || s[j] == '\r' || s[j] == '\t') {
				j++
			}
			if j < len(s) && (s[j] == '}' || s[j] == ']') {
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

// --- helpers ---

func stringField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

func boolField(m map[string]any, key string) bool {
	switch v := m[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(strings.TrimSpace(v))
		return b
	}
	return false
}

// listField accepts an array of strings or a single string; empty entries are dropped.
func listField(m map[string]any, key string) []string {
	out := []string{}
	switch v := m[key].(type) {
	case string:
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	case []any:
		for _, it := range v {
			if len(out) >= maxListItems {
				break
			}
			s, ok := it.(string)
			if !ok {
				continue
			}
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func safeSnippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxErrSnippet {
		return s
	}
	return s[:maxErrSnippet]
}
