package parsers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leafdoc-core/server/internal/agent/model"
	errx "github.com/leafdoc-core/server/internal/core/error"
)

const sampleDiagnosis = `{
  "diseaseName": "Early Blight",
  "confidenceScore": 0.92,
  "isHealthy": false,
  "description": "Fungal disease caused by Alternaria solani.",
  "symptoms": ["Concentric rings on older leaves", "Yellowing around spots"],
  "remedies": {"chemical": ["Mancozeb 75% WP"], "organic": ["Neem oil spray"]},
  "preventiveMeasures": ["Rotate crops", "Avoid overhead irrigation"],
  "cropMismatch": false
}`

func TestParseDiagnosisIgnoresFencesAndProse(t *testing.T) {
	content := "Here you go:\n```json\n" + sampleDiagnosis + "\n```\nThanks"

	res, err := ParseDiagnosis(content, nil)
	require.NoError(t, err)

	assert.Equal(t, "Early Blight", res.DiseaseName)
	assert.Equal(t, 92, res.ConfidenceScore)
	assert.False(t, res.IsHealthy)
	assert.Equal(t, []string{"Concentric rings on older leaves", "Yellowing around spots"}, res.Symptoms)
	assert.Equal(t, []string{"Mancozeb 75% WP"}, res.Remedies.Chemical)
	assert.Equal(t, []string{"Neem oil spray"}, res.Remedies.Organic)
	assert.Equal(t, []string{"Rotate crops", "Avoid overhead irrigation"}, res.Prevention)
	assert.NotNil(t, res.GroundingLinks)
	assert.Empty(t, res.GroundingLinks)
}

func TestParseDiagnosisWithoutJSON(t *testing.T) {
	for _, content := range []string{"", "I could not see a leaf in this photo.", "} backwards {"} {
		res, err := ParseDiagnosis(content, nil)
		assert.Nil(t, res)
		assert.ErrorIs(t, err, errx.ErrInvalidResponseFormat, "content %q", content)
		assert.True(t, errx.IsKind(err, errx.KindAnalysis))
	}
}

func TestParseDiagnosisRejectsBrokenJSON(t *testing.T) {
	_, err := ParseDiagnosis(`{"diseaseName": "Rust", "symptoms": [}`, nil)
	assert.ErrorIs(t, err, errx.ErrInvalidResponseFormat)
}

func TestParseDiagnosisStripsControlCharacters(t *testing.T) {
	content := "{\"diseaseName\": \"Leaf\x00 Rust\x1b\", \"description\": \"line one\nline two\u0085\"}"

	res, err := ParseDiagnosis(content, nil)
	require.NoError(t, err)
	assert.Equal(t, "Leaf Rust", res.DiseaseName)
	assert.Equal(t, "line one line two", res.Description)
}

func TestParseDiagnosisRepairsTrailingCommas(t *testing.T) {
	content := `{"diseaseName": "Rust", "symptoms": ["orange pustules",], "note": "a, ]",}`

	res, err := ParseDiagnosis(content, nil)
	require.NoError(t, err)
	assert.Equal(t, "Rust", res.DiseaseName)
	assert.Equal(t, []string{"orange pustules"}, res.Symptoms)
}

func TestParseDiagnosisCropMismatch(t *testing.T) {
	res, err := ParseDiagnosis(`{"cropMismatch": true, "mismatchReason": "This is a cotton leaf."}`, nil)
	require.NoError(t, err)
	assert.True(t, res.CropMismatch)
	assert.Equal(t, "This is a cotton leaf.", res.MismatchReason)
	assert.Equal(t, DefaultConfidence, res.ConfidenceScore)
}

func TestParseDiagnosisLenientFieldShapes(t *testing.T) {
	res, err := ParseDiagnosis(`{"symptoms": "wilting", "isHealthy": "true", "preventiveMeasures": [1, " ", "mulch"]}`, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"wilting"}, res.Symptoms)
	assert.True(t, res.IsHealthy)
	assert.Equal(t, []string{"mulch"}, res.Prevention)
	assert.Equal(t, []string{}, res.Remedies.Chemical)
}

func TestNormalizeConfidence(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int
	}{
		{"fraction", 0.875, 88},
		{"one is a fraction", 1.0, 100},
		{"smallest fraction", 0.004, 0},
		{"percentage", 87.4, 87},
		{"above range", 140.0, 100},
		{"negative", -3.0, 0},
		{"zero", 0.0, 0},
		{"missing", nil, DefaultConfidence},
		{"boolean", true, DefaultConfidence},
		{"numeric string", "0.9", 90},
		{"percent string", "76%", 76},
		{"garbage string", "high", DefaultConfidence},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeConfidence(tt.in))
		})
	}
}

func TestGroundingLinks(t *testing.T) {
	meta := &GroundingMetadata{Chunks: []GroundingChunk{
		{Web: &SourceRef{URI: "https://icar.org.in/blight", Title: "ICAR advisory"}},
		{Maps: &SourceRef{URI: "https://maps.google.com/?cid=1"}},
		{Web: &SourceRef{URI: "https://example.org/untitled"}},
		{Web: &SourceRef{URI: "https://icar.org.in/blight", Title: "duplicate"}},
		{Web: &SourceRef{Title: "no uri"}},
		{},
	}}

	links := GroundingLinks(meta)
	assert.Equal(t, []model.GroundingLink{
		{Title: "ICAR advisory", URI: "https://icar.org.in/blight"},
		{Title: mapSourceLabel, URI: "https://maps.google.com/?cid=1"},
		{Title: webSourceLabel, URI: "https://example.org/untitled"},
	}, links)

	assert.Equal(t, []model.GroundingLink{}, GroundingLinks(nil))
}

func TestParseDiagnosisMergesInlineLinks(t *testing.T) {
	meta := &GroundingMetadata{Chunks: []GroundingChunk{{Web: &SourceRef{URI: "https://a.example", Title: "A"}}}}
	content := `{"diseaseName": "Rust", "groundingLinks": [{"uri": "https://a.example"}, {"uri": "https://b.example", "title": "B"}]}`

	res, err := ParseDiagnosis(content, meta)
	require.NoError(t, err)
	assert.Equal(t, []model.GroundingLink{
		{Title: "A", URI: "https://a.example"},
		{Title: "B", URI: "https://b.example"},
	}, res.GroundingLinks)
}

func TestParseDiagnosisTruncatesHugeInput(t *testing.T) {
	content := sampleDiagnosis + strings.Repeat(" ", maxContentLen)
	res, err := ParseDiagnosis(content, nil)
	require.NoError(t, err)
	assert.Equal(t, "Early Blight", res.DiseaseName)
}
