package model

import (
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
)

func TestCropByID(t *testing.T) {
	c, ok := CropByID(" Wheat ")
	assert.True(t, ok)
	assert.Equal(t, "Wheat", c.Name)

	_, ok = CropByID("dragonfruit")
	assert.False(t, ok)
}

func TestMatchLanguage(t *testing.T) {
	tests := []struct {
		pref string
		want Language
	}{
		{"hi", Hindi},
		{"HI", Hindi},
		{"hi-IN", Hindi},
		{"ta-IN,en;q=0.8", Tamil},
		{"fr-FR", English},
		{"", English},
		{"!!", English},
	}
	for _, tt := range tests {
		t.Run(tt.pref, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchLanguage(tt.pref))
		})
	}
}

func TestLanguageInfo(t *testing.T) {
	assert.Equal(t, "। ", Hindi.Info().SentenceEnd)
	assert.Equal(t, English, Language("xx").Info().Code)
	assert.False(t, Language("xx").Valid())
	assert.True(t, Punjabi.Valid())
	assert.Len(t, Languages(), 10)
}

func TestComputeCost(t *testing.T) {
	in, out, total := ComputeCost(&schema.TokenUsage{PromptTokens: 1_000_000, CompletionTokens: 2_000_000}, ResolvePricing("gemini-2.5-flash"))
	assert.InDelta(t, 0.30, in, 1e-9)
	assert.InDelta(t, 5.00, out, 1e-9)
	assert.InDelta(t, 5.30, total, 1e-9)

	_, _, total = ComputeCost(nil, ResolvePricing("gemini-2.5-flash"))
	assert.Zero(t, total)
	assert.Equal(t, Pricing{}, ResolvePricing("unknown"))
}
