package gemini

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/leafdoc-core/server/internal/agent/model"
	"github.com/leafdoc-core/server/internal/agent/parsers"
	errx "github.com/leafdoc-core/server/internal/core/error"
)

type fakeGemini struct {
	calls     atomic.Int32
	failFirst int32
	failCode  int
	body      string
	lastBody  atomic.Value
}

func (f *fakeGemini) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	n := f.calls.Add(1)
	b, _ := io.ReadAll(r.Body)
	f.lastBody.Store(string(b))
	w.Header().Set("Content-Type", "application/json")
	if n <= f.failFirst {
		w.WriteHeader(f.failCode)
		_, _ = io.WriteString(w, `{"error":{"code":`+strconv.Itoa(f.failCode)+`,"message":"try later","status":"UNAVAILABLE"}}`)
		return
	}
	_, _ = io.WriteString(w, f.body)
}

func newTestClient(t *testing.T, h http.Handler) *genai.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	client, err := NewClient(context.Background(), ClientConfig{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)
	return client
}

func analysisRequest(t *testing.T) model.AnalysisRequest {
	t.Helper()
	potato, ok := model.CropByID("potato")
	require.True(t, ok)
	return model.AnalysisRequest{Image: []byte{0xff, 0xd8, 0xff}, MIMEType: "image/jpeg", Crop: potato, Language: model.English}
}

const answerBody = `{
  "candidates": [{
    "content": {"role": "model", "parts": [{"text": "` + "```json\\n{\\\"diseaseName\\\": \\\"Late Blight\\\", \\\"confidenceScore\\\": 0.9}\\n```" + `"}]},
    "finishReason": "STOP",
    "groundingMetadata": {"groundingChunks": [{"web": {"uri": "https://example.org/late-blight", "title": "Late blight guide"}}]}
  }],
  "usageMetadata": {"promptTokenCount": 1200, "candidatesTokenCount": 300, "totalTokenCount": 1500}
}`

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(context.Background(), ClientConfig{})
	assert.ErrorIs(t, err, errx.ErrConfiguration)
}

func TestAnalyzeReturnsTextAndGrounding(t *testing.T) {
	fake := &fakeGemini{body: answerBody}
	a := NewAnalyzer(newTestClient(t, fake), nil, model.AnalysisModelConfig{Model: "gemini-2.5-flash", MaxRetries: 3, Grounding: true})

	text, meta, err := a.Analyze(context.Background(), analysisRequest(t))
	require.NoError(t, err)

	res, err := parsers.ParseDiagnosis(text, &meta)
	require.NoError(t, err)
	assert.Equal(t, "Late Blight", res.DiseaseName)
	assert.Equal(t, 90, res.ConfidenceScore)
	assert.Equal(t, []model.GroundingLink{{Title: "Late blight guide", URI: "https://example.org/late-blight"}}, res.GroundingLinks)

	sent, _ := fake.lastBody.Load().(string)
	assert.Contains(t, sent, "googleSearch")
	assert.Contains(t, sent, "image/jpeg")
}

func TestAnalyzeRetriesTransientFailures(t *testing.T) {
	fake := &fakeGemini{body: answerBody, failFirst: 2, failCode: http.StatusServiceUnavailable}
	a := NewAnalyzer(newTestClient(t, fake), nil, model.AnalysisModelConfig{Model: "gemini-2.5-flash", MaxRetries: 3})
	a.backoff = time.Millisecond

	_, _, err := a.Analyze(context.Background(), analysisRequest(t))
	require.NoError(t, err)
	assert.Equal(t, int32(3), fake.calls.Load())
}

func TestAnalyzeDoesNotRetryAuthFailures(t *testing.T) {
	fake := &fakeGemini{failFirst: 10, failCode: http.StatusForbidden}
	a := NewAnalyzer(newTestClient(t, fake), nil, model.AnalysisModelConfig{Model: "gemini-2.5-flash", MaxRetries: 3})
	a.backoff = time.Millisecond

	_, _, err := a.Analyze(context.Background(), analysisRequest(t))
	assert.ErrorIs(t, err, errx.ErrConfiguration)
	assert.Equal(t, int32(1), fake.calls.Load())
}

func TestAnalyzeEmptyOrBlocked(t *testing.T) {
	bodies := map[string]string{
		"no candidates": `{"candidates": []}`,
		"blocked":       `{"promptFeedback": {"blockReason": "SAFETY"}}`,
		"empty text":    `{"candidates": [{"content": {"role": "model", "parts": [{"text": "  "}]}, "finishReason": "STOP"}]}`,
		"safety stop":   `{"candidates": [{"content": {"role": "model", "parts": [{"text": "x"}]}, "finishReason": "SAFETY"}]}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			a := NewAnalyzer(newTestClient(t, &fakeGemini{body: body}), nil, model.AnalysisModelConfig{Model: "gemini-2.5-flash", MaxRetries: 1})
			_, _, err := a.Analyze(context.Background(), analysisRequest(t))
			assert.ErrorIs(t, err, errx.ErrAnalysis)
			assert.Equal(t, errx.KindAnalysis, errx.KindOf(err))
		})
	}
}

func TestAnalyzeWithoutClientIsConfigurationError(t *testing.T) {
	_, clientErr := NewClient(context.Background(), ClientConfig{})
	a := NewAnalyzer(nil, clientErr, model.AnalysisModelConfig{})

	_, _, err := a.Analyze(context.Background(), analysisRequest(t))
	assert.ErrorIs(t, err, errx.ErrConfiguration)
}

func TestSynthesizeReturnsBase64PCM(t *testing.T) {
	pcm := []byte{0x00, 0x40, 0x00, 0xc0}
	body := `{"candidates": [{"content": {"role": "model", "parts": [{"inlineData": {"mimeType": "audio/L16;codec=pcm;rate=24000", "data": "` +
		base64.StdEncoding.EncodeToString(pcm) + `"}}]}}]}`
	fake := &fakeGemini{body: body}
	s := NewSynthesizer(newTestClient(t, fake), nil, model.SpeechModelConfig{Model: "gemini-2.5-flash-preview-tts"})

	out, err := s.Synthesize(context.Background(), "Late blight detected.", "Kore")
	require.NoError(t, err)
	assert.Equal(t, base64.StdEncoding.EncodeToString(pcm), out)

	sent, _ := fake.lastBody.Load().(string)
	assert.True(t, strings.Contains(sent, "AUDIO"))
	assert.Contains(t, sent, "Kore")
}

func TestSynthesizeWithoutAudioIsTTSFailure(t *testing.T) {
	fake := &fakeGemini{body: `{"candidates": [{"content": {"role": "model", "parts": [{"text": "no audio"}]}}]}`}
	s := NewSynthesizer(newTestClient(t, fake), nil, model.SpeechModelConfig{Model: "gemini-2.5-flash-preview-tts"})

	_, err := s.Synthesize(context.Background(), "hello", "")
	assert.ErrorIs(t, err, errx.ErrTTS)

	_, err = s.Synthesize(context.Background(), "  ", "")
	assert.ErrorIs(t, err, errx.ErrTTS)
}

func TestRetryable(t *testing.T) {
	assert.False(t, retryable(nil))
	assert.False(t, retryable(context.Canceled))
	assert.True(t, retryable(genai.APIError{Code: 503}))
	assert.True(t, retryable(genai.APIError{Code: 429}))
	assert.False(t, retryable(genai.APIError{Code: 400}))
	assert.True(t, retryable(io.ErrUnexpectedEOF))
}
