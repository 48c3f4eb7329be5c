package gemini

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/leafdoc-core/server/internal/agent/model"
	errx "github.com/leafdoc-core/server/internal/core/error"
	logx "github.com/leafdoc-core/server/pkg/logger"
)

// Synthesizer calls a Gemini TTS model and returns base64 PCM16 mono 24 kHz audio.
type Synthesizer struct {
	client  *genai.Client
	clientE error
	cfg     model.SpeechModelConfig
	log     zerolog.Logger
}

func NewSynthesizer(client *genai.Client, clientErr error, cfg model.SpeechModelConfig) *Synthesizer {
	if client == nil && clientErr == nil {
		clientErr = errors.New("gemini client is nil")
	}
	return &Synthesizer{client: client, clientE: clientErr, cfg: cfg, log: logx.Component("tts")}
}

func (s *Synthesizer) Synthesize(ctx context.Context, text, voice string) (string, error) {
	if s.clientE != nil {
		return "", errx.New(errx.KindTTS, s.clientE, "")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errx.New(errx.KindTTS, errors.New("narration text is empty"), "")
	}
	if voice == "" {
		voice = model.English.Info().Voice
	}

	cfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: voice},
			},
		},
	}
	resp, err := s.client.Models.GenerateContent(ctx, s.cfg.Model, genai.Text(text), cfg)
	if err != nil {
		s.log.Error().Err(err).Str("voice", voice).Msg("tts request failed")
		return "", errx.New(errx.KindTTS, err, "")
	}

	pcm := inlineAudio(resp)
	if len(pcm) == 0 {
		return "", errx.New(errx.KindTTS, errors.New("no audio in response"), "")
	}
	s.log.Debug().Str("voice", voice).Int("bytes", len(pcm)).Msg("tts audio received")
	return base64.StdEncoding.EncodeToString(pcm), nil
}

func inlineAudio(resp *genai.GenerateContentResponse) []byte {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return nil
	}
	for _, p := range resp.Candidates[0].Content.Parts {
		if p != nil && p.InlineData != nil && len(p.InlineData.Data) > 0 {
			return p.InlineData.Data
		}
	}
	return nil
}
