package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/leafdoc-core/server/internal/agent/model"
	"github.com/leafdoc-core/server/internal/agent/parsers"
	"github.com/leafdoc-core/server/internal/agent/prompts"
	errx "github.com/leafdoc-core/server/internal/core/error"
	logx "github.com/leafdoc-core/server/pkg/logger"
)

const defaultBackoff = 300 * time.Millisecond

// Analyzer sends a leaf photo to Gemini and returns the raw answer text with
// its grounding metadata. Parsing is left to the caller.
type Analyzer struct {
	client  *genai.Client
	clientE error
	cfg     model.AnalysisModelConfig
	backoff time.Duration
	log     zerolog.Logger
}

// NewAnalyzer builds an analyzer. A nil client with a non-nil clientErr yields
// an analyzer that fails every call with that error, so a missing key surfaces
// on first use instead of blocking startup.
func NewAnalyzer(client *genai.Client, clientErr error, cfg model.AnalysisModelConfig) *Analyzer {
	if client == nil && clientErr == nil {
		clientErr = errx.New(errx.KindConfiguration, errors.New("gemini client is nil"), "")
	}
	return &Analyzer{
		client:  client,
		clientE: clientErr,
		cfg:     cfg,
		backoff: defaultBackoff,
		log:     logx.Component("analyzer"),
	}
}

func (a *Analyzer) Analyze(ctx context.Context, req model.AnalysisRequest) (string, parsers.GroundingMetadata, error) {
	var meta parsers.GroundingMetadata
	if a.clientE != nil {
		return "", meta, errx.Wrap(errx.KindConfiguration, a.clientE)
	}
	if len(req.Image) == 0 {
		return "", meta, errx.New(errx.KindAnalysis, errors.New("image is empty"), "")
	}

	instruction, err := prompts.RenderAnalysisInstruction(ctx, req.Crop, req.Language, req.Location)
	if err != nil {
		return "", meta, errx.New(errx.KindAnalysis, err, "")
	}
	mime := req.MIMEType
	if mime == "" {
		mime = "image/jpeg"
	}
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(req.Image, mime),
			genai.NewPartFromText(instruction),
		}, genai.RoleUser),
	}

	gcfg := &genai.GenerateContentConfig{Temperature: genai.Ptr(a.cfg.Temperature)}
	if a.cfg.Grounding {
		gcfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	var resp *genai.GenerateContentResponse
	start := time.Now()
	err = withRetry(ctx, a.cfg.MaxRetries, a.backoff, func(ctx context.Context) error {
		var callErr error
		resp, callErr = a.client.Models.GenerateContent(ctx, a.cfg.Model, contents, gcfg)
		return callErr
	})
	if err != nil {
		a.log.Error().Err(err).Str("crop", req.Crop.ID).Str("lang", req.Language.String()).Msg("analysis request failed")
		return "", meta, classify(err, errx.KindAnalysis)
	}

	if reason := blockReason(resp); reason != "" {
		return "", meta, errx.New(errx.KindAnalysis, errors.New(reason), "")
	}
	text := responseText(resp)
	if text == "" {
		return "", meta, errx.New(errx.KindAnalysis, errors.New("empty response"), "")
	}

	meta = groundingOf(resp.Candidates[0])
	a.logUsage(resp, time.Since(start))
	return text, meta, nil
}

// groundingOf converts the SDK metadata through its JSON form so only the
// fields the parser understands are carried over.
func groundingOf(c *genai.Candidate) parsers.GroundingMetadata {
	var meta parsers.GroundingMetadata
	if c == nil || c.GroundingMetadata == nil {
		return meta
	}
	raw, err := json.Marshal(c.GroundingMetadata)
	if err != nil {
		return meta
	}
	if err := json.Unmarshal(raw, &meta); err != nil {
		logx.Warn().Err(err).Msg("grounding metadata ignored")
		return parsers.GroundingMetadata{}
	}
	return meta
}

func (a *Analyzer) logUsage(resp *genai.GenerateContentResponse, took time.Duration) {
	ev := a.log.Debug().Str("model", a.cfg.Model).Dur("took", took)
	if u := usageOf(resp); u != nil {
		in, out, total := model.ComputeCost(u, model.ResolvePricing(a.cfg.Model))
		ev = ev.Int("prompt_tokens", u.PromptTokens).
			Int("completion_tokens", u.CompletionTokens).
			Float64("input_cost_usd", in).
			Float64("output_cost_usd", out).
			Float64("total_cost_usd", total)
	}
	ev.Msg("analysis usage")
}

func usageOf(resp *genai.GenerateContentResponse) *schema.TokenUsage {
	if resp == nil || resp.UsageMetadata == nil {
		return nil
	}
	u := resp.UsageMetadata
	return &schema.TokenUsage{
		PromptTokens:     int(u.PromptTokenCount),
		CompletionTokens: int(u.CandidatesTokenCount),
		TotalTokens:      int(u.TotalTokenCount),
	}
}
