// Package gemini adapts the Gemini API to the analysis, speech and chat ports.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	errx "github.com/leafdoc-core/server/internal/core/error"
	logx "github.com/leafdoc-core/server/pkg/logger"
)

// ClientConfig holds the connection settings shared by all adapters.
type ClientConfig struct {
	APIKey  string
	BaseURL string
}

// NewClient creates a Gemini API client. A missing key is a configuration
// error, reported at call time by the adapters rather than at startup.
func NewClient(ctx context.Context, cfg ClientConfig) (*genai.Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errx.New(errx.KindConfiguration, errors.New("GEMINI_API_KEY is empty"), "")
	}
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, errx.New(errx.KindConfiguration, fmt.Errorf("error creating Gemini client: %w", err), "")
	}
	return client, nil
}

// retryable reports whether err is worth another attempt: transport failures,
// rate limiting and 5xx responses.
func retryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if code, ok := apiStatus(err); ok {
		return code == http.StatusTooManyRequests || code >= 500
	}
	return true
}

func apiStatus(err error) (int, bool) {
	var v genai.APIError
	if errors.As(err, &v) {
		return v.Code, true
	}
	var p *genai.APIError
	if errors.As(err, &p) && p != nil {
		return p.Code, true
	}
	return 0, false
}

// classify maps a provider error onto the error taxonomy.
func classify(err error, fallback errx.Kind) error {
	if code, ok := apiStatus(err); ok && (code == http.StatusUnauthorized || code == http.StatusForbidden) {
		return errx.New(errx.KindConfiguration, err, "")
	}
	return errx.Wrap(fallback, err)
}

// withRetry runs fn up to attempts times with linear backoff.
func withRetry(ctx context.Context, attempts int, backoff time.Duration, fn func(context.Context) error) error {
	if attempts <= 0 {
		attempts = 1
	}
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil || !retryable(lastErr) || attempt == attempts {
			return lastErr
		}
		logx.Warn().Err(lastErr).Int("attempt", attempt).Msg("gemini call failed, retrying")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * backoff):
		}
	}
	return lastErr
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	c := resp.Candidates[0]
	if c == nil || c.Content == nil {
		return ""
	}
	var b strings.Builder
	for _, p := range c.Content.Parts {
		if p == nil || p.Thought {
			continue
		}
		b.WriteString(p.Text)
	}
	return strings.TrimSpace(b.String())
}

// blockReason returns why the provider refused to answer, if it did.
func blockReason(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return "empty response"
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "prompt blocked: " + string(resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return "no candidates"
	}
	switch fr := resp.Candidates[0].FinishReason; fr {
	case genai.FinishReasonSafety, genai.FinishReasonProhibitedContent, genai.FinishReasonBlocklist, genai.FinishReasonSPII:
		return "response blocked: " + string(fr)
	}
	return ""
}
