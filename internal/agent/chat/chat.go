// Package chat runs the follow-up agronomist conversation for one diagnosis.
package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	"github.com/leafdoc-core/server/internal/agent/i18n"
	domain "github.com/leafdoc-core/server/internal/agent/model"
	"github.com/leafdoc-core/server/internal/agent/observers"
	"github.com/leafdoc-core/server/internal/agent/prompts"
	logx "github.com/leafdoc-core/server/pkg/logger"
)

// Service owns the compiled chat chain shared by every session.
type Service struct {
	runnable compose.Runnable[[]*schema.Message, *schema.Message]
	modelID  string
	maxTurns int
	log      zerolog.Logger
}

// NewService compiles a single-node chain around cm.
func NewService(ctx context.Context, cm model.BaseChatModel, cfg domain.ChatModelConfig) (*Service, error) {
	if cm == nil {
		return nil, fmt.Errorf("chat model is nil")
	}
	chain := compose.NewChain[[]*schema.Message, *schema.Message]()
	chain.AppendChatModel(cm, compose.WithNodeName("agronomist"))
	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("compile chat chain: %w", err)
	}
	maxTurns := cfg.MaxTurns
	if maxTurns <= 0 {
		maxTurns = 20
	}
	return &Service{
		runnable: runnable,
		modelID:  cfg.Model,
		maxTurns: maxTurns,
		log:      logx.Component("chat"),
	}, nil
}

// Session is bound to one (crop, diagnosis, language) triple. Create a new one
// when any of them changes.
type Session struct {
	Crop      domain.Crop
	Diagnosis domain.AnalysisResult
	Language  domain.Language

	system string

	turn    sync.Mutex // one outstanding Send
	mu      sync.RWMutex
	history []domain.ChatMessage
	sending atomic.Bool
}

// Start seeds a session with the instruction binding it to crop and diagnosis.
func (s *Service) Start(ctx context.Context, crop domain.Crop, diagnosis domain.AnalysisResult, lang domain.Language) (*Session, error) {
	system, err := prompts.RenderChatSystem(ctx, crop, diagnosis, lang)
	if err != nil {
		return nil, err
	}
	s.log.Debug().Str("crop", crop.ID).Str("lang", lang.String()).Msg("chat session started")
	return &Session{
		Crop:      crop,
		Diagnosis: diagnosis,
		Language:  lang,
		system:    system,
		history:   []domain.ChatMessage{},
	}, nil
}

// Send appends a user turn and the assistant reply. Calls on the same session
// are serialized. Provider failures and empty replies produce the localized
// apology; the returned text is always what was appended to the transcript.
func (s *Service) Send(ctx context.Context, sess *Session, text string) string {
	text = strings.TrimSpace(text)
	if sess == nil || text == "" {
		return ""
	}

	sess.turn.Lock()
	defer sess.turn.Unlock()
	sess.sending.Store(true)
	defer sess.sending.Store(false)

	sess.append(domain.ChatMessage{Role: domain.RoleUser, Text: text})
	input := s.buildInput(sess)

	reply := ""
	out, err := s.runnable.Invoke(ctx, input, compose.WithCallbacks(observers.NewAllCallbacks()))
	switch {
	case err != nil:
		s.log.Error().Err(err).Str("crop", sess.Crop.ID).Msg("chat turn failed")
	case out == nil || strings.TrimSpace(out.Content) == "":
		s.log.Warn().Str("crop", sess.Crop.ID).Msg("chat reply empty")
	default:
		reply = strings.TrimSpace(out.Content)
		s.logUsage(out)
	}
	if reply == "" {
		reply = i18n.Text(sess.Language, i18n.MsgChatApology)
	}

	sess.append(domain.ChatMessage{Role: domain.RoleAssistant, Text: reply})
	return reply
}

func (s *Service) buildInput(sess *Session) []*schema.Message {
	sess.mu.RLock()
	msgs := make([]*schema.Message, 0, len(sess.history))
	for _, m := range sess.history {
		switch m.Role {
		case domain.RoleUser:
			msgs = append(msgs, schema.UserMessage(m.Text))
		case domain.RoleAssistant:
			msgs = append(msgs, schema.AssistantMessage(m.Text, nil))
		}
	}
	sess.mu.RUnlock()

	recent := trimTail(msgs, s.maxTurns)
	return append([]*schema.Message{schema.SystemMessage(sess.system)}, recent...)
}

func (s *Service) logUsage(out *schema.Message) {
	if out.ResponseMeta == nil || out.ResponseMeta.Usage == nil {
		return
	}
	in, outCost, total := domain.ComputeCost(out.ResponseMeta.Usage, domain.ResolvePricing(s.modelID))
	s.log.Debug().
		Str("model", s.modelID).
		Int("prompt_tokens", out.ResponseMeta.Usage.PromptTokens).
		Int("completion_tokens", out.ResponseMeta.Usage.CompletionTokens).
		Float64("input_cost_usd", in).
		Float64("output_cost_usd", outCost).
		Float64("total_cost_usd", total).
		Msg("chat usage")
}

// Transcript returns a copy of the ordered messages.
func (sess *Session) Transcript() []domain.ChatMessage {
	sess.mu.RLock()
	defer sess.mu.RUnlock()
	out := make([]domain.ChatMessage, len(sess.history))
	copy(out, sess.history)
	return out
}

// Sending reports whether a turn is outstanding.
func (sess *Session) Sending() bool {
	return sess.sending.Load()
}

func (sess *Session) append(m domain.ChatMessage) {
	sess.mu.Lock()
	sess.history = append(sess.history, m)
	sess.mu.Unlock()
}

// trimTail keeps the last maxTurns messages and never starts on an assistant turn.
func trimTail(messages []*schema.Message, maxTurns int) []*schema.Message {
	source := messages
	if len(source) > maxTurns {
		source = source[len(source)-maxTurns:]
	}
	for len(source) > 0 && source[0].Role != schema.User {
		source = source[1:]
	}
	result := make([]*schema.Message, len(source))
	copy(result, source)
	return result
}
