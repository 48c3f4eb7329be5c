package chat

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leafdoc-core/server/internal/agent/i18n"
	domain "github.com/leafdoc-core/server/internal/agent/model"
)

type fakeChatModel struct {
	mu       sync.Mutex
	inputs   [][]*schema.Message
	replies  []string
	err      error
	active   int
	overlaps int
	delay    time.Duration
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	f.mu.Lock()
	f.active++
	if f.active > 1 {
		f.overlaps++
	}
	cp := make([]*schema.Message, len(input))
	copy(cp, input)
	f.inputs = append(f.inputs, cp)
	reply := ""
	if len(f.replies) > 0 {
		reply, f.replies = f.replies[0], f.replies[1:]
	}
	err := f.err
	f.mu.Unlock()

	time.Sleep(f.delay)

	f.mu.Lock()
	f.active--
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return &schema.Message{
		Role:         schema.Assistant,
		Content:      reply,
		ResponseMeta: &schema.ResponseMeta{Usage: &schema.TokenUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15}},
	}, nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := f.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func newTestService(t *testing.T, cm model.BaseChatModel, maxTurns int) *Service {
	t.Helper()
	svc, err := NewService(context.Background(), cm, domain.ChatModelConfig{Model: "gemini-2.5-flash", MaxTurns: maxTurns})
	require.NoError(t, err)
	return svc
}

func startSession(t *testing.T, svc *Service, lang domain.Language) *Session {
	t.Helper()
	tomato, ok := domain.CropByID("tomato")
	require.True(t, ok)
	sess, err := svc.Start(context.Background(), tomato, domain.AnalysisResult{DiseaseName: "Early Blight"}, lang)
	require.NoError(t, err)
	return sess
}

func TestSendSeedsSystemInstructionAndKeepsOrder(t *testing.T) {
	fake := &fakeChatModel{replies: []string{"Spray neem oil weekly.", "Yes, remove the lower leaves."}}
	svc := newTestService(t, fake, 20)
	sess := startSession(t, svc, domain.English)

	assert.Equal(t, "Spray neem oil weekly.", svc.Send(context.Background(), sess, "What can I spray?"))
	assert.Equal(t, "Yes, remove the lower leaves.", svc.Send(context.Background(), sess, "  Should I prune?  "))

	assert.Equal(t, []domain.ChatMessage{
		{Role: domain.RoleUser, Text: "What can I spray?"},
		{Role: domain.RoleAssistant, Text: "Spray neem oil weekly."},
		{Role: domain.RoleUser, Text: "Should I prune?"},
		{Role: domain.RoleAssistant, Text: "Yes, remove the lower leaves."},
	}, sess.Transcript())

	require.Len(t, fake.inputs, 2)
	second := fake.inputs[1]
	require.Len(t, second, 4)
	assert.Equal(t, schema.System, second[0].Role)
	assert.Contains(t, second[0].Content, "Early Blight")
	assert.Equal(t, "What can I spray?", second[1].Content)
	assert.Equal(t, schema.Assistant, second[2].Role)
	assert.Equal(t, "Should I prune?", second[3].Content)
}

func TestSendReturnsApologyOnFailure(t *testing.T) {
	fake := &fakeChatModel{err: errors.New("quota exceeded")}
	svc := newTestService(t, fake, 20)
	sess := startSession(t, svc, domain.Hindi)

	reply := svc.Send(context.Background(), sess, "क्या करूं?")
	assert.Equal(t, i18n.Text(domain.Hindi, i18n.MsgChatApology), reply)

	tr := sess.Transcript()
	require.Len(t, tr, 2)
	assert.Equal(t, reply, tr[1].Text)
	assert.NotContains(t, tr[1].Text, "quota")
}

func TestSendReturnsApologyOnEmptyReply(t *testing.T) {
	fake := &fakeChatModel{replies: []string{"   "}}
	svc := newTestService(t, fake, 20)
	sess := startSession(t, svc, domain.English)

	assert.Equal(t, i18n.Text(domain.English, i18n.MsgChatApology), svc.Send(context.Background(), sess, "hello"))
}

func TestSendIgnoresBlankInput(t *testing.T) {
	fake := &fakeChatModel{}
	svc := newTestService(t, fake, 20)
	sess := startSession(t, svc, domain.English)

	assert.Equal(t, "", svc.Send(context.Background(), sess, "   "))
	assert.Empty(t, sess.Transcript())
	assert.Empty(t, fake.inputs)
}

func TestSendSerializesTurns(t *testing.T) {
	fake := &fakeChatModel{replies: []string{"a", "b", "c", "d"}, delay: 20 * time.Millisecond}
	svc := newTestService(t, fake, 20)
	sess := startSession(t, svc, domain.English)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.Send(context.Background(), sess, "question")
		}()
	}
	wg.Wait()

	assert.Zero(t, fake.overlaps)
	tr := sess.Transcript()
	require.Len(t, tr, 8)
	for i, m := range tr {
		if i%2 == 0 {
			assert.Equal(t, domain.RoleUser, m.Role)
		} else {
			assert.Equal(t, domain.RoleAssistant, m.Role)
		}
	}
	assert.False(t, sess.Sending())
}

func TestSendBoundsHistoryWindow(t *testing.T) {
	fake := &fakeChatModel{replies: []string{"1", "2", "3"}}
	svc := newTestService(t, fake, 2)
	sess := startSession(t, svc, domain.English)

	svc.Send(context.Background(), sess, "q1")
	svc.Send(context.Background(), sess, "q2")
	svc.Send(context.Background(), sess, "q3")

	last := fake.inputs[2]
	// system + trailing window that starts on a user turn
	require.Len(t, last, 2)
	assert.Equal(t, schema.System, last[0].Role)
	assert.Equal(t, "q3", last[1].Content)
	assert.Len(t, sess.Transcript(), 6)
}

func TestTranscriptIsACopy(t *testing.T) {
	fake := &fakeChatModel{replies: []string{"ok"}}
	svc := newTestService(t, fake, 20)
	sess := startSession(t, svc, domain.English)
	svc.Send(context.Background(), sess, "hi")

	tr := sess.Transcript()
	tr[0].Text = "changed"
	assert.Equal(t, "hi", sess.Transcript()[0].Text)
}

func TestNewServiceRejectsNilModel(t *testing.T) {
	_, err := NewService(context.Background(), nil, domain.ChatModelConfig{})
	assert.Error(t, err)
}
