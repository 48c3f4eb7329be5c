package screen

import (
	"context"

	"github.com/leafdoc-core/server/internal/agent/chat"
	"github.com/leafdoc-core/server/internal/agent/model"
	"github.com/leafdoc-core/server/internal/agent/parsers"
	"github.com/leafdoc-core/server/internal/agent/speech"
)

type State int

const (
	Home State = iota
	Analyzing
	Results
	Chat
	History
	HistoryDetail
	About
)

var stateNames = map[State]string{
	Home:          "home",
	Analyzing:     "analyzing",
	Results:       "results",
	Chat:          "chat",
	History:       "history",
	HistoryDetail: "history_detail",
	About:         "about",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "unknown"
}

// showsResult reports whether a diagnosis is on screen in s.
func (s State) showsResult() bool {
	return s == Results || s == HistoryDetail
}

// Analyzer issues one diagnosis request and returns the raw model text.
type Analyzer interface {
	Analyze(ctx context.Context, req model.AnalysisRequest) (string, parsers.GroundingMetadata, error)
}

// Sharer hands a plain-text summary to the platform share target.
type Sharer interface {
	Share(ctx context.Context, title, text string) error
}

// Narrator is the part of the speech controller the screens drive.
type Narrator interface {
	Toggle(ctx context.Context, res model.AnalysisResult, lang model.Language) speech.State
	Stop()
	State() speech.State
	LastError() error
}

// ChatService opens and drives agronomist sessions.
type ChatService interface {
	Start(ctx context.Context, crop model.Crop, diagnosis model.AnalysisResult, lang model.Language) (*chat.Session, error)
	Send(ctx context.Context, sess *chat.Session, text string) string
}

// Snapshot is an immutable view of the controller for rendering.
type Snapshot struct {
	State    State
	Language model.Language

	// Home inputs.
	Crop     *model.Crop
	HasImage bool

	// Displayed diagnosis, set on Results, Chat and HistoryDetail.
	Result     *model.AnalysisResult
	ResultCrop *model.Crop

	Error      string
	Notice     string
	ShareError string
	SpeechErr  string

	Analyzing     bool
	Reanalyzing   bool
	SpeechState   speech.State
	ChatSending   bool
	Transcript    []model.ChatMessage
	HistoryItems  []model.ScanHistoryItem
	CachedResults int
}
