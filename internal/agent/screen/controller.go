// Package screen drives the diagnosis workflow: crop and photo selection,
// analysis, results, chat, history and the language-change re-analysis.
package screen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/leafdoc-core/server/internal/agent/cache"
	"github.com/leafdoc-core/server/internal/agent/chat"
	"github.com/leafdoc-core/server/internal/agent/geo"
	"github.com/leafdoc-core/server/internal/agent/i18n"
	"github.com/leafdoc-core/server/internal/agent/model"
	"github.com/leafdoc-core/server/internal/agent/parsers"
	errx "github.com/leafdoc-core/server/internal/core/error"
	logx "github.com/leafdoc-core/server/pkg/logger"
)

var (
	ErrMissingCrop  = errors.New("screen: crop not selected")
	ErrMissingImage = errors.New("screen: image not selected")
	ErrSuperseded   = errors.New("screen: result superseded by navigation")
	ErrNotAllowed   = errors.New("screen: action not available here")
	ErrNotFound     = errors.New("screen: history item not found")
)

// Config wires the controller to its collaborators. Analyzer, Cache and
// History are required; the rest are optional.
type Config struct {
	Analyzer      Analyzer
	Cache         *cache.Results
	History       model.HistoryRepository
	Speech        Narrator
	Chat          ChatService
	Locator       geo.Provider
	LocateTimeout time.Duration
	Sharer        Sharer
	Language      model.Language
	Now           func() time.Time
	NewID         func() string
}

// display is the diagnosis currently on screen.
type display struct {
	crop     model.Crop
	image    []byte
	mime     string
	imageKey string
	location *model.Location
	result   model.AnalysisResult
}

type Controller struct {
	cfg Config
	log zerolog.Logger

	mu          sync.Mutex
	state       State
	lang        model.Language
	gen         uint64
	analyzing   bool
	reanalyzing bool

	crop  *model.Crop
	image []byte
	mime  string

	current    *display
	chatReturn State
	session    *chat.Session
	items      []model.ScanHistoryItem

	errMsg   string
	notice   string
	shareErr string

	// recorded holds image|crop pairs already written to history.
	recorded map[string]bool
}

func NewController(cfg Config) (*Controller, error) {
	if cfg.Analyzer == nil || cfg.Cache == nil || cfg.History == nil {
		return nil, fmt.Errorf("screen: analyzer, cache and history are required")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}
	lang := cfg.Language
	if !lang.Valid() {
		lang = model.English
	}
	return &Controller{
		cfg:      cfg,
		log:      logx.Component("screen"),
		state:    Home,
		lang:     lang,
		recorded: map[string]bool{},
	}, nil
}

// ================ Home ================

func (c *Controller) SelectCrop(crop model.Crop) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Home {
		return ErrNotAllowed
	}
	c.crop = &crop
	c.errMsg = ""
	return nil
}

func (c *Controller) SelectImage(image []byte, mime string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Home {
		return ErrNotAllowed
	}
	c.image = append([]byte(nil), image...)
	c.mime = mime
	c.errMsg = ""
	return nil
}

// Submit analyzes the selected photo. It blocks until the analysis resolves;
// the controller shows Analyzing meanwhile, and navigation from another
// goroutine makes the outcome stale (ErrSuperseded).
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.state != Home {
		c.mu.Unlock()
		return ErrNotAllowed
	}
	switch {
	case c.crop == nil:
		c.errMsg = i18n.Text(c.lang, i18n.MsgMissingCrop)
		c.mu.Unlock()
		return ErrMissingCrop
	case len(c.image) == 0:
		c.errMsg = i18n.Text(c.lang, i18n.MsgMissingImage)
		c.mu.Unlock()
		return ErrMissingImage
	}
	c.gen++
	tok := c.gen
	c.state = Analyzing
	c.analyzing = true
	c.errMsg, c.notice, c.shareErr = "", "", ""
	d := &display{
		crop:     *c.crop,
		image:    c.image,
		mime:     c.mime,
		imageKey: cache.ImageKeyOf(c.image),
	}
	lang := c.lang
	c.mu.Unlock()

	d.location = geo.BestEffort(ctx, c.cfg.Locator, c.cfg.LocateTimeout)
	res, err := c.resolve(ctx, d, lang)

	c.mu.Lock()
	// The preference may have changed while the request was in flight.
	for err == nil && c.gen == tok && lang != c.lang {
		lang = c.lang
		c.mu.Unlock()
		res, err = c.resolve(ctx, d, lang)
		c.mu.Lock()
	}
	if c.gen != tok {
		c.mu.Unlock()
		c.log.Debug().Str("crop", d.crop.ID).Msg("discarding stale analysis")
		return ErrSuperseded
	}
	c.analyzing = false
	if err != nil {
		c.state = Home
		c.errMsg = failureMessage(c.lang, res, err)
		if errx.IsKind(err, errx.KindCropMismatch) {
			c.image, c.mime = nil, ""
		}
		c.mu.Unlock()
		return err
	}
	d.result = res
	c.current = d
	c.state = Results
	c.crop, c.image, c.mime = nil, nil, ""
	recordKey := d.imageKey + "|" + d.crop.ID
	isNew := !c.recorded[recordKey]
	c.recorded[recordKey] = true
	c.mu.Unlock()

	if isNew {
		c.appendHistory(ctx, d)
	}
	return nil
}

// resolve returns the cached result for (image, crop, lang) or asks the
// analyzer. Successful, matching results are cached even if the caller has
// since navigated away.
func (c *Controller) resolve(ctx context.Context, d *display, lang model.Language) (model.AnalysisResult, error) {
	key := cache.Key{ImageKey: d.imageKey, CropID: d.crop.ID, Language: lang}
	if res, ok := c.cfg.Cache.Get(key); ok {
		c.log.Debug().Str("crop", d.crop.ID).Str("lang", lang.String()).Msg("analysis cache hit")
		return res, nil
	}

	text, meta, err := c.cfg.Analyzer.Analyze(ctx, model.AnalysisRequest{
		Image:    d.image,
		MIMEType: d.mime,
		Crop:     d.crop,
		Language: lang,
		Location: d.location,
	})
	if err != nil {
		return model.AnalysisResult{}, err
	}
	parsed, err := parsers.ParseDiagnosis(text, &meta)
	if err != nil {
		return model.AnalysisResult{}, err
	}
	parsed.Language = lang
	if parsed.CropMismatch {
		return *parsed, errx.New(errx.KindCropMismatch, errors.New(parsed.MismatchReason), "")
	}
	c.cfg.Cache.Put(key, *parsed)
	return *parsed, nil
}

func (c *Controller) appendHistory(ctx context.Context, d *display) {
	item := model.ScanHistoryItem{
		ID:        c.cfg.NewID(),
		Timestamp: c.cfg.Now(),
		Crop:      d.crop,
		Image:     d.image,
		MIMEType:  d.mime,
		Result:    d.result,
		Location:  d.location,
	}
	if err := c.cfg.History.Append(ctx, item); err != nil {
		c.log.Warn().Err(err).Str("crop", d.crop.ID).Msg("history append failed")
		c.mu.Lock()
		c.notice = i18n.Text(c.lang, i18n.MsgStorage)
		c.mu.Unlock()
	}
}

func failureMessage(lang model.Language, res model.AnalysisResult, err error) string {
	msg := i18n.ErrorText(lang, err)
	if errx.IsKind(err, errx.KindCropMismatch) {
		if reason := strings.TrimSpace(res.MismatchReason); reason != "" {
			msg += " " + reason
		}
	}
	return msg
}

// ================ Language ================

// SetLanguage changes the display language. When a diagnosis in another
// language is showing, speech stops, any chat session is dropped and the same
// photo is analyzed again (cache first). Re-analysis never touches history;
// on failure the previous result stays on screen.
func (c *Controller) SetLanguage(ctx context.Context, lang model.Language) error {
	if !lang.Valid() {
		return fmt.Errorf("screen: unsupported language %q", lang)
	}
	c.mu.Lock()
	// A repeated choice is a no-op unless a failed re-analysis left the result
	// in another language.
	if lang == c.lang && (c.reanalyzing || c.current == nil || c.current.result.Language == lang) {
		c.mu.Unlock()
		return nil
	}
	c.lang = lang
	if c.state == Chat {
		c.session = nil
		c.state = c.chatReturn
	}
	if !c.state.showsResult() || c.current == nil {
		c.mu.Unlock()
		return nil
	}
	// Supersede any re-analysis started for an earlier preference.
	c.gen++
	tok := c.gen
	c.reanalyzing = false
	c.errMsg, c.shareErr = "", ""
	if c.current.result.Language == lang {
		c.mu.Unlock()
		c.stopSpeech()
		return nil
	}
	c.reanalyzing = true
	d := *c.current
	c.mu.Unlock()

	c.stopSpeech()
	res, err := c.resolve(ctx, &d, lang)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != tok || c.lang != lang {
		return ErrSuperseded
	}
	c.reanalyzing = false
	if err != nil {
		c.errMsg = failureMessage(lang, res, err)
		return err
	}
	d.result = res
	c.current = &d
	return nil
}

func (c *Controller) Language() model.Language {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lang
}

// ================ Navigation ================

// Home returns to crop selection and clears all transient state.
func (c *Controller) Home() {
	c.mu.Lock()
	c.resetLocked()
	c.mu.Unlock()
	c.stopSpeech()
}

func (c *Controller) resetLocked() {
	c.gen++
	c.state = Home
	c.analyzing, c.reanalyzing = false, false
	c.crop, c.image, c.mime = nil, nil, ""
	c.current = nil
	c.session = nil
	c.items = nil
	c.errMsg, c.notice, c.shareErr = "", "", ""
}

// Back moves one step toward Home. Leaving Chat returns to the screen that
// opened it.
func (c *Controller) Back() {
	c.mu.Lock()
	if c.state == Chat {
		c.session = nil
		c.state = c.chatReturn
		c.mu.Unlock()
		return
	}
	if c.state == Home {
		c.mu.Unlock()
		return
	}
	c.resetLocked()
	c.mu.Unlock()
	c.stopSpeech()
}

func (c *Controller) OpenAbout() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Home {
		return ErrNotAllowed
	}
	c.state = About
	c.errMsg = ""
	return nil
}

// OpenHistory lists stored scans. A failed read shows an empty list.
func (c *Controller) OpenHistory(ctx context.Context) error {
	c.mu.Lock()
	if c.state != Home {
		c.mu.Unlock()
		return ErrNotAllowed
	}
	c.state = History
	c.errMsg = ""
	c.mu.Unlock()

	items, err := c.cfg.History.Load(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("history load failed")
		items = nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == History {
		c.items = items
	}
	return nil
}

// OpenHistoryItem shows a stored scan without any network call.
func (c *Controller) OpenHistoryItem(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != History {
		return ErrNotAllowed
	}
	var item *model.ScanHistoryItem
	for i := range c.items {
		if c.items[i].ID == id {
			item = &c.items[i]
			break
		}
	}
	if item == nil {
		c.errMsg = i18n.Text(c.lang, i18n.MsgHistoryMissing)
		return ErrNotFound
	}

	d := &display{
		crop:     item.Crop,
		image:    item.Image,
		mime:     item.MIMEType,
		imageKey: cache.ImageKeyOf(item.Image),
		location: item.Location,
		result:   item.Result,
	}
	if d.result.Language.Valid() {
		c.cfg.Cache.Put(cache.Key{ImageKey: d.imageKey, CropID: d.crop.ID, Language: d.result.Language}, d.result)
	}
	c.recorded[d.imageKey+"|"+d.crop.ID] = true
	c.current = d
	c.state = HistoryDetail
	c.errMsg = ""
	return nil
}

// ================ Chat ================

// OpenChat starts a session bound to the displayed crop, diagnosis and language.
func (c *Controller) OpenChat(ctx context.Context) error {
	c.mu.Lock()
	if c.cfg.Chat == nil || !c.state.showsResult() || c.current == nil || c.reanalyzing {
		c.mu.Unlock()
		return ErrNotAllowed
	}
	d := *c.current
	lang := c.lang
	tok := c.gen
	c.mu.Unlock()

	sess, err := c.cfg.Chat.Start(ctx, d.crop, d.result, lang)
	if err != nil {
		c.log.Warn().Err(err).Str("crop", d.crop.ID).Msg("chat start failed")
		err = errx.Wrap(errx.KindChat, err)
		c.mu.Lock()
		if c.gen == tok {
			c.errMsg = i18n.ErrorText(lang, err)
		}
		c.mu.Unlock()
		return err
	}

	c.mu.Lock()
	if c.gen != tok || !c.state.showsResult() {
		c.mu.Unlock()
		return ErrSuperseded
	}
	c.chatReturn = c.state
	c.session = sess
	c.state = Chat
	c.errMsg = ""
	c.mu.Unlock()

	c.stopSpeech()
	return nil
}

// SendChat sends one turn in the open session and returns the reply.
func (c *Controller) SendChat(ctx context.Context, text string) (string, error) {
	c.mu.Lock()
	sess := c.session
	c.mu.Unlock()
	if sess == nil {
		return "", ErrNotAllowed
	}
	return c.cfg.Chat.Send(ctx, sess, text), nil
}

// ================ Speech & share ================

// ToggleSpeech starts or stops narration of the displayed diagnosis.
func (c *Controller) ToggleSpeech(ctx context.Context) error {
	c.mu.Lock()
	if c.cfg.Speech == nil || !c.state.showsResult() || c.current == nil {
		c.mu.Unlock()
		return ErrNotAllowed
	}
	res := c.current.result
	c.mu.Unlock()

	lang := res.Language
	if !lang.Valid() {
		lang = c.Language()
	}
	c.cfg.Speech.Toggle(ctx, res, lang)
	return nil
}

func (c *Controller) stopSpeech() {
	if c.cfg.Speech != nil {
		c.cfg.Speech.Stop()
	}
}

// Share sends a text summary of the displayed diagnosis. Failure is only
// reported to the share control.
func (c *Controller) Share(ctx context.Context) error {
	c.mu.Lock()
	if c.cfg.Sharer == nil || c.current == nil || !(c.state.showsResult() || c.state == Chat) {
		c.mu.Unlock()
		return ErrNotAllowed
	}
	d := *c.current
	lang := c.lang
	c.shareErr = ""
	c.mu.Unlock()

	title, text := ShareText(d.crop, d.result)
	if err := c.cfg.Sharer.Share(ctx, title, text); err != nil {
		c.log.Warn().Err(err).Msg("share failed")
		c.mu.Lock()
		c.shareErr = i18n.Text(lang, i18n.MsgShare)
		c.mu.Unlock()
		return errx.Wrap(errx.KindShare, err)
	}
	return nil
}

// ================ View ================

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	s := Snapshot{
		State:         c.state,
		Language:      c.lang,
		HasImage:      len(c.image) > 0,
		Error:         c.errMsg,
		Notice:        c.notice,
		ShareError:    c.shareErr,
		Analyzing:     c.analyzing,
		Reanalyzing:   c.reanalyzing,
		CachedResults: c.cfg.Cache.Len(),
	}
	if c.crop != nil {
		crop := *c.crop
		s.Crop = &crop
	}
	if c.current != nil {
		res := c.current.result
		crop := c.current.crop
		s.Result = &res
		s.ResultCrop = &crop
	}
	if len(c.items) > 0 {
		s.HistoryItems = append([]model.ScanHistoryItem(nil), c.items...)
	}
	sess := c.session
	c.mu.Unlock()

	if sess != nil {
		s.Transcript = sess.Transcript()
		s.ChatSending = sess.Sending()
	}
	if c.cfg.Speech != nil {
		s.SpeechState = c.cfg.Speech.State()
		if err := c.cfg.Speech.LastError(); err != nil {
			s.SpeechErr = i18n.ErrorText(s.Language, err)
		}
	}
	return s
}
