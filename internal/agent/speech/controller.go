// Package speech controls narrated playback of a diagnosis.
package speech

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/leafdoc-core/server/internal/agent/audio"
	"github.com/leafdoc-core/server/internal/agent/model"
	errx "github.com/leafdoc-core/server/internal/core/error"
	logx "github.com/leafdoc-core/server/pkg/logger"
)

// Synthesizer turns narration text into base64 PCM16 mono 24 kHz audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice string) (string, error)
}

type State int

const (
	Idle State = iota
	Loading
	Playing
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Playing:
		return "playing"
	default:
		return "idle"
	}
}

// Controller guarantees at most one narration source at a time. Every start
// takes a new token; a synthesis that resolves under an old token is dropped.
type Controller struct {
	synth    Synthesizer
	player   audio.Player
	maxChars int
	log      zerolog.Logger

	mu      sync.Mutex
	state   State
	token   uint64
	cancel  context.CancelFunc
	source  audio.Source
	lastErr error

	wg sync.WaitGroup
}

func NewController(synth Synthesizer, player audio.Player, maxChars int) *Controller {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	return &Controller{
		synth:    synth,
		player:   player,
		maxChars: maxChars,
		log:      logx.Component("speech"),
	}
}

// Toggle starts narration when idle and stops it otherwise. It returns the
// state right after the call.
func (c *Controller) Toggle(ctx context.Context, res model.AnalysisResult, lang model.Language) State {
	c.mu.Lock()
	busy := c.state != Idle
	c.mu.Unlock()
	if busy {
		c.Stop()
		return Idle
	}
	return c.Start(ctx, res, lang)
}

// Start stops whatever is active and begins narrating res.
func (c *Controller) Start(ctx context.Context, res model.AnalysisResult, lang model.Language) State {
	text := NarrationText(res, lang, c.maxChars)
	voice := lang.Info().Voice

	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
	c.lastErr = nil
	if text == "" {
		c.lastErr = errx.New(errx.KindTTS, fmt.Errorf("nothing to narrate"), "")
		return Idle
	}

	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.state = Loading
	tok := c.token

	c.wg.Add(1)
	go c.run(runCtx, tok, text, voice)
	return Loading
}

func (c *Controller) run(ctx context.Context, tok uint64, text, voice string) {
	defer c.wg.Done()

	buf, err := c.synthesize(ctx, text, voice)

	c.mu.Lock()
	if c.token != tok {
		c.mu.Unlock()
		c.log.Debug().Uint64("token", tok).Msg("discarding stale narration")
		return
	}
	if err != nil {
		c.failLocked(err)
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	// Play may write to disk, so it runs unlocked.
	src, err := c.player.Play(ctx, buf)

	c.mu.Lock()
	if c.token != tok {
		c.mu.Unlock()
		if src != nil {
			src.Stop()
		}
		c.log.Debug().Uint64("token", tok).Msg("stopping narration started after cancel")
		return
	}
	if err != nil {
		c.failLocked(err)
		c.mu.Unlock()
		return
	}
	c.source = src
	c.state = Playing
	c.mu.Unlock()

	select {
	case <-src.Done():
	case <-ctx.Done():
		src.Stop()
	}

	c.mu.Lock()
	if c.token == tok {
		c.source = nil
		c.state = Idle
		if c.cancel != nil {
			c.cancel()
			c.cancel = nil
		}
	}
	c.mu.Unlock()
}

func (c *Controller) synthesize(ctx context.Context, text, voice string) (*audio.Buffer, error) {
	b64, err := c.synth.Synthesize(ctx, text, voice)
	if err != nil {
		return nil, err
	}
	buf, err := audio.DecodeBase64PCM(b64)
	if err != nil {
		return nil, err
	}
	if buf.Frames() == 0 {
		return nil, fmt.Errorf("synthesized audio is empty")
	}
	return buf, nil
}

func (c *Controller) failLocked(err error) {
	c.lastErr = errx.Wrap(errx.KindTTS, err)
	c.state = Idle
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.log.Error().Err(err).Msg("narration failed")
}

// Stop ends any loading or playing narration. Safe to call when idle.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

func (c *Controller) stopLocked() {
	c.token++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.source != nil {
		c.source.Stop()
		c.source = nil
	}
	c.state = Idle
}

// Close stops playback and waits for background work to finish.
func (c *Controller) Close() {
	c.Stop()
	c.wg.Wait()
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LastError is the TTS failure of the most recent start, if any.
func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}
