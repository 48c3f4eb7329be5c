package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Source is one playing narration. Stop is idempotent; Done closes when playback
// ends for any reason.
type Source interface {
	Stop()
	Done() <-chan struct{}
}

// Player starts playback of a decoded buffer.
type Player interface {
	Play(ctx context.Context, buf *Buffer) (Source, error)
}

// FilePlayer "plays" narration on a terminal by writing it to a WAV file and
// keeping the source active for the buffer's duration.
type FilePlayer struct {
	Dir string
	// OnFile is called with the path of each written file.
	OnFile func(path string)
}

func (p *FilePlayer) Play(ctx context.Context, buf *Buffer) (Source, error) {
	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create audio dir: %w", err)
	}
	path := filepath.Join(p.Dir, fmt.Sprintf("narration-%s.wav", uuid.NewString()[:8]))
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if err := buf.EncodeWAV(f); err != nil {
		return nil, err
	}
	if p.OnFile != nil {
		p.OnFile(path)
	}
	return NewTimedSource(ctx, buf.Duration()), nil
}

// TimedSource ends after a fixed duration, on Stop, or when ctx is done.
type TimedSource struct {
	once sync.Once
	done chan struct{}
}

func NewTimedSource(ctx context.Context, d time.Duration) *TimedSource {
	s := &TimedSource{done: make(chan struct{})}
	go func() {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
		case <-s.done:
		}
		s.Stop()
	}()
	return s
}

func (s *TimedSource) Stop() {
	s.once.Do(func() { close(s.done) })
}

func (s *TimedSource) Done() <-chan struct{} {
	return s.done
}
