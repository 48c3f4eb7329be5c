package audio

import (
	"fmt"
	"io"
	"math"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// EncodeWAV writes the buffer as 16-bit PCM WAV.
func (b *Buffer) EncodeWAV(w io.WriteSeeker) error {
	if b == nil || len(b.Channels) == 0 {
		return fmt.Errorf("empty audio buffer")
	}
	channels := len(b.Channels)
	frames := b.Frames()

	// interleave channels into integer samples
	data := make([]int, 0, frames*channels)
	for i := 0; i < frames; i++ {
		for c := 0; c < channels; c++ {
			data = append(data, toInt16(b.Channels[c][i]))
		}
	}

	enc := wav.NewEncoder(w, b.SampleRate, BitDepth, channels, 1)
	if err := enc.Write(&goaudio.IntBuffer{
		Data:           data,
		Format:         &goaudio.Format{SampleRate: b.SampleRate, NumChannels: channels},
		SourceBitDepth: BitDepth,
	}); err != nil {
		return fmt.Errorf("failed to write to WAV encoder: %w", err)
	}
	return enc.Close()
}

func toInt16(f float32) int {
	v := math.Round(float64(f) * 32768)
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int(v)
}
