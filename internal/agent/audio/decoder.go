// Package audio turns the raw PCM16 narration returned by the TTS endpoint into
// playable buffers and plays them.
package audio

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"strings"
	"time"
)

// Fixed format of the TTS output.
const (
	SampleRate  = 24000
	NumChannels = 1
	BitDepth    = 16
)

// Buffer holds decoded samples in [-1.0, 1.0], one slice per channel.
type Buffer struct {
	SampleRate int
	Channels   [][]float32
}

// Frames returns the number of samples per channel.
func (b *Buffer) Frames() int {
	if b == nil || len(b.Channels) == 0 {
		return 0
	}
	return len(b.Channels[0])
}

// Duration is the playback length of the buffer.
func (b *Buffer) Duration() time.Duration {
	if b == nil || b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(b.Frames()) * time.Second / time.Duration(b.SampleRate)
}

// DecodeBase64PCM decodes base64 signed 16-bit little-endian mono PCM at 24 kHz.
func DecodeBase64PCM(data string) (*Buffer, error) {
	data = strings.TrimSpace(data)
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		// some providers drop the padding
		var rawErr error
		if raw, rawErr = base64.RawStdEncoding.DecodeString(strings.TrimRight(data, "=")); rawErr != nil {
			return nil, fmt.Errorf("decode base64 audio: %w", err)
		}
	}
	return DecodePCM(raw), nil
}

// DecodePCM reinterprets raw bytes as int16 samples. A trailing odd byte is dropped.
func DecodePCM(raw []byte) *Buffer {
	n := len(raw) / 2
	samples := make([]float32, n)
	for i := 0; i < n; i++ {
		s := int16(binary.LittleEndian.Uint16(raw[2*i:]))
		samples[i] = float32(s) / 32768
	}
	return &Buffer{SampleRate: SampleRate, Channels: [][]float32{samples}}
}
