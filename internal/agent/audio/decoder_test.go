package audio

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePCM(samples ...int16) []byte {
	raw := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(raw[2*i:], uint16(s))
	}
	return raw
}

func TestDecodeBase64PCMRoundTrip(t *testing.T) {
	b64 := base64.StdEncoding.EncodeToString(encodePCM(0, 16384, -16384, 32767, -32768))

	buf, err := DecodeBase64PCM(b64)
	require.NoError(t, err)

	assert.Equal(t, SampleRate, buf.SampleRate)
	require.Len(t, buf.Channels, NumChannels)
	want := []float32{0, 0.5, -0.5, 0.99997, -1}
	require.Len(t, buf.Channels[0], len(want))
	for i, w := range want {
		assert.InDelta(t, w, buf.Channels[0][i], 1e-4, "sample %d", i)
	}
}

func TestDecodeOddLengthDropsTrailingByte(t *testing.T) {
	raw := append(encodePCM(16384, -16384), 0x7f)

	buf, err := DecodeBase64PCM(base64.StdEncoding.EncodeToString(raw))
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, -0.5}, buf.Channels[0])

	single := DecodePCM([]byte{0x01})
	assert.Equal(t, 0, single.Frames())
}

func TestDecodeBase64PCMWithoutPadding(t *testing.T) {
	b64 := base64.RawStdEncoding.EncodeToString(encodePCM(16384))
	buf, err := DecodeBase64PCM(b64)
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5}, buf.Channels[0])
}

func TestDecodeBase64PCMRejectsGarbage(t *testing.T) {
	_, err := DecodeBase64PCM("not base64 at all!")
	assert.Error(t, err)
}

func TestDecodeIsDeterministic(t *testing.T) {
	raw := encodePCM(1, 2, 3, -4)
	assert.Equal(t, DecodePCM(raw), DecodePCM(raw))
}

func TestBufferDuration(t *testing.T) {
	buf := DecodePCM(make([]byte, 2*SampleRate/2))
	assert.Equal(t, 500*time.Millisecond, buf.Duration())
	assert.Zero(t, (*Buffer)(nil).Duration())
}

func TestEncodeWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	buf := DecodePCM(encodePCM(0, 16384, -16384, 32767))
	require.NoError(t, buf.EncodeWAV(f))
	require.NoError(t, f.Close())

	r, err := os.Open(path)
	require.NoError(t, err)
	defer r.Close()

	dec := wav.NewDecoder(r)
	require.True(t, dec.IsValidFile())
	pcm, err := dec.FullPCMBuffer()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 16384, -16384, 32767}, pcm.Data)
	assert.Equal(t, SampleRate, pcm.Format.SampleRate)
}

func TestFilePlayer(t *testing.T) {
	var written string
	p := &FilePlayer{Dir: t.TempDir(), OnFile: func(path string) { written = path }}

	src, err := p.Play(context.Background(), DecodePCM(encodePCM(1, 2, 3)))
	require.NoError(t, err)
	assert.FileExists(t, written)

	select {
	case <-src.Done():
	case <-time.After(time.Second):
		t.Fatal("short source never finished")
	}
	src.Stop()
}

func TestTimedSourceStop(t *testing.T) {
	src := NewTimedSource(context.Background(), time.Hour)
	src.Stop()
	src.Stop()
	select {
	case <-src.Done():
	default:
		t.Fatal("stop did not end the source")
	}
}
