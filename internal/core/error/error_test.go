package errx

import (
	"errors"
	"fmt"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestKindHierarchy(t *testing.T) {
	assert.True(t, KindInvalidResponseFormat.Is(KindAnalysis))
	assert.True(t, KindAnalysis.Is(KindAnalysis))
	assert.False(t, KindAnalysis.Is(KindInvalidResponseFormat))
	assert.False(t, KindCropMismatch.Is(KindAnalysis))
}

func TestErrorsIsMatchesKindSentinels(t *testing.T) {
	err := fmt.Errorf("analyze: %w", New(KindInvalidResponseFormat, errors.New("no braces"), ""))

	assert.ErrorIs(t, err, ErrInvalidResponseFormat)
	assert.ErrorIs(t, err, ErrAnalysis)
	assert.NotErrorIs(t, err, ErrConfiguration)
	assert.Equal(t, KindInvalidResponseFormat, KindOf(err))
	assert.True(t, IsKind(err, KindAnalysis))
}

func TestWrapKeepsExistingKind(t *testing.T) {
	inner := New(KindConfiguration, nil, "")
	assert.Same(t, inner, Wrap(KindAnalysis, inner))
	assert.Nil(t, Wrap(KindAnalysis, nil))
	assert.Equal(t, KindTTS, KindOf(Wrap(KindTTS, errors.New("boom"))))
}

func TestKindOfUnclassified(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(nil))
	assert.Equal(t, KindAnalysis, KindOf(errors.New("dial tcp: timeout")))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "service is not configured", New(KindConfiguration, nil, "").Error())
	assert.Equal(t, "analysis failed: eof", New(KindAnalysis, errors.New("eof"), "").Error())
}

func TestWrapRedis(t *testing.T) {
	assert.Nil(t, WrapRedis(nil))

	err := WrapRedis(redis.Nil)
	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, redis.Nil)
	assert.Contains(t, err.Error(), RedisNotFoundMessage)

	err = WrapRedis(errors.New("OOM command not allowed"))
	assert.Equal(t, KindStorage, KindOf(err))
	assert.Contains(t, err.Error(), RedisErrorMessage)
}
