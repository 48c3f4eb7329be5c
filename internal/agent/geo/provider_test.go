package geo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leafdoc-core/server/internal/agent/model"
)

func TestNewStaticFromConfig(t *testing.T) {
	s, err := NewStaticFromConfig(model.LocationConfig{Latitude: "18.5204", Longitude: "73.8567"})
	require.NoError(t, err)
	loc, err := s.Locate(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 18.5204, loc.Latitude, 1e-9)
	assert.InDelta(t, 73.8567, loc.Longitude, 1e-9)

	s, err = NewStaticFromConfig(model.LocationConfig{})
	require.NoError(t, err)
	_, err = s.Locate(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = NewStaticFromConfig(model.LocationConfig{Latitude: "95", Longitude: "10"})
	assert.Error(t, err)
	_, err = NewStaticFromConfig(model.LocationConfig{Latitude: "north", Longitude: "10"})
	assert.Error(t, err)
}

func TestValidateNormalizesLongitude(t *testing.T) {
	loc, ok := Validate(10, 190)
	require.True(t, ok)
	assert.InDelta(t, -170, loc.Longitude, 1e-9)

	_, ok = Validate(-91, 0)
	assert.False(t, ok)
}

func TestBestEffortNeverFails(t *testing.T) {
	ctx := context.Background()

	assert.Nil(t, BestEffort(ctx, nil, time.Second))

	failing := ProviderFunc(func(context.Context) (*model.Location, error) {
		return nil, errors.New("permission denied")
	})
	assert.Nil(t, BestEffort(ctx, failing, time.Second))

	invalid := ProviderFunc(func(context.Context) (*model.Location, error) {
		return &model.Location{Latitude: 300}, nil
	})
	assert.Nil(t, BestEffort(ctx, invalid, time.Second))

	slow := ProviderFunc(func(ctx context.Context) (*model.Location, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	start := time.Now()
	assert.Nil(t, BestEffort(ctx, slow, 20*time.Millisecond))
	assert.Less(t, time.Since(start), time.Second)

	ok := Static{Location: &model.Location{Latitude: 1, Longitude: 2}}
	loc := BestEffort(ctx, ok, time.Second)
	require.NotNil(t, loc)
	assert.InDelta(t, 1, loc.Latitude, 1e-9)
	assert.InDelta(t, 2, loc.Longitude, 1e-9)
}
