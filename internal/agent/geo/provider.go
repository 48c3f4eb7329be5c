// Package geo provides best-effort geolocation for scans.
package geo

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/golang/geo/s2"

	"github.com/leafdoc-core/server/internal/agent/model"
	logx "github.com/leafdoc-core/server/pkg/logger"
)

// DefaultTimeout bounds a single location read.
const DefaultTimeout = 3 * time.Second

// Provider performs a single location read.
type Provider interface {
	Locate(ctx context.Context) (*model.Location, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context) (*model.Location, error)

func (f ProviderFunc) Locate(ctx context.Context) (*model.Location, error) {
	return f(ctx)
}

// ErrUnavailable is returned when no location source is configured.
var ErrUnavailable = fmt.Errorf("location unavailable")

// Static returns a fixed location, e.g. a farm configured once by the user.
type Static struct {
	Location *model.Location
}

func (s Static) Locate(context.Context) (*model.Location, error) {
	if s.Location == nil {
		return nil, ErrUnavailable
	}
	loc := *s.Location
	return &loc, nil
}

// NewStaticFromConfig parses configured coordinates. Empty coordinates give a
// provider that always reports ErrUnavailable.
func NewStaticFromConfig(cfg model.LocationConfig) (Static, error) {
	lat, lon := strings.TrimSpace(cfg.Latitude), strings.TrimSpace(cfg.Longitude)
	if lat == "" && lon == "" {
		return Static{}, nil
	}
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return Static{}, fmt.Errorf("invalid latitude %q: %w", lat, err)
	}
	lo, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return Static{}, fmt.Errorf("invalid longitude %q: %w", lon, err)
	}
	loc, ok := Validate(la, lo)
	if !ok {
		return Static{}, fmt.Errorf("coordinates out of range: %v,%v", la, lo)
	}
	return Static{Location: loc}, nil
}

// Validate checks the coordinates on the sphere and normalizes longitude into
// [-180, 180].
func Validate(lat, lon float64) (*model.Location, bool) {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lon, 0) || math.Abs(lat) > 90 {
		return nil, false
	}
	n := s2.LatLngFromDegrees(lat, lon).Normalized()
	if !n.IsValid() {
		return nil, false
	}
	return &model.Location{Latitude: n.Lat.Degrees(), Longitude: n.Lng.Degrees()}, true
}

// BestEffort reads a location with a timeout. Any failure, timeout or invalid
// coordinate yields nil: location never blocks an analysis.
func BestEffort(ctx context.Context, p Provider, timeout time.Duration) *model.Location {
	if p == nil {
		return nil
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		loc *model.Location
		err error
	}
	ch := make(chan result, 1)
	go func() {
		loc, err := p.Locate(ctx)
		ch <- result{loc, err}
	}()

	select {
	case r := <-ch:
		if r.err != nil || r.loc == nil {
			if r.err != nil && r.err != ErrUnavailable {
				logx.Debug().Str("component", "geo").Err(r.err).Msg("location read failed")
			}
			return nil
		}
		loc, ok := Validate(r.loc.Latitude, r.loc.Longitude)
		if !ok {
			return nil
		}
		return loc
	case <-ctx.Done():
		logx.Debug().Str("component", "geo").Dur("timeout", timeout).Msg("location read timed out")
		return nil
	}
}
