package providers

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// CoordinateCache stores resolved coordinates by query key.
type CoordinateCache interface {
	Get(ctx context.Context, key string) (*Coordinate, bool, error)
	Set(ctx context.Context, key string, coord Coordinate, ttl time.Duration) error
}

// CachedGeocoder remembers successful resolutions. Cache failures are logged
// and the inner geocoder is used instead.
type CachedGeocoder struct {
	inner  Geocoder
	cache  CoordinateCache
	ttl    time.Duration
	logger zerolog.Logger
}

func NewCachedGeocoder(inner Geocoder, cache CoordinateCache, ttl time.Duration, logger zerolog.Logger) *CachedGeocoder {
	return &CachedGeocoder{inner: inner, cache: cache, ttl: ttl, logger: logger}
}

func (g *CachedGeocoder) Resolve(ctx context.Context, query LocationQuery) (Coordinate, bool, error) {
	if err := query.Validate(); err != nil {
		return Coordinate{}, false, err
	}

	key := "geocode:" + query.Key()

	cached, exists, err := g.cache.Get(ctx, key)
	switch {
	case err != nil:
		g.logger.Warn().Err(err).Str("key", key).Msg("coordinate cache read failed")
	case exists:
		g.logger.Debug().Str("key", key).Msg("coordinate cache hit")
		return *cached, true, nil
	}

	coord, found, err := g.inner.Resolve(ctx, query)
	if err != nil || !found {
		return coord, found, err
	}

	if err := g.cache.Set(ctx, key, coord, g.ttl); err != nil {
		g.logger.Warn().Err(err).Str("key", key).Msg("coordinate cache write failed")
	}

	return coord, true, nil
}
