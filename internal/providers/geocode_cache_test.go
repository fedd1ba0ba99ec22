package providers_test

import (
	"context"
	"errors"
	"testing"
	"time"
	"ulascansenturk/weather-lookup/internal/inmemorycache"
	"ulascansenturk/weather-lookup/internal/mocks"
	"ulascansenturk/weather-lookup/internal/providers"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var springfield = providers.LocationQuery{City: "Springfield", Region: "il", Country: "us"}

func TestCachedGeocoder_SecondLookupHitsCache(t *testing.T) {
	inner := mocks.NewMockGeocoder(t)
	cache := inmemorycache.NewInMemoryCacheProvider(time.Minute)
	defer cache.Close()

	coord := providers.Coordinate{Latitude: 39.78, Longitude: -89.65}
	inner.On("Resolve", mock.Anything, springfield).Return(coord, true, nil).Once()

	geocoder := providers.NewCachedGeocoder(inner, cache, time.Minute, zerolog.Nop())

	for i := 0; i < 3; i++ {
		got, found, err := geocoder.Resolve(context.Background(), springfield)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, coord, got)
	}

	// a differently cased query shares the normalized key
	got, found, err := geocoder.Resolve(context.Background(), providers.LocationQuery{City: " SPRINGFIELD", Region: "IL", Country: "US"})
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, coord, got)
}

func TestCachedGeocoder_NotFoundIsNotCached(t *testing.T) {
	inner := mocks.NewMockGeocoder(t)
	cache := inmemorycache.NewInMemoryCacheProvider(time.Minute)
	defer cache.Close()

	query := providers.LocationQuery{City: "nowhere", Country: "ZZ"}
	inner.On("Resolve", mock.Anything, query).Return(providers.Coordinate{}, false, nil).Twice()

	geocoder := providers.NewCachedGeocoder(inner, cache, time.Minute, zerolog.Nop())

	for i := 0; i < 2; i++ {
		_, found, err := geocoder.Resolve(context.Background(), query)
		require.NoError(t, err)
		assert.False(t, found)
	}
	assert.Equal(t, 0, cache.Len())
}

func TestCachedGeocoder_CacheErrorsFallThrough(t *testing.T) {
	inner := mocks.NewMockGeocoder(t)
	cache := mocks.NewMockCoordinateCache(t)

	coord := providers.Coordinate{Latitude: 39.78, Longitude: -89.65}
	key := "geocode:springfield:IL:US"

	cache.On("Get", mock.Anything, key).Return(nil, false, errors.New("connection refused")).Once()
	inner.On("Resolve", mock.Anything, springfield).Return(coord, true, nil).Once()
	cache.On("Set", mock.Anything, key, coord, 5*time.Minute).Return(errors.New("connection refused")).Once()

	geocoder := providers.NewCachedGeocoder(inner, cache, 5*time.Minute, zerolog.Nop())

	got, found, err := geocoder.Resolve(context.Background(), springfield)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, coord, got)
}

func TestCachedGeocoder_InnerErrorPropagates(t *testing.T) {
	inner := mocks.NewMockGeocoder(t)
	cache := mocks.NewMockCoordinateCache(t)

	transportErr := &providers.TransportError{Op: "geocode", StatusCode: 500}
	cache.On("Get", mock.Anything, mock.Anything).Return(nil, false, nil).Once()
	inner.On("Resolve", mock.Anything, springfield).Return(providers.Coordinate{}, false, transportErr).Once()

	geocoder := providers.NewCachedGeocoder(inner, cache, time.Minute, zerolog.Nop())

	_, found, err := geocoder.Resolve(context.Background(), springfield)
	assert.False(t, found)
	assert.Equal(t, transportErr, err)
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCachedGeocoder_InvalidQuerySkipsEverything(t *testing.T) {
	inner := mocks.NewMockGeocoder(t)
	cache := mocks.NewMockCoordinateCache(t)

	geocoder := providers.NewCachedGeocoder(inner, cache, time.Minute, zerolog.Nop())

	_, found, err := geocoder.Resolve(context.Background(), providers.LocationQuery{City: "springfield"})
	assert.False(t, found)
	assert.True(t, errors.Is(err, providers.ErrInvalidQuery))
}
