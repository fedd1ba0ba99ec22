package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"ulascansenturk/weather-lookup/internal/providers"
)

type MockGeocoder struct {
	mock.Mock
}

func NewMockGeocoder(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockGeocoder {
	m := &MockGeocoder{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockGeocoder) Resolve(ctx context.Context, query providers.LocationQuery) (providers.Coordinate, bool, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(providers.Coordinate), args.Bool(1), args.Error(2)
}

type MockWeatherClient struct {
	mock.Mock
}

func NewMockWeatherClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockWeatherClient {
	m := &MockWeatherClient{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockWeatherClient) FetchCurrent(ctx context.Context, coord providers.Coordinate) (providers.WeatherReading, bool, error) {
	args := m.Called(ctx, coord)
	return args.Get(0).(providers.WeatherReading), args.Bool(1), args.Error(2)
}

func (m *MockWeatherClient) FetchRadarOverlay(ctx context.Context, coord providers.Coordinate) (providers.OverlayReference, bool, error) {
	args := m.Called(ctx, coord)
	return args.Get(0).(providers.OverlayReference), args.Bool(1), args.Error(2)
}

func (m *MockWeatherClient) Units() providers.Units {
	args := m.Called()
	return args.Get(0).(providers.Units)
}

type MockCoordinateCache struct {
	mock.Mock
}

func NewMockCoordinateCache(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCoordinateCache {
	m := &MockCoordinateCache{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockCoordinateCache) Get(ctx context.Context, key string) (*providers.Coordinate, bool, error) {
	args := m.Called(ctx, key)
	var coord *providers.Coordinate
	if v := args.Get(0); v != nil {
		coord = v.(*providers.Coordinate)
	}
	return coord, args.Bool(1), args.Error(2)
}

func (m *MockCoordinateCache) Set(ctx context.Context, key string, coord providers.Coordinate, ttl time.Duration) error {
	args := m.Called(ctx, key, coord, ttl)
	return args.Error(0)
}
