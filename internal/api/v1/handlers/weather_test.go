package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"ulascansenturk/weather-lookup/internal/api/v1/handlers"
	"ulascansenturk/weather-lookup/internal/db/lookuplog"
	"ulascansenturk/weather-lookup/internal/mocks"
	"ulascansenturk/weather-lookup/internal/providers"
	"ulascansenturk/weather-lookup/internal/service"
)

type WeatherHandlerTestSuite struct {
	suite.Suite
	mockService *mocks.MockLookupService
	handler     *handlers.WeatherHandler
	query       providers.LocationQuery
}

func (s *WeatherHandlerTestSuite) SetupTest() {
	s.mockService = mocks.NewMockLookupService(s.T())
	s.handler = handlers.NewWeatherHandler(s.mockService, 5*time.Second)
	s.query = providers.LocationQuery{City: "springfield", Region: "IL", Country: "US"}
}

func floatPtr(v float64) *float64 {
	return &v
}

func (s *WeatherHandlerTestSuite) springfieldResult() service.LookupResult {
	return service.LookupResult{
		Query:      s.query,
		Coordinate: providers.Coordinate{Latitude: 39.78, Longitude: -89.65},
		Reading: providers.WeatherReading{
			Temperature: 72.04,
			FeelsLike:   floatPtr(70.96),
			Humidity:    floatPtr(60),
			WindSpeed:   floatPtr(5.5),
			Pressure:    floatPtr(1015),
			Condition:   "clear sky",
		},
		Units: providers.UnitsImperial,
	}
}

func (s *WeatherHandlerTestSuite) serve(req *http.Request) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	s.handler.ServeHTTP(recorder, req)
	return recorder
}

func (s *WeatherHandlerTestSuite) decodeError(recorder *httptest.ResponseRecorder) handlers.Error {
	var response handlers.ErrorResponse
	s.Require().NoError(json.NewDecoder(recorder.Body).Decode(&response))
	s.Require().Len(response.Errors, 1)
	return response.Errors[0]
}

func (s *WeatherHandlerTestSuite) TestGetWeatherSuccess() {
	s.mockService.On("Lookup", mock.Anything, service.LookupRequest{Query: s.query}).
		Return(s.springfieldResult(), nil).Once()

	recorder := s.serve(httptest.NewRequest(http.MethodGet, "/weather?city=Springfield&state=il&country=us", nil))

	s.Equal(http.StatusOK, recorder.Code)
	s.Equal("application/json", recorder.Header().Get("Content-Type"))

	var response handlers.WeatherResponse
	s.Require().NoError(json.NewDecoder(recorder.Body).Decode(&response))
	s.Equal("springfield", response.Location.City)
	s.Equal("IL", response.Location.State)
	s.Equal("US", response.Location.Country)
	s.Equal(39.78, response.Coordinate.Latitude)
	s.Equal("imperial", response.Units)
	s.Equal("72.0°F", response.Reading.Temperature)
	s.Equal(72.04, response.Reading.TemperatureValue)
	s.Equal("71.0°F", response.Reading.FeelsLike)
	s.Equal("60%", response.Reading.Humidity)
	s.Equal("5.5 mph", response.Reading.Wind)
	s.Equal("1015 hPa", response.Reading.Pressure)
	s.Equal("Clear sky", response.Reading.Condition)
	s.Empty(response.RadarURL)
}

func (s *WeatherHandlerTestSuite) TestPostWeatherFormWithRadar() {
	result := s.springfieldResult()
	result.Radar = &providers.OverlayReference{URL: "https://tile.example/radar.png"}

	s.mockService.On("Lookup", mock.Anything, service.LookupRequest{Query: s.query, IncludeRadar: true}).
		Return(result, nil).Once()

	form := url.Values{"city": {"Springfield"}, "state": {"IL"}, "country": {"US"}, "radar": {"on"}}
	req := httptest.NewRequest(http.MethodPost, "/weather", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	recorder := s.serve(req)

	s.Equal(http.StatusOK, recorder.Code)
	var response handlers.WeatherResponse
	s.Require().NoError(json.NewDecoder(recorder.Body).Decode(&response))
	s.Equal("https://tile.example/radar.png", response.RadarURL)
}

func (s *WeatherHandlerTestSuite) TestGetWeatherMetricUnits() {
	result := s.springfieldResult()
	result.Units = providers.UnitsMetric
	result.Reading = providers.WeatherReading{Temperature: -3.45, WindSpeed: floatPtr(2), Condition: "light snow"}

	s.mockService.On("Lookup", mock.Anything, mock.Anything).Return(result, nil).Once()

	recorder := s.serve(httptest.NewRequest(http.MethodGet, "/weather?city=springfield&state=IL&country=US", nil))

	var response handlers.WeatherResponse
	s.Require().NoError(json.NewDecoder(recorder.Body).Decode(&response))
	s.Equal("-3.5°C", response.Reading.Temperature)
	s.Equal("2 m/s", response.Reading.Wind)
	s.Equal("Light snow", response.Reading.Condition)
	s.Empty(response.Reading.FeelsLike)
	s.Empty(response.Reading.Humidity)
}

func (s *WeatherHandlerTestSuite) TestGetWeatherMissingCity() {
	recorder := s.serve(httptest.NewRequest(http.MethodGet, "/weather?country=US", nil))

	s.Equal(http.StatusBadRequest, recorder.Code)
	s.Equal("BAD_REQUEST", s.decodeError(recorder).Code)
	s.mockService.AssertNotCalled(s.T(), "Lookup", mock.Anything, mock.Anything)
}

func (s *WeatherHandlerTestSuite) TestGetWeatherMissingCountry() {
	recorder := s.serve(httptest.NewRequest(http.MethodGet, "/weather?city=Springfield", nil))

	s.Equal(http.StatusBadRequest, recorder.Code)
	s.Contains(s.decodeError(recorder).Detail, "country is required")
}

func (s *WeatherHandlerTestSuite) TestWeatherWrongMethod() {
	recorder := s.serve(httptest.NewRequest(http.MethodDelete, "/weather?city=a&country=b", nil))

	s.Equal(http.StatusMethodNotAllowed, recorder.Code)
	s.Equal("METHOD_NOT_ALLOWED", s.decodeError(recorder).Code)
}

func (s *WeatherHandlerTestSuite) TestWrongPath() {
	recorder := s.serve(httptest.NewRequest(http.MethodGet, "/forecast", nil))

	s.Equal(http.StatusNotFound, recorder.Code)
	s.Equal("NOT_FOUND", s.decodeError(recorder).Code)
}

func (s *WeatherHandlerTestSuite) TestLookupErrors() {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
		detail string
	}{
		{
			name:   "location not found",
			err:    service.ErrLocationNotFound,
			status: http.StatusNotFound,
			code:   "NOT_FOUND",
			detail: "Location not found.",
		},
		{
			name:   "weather not found",
			err:    fmt.Errorf("%w: %w", service.ErrWeatherNotFound, providers.ErrInvalidResponse),
			status: http.StatusNotFound,
			code:   "NOT_FOUND",
			detail: "Weather data not found.",
		},
		{
			name:   "upstream status",
			err:    &providers.TransportError{Op: "current weather", StatusCode: 503},
			status: http.StatusBadGateway,
			code:   "BAD_GATEWAY",
			detail: "Network error: current weather: returned status code 503",
		},
		{
			name:   "upstream timeout",
			err:    &providers.TransportError{Op: "geocode", Err: context.DeadlineExceeded},
			status: http.StatusGatewayTimeout,
			code:   "GATEWAY_TIMEOUT",
		},
		{
			name:   "handler deadline",
			err:    context.DeadlineExceeded,
			status: http.StatusGatewayTimeout,
			code:   "GATEWAY_TIMEOUT",
		},
		{
			name:   "unexpected",
			err:    errors.New("boom"),
			status: http.StatusInternalServerError,
			code:   "INTERNAL_ERROR",
		},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.mockService.On("Lookup", mock.Anything, service.LookupRequest{Query: s.query}).
				Return(service.LookupResult{}, tc.err).Once()

			recorder := s.serve(httptest.NewRequest(http.MethodGet, "/weather?city=springfield&state=IL&country=US", nil))

			s.Equal(tc.status, recorder.Code)
			apiErr := s.decodeError(recorder)
			s.Equal(tc.code, apiErr.Code)
			s.Equal(tc.status, apiErr.Status)
			if tc.detail != "" {
				s.Equal(tc.detail, apiErr.Detail)
			}
		})
	}
}

func (s *WeatherHandlerTestSuite) TestLookupUsesHandlerTimeout() {
	handler := handlers.NewWeatherHandler(s.mockService, 50*time.Millisecond)

	s.mockService.On("Lookup", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			deadline, ok := ctx.Deadline()
			s.True(ok)
			s.WithinDuration(time.Now().Add(50*time.Millisecond), deadline, 50*time.Millisecond)
		}).
		Return(service.LookupResult{}, context.DeadlineExceeded).Once()

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/weather?city=springfield&country=US", nil))

	s.Equal(http.StatusGatewayTimeout, recorder.Code)
}

func (s *WeatherHandlerTestSuite) TestGetHistory() {
	lookedUpAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	record := &lookuplog.LookupRecord{
		ID:          4,
		LocationKey: "springfield:IL:US",
		City:        "springfield",
		Region:      "IL",
		Country:     "US",
		Latitude:    39.78,
		Longitude:   -89.65,
		Temperature: 72,
		Condition:   "clear sky",
		Units:       "imperial",
		CreatedAt:   lookedUpAt,
	}
	s.mockService.On("RecentLookup", mock.Anything, s.query).Return(record, nil).Once()

	recorder := s.serve(httptest.NewRequest(http.MethodGet, "/history?city=Springfield&state=IL&country=US", nil))

	s.Equal(http.StatusOK, recorder.Code)
	var response handlers.HistoryResponse
	s.Require().NoError(json.NewDecoder(recorder.Body).Decode(&response))
	s.Equal("springfield", response.Location.City)
	s.Equal(72.0, response.Temperature)
	s.Equal("Clear sky", response.Condition)
	s.True(lookedUpAt.Equal(response.LookedUpAt))
}

func (s *WeatherHandlerTestSuite) TestGetHistoryNotFound() {
	s.mockService.On("RecentLookup", mock.Anything, s.query).Return(nil, service.ErrNoRecentLookup).Once()

	recorder := s.serve(httptest.NewRequest(http.MethodGet, "/history?city=springfield&state=IL&country=US", nil))

	s.Equal(http.StatusNotFound, recorder.Code)
	s.Equal("NOT_FOUND", s.decodeError(recorder).Code)
}

func (s *WeatherHandlerTestSuite) TestGetHistoryDisabled() {
	s.mockService.On("RecentLookup", mock.Anything, s.query).Return(nil, service.ErrHistoryDisabled).Once()

	recorder := s.serve(httptest.NewRequest(http.MethodGet, "/history?city=springfield&state=IL&country=US", nil))

	s.Equal(http.StatusNotFound, recorder.Code)
	s.Equal("Lookup history is not enabled.", s.decodeError(recorder).Detail)
}

func (s *WeatherHandlerTestSuite) TestHealth() {
	recorder := s.serve(httptest.NewRequest(http.MethodGet, "/healthz", nil))

	s.Equal(http.StatusOK, recorder.Code)
	var response handlers.HealthResponse
	s.Require().NoError(json.NewDecoder(recorder.Body).Decode(&response))
	s.Equal("ok", response.Status)
}

func TestWeatherHandlerSuite(t *testing.T) {
	suite.Run(t, new(WeatherHandlerTestSuite))
}
