package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"ulascansenturk/weather-lookup/internal/db/lookuplog"
	"ulascansenturk/weather-lookup/internal/providers"
)

var (
	ErrLocationNotFound = errors.New("location not found")
	ErrWeatherNotFound  = errors.New("weather data not found")
	ErrHistoryDisabled  = errors.New("lookup history is not enabled")
	ErrNoRecentLookup   = errors.New("no recorded lookup for location")
)

// Outcome labels a finished lookup for metrics.
type Outcome string

const (
	OutcomeSuccess          Outcome = "success"
	OutcomeInvalidQuery     Outcome = "invalid_query"
	OutcomeLocationNotFound Outcome = "location_not_found"
	OutcomeWeatherNotFound  Outcome = "weather_not_found"
	OutcomeTransportError   Outcome = "transport_error"
	OutcomeError            Outcome = "error"
)

type OutcomeRecorder interface {
	ObserveLookup(outcome Outcome, duration time.Duration)
}

type LookupRequest struct {
	Query        providers.LocationQuery
	IncludeRadar bool
}

type LookupResult struct {
	Query      providers.LocationQuery     `json:"query"`
	Coordinate providers.Coordinate        `json:"coordinate"`
	Reading    providers.WeatherReading    `json:"reading"`
	Units      providers.Units             `json:"units"`
	Radar      *providers.OverlayReference `json:"radar,omitempty"`
}

type LookupService interface {
	Lookup(ctx context.Context, req LookupRequest) (LookupResult, error)
	RecentLookup(ctx context.Context, query providers.LocationQuery) (*lookuplog.LookupRecord, error)
}

type Service struct {
	geocoder providers.Geocoder
	weather  providers.WeatherClient
	history  lookuplog.Repository
	recorder OutcomeRecorder
	logger   zerolog.Logger

	pending sync.WaitGroup
}

// NewLookupService wires the pipeline. history and recorder may be nil.
func NewLookupService(
	geocoder providers.Geocoder,
	weather providers.WeatherClient,
	history lookuplog.Repository,
	recorder OutcomeRecorder,
	logger zerolog.Logger,
) *Service {
	return &Service{
		geocoder: geocoder,
		weather:  weather,
		history:  history,
		recorder: recorder,
		logger:   logger,
	}
}

func (s *Service) Lookup(ctx context.Context, req LookupRequest) (result LookupResult, err error) {
	start := time.Now()
	defer func() {
		if s.recorder != nil {
			s.recorder.ObserveLookup(classify(err), time.Since(start))
		}
	}()

	query := req.Query.Normalize()
	if err := query.Validate(); err != nil {
		return LookupResult{}, err
	}

	coord, found, err := s.geocoder.Resolve(ctx, query)
	switch {
	case errors.Is(err, providers.ErrInvalidResponse):
		return LookupResult{}, fmt.Errorf("%w: %w", ErrLocationNotFound, err)
	case err != nil:
		return LookupResult{}, err
	case !found:
		return LookupResult{}, ErrLocationNotFound
	}

	reading, found, err := s.weather.FetchCurrent(ctx, coord)
	switch {
	case errors.Is(err, providers.ErrInvalidResponse):
		return LookupResult{}, fmt.Errorf("%w: %w", ErrWeatherNotFound, err)
	case err != nil:
		return LookupResult{}, err
	case !found:
		return LookupResult{}, ErrWeatherNotFound
	}

	result = LookupResult{
		Query:      query,
		Coordinate: coord,
		Reading:    reading,
		Units:      s.weather.Units(),
	}

	if req.IncludeRadar {
		result.Radar = s.radar(ctx, query, coord)
	}

	s.record(ctx, result)

	return result, nil
}

// radar never fails the lookup; a missing overlay just leaves it out.
func (s *Service) radar(ctx context.Context, query providers.LocationQuery, coord providers.Coordinate) *providers.OverlayReference {
	overlay, found, err := s.weather.FetchRadarOverlay(ctx, coord)
	if err != nil {
		s.logger.Warn().Err(err).Str("location", query.Key()).Msg("failed to fetch radar overlay")
		return nil
	}
	if !found {
		return nil
	}
	return &overlay
}

func (s *Service) record(ctx context.Context, result LookupResult) {
	if s.history == nil {
		return
	}

	record := lookuplog.LookupRecord{
		LocationKey: result.Query.Key(),
		City:        result.Query.City,
		Region:      result.Query.Region,
		Country:     result.Query.Country,
		Latitude:    result.Coordinate.Latitude,
		Longitude:   result.Coordinate.Longitude,
		Temperature: result.Reading.Temperature,
		Condition:   result.Reading.Condition,
		Units:       string(result.Units),
		CreatedAt:   time.Now(),
	}

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()

		writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()

		if err := s.history.LogLookup(writeCtx, record); err != nil {
			s.logger.Error().Err(err).Str("location", record.LocationKey).Msg("Failed to log weather lookup")
		}
	}()
}

func (s *Service) RecentLookup(ctx context.Context, query providers.LocationQuery) (*lookuplog.LookupRecord, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled
	}
	if err := query.Validate(); err != nil {
		return nil, err
	}

	record, err := s.history.GetRecentLookup(ctx, query.Key())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoRecentLookup
	}
	return record, err
}

// Wait blocks until pending history writes have finished.
func (s *Service) Wait() {
	s.pending.Wait()
}

func classify(err error) Outcome {
	if err == nil {
		return OutcomeSuccess
	}
	if _, ok := providers.IsTransport(err); ok {
		return OutcomeTransportError
	}

	switch {
	case errors.Is(err, providers.ErrInvalidQuery):
		return OutcomeInvalidQuery
	case errors.Is(err, ErrLocationNotFound):
		return OutcomeLocationNotFound
	case errors.Is(err, ErrWeatherNotFound):
		return OutcomeWeatherNotFound
	default:
		return OutcomeError
	}
}
