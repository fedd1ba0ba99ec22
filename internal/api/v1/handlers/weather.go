package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"ulascansenturk/weather-lookup/internal/providers"
	"ulascansenturk/weather-lookup/internal/service"
)

const maxFormBytes = 1 << 16

type WeatherHandler struct {
	lookupService service.LookupService
	timeout       time.Duration
}

func NewWeatherHandler(lookupService service.LookupService, timeout time.Duration) *WeatherHandler {
	return &WeatherHandler{
		lookupService: lookupService,
		timeout:       timeout,
	}
}

func (h *WeatherHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/weather":
		h.GetWeather(w, r)
	case "/history":
		h.GetHistory(w, r)
	case "/healthz":
		h.Health(w, r)
	default:
		respondWithError(w, http.StatusNotFound, "not found")
	}
}

// GetWeather serves GET with query parameters and POST with a form body.
func (h *WeatherHandler) GetWeather(w http.ResponseWriter, r *http.Request) {
	var values url.Values

	switch r.Method {
	case http.MethodGet:
		values = r.URL.Query()
	case http.MethodPost:
		r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
		if err := r.ParseForm(); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid form body")
			return
		}
		values = r.PostForm
	default:
		respondWithError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	req := service.LookupRequest{
		Query:        queryFromValues(values),
		IncludeRadar: parseFlag(values.Get("radar")),
	}
	if err := req.Query.Validate(); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	result, err := h.lookupService.Lookup(ctx, req)
	if err != nil {
		log.Error().Err(err).Str("location", req.Query.Key()).Msg("failed to get weather data")
		h.respondWithLookupError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, toWeatherResponse(result))
}

func (h *WeatherHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	query := queryFromValues(r.URL.Query())
	if err := query.Validate(); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	record, err := h.lookupService.RecentLookup(ctx, query)
	switch {
	case errors.Is(err, service.ErrHistoryDisabled):
		respondWithError(w, http.StatusNotFound, "Lookup history is not enabled.")
		return
	case errors.Is(err, service.ErrNoRecentLookup):
		respondWithError(w, http.StatusNotFound, "No lookup recorded for this location.")
		return
	case err != nil:
		log.Error().Err(err).Str("location", query.Key()).Msg("failed to get lookup history")
		respondWithError(w, http.StatusInternalServerError, "failed to get lookup history")
		return
	}

	respondWithJSON(w, http.StatusOK, HistoryResponse{
		Location: LocationResponse{
			City:    record.City,
			State:   record.Region,
			Country: record.Country,
		},
		Coordinate: CoordinateResponse{
			Latitude:  record.Latitude,
			Longitude: record.Longitude,
		},
		Temperature: record.Temperature,
		Condition:   capitalize(record.Condition),
		Units:       record.Units,
		LookedUpAt:  record.CreatedAt,
	})
}

func (h *WeatherHandler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondWithError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	respondWithJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (h *WeatherHandler) respondWithLookupError(w http.ResponseWriter, err error) {
	if transportErr, ok := providers.IsTransport(err); ok {
		if transportErr.Timeout() {
			respondWithError(w, http.StatusGatewayTimeout, "Network error: "+err.Error())
			return
		}
		respondWithError(w, http.StatusBadGateway, "Network error: "+err.Error())
		return
	}

	switch {
	case errors.Is(err, providers.ErrInvalidQuery):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrLocationNotFound):
		respondWithError(w, http.StatusNotFound, "Location not found.")
	case errors.Is(err, service.ErrWeatherNotFound):
		respondWithError(w, http.StatusNotFound, "Weather data not found.")
	case errors.Is(err, context.DeadlineExceeded):
		respondWithError(w, http.StatusGatewayTimeout, "Network error: "+err.Error())
	default:
		respondWithError(w, http.StatusInternalServerError, "failed to get weather data")
	}
}

func queryFromValues(values url.Values) providers.LocationQuery {
	return providers.LocationQuery{
		City:    values.Get("city"),
		Region:  values.Get("state"),
		Country: values.Get("country"),
	}.Normalize()
}

// parseFlag accepts strconv booleans and the "on" an HTML checkbox submits.
func parseFlag(v string) bool {
	if v == "on" {
		return true
	}
	b, err := strconv.ParseBool(v)
	return err == nil && b
}
