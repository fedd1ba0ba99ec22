package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	DefaultGeocodeURL   = "http://api.openweathermap.org/geo/1.0/direct"
	DefaultWeatherURL   = "https://api.openweathermap.org/data/2.5/weather"
	DefaultRadarURL     = "http://api.openweathermap.org/data/3.0/onecall"
	DefaultRadarZoom    = 10
	DefaultRadarOverlay = "precipitation_new"
	DefaultTimeout      = 10 * time.Second

	maxBodyBytes = 1 << 20
)

// Options configures the OpenWeatherMap-backed providers.
type Options struct {
	APIKey  string
	Units   Units
	Timeout time.Duration

	GeocodeURL   string
	WeatherURL   string
	RadarURL     string
	RadarZoom    int
	RadarOverlay string

	// HTTPClient is optional; one with Timeout is created when nil.
	HTTPClient *http.Client
}

func (o Options) withDefaults() Options {
	if o.Units == "" {
		o.Units = UnitsImperial
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.GeocodeURL == "" {
		o.GeocodeURL = DefaultGeocodeURL
	}
	if o.WeatherURL == "" {
		o.WeatherURL = DefaultWeatherURL
	}
	if o.RadarURL == "" {
		o.RadarURL = DefaultRadarURL
	}
	if o.RadarZoom == 0 {
		o.RadarZoom = DefaultRadarZoom
	}
	if o.RadarOverlay == "" {
		o.RadarOverlay = DefaultRadarOverlay
	}
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{Timeout: o.Timeout}
	}
	return o
}

func (o Options) validate() error {
	if o.APIKey == "" {
		return fmt.Errorf("%w: API key not found", ErrConfiguration)
	}
	if _, err := ParseUnits(string(o.Units)); err != nil {
		return err
	}
	for _, raw := range []string{o.GeocodeURL, o.WeatherURL, o.RadarURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: invalid endpoint url %q", ErrConfiguration, raw)
		}
	}
	return nil
}

// endpoint is one GET resource with the shared request/decode handling.
type endpoint struct {
	op      string
	baseURL string
	client  *http.Client
	timeout time.Duration
}

// getJSON issues a single GET and decodes the body into dst. It never retries.
func (e endpoint) getJSON(ctx context.Context, params url.Values, dst interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	u, err := url.Parse(e.baseURL)
	if err != nil {
		return fmt.Errorf("%s: parse base url: %w", e.op, err)
	}
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", e.op, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return &TransportError{Op: e.op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return &TransportError{Op: e.op, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &TransportError{Op: e.op, Err: err}
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%s returned malformed JSON: %w: %w", e.op, ErrInvalidResponse, err)
	}

	return nil
}
