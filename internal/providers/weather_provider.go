package providers

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// WeatherClient fetches conditions for resolved coordinates.
type WeatherClient interface {
	FetchCurrent(ctx context.Context, coord Coordinate) (WeatherReading, bool, error)
	FetchRadarOverlay(ctx context.Context, coord Coordinate) (OverlayReference, bool, error)
	Units() Units
}

// OpenWeatherClient talks to the OpenWeatherMap current weather and one-call
// endpoints. Every call is a fresh request.
type OpenWeatherClient struct {
	apiKey       string
	units        Units
	radarZoom    int
	radarOverlay string

	current endpoint
	radar   endpoint
}

func NewWeatherClient(opts Options) (*OpenWeatherClient, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}

	return &OpenWeatherClient{
		apiKey:       opts.APIKey,
		units:        opts.Units,
		radarZoom:    opts.RadarZoom,
		radarOverlay: opts.RadarOverlay,
		current: endpoint{
			op:      "current weather",
			baseURL: opts.WeatherURL,
			client:  opts.HTTPClient,
			timeout: opts.Timeout,
		},
		radar: endpoint{
			op:      "radar overlay",
			baseURL: opts.RadarURL,
			client:  opts.HTTPClient,
			timeout: opts.Timeout,
		},
	}, nil
}

type currentWeatherResponse struct {
	Main *struct {
		Temp      *float64 `json:"temp"`
		FeelsLike *float64 `json:"feels_like"`
		Humidity  *float64 `json:"humidity"`
		Pressure  *float64 `json:"pressure"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Wind *struct {
		Speed *float64 `json:"speed"`
	} `json:"wind"`
}

type radarResponse struct {
	RadarURL string `json:"radar_url"`
}

func (c *OpenWeatherClient) Units() Units {
	return c.units
}

func (c *OpenWeatherClient) FetchCurrent(ctx context.Context, coord Coordinate) (WeatherReading, bool, error) {
	if !coord.Valid() {
		return WeatherReading{}, false, fmt.Errorf("%w: %v", ErrInvalidCoordinate, coord)
	}

	params := c.coordinateParams(coord)
	params.Set("units", string(c.units))

	var payload currentWeatherResponse
	if err := c.current.getJSON(ctx, params, &payload); err != nil {
		return WeatherReading{}, false, err
	}

	if payload.Main == nil && len(payload.Weather) == 0 {
		return WeatherReading{}, false, nil
	}

	if payload.Main == nil || payload.Main.Temp == nil {
		return WeatherReading{}, false, fmt.Errorf("current weather: missing main.temp: %w", ErrInvalidResponse)
	}

	reading := WeatherReading{
		Temperature: *payload.Main.Temp,
		FeelsLike:   payload.Main.FeelsLike,
		Humidity:    payload.Main.Humidity,
		Pressure:    payload.Main.Pressure,
	}
	if len(payload.Weather) > 0 {
		reading.Condition = payload.Weather[0].Description
	}
	if payload.Wind != nil {
		reading.WindSpeed = payload.Wind.Speed
	}

	return reading, true, nil
}

func (c *OpenWeatherClient) FetchRadarOverlay(ctx context.Context, coord Coordinate) (OverlayReference, bool, error) {
	if !coord.Valid() {
		return OverlayReference{}, false, fmt.Errorf("%w: %v", ErrInvalidCoordinate, coord)
	}

	params := c.coordinateParams(coord)
	params.Set("zoom", strconv.Itoa(c.radarZoom))
	params.Set("overlay", c.radarOverlay)

	var payload radarResponse
	if err := c.radar.getJSON(ctx, params, &payload); err != nil {
		return OverlayReference{}, false, err
	}

	if payload.RadarURL == "" {
		return OverlayReference{}, false, nil
	}

	return OverlayReference{URL: payload.RadarURL}, true, nil
}

func (c *OpenWeatherClient) coordinateParams(coord Coordinate) url.Values {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(coord.Latitude, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(coord.Longitude, 'f', -1, 64))
	params.Set("appid", c.apiKey)
	return params
}
