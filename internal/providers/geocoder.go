package providers

import (
	"context"
	"fmt"
	"net/url"
)

// Geocoder resolves a place description into coordinates. The boolean is
// false when the provider knows no such place.
type Geocoder interface {
	Resolve(ctx context.Context, query LocationQuery) (Coordinate, bool, error)
}

// OpenWeatherGeocoder uses the OpenWeatherMap direct geocoding API.
type OpenWeatherGeocoder struct {
	apiKey string
	direct endpoint
}

func NewOpenWeatherGeocoder(opts Options) (*OpenWeatherGeocoder, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}

	return &OpenWeatherGeocoder{
		apiKey: opts.APIKey,
		direct: endpoint{
			op:      "geocode",
			baseURL: opts.GeocodeURL,
			client:  opts.HTTPClient,
			timeout: opts.Timeout,
		},
	}, nil
}

type geocodeCandidate struct {
	Name    string   `json:"name"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
	Country string   `json:"country"`
	State   string   `json:"state"`
}

func (g *OpenWeatherGeocoder) Resolve(ctx context.Context, query LocationQuery) (Coordinate, bool, error) {
	if err := query.Validate(); err != nil {
		return Coordinate{}, false, err
	}

	params := url.Values{}
	params.Set("q", query.SearchText())
	params.Set("limit", "1")
	params.Set("appid", g.apiKey)

	var candidates []geocodeCandidate
	if err := g.direct.getJSON(ctx, params, &candidates); err != nil {
		return Coordinate{}, false, err
	}

	if len(candidates) == 0 {
		return Coordinate{}, false, nil
	}

	first := candidates[0]
	if first.Lat == nil || first.Lon == nil {
		return Coordinate{}, false, fmt.Errorf("geocode: candidate without coordinates: %w", ErrInvalidResponse)
	}

	coord := Coordinate{Latitude: *first.Lat, Longitude: *first.Lon}
	if !coord.Valid() {
		return Coordinate{}, false, fmt.Errorf("geocode: coordinate %s out of range: %w", coord, ErrInvalidResponse)
	}

	return coord, true, nil
}
