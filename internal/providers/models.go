package providers

import (
	"fmt"
	"math"
	"strings"
)

// LocationQuery is a place description as typed by a user.
type LocationQuery struct {
	City    string `json:"city"`
	Region  string `json:"state,omitempty"`
	Country string `json:"country"`
}

// Normalize trims every field, folds the city to lower case and the codes to
// upper case.
func (q LocationQuery) Normalize() LocationQuery {
	return LocationQuery{
		City:    strings.ToLower(strings.TrimSpace(q.City)),
		Region:  strings.ToUpper(strings.TrimSpace(q.Region)),
		Country: strings.ToUpper(strings.TrimSpace(q.Country)),
	}
}

func (q LocationQuery) Validate() error {
	if strings.TrimSpace(q.City) == "" {
		return fmt.Errorf("%w: city is required", ErrInvalidQuery)
	}
	if strings.TrimSpace(q.Country) == "" {
		return fmt.Errorf("%w: country is required", ErrInvalidQuery)
	}
	return nil
}

// SearchText renders the query the way the geocoding API expects it,
// e.g. "springfield,IL,US". An empty region is left out.
func (q LocationQuery) SearchText() string {
	n := q.Normalize()
	if n.Region == "" {
		return n.City + "," + n.Country
	}
	return n.City + "," + n.Region + "," + n.Country
}

// Key is the canonical cache and history key for the query.
func (q LocationQuery) Key() string {
	n := q.Normalize()
	return n.City + ":" + n.Region + ":" + n.Country
}

type Coordinate struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// Valid reports whether the coordinate is finite and inside the WGS84 range.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) ||
		math.IsInf(c.Latitude, 0) || math.IsInf(c.Longitude, 0) {
		return false
	}
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.4f,%.4f", c.Latitude, c.Longitude)
}

// WeatherReading is one snapshot of current conditions. Optional fields stay
// nil when the provider leaves them out.
type WeatherReading struct {
	Temperature float64  `json:"temperature"`
	FeelsLike   *float64 `json:"feels_like,omitempty"`
	Condition   string   `json:"condition"`
	Humidity    *float64 `json:"humidity,omitempty"`
	WindSpeed   *float64 `json:"wind_speed,omitempty"`
	Pressure    *float64 `json:"pressure,omitempty"`
}

type OverlayReference struct {
	URL string `json:"url"`
}

// Units selects the measurement system requested from the weather API.
type Units string

const (
	UnitsStandard Units = "standard"
	UnitsMetric   Units = "metric"
	UnitsImperial Units = "imperial"
)

func ParseUnits(s string) (Units, error) {
	switch u := Units(strings.ToLower(strings.TrimSpace(s))); u {
	case UnitsStandard, UnitsMetric, UnitsImperial:
		return u, nil
	default:
		return "", fmt.Errorf("%w: unknown unit system %q", ErrConfiguration, s)
	}
}

// TemperatureSymbol returns the suffix used when printing temperatures.
func (u Units) TemperatureSymbol() string {
	switch u {
	case UnitsMetric:
		return "°C"
	case UnitsImperial:
		return "°F"
	default:
		return "K"
	}
}

func (u Units) SpeedSymbol() string {
	if u == UnitsImperial {
		return "mph"
	}
	return "m/s"
}
