package handlers

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"ulascansenturk/weather-lookup/internal/providers"
	"ulascansenturk/weather-lookup/internal/service"
)

func formatTemperature(value float64, units providers.Units) string {
	return strconv.FormatFloat(value, 'f', 1, 64) + units.TemperatureSymbol()
}

func formatOptional(value *float64, suffix string) string {
	if value == nil {
		return ""
	}
	return strconv.FormatFloat(*value, 'f', -1, 64) + suffix
}

// capitalize upper-cases the first letter only: "light rain" -> "Light rain".
func capitalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

func toWeatherResponse(result service.LookupResult) WeatherResponse {
	reading := result.Reading
	units := result.Units

	resp := WeatherResponse{
		Location: LocationResponse{
			City:    result.Query.City,
			State:   result.Query.Region,
			Country: result.Query.Country,
		},
		Coordinate: CoordinateResponse{
			Latitude:  result.Coordinate.Latitude,
			Longitude: result.Coordinate.Longitude,
		},
		Units: string(units),
		Reading: ReadingResponse{
			Temperature:      formatTemperature(reading.Temperature, units),
			TemperatureValue: reading.Temperature,
			Humidity:         formatOptional(reading.Humidity, "%"),
			Wind:             formatOptional(reading.WindSpeed, " "+units.SpeedSymbol()),
			Pressure:         formatOptional(reading.Pressure, " hPa"),
			Condition:        capitalize(reading.Condition),
		},
	}

	if reading.FeelsLike != nil {
		resp.Reading.FeelsLike = formatTemperature(*reading.FeelsLike, units)
	}
	if result.Radar != nil {
		resp.RadarURL = result.Radar.URL
	}

	return resp
}
