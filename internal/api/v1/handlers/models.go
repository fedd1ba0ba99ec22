package handlers

import "time"

type LocationResponse struct {
	City    string `json:"city"`
	State   string `json:"state,omitempty"`
	Country string `json:"country"`
}

type CoordinateResponse struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// ReadingResponse carries display-ready strings next to the raw temperature.
type ReadingResponse struct {
	Temperature      string  `json:"temperature"`
	TemperatureValue float64 `json:"temperature_value"`
	FeelsLike        string  `json:"feels_like,omitempty"`
	Humidity         string  `json:"humidity,omitempty"`
	Wind             string  `json:"wind,omitempty"`
	Pressure         string  `json:"pressure,omitempty"`
	Condition        string  `json:"condition,omitempty"`
}

type WeatherResponse struct {
	Location   LocationResponse   `json:"location"`
	Coordinate CoordinateResponse `json:"coordinate"`
	Units      string             `json:"units"`
	Reading    ReadingResponse    `json:"reading"`
	RadarURL   string             `json:"radar_url,omitempty"`
}

type HistoryResponse struct {
	Location    LocationResponse   `json:"location"`
	Coordinate  CoordinateResponse `json:"coordinate"`
	Temperature float64            `json:"temperature"`
	Condition   string             `json:"condition,omitempty"`
	Units       string             `json:"units"`
	LookedUpAt  time.Time          `json:"looked_up_at"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type Error struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
	Status int    `json:"status"`
	Title  string `json:"title"`
}

type ErrorResponse struct {
	Errors []Error `json:"errors"`
}
