package domain

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrWeatherUnavailable means the weather provider could not be reached or
	// returned an unusable response.
	ErrWeatherUnavailable = errors.New("weather data unavailable")

	// ErrIncompleteWeather means the provider answered but current conditions
	// or the forecast were missing.
	ErrIncompleteWeather = errors.New("weather data incomplete")
)

// CurrentWeather is a single observation of current conditions at a location.
type CurrentWeather struct {
	Timestamp       time.Time `json:"timestamp"`
	Temperature     float64   `json:"temperature"`      // °C
	Humidity        float64   `json:"humidity"`         // %
	WindSpeed       float64   `json:"wind_speed"`       // m/s
	WindDeg         float64   `json:"wind_deg"`         // 0–360
	CloudCover      float64   `json:"cloud_cover"`      // %
	Precipitation1h float64   `json:"precipitation_1h"` // mm, 0 when unreported
	Condition       string    `json:"condition"`        // e.g. "Rain", "Clear"
	Lat             float64   `json:"lat"`
	Lon             float64   `json:"lon"`
}

// ForecastSample is one sub-daily forecast point.
type ForecastSample struct {
	Time            time.Time `json:"time"`
	Temperature     float64   `json:"temperature"`      // °C
	RainProbability float64   `json:"rain_probability"` // 0.0–1.0
	WindDeg         float64   `json:"wind_deg"`
}

// WeatherData bundles what the weather provider returns for one location.
// Current is nil and Forecast is empty when the provider had nothing to say.
type WeatherData struct {
	Current  *CurrentWeather  `json:"current"`
	Forecast []ForecastSample `json:"forecast"`
}

// Complete reports whether both current conditions and a forecast are present.
func (w WeatherData) Complete() bool {
	return w.Current != nil && len(w.Forecast) > 0
}

// WeatherProvider fetches current conditions and a short forecast.
type WeatherProvider interface {
	Fetch(ctx context.Context, lat, lon float64) (WeatherData, error)
}

// SoilObservation is a live reading from a soil data provider.
type SoilObservation struct {
	Source      string    `json:"source"`
	Moisture    float64   `json:"soil_moisture"`
	Temperature float64   `json:"soil_temperature"`
	ObservedAt  time.Time `json:"observed_at,omitempty"`
}

// SoilProvider fetches a live soil observation. Implementations are optional
// collaborators; their failures never block an analysis.
type SoilProvider interface {
	Observe(ctx context.Context, lat, lon float64) (SoilObservation, error)
}
