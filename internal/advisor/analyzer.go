// Package advisor coordinates the weather, soil and language model
// collaborators around the pure domain core.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/crop-advisor-service/internal/domain"
	"github.com/couchcryptid/crop-advisor-service/internal/observability"
)

// Analysis outcome labels.
const (
	outcomeSuccess     = "success"
	outcomeUnavailable = "weather_unavailable"
	outcomeIncomplete  = "incomplete"
	outcomeEmpty       = "empty"
	outcomeError       = "error"
)

// Analyzer builds location reports from live weather and optional soil data.
type Analyzer struct {
	weather  domain.WeatherProvider
	soil     domain.SoilProvider
	location *time.Location
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// NewAnalyzer creates an Analyzer. soil may be nil. Forecast days are grouped
// in loc.
func NewAnalyzer(weather domain.WeatherProvider, soil domain.SoilProvider, loc *time.Location, metrics *observability.Metrics, logger *slog.Logger) *Analyzer {
	return &Analyzer{
		weather:  weather,
		soil:     soil,
		location: loc,
		metrics:  metrics,
		logger:   logger,
	}
}

// AnalyzeLocation fetches weather and soil readings for lat/lon and composes
// a report labelled with region. It returns nil and an error wrapping
// domain.ErrWeatherUnavailable or domain.ErrIncompleteWeather when no report
// can be built. Soil failures are logged and ignored.
func (a *Analyzer) AnalyzeLocation(ctx context.Context, lat, lon float64, region string) (*domain.LocationReport, error) {
	var (
		weather    domain.WeatherData
		weatherErr error
		soil       *domain.SoilObservation
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		weather, weatherErr = a.weather.Fetch(gctx, lat, lon)
		return nil
	})
	if a.soil != nil {
		g.Go(func() error {
			obs, err := a.soil.Observe(gctx, lat, lon)
			if err != nil {
				a.logger.Warn("soil observation failed", "lat", lat, "lon", lon, "error", err)
				return nil
			}
			soil = &obs
			return nil
		})
	}
	_ = g.Wait()

	if weatherErr != nil {
		a.metrics.Analyses.WithLabelValues(outcomeUnavailable).Inc()
		a.logger.Warn("weather fetch failed", "lat", lat, "lon", lon, "error", weatherErr)
		if !errors.Is(weatherErr, domain.ErrWeatherUnavailable) {
			weatherErr = fmt.Errorf("%w: %w", domain.ErrWeatherUnavailable, weatherErr)
		}
		return nil, weatherErr
	}

	report, err := domain.ComposeReport(domain.ReportInput{
		Lat:      lat,
		Lon:      lon,
		Region:   region,
		Weather:  weather,
		Soil:     soil,
		Location: a.location,
	})
	if err != nil {
		a.metrics.Analyses.WithLabelValues(outcomeIncomplete).Inc()
		a.logger.Warn("weather data incomplete", "lat", lat, "lon", lon, "error", err)
		return nil, err
	}

	a.metrics.Analyses.WithLabelValues(outcomeSuccess).Inc()
	a.logger.Debug("location analyzed",
		"lat", lat,
		"lon", lon,
		"region", region,
		"season", report.Season,
		"soil", report.Soil.Profile.Class.String(),
		"forecast_days", len(report.Weather.Forecast),
	)
	return &report, nil
}
