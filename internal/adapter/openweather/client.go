// Package openweather fetches current conditions and the 5-day/3-hour
// forecast from the OpenWeatherMap API.
package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/crop-advisor-service/internal/domain"
	"github.com/couchcryptid/crop-advisor-service/internal/observability"
)

const (
	provider = "openweather"

	// forecastPoints is five days of 3-hourly samples.
	forecastPoints = 40

	// ForecastDays is how many calendar days of forecast reach the analyzer.
	ForecastDays = 5
)

// Client implements domain.WeatherProvider.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	location   *time.Location
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an OpenWeatherMap client. Forecast samples are grouped
// into calendar days in loc.
func NewClient(apiKey, baseURL string, timeout time.Duration, loc *time.Location, metrics *observability.Metrics, logger *slog.Logger) *Client {
	if loc == nil {
		loc = time.Local
	}
	return &Client{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		location:   loc,
		metrics:    metrics,
		logger:     logger,
	}
}

// Fetch retrieves current conditions and the forecast concurrently. Any
// upstream failure is reported as domain.ErrWeatherUnavailable.
func (c *Client) Fetch(ctx context.Context, lat, lon float64) (domain.WeatherData, error) {
	start := time.Now()
	data, err := c.fetch(ctx, lat, lon)
	c.metrics.UpstreamDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())

	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(provider, "error").Inc()
		return domain.WeatherData{}, fmt.Errorf("%w: %w", domain.ErrWeatherUnavailable, err)
	}
	c.metrics.UpstreamRequests.WithLabelValues(provider, "success").Inc()
	return data, nil
}

func (c *Client) fetch(ctx context.Context, lat, lon float64) (domain.WeatherData, error) {
	var (
		cur currentResponse
		fc  forecastResponse
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.get(gctx, "weather", lat, lon, nil, &cur)
	})
	g.Go(func() error {
		return c.get(gctx, "forecast", lat, lon, url.Values{"cnt": {strconv.Itoa(forecastPoints)}}, &fc)
	})
	if err := g.Wait(); err != nil {
		return domain.WeatherData{}, err
	}

	data := Bundle{Current: &cur, Forecast: fc}.WeatherData(c.location)
	c.logger.Debug("weather fetched",
		"lat", lat,
		"lon", lon,
		"condition", data.Current.Condition,
		"forecast_samples", len(data.Forecast),
	)
	return data, nil
}

func (c *Client) get(ctx context.Context, endpoint string, lat, lon float64, extra url.Values, out any) error {
	params := url.Values{
		"lat":   {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon":   {strconv.FormatFloat(lon, 'f', -1, 64)},
		"appid": {c.apiKey},
		"units": {"metric"},
	}
	for k, v := range extra {
		params[k] = v
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create %s request: %w", endpoint, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("openweather %s error: status %d: %s", endpoint, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

// FilterForecastDays keeps the samples of the first n distinct calendar
// dates in loc, in input order.
func FilterForecastDays(samples []domain.ForecastSample, loc *time.Location, n int) []domain.ForecastSample {
	if loc == nil {
		loc = time.Local
	}
	seen := make(map[string]struct{}, n)
	out := make([]domain.ForecastSample, 0, len(samples))
	for _, s := range samples {
		date := s.Time.In(loc).Format(time.DateOnly)
		if _, ok := seen[date]; !ok {
			if len(seen) >= n {
				continue
			}
			seen[date] = struct{}{}
		}
		out = append(out, s)
	}
	return out
}
