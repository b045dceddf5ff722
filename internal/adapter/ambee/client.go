// Package ambee fetches live soil readings from the Ambee soil API.
package ambee

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/crop-advisor-service/internal/domain"
	"github.com/couchcryptid/crop-advisor-service/internal/observability"
)

const (
	defaultBaseURL = "https://api.ambeedata.com"
	provider       = "ambee"
)

// ErrNoReading means the API answered but had no observation for the location.
var ErrNoReading = errors.New("ambee: no soil reading")

// Client implements domain.SoilProvider.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an Ambee soil client.
func NewClient(apiKey string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultBaseURL,
		metrics:    metrics,
		logger:     logger,
	}
}

// Observe returns the latest soil reading near lat/lon.
func (c *Client) Observe(ctx context.Context, lat, lon float64) (domain.SoilObservation, error) {
	start := time.Now()
	obs, err := c.fetch(ctx, lat, lon)
	c.metrics.UpstreamDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())

	outcome := "success"
	if err != nil {
		outcome = "error"
		c.logger.Debug("ambee request failed", "lat", lat, "lon", lon, "error", err)
	}
	c.metrics.UpstreamRequests.WithLabelValues(provider, outcome).Inc()
	return obs, err
}

func (c *Client) fetch(ctx context.Context, lat, lon float64) (domain.SoilObservation, error) {
	params := url.Values{
		"lat": {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lng": {strconv.FormatFloat(lon, 'f', -1, 64)},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/soil/latest/by-lat-lng?"+params.Encode(), nil)
	if err != nil {
		return domain.SoilObservation{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Content-type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.SoilObservation{}, fmt.Errorf("soil request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return domain.SoilObservation{}, fmt.Errorf("ambee API error: status %d: %s", resp.StatusCode, body)
	}

	var r response
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return domain.SoilObservation{}, fmt.Errorf("decode response: %w", err)
	}
	if len(r.Data) == 0 {
		return domain.SoilObservation{}, ErrNoReading
	}

	d := r.Data[0]
	obs := domain.SoilObservation{
		Source:      provider,
		Moisture:    d.SoilMoisture,
		Temperature: d.SoilTemperature,
	}
	if t, err := time.Parse(time.RFC3339, d.ScanTime); err == nil {
		obs.ObservedAt = t.UTC()
	}
	return obs, nil
}

// Ambee API response types.

type response struct {
	Message string    `json:"message"`
	Data    []reading `json:"data"`
}

type reading struct {
	ScanTime        string  `json:"scantime"`
	SoilMoisture    float64 `json:"soil_moisture"`
	SoilTemperature float64 `json:"soil_temperature"`
}
