package mapbox

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/crop-advisor-service/internal/observability"
)

const (
	testToken         = "test-token"
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

func testMetrics() *observability.Metrics {
	return observability.NewMetricsForTesting()
}

func testClient(baseURL string) *Client {
	return &Client{
		token:      testToken,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		metrics:    testMetrics(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestNormalizeQuery(t *testing.T) {
	assert.Equal(t, "411001, India", NormalizeQuery("411001"))
	assert.Equal(t, "411001, India", NormalizeQuery(" 411001 "))
	assert.Equal(t, "Pune", NormalizeQuery("Pune"))
	assert.Equal(t, "41100", NormalizeQuery("41100"))
	assert.Equal(t, "4110012", NormalizeQuery("4110012"))
	assert.Equal(t, "Pune 411001", NormalizeQuery("Pune 411001"))
}

func TestClient_ForwardGeocode_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "Pune")
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, testToken, r.URL.Query().Get("access_token"))

		resp := response{
			Features: []feature{
				{
					Center:    []float64{73.8567, 18.5204},
					PlaceName: "Pune, Maharashtra, India",
					Text:      "Pune",
					Relevance: 0.95,
				},
			},
		}
		w.Header().Set(headerContentType, contentTypeJSON)
		assert.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	result, err := c.ForwardGeocode(context.Background(), "Pune")
	require.NoError(t, err)

	assert.Equal(t, 18.5204, result.Lat)
	assert.Equal(t, 73.8567, result.Lon)
	assert.Equal(t, "Pune, Maharashtra, India", result.FormattedAddress)
	assert.Equal(t, "Pune", result.PlaceName)
	assert.Equal(t, 0.95, result.Confidence)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.UpstreamRequests.WithLabelValues(provider, "success")))
}

func TestClient_ForwardGeocode_PinCode(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`{"features":[]}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).ForwardGeocode(context.Background(), "411001")
	require.NoError(t, err)
	assert.Equal(t, "/411001, India.json", gotPath)
}

func TestClient_ReverseGeocode_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/73.856700,18.520400.json", r.URL.Path)
		resp := response{
			Features: []feature{
				{
					Center:    []float64{73.8567, 18.5204},
					PlaceName: "Shivajinagar, Pune, Maharashtra, India",
					Text:      "Shivajinagar",
					Relevance: 0.98,
				},
			},
		}
		w.Header().Set(headerContentType, contentTypeJSON)
		assert.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	result, err := c.ReverseGeocode(context.Background(), 18.5204, 73.8567)
	require.NoError(t, err)

	assert.Equal(t, "Shivajinagar, Pune, Maharashtra, India", result.FormattedAddress)
	assert.Equal(t, "Shivajinagar", result.PlaceName)
	assert.Equal(t, 0.98, result.Confidence)
}

func TestClient_ForwardGeocode_NoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		assert.NoError(t, json.NewEncoder(w).Encode(response{Features: []feature{}}))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	result, err := c.ForwardGeocode(context.Background(), "NONEXISTENT")
	require.NoError(t, err)
	assert.Equal(t, float64(0), result.Lat)
	assert.Empty(t, result.FormattedAddress)
}

func TestClient_ForwardGeocode_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Not Authorized"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.token = "bad-token"

	_, err := c.ForwardGeocode(context.Background(), "Pune")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.UpstreamRequests.WithLabelValues(provider, "error")))
}

func TestClient_ForwardGeocode_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.httpClient = &http.Client{Timeout: 50 * time.Millisecond}

	_, err := c.ForwardGeocode(context.Background(), "Pune")
	require.Error(t, err)
}
