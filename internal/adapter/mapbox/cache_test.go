package mapbox

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/crop-advisor-service/internal/domain"
)

// --- mock for cache tests ---

type countingGeocoder struct {
	forwardCalls int
	reverseCalls int
	result       domain.GeocodingResult
	err          error
}

func (m *countingGeocoder) ForwardGeocode(_ context.Context, _ string) (domain.GeocodingResult, error) {
	m.forwardCalls++
	return m.result, m.err
}

func (m *countingGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (domain.GeocodingResult, error) {
	m.reverseCalls++
	return m.result, m.err
}

// --- CachedGeocoder tests ---

func TestCachedGeocoder_ForwardCacheHit(t *testing.T) {
	inner := &countingGeocoder{
		result: domain.GeocodingResult{Lat: 18.52, Lon: 73.85, PlaceName: "Pune", FormattedAddress: "Pune, Maharashtra"},
	}
	metrics := testMetrics()
	cached := NewCachedGeocoder(inner, 10, metrics)

	r1, err := cached.ForwardGeocode(context.Background(), "Pune")
	require.NoError(t, err)
	assert.Equal(t, "Pune", r1.PlaceName)

	r2, err := cached.ForwardGeocode(context.Background(), "  PUNE ")
	require.NoError(t, err)
	assert.Equal(t, r1, r2)

	assert.Equal(t, 1, inner.forwardCalls, "should only call inner once")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CacheLookups.WithLabelValues("geocode_forward", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CacheLookups.WithLabelValues("geocode_forward", "miss")))
}

func TestCachedGeocoder_PinCodeSharesKey(t *testing.T) {
	inner := &countingGeocoder{result: domain.GeocodingResult{FormattedAddress: "411001, Pune, India"}}
	cached := NewCachedGeocoder(inner, 10, testMetrics())

	_, _ = cached.ForwardGeocode(context.Background(), "411001")
	_, _ = cached.ForwardGeocode(context.Background(), "411001, India")

	assert.Equal(t, 1, inner.forwardCalls)
}

func TestCachedGeocoder_ReverseCacheHit(t *testing.T) {
	inner := &countingGeocoder{
		result: domain.GeocodingResult{FormattedAddress: "Pune, Maharashtra"},
	}
	cached := NewCachedGeocoder(inner, 10, testMetrics())

	_, err := cached.ReverseGeocode(context.Background(), 18.5204, 73.8567)
	require.NoError(t, err)

	_, err = cached.ReverseGeocode(context.Background(), 18.5204, 73.8567)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.reverseCalls, "should only call inner once")
}

func TestCachedGeocoder_DifferentKeysMiss(t *testing.T) {
	inner := &countingGeocoder{
		result: domain.GeocodingResult{PlaceName: "Place", FormattedAddress: "Place, MH"},
	}
	cached := NewCachedGeocoder(inner, 10, testMetrics())

	_, _ = cached.ForwardGeocode(context.Background(), "Pune")
	_, _ = cached.ForwardGeocode(context.Background(), "Nashik")

	assert.Equal(t, 2, inner.forwardCalls)
}

func TestCachedGeocoder_EmptyResultNotCached(t *testing.T) {
	inner := &countingGeocoder{}
	cached := NewCachedGeocoder(inner, 10, testMetrics())

	_, _ = cached.ForwardGeocode(context.Background(), "Atlantis")
	_, _ = cached.ForwardGeocode(context.Background(), "Atlantis")

	assert.Equal(t, 2, inner.forwardCalls)
}

func TestCachedGeocoder_ErrorNotCached(t *testing.T) {
	inner := &countingGeocoder{err: errors.New("boom")}
	cached := NewCachedGeocoder(inner, 10, testMetrics())

	_, err := cached.ReverseGeocode(context.Background(), 1, 2)
	require.Error(t, err)
	_, err = cached.ReverseGeocode(context.Background(), 1, 2)
	require.Error(t, err)

	assert.Equal(t, 2, inner.reverseCalls)
}
