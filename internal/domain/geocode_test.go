package domain

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mock geocoder ---

type mockGeocoder struct {
	forwardResult GeocodingResult
	forwardErr    error
	reverseResult GeocodingResult
	reverseErr    error
	forwardCalls  int
	reverseCalls  int
	lastQuery     string
}

func (m *mockGeocoder) ForwardGeocode(_ context.Context, query string) (GeocodingResult, error) {
	m.forwardCalls++
	m.lastQuery = query
	return m.forwardResult, m.forwardErr
}

func (m *mockGeocoder) ReverseGeocode(_ context.Context, _, _ float64) (GeocodingResult, error) {
	m.reverseCalls++
	return m.reverseResult, m.reverseErr
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func coordsRequest(lat, lon float64) AnalysisRequest {
	return AnalysisRequest{ID: "req-1", Lat: NewCoordinate(lat), Lon: NewCoordinate(lon)}
}

// --- tests ---

func TestResolveLocation_NilGeocoder_WithCoordinates(t *testing.T) {
	req := coordsRequest(18.52, 73.85)
	req.Address = "Pune"

	loc, err := ResolveLocation(context.Background(), req, nil, discardLogger())

	require.NoError(t, err)
	assert.Equal(t, 18.52, loc.Lat)
	assert.Equal(t, 73.85, loc.Lon)
	assert.Equal(t, "Pune", loc.Address)
	assert.Equal(t, GeoSourceRequest, loc.GeoSource)
}

func TestResolveLocation_NilGeocoder_AddressOnly(t *testing.T) {
	req := AnalysisRequest{Address: "411001"}

	_, err := ResolveLocation(context.Background(), req, nil, discardLogger())

	require.ErrorIs(t, err, ErrInvalidRequest)
}

func TestResolveLocation_ForwardGeocode(t *testing.T) {
	geo := &mockGeocoder{
		forwardResult: GeocodingResult{
			Lat:              18.5204,
			Lon:              73.8567,
			FormattedAddress: "Pune, Maharashtra, India",
			PlaceName:        "Pune",
			Confidence:       0.95,
		},
	}

	loc, err := ResolveLocation(context.Background(), AnalysisRequest{Address: "Pune"}, geo, discardLogger())

	require.NoError(t, err)
	assert.Equal(t, 18.5204, loc.Lat)
	assert.Equal(t, 73.8567, loc.Lon)
	assert.Equal(t, "Pune, Maharashtra, India", loc.Address)
	assert.Equal(t, "Pune", loc.PlaceName)
	assert.Equal(t, 0.95, loc.GeoConfidence)
	assert.Equal(t, GeoSourceForward, loc.GeoSource)
	assert.Equal(t, "Pune", geo.lastQuery)
	assert.Equal(t, 0, geo.reverseCalls)
}

func TestResolveLocation_ForwardError(t *testing.T) {
	geo := &mockGeocoder{forwardErr: errors.New("API timeout")}

	_, err := ResolveLocation(context.Background(), AnalysisRequest{Address: "Pune"}, geo, discardLogger())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "API timeout")
}

func TestResolveLocation_ForwardEmptyResult(t *testing.T) {
	geo := &mockGeocoder{}

	_, err := ResolveLocation(context.Background(), AnalysisRequest{Address: "Nowhere"}, geo, discardLogger())

	require.ErrorIs(t, err, ErrInvalidRequest)
}

func TestResolveLocation_ReverseGeocode(t *testing.T) {
	geo := &mockGeocoder{
		reverseResult: GeocodingResult{
			FormattedAddress: "Nashik, Maharashtra, India",
			PlaceName:        "Nashik",
			Confidence:       0.9,
		},
	}

	loc, err := ResolveLocation(context.Background(), coordsRequest(19.99, 73.79), geo, discardLogger())

	require.NoError(t, err)
	assert.Equal(t, "Nashik, Maharashtra, India", loc.Address)
	assert.Equal(t, GeoSourceReverse, loc.GeoSource)
	assert.Equal(t, 19.99, loc.Lat)
	assert.Equal(t, 0, geo.forwardCalls)
	assert.Equal(t, 1, geo.reverseCalls)
}

func TestResolveLocation_ReverseError_GracefulDegradation(t *testing.T) {
	geo := &mockGeocoder{reverseErr: errors.New("rate limited")}

	loc, err := ResolveLocation(context.Background(), coordsRequest(19.99, 73.79), geo, discardLogger())

	require.NoError(t, err)
	assert.Equal(t, GeoSourceFailed, loc.GeoSource)
	assert.Equal(t, 19.99, loc.Lat)
	assert.Empty(t, loc.Address)
}

func TestResolveLocation_AddressAndCoords_SkipsGeocoding(t *testing.T) {
	geo := &mockGeocoder{}
	req := coordsRequest(19.99, 73.79)
	req.Address = "Nashik"

	loc, err := ResolveLocation(context.Background(), req, geo, discardLogger())

	require.NoError(t, err)
	assert.Equal(t, "Nashik", loc.Address)
	assert.Equal(t, GeoSourceRequest, loc.GeoSource)
	assert.Equal(t, 0, geo.forwardCalls)
	assert.Equal(t, 0, geo.reverseCalls)
}
