package domain

import (
	"context"
	"fmt"
	"log/slog"
)

// Geo source values recorded on a resolved Location.
const (
	GeoSourceRequest = "request"
	GeoSourceForward = "forward"
	GeoSourceReverse = "reverse"
	GeoSourceFailed  = "failed"
)

// Location is where an analysis runs: coordinates plus the region label shown
// in the report.
type Location struct {
	Lat           float64 `json:"lat"`
	Lon           float64 `json:"lon"`
	Address       string  `json:"address,omitempty"`
	PlaceName     string  `json:"place_name,omitempty"`
	GeoConfidence float64 `json:"geo_confidence,omitempty"`
	GeoSource     string  `json:"geo_source"`
}

// ResolveLocation turns a request into a Location. Requests that carry
// coordinates keep them; a geocoder, when present, fills in a missing
// address by reverse lookup. Address-only requests need the geocoder to find
// coordinates and fail with ErrInvalidRequest without one.
//
// Reverse lookup failures are logged and degrade to the request as given.
func ResolveLocation(ctx context.Context, req AnalysisRequest, geocoder Geocoder, logger *slog.Logger) (Location, error) {
	loc := Location{
		Lat:       req.Lat.Value,
		Lon:       req.Lon.Value,
		Address:   req.Address,
		GeoSource: GeoSourceRequest,
	}

	if !req.HasCoordinates() {
		if geocoder == nil {
			return Location{}, fmt.Errorf("%w: address %q needs geocoding but no geocoder is configured", ErrInvalidRequest, req.Address)
		}
		result, err := geocoder.ForwardGeocode(ctx, req.Address)
		if err != nil {
			return Location{}, fmt.Errorf("forward geocode %q: %w", req.Address, err)
		}
		if result.Lat == 0 && result.Lon == 0 {
			return Location{}, fmt.Errorf("%w: no coordinates found for %q", ErrInvalidRequest, req.Address)
		}
		loc.Lat = result.Lat
		loc.Lon = result.Lon
		loc.PlaceName = result.PlaceName
		loc.GeoConfidence = result.Confidence
		loc.GeoSource = GeoSourceForward
		if result.FormattedAddress != "" {
			loc.Address = result.FormattedAddress
		}
		return loc, nil
	}

	if req.Address != "" || geocoder == nil {
		return loc, nil
	}

	result, err := geocoder.ReverseGeocode(ctx, loc.Lat, loc.Lon)
	if err != nil {
		logger.Warn("reverse geocoding failed",
			"request_id", req.ID,
			"lat", loc.Lat,
			"lon", loc.Lon,
			"error", err,
		)
		loc.GeoSource = GeoSourceFailed
		return loc, nil
	}
	if result.FormattedAddress != "" {
		loc.Address = result.FormattedAddress
		loc.PlaceName = result.PlaceName
		loc.GeoConfidence = result.Confidence
		loc.GeoSource = GeoSourceReverse
	}
	return loc, nil
}
