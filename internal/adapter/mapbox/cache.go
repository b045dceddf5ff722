package mapbox

import (
	"context"
	"fmt"
	"strings"

	"github.com/couchcryptid/crop-advisor-service/internal/adapter/cache"
	"github.com/couchcryptid/crop-advisor-service/internal/domain"
	"github.com/couchcryptid/crop-advisor-service/internal/observability"
)

// CachedGeocoder wraps a Geocoder with an in-memory LRU cache.
type CachedGeocoder struct {
	inner   domain.Geocoder
	cache   *cache.LRU[string, domain.GeocodingResult]
	metrics *observability.Metrics
}

// NewCachedGeocoder creates a cache decorator around a geocoder. Place
// lookups do not go stale, so entries have no TTL.
func NewCachedGeocoder(inner domain.Geocoder, maxEntries int, metrics *observability.Metrics) *CachedGeocoder {
	return &CachedGeocoder{
		inner:   inner,
		cache:   cache.New[string, domain.GeocodingResult](maxEntries, 0, nil),
		metrics: metrics,
	}
}

func (c *CachedGeocoder) ForwardGeocode(ctx context.Context, query string) (domain.GeocodingResult, error) {
	key := "fwd:" + strings.ToLower(NormalizeQuery(query))
	return c.lookup(key, "geocode_forward", func() (domain.GeocodingResult, error) {
		return c.inner.ForwardGeocode(ctx, query)
	})
}

func (c *CachedGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (domain.GeocodingResult, error) {
	key := fmt.Sprintf("rev:%.6f,%.6f", lat, lon)
	return c.lookup(key, "geocode_reverse", func() (domain.GeocodingResult, error) {
		return c.inner.ReverseGeocode(ctx, lat, lon)
	})
}

func (c *CachedGeocoder) lookup(key, label string, fetch func() (domain.GeocodingResult, error)) (domain.GeocodingResult, error) {
	if result, ok := c.cache.Get(key); ok {
		c.metrics.CacheLookups.WithLabelValues(label, "hit").Inc()
		return result, nil
	}
	c.metrics.CacheLookups.WithLabelValues(label, "miss").Inc()

	result, err := fetch()
	if err != nil {
		return result, err
	}
	// Only cache non-empty results so transient "not found" responses can be retried.
	if result.FormattedAddress != "" {
		c.cache.Put(key, result)
	}
	return result, nil
}
