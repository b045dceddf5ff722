package openweather

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/crop-advisor-service/internal/adapter/cache"
	"github.com/couchcryptid/crop-advisor-service/internal/domain"
	"github.com/couchcryptid/crop-advisor-service/internal/observability"
)

// CachedProvider wraps a WeatherProvider with an LRU cache whose entries
// expire after a TTL. Coordinates are rounded to 4 decimal places (about
// 11 m) to form the key.
type CachedProvider struct {
	inner   domain.WeatherProvider
	cache   *cache.LRU[string, domain.WeatherData]
	metrics *observability.Metrics
}

// NewCachedProvider creates a caching decorator. A nil clock uses real time.
func NewCachedProvider(inner domain.WeatherProvider, maxEntries int, ttl time.Duration, clock clockwork.Clock, metrics *observability.Metrics) *CachedProvider {
	return &CachedProvider{
		inner:   inner,
		cache:   cache.New[string, domain.WeatherData](maxEntries, ttl, clock),
		metrics: metrics,
	}
}

func (c *CachedProvider) Fetch(ctx context.Context, lat, lon float64) (domain.WeatherData, error) {
	key := fmt.Sprintf("%.4f,%.4f", lat, lon)
	if data, ok := c.cache.Get(key); ok {
		c.metrics.CacheLookups.WithLabelValues("weather", "hit").Inc()
		return data, nil
	}
	c.metrics.CacheLookups.WithLabelValues("weather", "miss").Inc()

	data, err := c.inner.Fetch(ctx, lat, lon)
	if err != nil {
		return data, err
	}
	if data.Complete() {
		c.cache.Put(key, data)
	}
	return data, nil
}
