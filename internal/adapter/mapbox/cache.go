package mapbox

import (
	"context"
	"sync"

	"github.com/couchcryptid/quake-stats/internal/domain"
	"github.com/couchcryptid/quake-stats/internal/observability"
)

// CachedGeocoder remembers the place found for each epicentre until Reset.
// A served dataset has one strongest epicentre, so entries only accumulate
// across reloads; the server calls Reset whenever it swaps datasets.
type CachedGeocoder struct {
	inner   domain.Geocoder
	metrics *observability.Metrics

	mu     sync.Mutex
	places map[domain.Geo]domain.GeocodingResult
}

// NewCachedGeocoder creates a cache decorator around a geocoder.
func NewCachedGeocoder(inner domain.Geocoder, metrics *observability.Metrics) *CachedGeocoder {
	return &CachedGeocoder{
		inner:   inner,
		metrics: metrics,
		places:  make(map[domain.Geo]domain.GeocodingResult),
	}
}

func (c *CachedGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (domain.GeocodingResult, error) {
	key := domain.Geo{Lat: lat, Lon: lon}

	c.mu.Lock()
	result, ok := c.places[key]
	c.mu.Unlock()
	if ok {
		c.metrics.GeocodeCache.WithLabelValues("hit").Inc()
		return result, nil
	}
	c.metrics.GeocodeCache.WithLabelValues("miss").Inc()

	result, err := c.inner.ReverseGeocode(ctx, lat, lon)
	if err != nil {
		return result, err
	}
	// Offshore epicentres often resolve to nothing; leave them uncached so a
	// later request can try again.
	if result.FormattedAddress != "" {
		c.mu.Lock()
		c.places[key] = result
		c.mu.Unlock()
	}
	return result, nil
}

// Reset forgets every remembered place.
func (c *CachedGeocoder) Reset() {
	c.mu.Lock()
	clear(c.places)
	c.mu.Unlock()
}
