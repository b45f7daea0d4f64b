// Package usgs queries the USGS FDSN earthquake event service.
package usgs

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/couchcryptid/quake-stats/internal/config"
	"github.com/couchcryptid/quake-stats/internal/domain"
	"github.com/couchcryptid/quake-stats/internal/observability"
)

// Client fetches raw GeoJSON event lists from the catalogue.
type Client struct {
	http    *resty.Client
	baseURL string
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewClient creates a catalogue client. A zero timeout leaves requests
// unbounded. The client never retries.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	rc := resty.New().
		SetHeader("Accept", "application/geo+json, application/json").
		SetRetryCount(0)
	if timeout > 0 {
		rc.SetTimeout(timeout)
	}
	return &Client{
		http:    rc,
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// Params encodes q as FDSN query parameters.
func Params(q config.Query) map[string]string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	return map[string]string{
		"starttime":    q.StartTime,
		"endtime":      q.EndTime,
		"minlatitude":  f(q.MinLatitude),
		"maxlatitude":  f(q.MaxLatitude),
		"minlongitude": f(q.MinLongitude),
		"maxlongitude": f(q.MaxLongitude),
		"minmagnitude": f(q.MinMagnitude),
		"orderby":      q.OrderBy,
	}
}

// Fetch issues one GET for q and returns the response body unchanged.
func (c *Client) Fetch(ctx context.Context, q config.Query) ([]byte, error) {
	start := domain.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(Params(q)).
		Get(c.baseURL)
	c.metrics.FetchDuration.Observe(domain.Since(start).Seconds())
	if err != nil {
		c.metrics.FetchRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("usgs query request: %w", err)
	}
	if resp.IsError() {
		c.metrics.FetchRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("usgs API error: status %d: %s", resp.StatusCode(), resp.Body())
	}

	c.metrics.FetchRequests.WithLabelValues("success").Inc()
	c.logger.Debug("usgs query complete",
		"status", resp.StatusCode(),
		"bytes", len(resp.Body()),
		"duration", resp.Time(),
	)
	return resp.Body(), nil
}
