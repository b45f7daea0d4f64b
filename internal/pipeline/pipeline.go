package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/quake-stats/internal/config"
	"github.com/couchcryptid/quake-stats/internal/domain"
	"github.com/couchcryptid/quake-stats/internal/observability"
)

// Source fetches the raw catalogue response for a query.
type Source interface {
	Fetch(ctx context.Context, q config.Query) ([]byte, error)
}

// RawStore persists the raw response.
type RawStore interface {
	Save(raw []byte) error
}

// Publisher forwards parsed events downstream.
type Publisher interface {
	Publish(ctx context.Context, events domain.Dataset) error
}

// Pipeline runs one fetch: extract, persist, parse, publish, summarise.
type Pipeline struct {
	source    Source
	store     RawStore
	publisher Publisher       // optional
	geocoder  domain.Geocoder // optional
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a Pipeline. publisher and geocoder may be nil.
func New(src Source, store RawStore, pub Publisher, geocoder domain.Geocoder, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		source:    src,
		store:     store,
		publisher: pub,
		geocoder:  geocoder,
		logger:    logger,
		metrics:   metrics,
	}
}

// Run fetches q once and returns the summary report. Fetch, write and parse
// failures abort the run; publish and geocode failures are logged and
// leave the report intact.
func (p *Pipeline) Run(ctx context.Context, q config.Query) (domain.Report, error) {
	p.logger.Info("fetching earthquakes",
		"start", q.StartTime, "end", q.EndTime, "min_magnitude", q.MinMagnitude)

	raw, err := p.source.Fetch(ctx, q)
	if err != nil {
		return domain.Report{}, fmt.Errorf("fetch: %w", err)
	}

	if err := p.store.Save(raw); err != nil {
		return domain.Report{}, fmt.Errorf("save raw response: %w", err)
	}

	ds, err := domain.ParseDataset(raw)
	if err != nil {
		return domain.Report{}, err
	}
	missing := domain.CountMissingMagnitude(ds)
	p.metrics.EventsFetched.Add(float64(len(ds)))
	p.metrics.NullMagnitudes.Add(float64(missing))
	p.logger.Info("earthquakes loaded", "count", len(ds), "missing_magnitude", missing)

	p.publish(ctx, ds)

	report, err := domain.NewReport(ds)
	if err != nil {
		return domain.Report{}, err
	}
	report.PlaceName = p.placeName(ctx, report)
	return report, nil
}

func (p *Pipeline) publish(ctx context.Context, ds domain.Dataset) {
	if p.publisher == nil || len(ds) == 0 {
		return
	}
	if err := p.publisher.Publish(ctx, ds); err != nil {
		p.logger.Warn("publish failed, continuing", "error", err, "count", len(ds))
		p.metrics.PublishErrors.Inc()
		return
	}
	p.metrics.EventsPublished.Add(float64(len(ds)))
}

func (p *Pipeline) placeName(ctx context.Context, r domain.Report) string {
	if p.geocoder == nil {
		return ""
	}
	result, err := p.geocoder.ReverseGeocode(ctx, r.Location.Lat, r.Location.Lon)
	if err != nil {
		p.logger.Warn("reverse geocoding failed",
			"event_id", r.Strongest.ID,
			"lat", r.Location.Lat,
			"lon", r.Location.Lon,
			"error", err,
		)
		return ""
	}
	return result.FormattedAddress
}
