// Package stats serves per-year aggregates and the strongest event over a
// loaded dataset.
package stats

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/couchcryptid/quake-stats/internal/domain"
	"github.com/couchcryptid/quake-stats/internal/observability"
)

// Loader returns the dataset to serve.
type Loader interface {
	Load() (domain.Dataset, error)
}

// YearSummary is the combined count and average view for one year.
type YearSummary struct {
	Year    int     `json:"year"`
	Count   int     `json:"count"`
	Average float64 `json:"average_magnitude"`
}

// resetter is implemented by geocoders that remember lookups per dataset.
type resetter interface {
	Reset()
}

// Service holds the most recently loaded dataset and its grouping.
type Service struct {
	loader   Loader
	geocoder domain.Geocoder // optional
	loc      *time.Location
	logger   *slog.Logger
	metrics  *observability.Metrics

	mu      sync.RWMutex
	dataset domain.Dataset
	groups  domain.YearlyMagnitudes
	loaded  bool
}

// NewService creates a Service. Call Reload before serving.
func NewService(loader Loader, geocoder domain.Geocoder, loc *time.Location, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		loader:   loader,
		geocoder: geocoder,
		loc:      loc,
		logger:   logger,
		metrics:  metrics,
	}
}

// Reload reads the dataset from the loader and regroups it. On failure the
// previously loaded dataset stays in place. A successful reload clears any
// places the geocoder remembered for the previous dataset.
func (s *Service) Reload() error {
	ds, err := s.loader.Load()
	if err != nil {
		return err
	}
	groups := domain.GroupByYear(ds, s.loc)

	s.mu.Lock()
	s.dataset = ds
	s.groups = groups
	s.loaded = true
	s.mu.Unlock()

	if r, ok := s.geocoder.(resetter); ok {
		r.Reset()
	}

	s.metrics.DatasetEvents.Set(float64(len(ds)))
	s.logger.Info("dataset loaded", "count", len(ds), "years", len(groups))
	return nil
}

// CheckReadiness reports an error until a dataset has been loaded.
func (s *Service) CheckReadiness(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return errors.New("dataset not loaded")
	}
	return nil
}

// Yearly returns count and average per year in ascending year order.
func (s *Service) Yearly() []YearSummary {
	s.mu.RLock()
	groups := s.groups
	s.mu.RUnlock()

	counts := groups.Counts()
	avgs := groups.Averages()
	out := make([]YearSummary, len(counts))
	for i := range counts {
		out[i] = YearSummary{
			Year:    counts[i].Year,
			Count:   int(counts[i].Value),
			Average: avgs[i].Value,
		}
	}
	return out
}

// Strongest returns the report for the loaded dataset, geocoded when a
// geocoder is configured. It returns domain.ErrEmptyDataset for an empty
// dataset.
func (s *Service) Strongest(ctx context.Context) (domain.Report, error) {
	s.mu.RLock()
	ds := s.dataset
	s.mu.RUnlock()

	report, err := domain.NewReport(ds)
	if err != nil {
		return domain.Report{}, err
	}
	if s.geocoder != nil {
		result, err := s.geocoder.ReverseGeocode(ctx, report.Location.Lat, report.Location.Lon)
		if err != nil {
			s.logger.Warn("reverse geocoding failed", "event_id", report.Strongest.ID, "error", err)
		} else {
			report.PlaceName = result.FormattedAddress
		}
	}
	return report, nil
}
