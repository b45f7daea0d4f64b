// Command quakefetch queries the USGS earthquake catalogue once, saves the
// raw GeoJSON response and prints the event count and the strongest event.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/joho/godotenv"

	"github.com/couchcryptid/quake-stats/internal/adapter/file"
	kafkaadapter "github.com/couchcryptid/quake-stats/internal/adapter/kafka"
	"github.com/couchcryptid/quake-stats/internal/adapter/mapbox"
	"github.com/couchcryptid/quake-stats/internal/adapter/usgs"
	"github.com/couchcryptid/quake-stats/internal/config"
	"github.com/couchcryptid/quake-stats/internal/domain"
	"github.com/couchcryptid/quake-stats/internal/observability"
	"github.com/couchcryptid/quake-stats/internal/pipeline"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	code := run(ctx, cfg, logger, metrics)
	stop()

	if cfg.PushgatewayURL != "" {
		if err := metrics.Push(context.Background(), cfg.PushgatewayURL, "quakefetch"); err != nil {
			logger.Warn("metrics push failed", "error", err)
		}
	}
	os.Exit(code)
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) int {
	var publisher pipeline.Publisher
	if cfg.KafkaEnabled {
		w := kafkaadapter.NewWriter(cfg, logger)
		defer func() {
			if err := w.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		publisher = w
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	}

	geocoder := newGeocoder(cfg, logger, metrics)
	source := usgs.NewClient(cfg.USGSBaseURL, cfg.USGSTimeout, metrics, logger)
	store := file.NewStore(cfg.DataFile)
	p := pipeline.New(source, store, publisher, geocoder, logger, metrics)

	report, err := p.Run(ctx, cfg.Query)
	if err != nil {
		logger.Error("fetch failed", "error", err)
		return 1
	}
	logger.Info("raw response saved", "path", store.Path())

	for _, line := range report.Lines() {
		fmt.Println(line)
	}
	return 0
}

// newGeocoder returns the Mapbox client when geocoding is enabled, or nil.
// A run resolves a single epicentre, so lookups are not cached.
func newGeocoder(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) domain.Geocoder {
	if !cfg.MapboxEnabled {
		return nil
	}
	metrics.GeocodeEnabled.Set(1)
	logger.Info("mapbox geocoding enabled", "timeout", cfg.MapboxTimeout)
	return mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
}
