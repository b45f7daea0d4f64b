// Command quakeplot reads the saved catalogue response and writes two
// charts: earthquakes per year and average magnitude per year.
package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/joho/godotenv"

	"github.com/couchcryptid/quake-stats/internal/adapter/file"
	"github.com/couchcryptid/quake-stats/internal/chart"
	"github.com/couchcryptid/quake-stats/internal/config"
	"github.com/couchcryptid/quake-stats/internal/domain"
	"github.com/couchcryptid/quake-stats/internal/observability"
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

	code := run(cfg, logger, metrics)

	if cfg.PushgatewayURL != "" {
		if err := metrics.Push(context.Background(), cfg.PushgatewayURL, "quakeplot"); err != nil {
			logger.Warn("metrics push failed", "error", err)
		}
	}
	os.Exit(code)
}

func run(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) int {
	ds, err := file.NewStore(cfg.DataFile).Load()
	if err != nil {
		logger.Error("failed to load dataset", "error", err)
		return 1
	}

	groups := domain.GroupByYear(ds, cfg.ChartLocation)
	logger.Info("magnitudes grouped",
		"events", len(ds),
		"grouped", groups.Total(),
		"years", len(groups),
		"timezone", cfg.ChartLocation.String(),
	)

	if err := os.MkdirAll(cfg.ChartDir, 0o755); err != nil {
		logger.Error("failed to create chart dir", "error", err)
		return 1
	}

	r := chart.NewRenderer(metrics, logger)
	if err := r.RenderCounts(filepath.Join(cfg.ChartDir, cfg.CountChartFile), groups.Counts()); err != nil {
		logger.Error("count chart failed", "error", err)
		return 1
	}
	if err := r.RenderAverages(filepath.Join(cfg.ChartDir, cfg.AverageChartFile), groups.Averages()); err != nil {
		logger.Error("average chart failed", "error", err)
		return 1
	}
	return 0
}
