// Command quakeserve serves per-year statistics and the strongest event
// from the saved catalogue response, alongside health and metrics endpoints.
// SIGHUP reloads the data file.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/joho/godotenv"

	"github.com/couchcryptid/quake-stats/internal/adapter/file"
	httpadapter "github.com/couchcryptid/quake-stats/internal/adapter/http"
	"github.com/couchcryptid/quake-stats/internal/adapter/mapbox"
	"github.com/couchcryptid/quake-stats/internal/config"
	"github.com/couchcryptid/quake-stats/internal/domain"
	"github.com/couchcryptid/quake-stats/internal/observability"
	"github.com/couchcryptid/quake-stats/internal/stats"
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

	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		geocoder = mapbox.NewCachedGeocoder(client, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	svc := stats.NewService(file.NewStore(cfg.DataFile), geocoder, cfg.ChartLocation, logger, metrics)
	if err := svc.Reload(); err != nil {
		// Keep serving; /readyz reports not ready until a reload succeeds.
		logger.Error("initial dataset load failed", "error", err)
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

loop:
	for {
		select {
		case <-hup:
			if err := svc.Reload(); err != nil {
				logger.Error("dataset reload failed", "error", err)
			}
		case <-ctx.Done():
			break loop
		}
	}
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	logger.Info("shutdown complete")
}
