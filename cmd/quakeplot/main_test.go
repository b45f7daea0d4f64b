package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/quake-stats/internal/config"
	"github.com/couchcryptid/quake-stats/internal/observability"
)

func plotConfig(t *testing.T, body string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	data := filepath.Join(dir, "raw_earthquakes.json")
	require.NoError(t, os.WriteFile(data, []byte(body), 0o644))
	return &config.Config{
		DataFile:         data,
		ChartDir:         filepath.Join(dir, "charts"),
		CountChartFile:   "number_per_year.png",
		AverageChartFile: "average_magnitude_per_year.png",
		ChartLocation:    time.UTC,
	}
}

func TestRun(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "two years",
			body: `{"features":[
				{"id":"a","properties":{"mag":2.0,"time":1267444800000},"geometry":{"coordinates":[1.0,52.0,5.0]}},
				{"id":"b","properties":{"mag":5.0,"time":1283342400000},"geometry":{"coordinates":[-2.5,51.0,0.0]}},
				{"id":"c","properties":{"mag":1.4,"time":1306929600000},"geometry":{"coordinates":[-3.0,55.0,2.0]}}
			]}`,
		},
		{
			name: "no events",
			body: `{"features":[]}`,
		},
		{
			name: "only null magnitudes",
			body: `{"features":[
				{"id":"n","properties":{"mag":null,"time":1283342400000},"geometry":{"coordinates":[-2.5,51.0,0.0]}}
			]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := plotConfig(t, tt.body)
			logger := slog.New(slog.NewTextHandler(io.Discard, nil))

			code := run(cfg, logger, observability.NewMetricsForTesting())
			require.Equal(t, 0, code)

			assert.FileExists(t, filepath.Join(cfg.ChartDir, cfg.CountChartFile))
			assert.FileExists(t, filepath.Join(cfg.ChartDir, cfg.AverageChartFile))
		})
	}
}

func TestRun_MissingDataFile(t *testing.T) {
	cfg := plotConfig(t, `{"features":[]}`)
	cfg.DataFile = filepath.Join(t.TempDir(), "absent.json")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	assert.Equal(t, 1, run(cfg, logger, observability.NewMetricsForTesting()))
	assert.NoFileExists(t, filepath.Join(cfg.ChartDir, cfg.CountChartFile))
}
