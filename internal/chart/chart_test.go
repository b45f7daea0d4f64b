package chart

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/quake-stats/internal/domain"
	"github.com/couchcryptid/quake-stats/internal/observability"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func testRenderer() *Renderer {
	return NewRenderer(observability.NewMetricsForTesting(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func series() domain.YearlyMagnitudes {
	return domain.YearlyMagnitudes{
		2001: {1.2, 2.4},
		2002: {3.1},
		2005: {1.0, 1.5, 2.0},
	}
}

func assertPNG(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), len(pngMagic))
	assert.True(t, bytes.HasPrefix(data, pngMagic), "expected PNG header")
}

func TestRenderer_RenderCounts(t *testing.T) {
	r := testRenderer()
	path := filepath.Join(t.TempDir(), "number_per_year.png")

	require.NoError(t, r.RenderCounts(path, series().Counts()))
	assertPNG(t, path)
	assert.InDelta(t, 1.0, testutil.ToFloat64(r.metrics.ChartsRendered.WithLabelValues("count")), 1e-9)
}

func TestRenderer_RenderAverages(t *testing.T) {
	r := testRenderer()
	path := filepath.Join(t.TempDir(), "average_magnitude_per_year.png")

	require.NoError(t, r.RenderAverages(path, series().Averages()))
	assertPNG(t, path)
	assert.InDelta(t, 1.0, testutil.ToFloat64(r.metrics.ChartsRendered.WithLabelValues("average")), 1e-9)
}

func TestRenderer_SeparateFiles(t *testing.T) {
	r := testRenderer()
	dir := t.TempDir()
	counts := filepath.Join(dir, "counts.png")
	avgs := filepath.Join(dir, "avgs.png")

	require.NoError(t, r.RenderCounts(counts, series().Counts()))
	require.NoError(t, r.RenderAverages(avgs, series().Averages()))

	a, err := os.ReadFile(counts)
	require.NoError(t, err)
	b, err := os.ReadFile(avgs)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestRenderer_SingleYear(t *testing.T) {
	r := testRenderer()
	path := filepath.Join(t.TempDir(), "single.png")
	one := []domain.YearValue{{Year: 2010, Value: 3.5}}

	require.NoError(t, r.RenderAverages(path, one))
	assertPNG(t, path)
}

func TestRenderer_EmptySeriesDrawsAxes(t *testing.T) {
	r := testRenderer()
	dir := t.TempDir()
	counts := filepath.Join(dir, "number_per_year.png")
	avgs := filepath.Join(dir, "average_magnitude_per_year.png")

	require.NoError(t, r.RenderCounts(counts, nil))
	require.NoError(t, r.RenderAverages(avgs, []domain.YearValue{}))
	assertPNG(t, counts)
	assertPNG(t, avgs)
	assert.InDelta(t, 1.0, testutil.ToFloat64(r.metrics.ChartsRendered.WithLabelValues("count")), 1e-9)
	assert.InDelta(t, 1.0, testutil.ToFloat64(r.metrics.ChartsRendered.WithLabelValues("average")), 1e-9)
}

func TestRenderer_UnsupportedExtension(t *testing.T) {
	r := testRenderer()
	err := r.RenderCounts(filepath.Join(t.TempDir(), "chart.bmp"), series().Counts())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save count chart")
}

func TestYearTicker(t *testing.T) {
	ticks := yearTicker{}.Ticks(2000.4, 2003.2)
	require.Len(t, ticks, 3)
	assert.Equal(t, 2001.0, ticks[0].Value)
	assert.Equal(t, "2001", ticks[0].Label)
	assert.Equal(t, "2003", ticks[2].Label)

	long := yearTicker{}.Ticks(2000, 2018)
	require.Len(t, long, 19)
	labelled := 0
	for _, tk := range long {
		if tk.Label != "" {
			labelled++
		}
	}
	assert.LessOrEqual(t, labelled, 11)
	assert.Equal(t, "2000", long[0].Label)
}
