// Package chart renders per-year earthquake series to image files.
//
// Every render builds a new plot, so successive charts never share a
// drawing surface. An empty series still produces titled, labelled axes.
// The output format follows the file extension (.png, .svg, .pdf, .jpg).
package chart

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/couchcryptid/quake-stats/internal/domain"
	"github.com/couchcryptid/quake-stats/internal/observability"
)

const (
	defaultWidth  = 10 * vg.Inch
	defaultHeight = 5 * vg.Inch
)

// Renderer writes chart images.
type Renderer struct {
	width   vg.Length
	height  vg.Length
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewRenderer creates a Renderer producing 10x5 inch images.
func NewRenderer(metrics *observability.Metrics, logger *slog.Logger) *Renderer {
	return &Renderer{
		width:   defaultWidth,
		height:  defaultHeight,
		metrics: metrics,
		logger:  logger,
	}
}

// RenderCounts draws a bar chart of event counts per year to path.
func (r *Renderer) RenderCounts(path string, counts []domain.YearValue) error {
	p := plot.New()
	p.Title.Text = "Earthquake Frequency per Year"
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "Number of Earthquakes"
	p.Y.Min = 0
	if len(counts) == 0 {
		return r.save(p, path, "count")
	}

	values := make(plotter.Values, len(counts))
	names := make([]string, len(counts))
	for i, c := range counts {
		values[i] = c.Value
		names[i] = strconv.Itoa(c.Year)
	}

	bars, err := plotter.NewBarChart(values, barWidth(len(counts), r.width))
	if err != nil {
		return fmt.Errorf("build count chart: %w", err)
	}
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(names...)

	return r.save(p, path, "count")
}

// RenderAverages draws a line chart with point markers of the mean
// magnitude per year to path.
func (r *Renderer) RenderAverages(path string, averages []domain.YearValue) error {
	p := plot.New()
	p.Title.Text = "Average Earthquake Magnitude per Year"
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "Average Magnitude"
	p.Add(plotter.NewGrid())
	if len(averages) == 0 {
		return r.save(p, path, "average")
	}
	p.X.Tick.Marker = yearTicker{}

	pts := make(plotter.XYs, len(averages))
	for i, a := range averages {
		pts[i].X = float64(a.Year)
		pts[i].Y = a.Value
	}

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return fmt.Errorf("build average chart: %w", err)
	}
	points.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(line, points)

	return r.save(p, path, "average")
}

func (r *Renderer) save(p *plot.Plot, path, chart string) error {
	if err := p.Save(r.width, r.height, path); err != nil {
		return fmt.Errorf("save %s chart to %s: %w", chart, path, err)
	}
	r.metrics.ChartsRendered.WithLabelValues(chart).Inc()
	r.logger.Info("chart written", "chart", chart, "path", path)
	return nil
}

// barWidth fits n bars into roughly 80% of the plot width.
func barWidth(n int, width vg.Length) vg.Length {
	w := width * 0.8 / vg.Length(n) * 0.7
	if w < 1 {
		return 1
	}
	return w
}

// yearTicker places a labelled tick on whole years, thinning labels so
// long ranges stay readable.
type yearTicker struct{}

func (yearTicker) Ticks(lo, hi float64) []plot.Tick {
	first := int(math.Ceil(lo))
	last := int(math.Floor(hi))
	if last < first {
		return nil
	}

	step := 1
	for (last-first)/step > 10 {
		step++
	}

	ticks := make([]plot.Tick, 0, last-first+1)
	for y := first; y <= last; y++ {
		t := plot.Tick{Value: float64(y)}
		if (y-first)%step == 0 {
			t.Label = strconv.Itoa(y)
		}
		ticks = append(ticks, t)
	}
	return ticks
}
