package domain

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// YearlyMagnitudes maps a calendar year to the magnitudes recorded in it,
// in encounter order.
type YearlyMagnitudes map[int][]float64

// YearValue is one point of a per-year series.
type YearValue struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// Year returns the calendar year of the event in loc. A nil loc means UTC.
func Year(e Earthquake, loc *time.Location) int {
	if loc == nil {
		loc = time.UTC
	}
	return time.UnixMilli(e.TimeMillis).In(loc).Year()
}

// GroupByYear buckets magnitudes by calendar year. Events without a
// magnitude are skipped and never create a bucket.
func GroupByYear(ds Dataset, loc *time.Location) YearlyMagnitudes {
	groups := make(YearlyMagnitudes)
	for _, e := range ds {
		mag, ok := Magnitude(e)
		if !ok {
			continue
		}
		y := Year(e, loc)
		groups[y] = append(groups[y], mag)
	}
	return groups
}

// Years returns the grouped years in ascending order.
func (g YearlyMagnitudes) Years() []int {
	years := make([]int, 0, len(g))
	for y := range g {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Total returns the number of grouped magnitudes across all years.
func (g YearlyMagnitudes) Total() int {
	n := 0
	for _, mags := range g {
		n += len(mags)
	}
	return n
}

// Counts returns the number of events per year, ascending by year.
func (g YearlyMagnitudes) Counts() []YearValue {
	years := g.Years()
	out := make([]YearValue, 0, len(years))
	for _, y := range years {
		out = append(out, YearValue{Year: y, Value: float64(len(g[y]))})
	}
	return out
}

// Averages returns the mean magnitude per year, ascending by year.
func (g YearlyMagnitudes) Averages() []YearValue {
	years := g.Years()
	out := make([]YearValue, 0, len(years))
	for _, y := range years {
		out = append(out, YearValue{Year: y, Value: stat.Mean(g[y], nil)})
	}
	return out
}
