package domain

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func millis(year int, month time.Month, day int) int64 {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC).UnixMilli()
}

func TestYear(t *testing.T) {
	// 2010-12-31T23:30:00Z is already 2011 in Tokyo.
	e := Earthquake{TimeMillis: time.Date(2010, 12, 31, 23, 30, 0, 0, time.UTC).UnixMilli()}

	assert.Equal(t, 2010, Year(e, time.UTC))
	assert.Equal(t, 2010, Year(e, nil))

	tokyo := time.FixedZone("JST", 9*60*60)
	assert.Equal(t, 2011, Year(e, tokyo))
}

func TestGroupByYear_NullMagnitudeCreatesNoBucket(t *testing.T) {
	ds := Dataset{
		{ID: "a", Magnitude: mag(2.0), TimeMillis: millis(2010, 3, 1)},
		{ID: "b", Magnitude: mag(5.0), TimeMillis: millis(2010, 9, 1)},
		{ID: "c", TimeMillis: millis(2011, 6, 1)},
	}

	groups := GroupByYear(ds, time.UTC)

	want := YearlyMagnitudes{2010: {2.0, 5.0}}
	if diff := cmp.Diff(want, groups); diff != "" {
		t.Errorf("GroupByYear mismatch (-want +got):\n%s", diff)
	}

	counts := groups.Counts()
	require.Len(t, counts, 1)
	assert.Equal(t, YearValue{Year: 2010, Value: 2}, counts[0])

	avgs := groups.Averages()
	require.Len(t, avgs, 1)
	assert.Equal(t, 2010, avgs[0].Year)
	assert.InDelta(t, 3.5, avgs[0].Value, 1e-9)

	strongest, err := Strongest(ds)
	require.NoError(t, err)
	assert.Equal(t, 5.0, *strongest.Magnitude)
}

func TestGroupByYear_PreservesEncounterOrder(t *testing.T) {
	ds := Dataset{
		{Magnitude: mag(3.0), TimeMillis: millis(2005, 1, 1)},
		{Magnitude: mag(1.0), TimeMillis: millis(2006, 1, 1)},
		{Magnitude: mag(2.0), TimeMillis: millis(2005, 6, 1)},
		{Magnitude: mag(1.5), TimeMillis: millis(2005, 7, 1)},
	}
	groups := GroupByYear(ds, time.UTC)

	assert.Equal(t, []float64{3.0, 2.0, 1.5}, groups[2005])
	assert.Equal(t, []float64{1.0}, groups[2006])
}

func TestGroupByYear_TotalMatchesSizedEvents(t *testing.T) {
	ds := Dataset{
		{Magnitude: mag(1.2), TimeMillis: millis(2001, 1, 1)},
		{TimeMillis: millis(2001, 2, 1)},
		{Magnitude: mag(2.2), TimeMillis: millis(2003, 1, 1)},
		{Magnitude: mag(0.9), TimeMillis: millis(2007, 1, 1)},
		{TimeMillis: millis(2009, 1, 1)},
	}
	groups := GroupByYear(ds, time.UTC)

	assert.Equal(t, len(ds)-CountMissingMagnitude(ds), groups.Total())
}

func TestGroupByYear_Empty(t *testing.T) {
	groups := GroupByYear(nil, time.UTC)
	assert.Empty(t, groups)
	assert.Empty(t, groups.Years())
	assert.Empty(t, groups.Counts())
	assert.Empty(t, groups.Averages())
}

func TestYearlyMagnitudes_ViewsAscending(t *testing.T) {
	groups := YearlyMagnitudes{
		2012: {1.0, 2.0, 3.0},
		2003: {4.0},
		2008: {1.5, 2.5},
	}

	assert.Equal(t, []int{2003, 2008, 2012}, groups.Years())

	want := []YearValue{{2003, 1}, {2008, 2}, {2012, 3}}
	if diff := cmp.Diff(want, groups.Counts()); diff != "" {
		t.Errorf("Counts mismatch (-want +got):\n%s", diff)
	}

	avgs := groups.Averages()
	require.Len(t, avgs, 3)
	for _, av := range avgs {
		sum := 0.0
		for _, m := range groups[av.Year] {
			sum += m
		}
		assert.InDelta(t, sum/float64(len(groups[av.Year])), av.Value, 1e-9, "year %d", av.Year)
	}
}
