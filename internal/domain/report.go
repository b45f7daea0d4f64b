package domain

import (
	"fmt"
	"strconv"
	"time"
)

// Report summarises one fetched dataset.
type Report struct {
	Count            int        `json:"count"`
	MissingMagnitude int        `json:"missing_magnitude"`
	Strongest        Earthquake `json:"strongest"`
	Location         Geo        `json:"location"`
	PlaceName        string     `json:"place_name,omitempty"`
	GeneratedAt      time.Time  `json:"generated_at"`
}

// NewReport builds a Report for ds. It fails with ErrEmptyDataset when ds
// has no events, since there is no strongest event to report.
func NewReport(ds Dataset) (Report, error) {
	strongest, err := Strongest(ds)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Count:            len(ds),
		MissingMagnitude: CountMissingMagnitude(ds),
		Strongest:        strongest,
		Location:         Location(strongest),
		GeneratedAt:      clock.Now(),
	}, nil
}

// Lines renders the report as the console summary.
func (r Report) Lines() []string {
	mag := "unknown"
	if m, ok := Magnitude(r.Strongest); ok {
		mag = strconv.FormatFloat(m, 'f', -1, 64)
	}
	where := fmt.Sprintf("(%s, %s)",
		strconv.FormatFloat(r.Location.Lat, 'f', -1, 64),
		strconv.FormatFloat(r.Location.Lon, 'f', -1, 64))
	if r.PlaceName != "" {
		where += " near " + r.PlaceName
	}
	return []string{
		fmt.Sprintf("Loaded %d", r.Count),
		fmt.Sprintf("The strongest earthquake was at %s with magnitude %s", where, mag),
	}
}
