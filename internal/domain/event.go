package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrEmptyDataset is returned by operations that need at least one event.
var ErrEmptyDataset = errors.New("dataset contains no earthquakes")

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Earthquake is one event from the catalogue.
type Earthquake struct {
	ID         string   `json:"id"`
	Place      string   `json:"place,omitempty"`
	Magnitude  *float64 `json:"magnitude"`
	TimeMillis int64    `json:"time_ms"`
	Longitude  float64  `json:"longitude"`
	Latitude   float64  `json:"latitude"`
	Depth      float64  `json:"depth_km"`
}

// Time returns the event instant in UTC.
func (e Earthquake) Time() time.Time {
	return time.UnixMilli(e.TimeMillis).UTC()
}

// Dataset is the ordered list of events returned by one query.
type Dataset []Earthquake

// GeoJSON wire types for the FDSN event service.

type featureCollection struct {
	Features *[]feature `json:"features"`
}

type feature struct {
	ID         string     `json:"id"`
	Properties properties `json:"properties"`
	Geometry   geometry   `json:"geometry"`
}

type properties struct {
	Mag   *float64 `json:"mag"`
	Place string   `json:"place"`
	Time  int64    `json:"time"`
}

type geometry struct {
	Coordinates []float64 `json:"coordinates"` // [lon, lat, depth]
}

// ParseDataset decodes a GeoJSON FeatureCollection body into a Dataset.
// A body without a "features" member, or a feature without at least a
// longitude and latitude, is rejected.
func ParseDataset(data []byte) (Dataset, error) {
	var fc featureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}
	if fc.Features == nil {
		return nil, errors.New("parse dataset: missing features")
	}

	ds := make(Dataset, 0, len(*fc.Features))
	for i, f := range *fc.Features {
		if len(f.Geometry.Coordinates) < 2 {
			return nil, fmt.Errorf("parse dataset: feature %d (%q): expected [lon, lat, ...] coordinates, got %d values",
				i, f.ID, len(f.Geometry.Coordinates))
		}
		eq := Earthquake{
			ID:         f.ID,
			Place:      f.Properties.Place,
			Magnitude:  f.Properties.Mag,
			TimeMillis: f.Properties.Time,
			Longitude:  f.Geometry.Coordinates[0],
			Latitude:   f.Geometry.Coordinates[1],
		}
		if len(f.Geometry.Coordinates) > 2 {
			eq.Depth = f.Geometry.Coordinates[2]
		}
		ds = append(ds, eq)
	}
	return ds, nil
}
