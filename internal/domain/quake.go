package domain

// Magnitude returns the event magnitude and whether one was reported.
func Magnitude(e Earthquake) (float64, bool) {
	if e.Magnitude == nil {
		return 0, false
	}
	return *e.Magnitude, true
}

// Location returns the event epicentre as (latitude, longitude).
func Location(e Earthquake) Geo {
	return Geo{Lat: e.Latitude, Lon: e.Longitude}
}

// Strongest returns the event with the largest magnitude. Events without a
// magnitude rank below every sized event; among equal magnitudes the first
// one encountered wins. If no event carries a magnitude the first event is
// returned.
func Strongest(ds Dataset) (Earthquake, error) {
	if len(ds) == 0 {
		return Earthquake{}, ErrEmptyDataset
	}

	best := 0
	bestMag, bestOK := Magnitude(ds[0])
	for i := 1; i < len(ds); i++ {
		mag, ok := Magnitude(ds[i])
		if !ok {
			continue
		}
		if !bestOK || mag > bestMag {
			best, bestMag, bestOK = i, mag, true
		}
	}
	return ds[best], nil
}

// CountMissingMagnitude returns how many events have no magnitude.
func CountMissingMagnitude(ds Dataset) int {
	n := 0
	for _, e := range ds {
		if e.Magnitude == nil {
			n++
		}
	}
	return n
}
