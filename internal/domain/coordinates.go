package domain

import (
	"fmt"
	"math"
	"strconv"
)

// Immutable geographic coordinates (longitude, latitude).
type Coordinates struct {
	Lon float64
	Lat float64
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// Key returns a stable string form used as a cache key.
func (c Coordinates) Key() string {
	return strconv.FormatFloat(c.Lon, 'f', 6, 64) + "," + strconv.FormatFloat(c.Lat, 'f', 6, 64)
}

// RedundancyPrecision is the number of decimal degrees two stops are rounded
// to when deciding whether they share a location. Four decimals is roughly an
// 11 m cell at this latitude.
const RedundancyPrecision = 4

// RoundedKey collapses the coordinate to RedundancyPrecision decimal places.
// Stops mapping to the same rounded key count as redundant revisits.
func (c Coordinates) RoundedKey() string {
	scale := math.Pow10(RedundancyPrecision)
	lon := math.Round(c.Lon*scale) / scale
	lat := math.Round(c.Lat*scale) / scale
	return strconv.FormatFloat(lon, 'f', RedundancyPrecision, 64) + "," +
		strconv.FormatFloat(lat, 'f', RedundancyPrecision, 64)
}

// BoundingBox is the rectangle every stop coordinate must fall inside.
type BoundingBox struct {
	MinLon float64
	MaxLon float64
	MinLat float64
	MaxLat float64
}

func (b BoundingBox) Contains(c Coordinates) bool {
	return c.Lon >= b.MinLon && c.Lon <= b.MaxLon &&
		c.Lat >= b.MinLat && c.Lat <= b.MaxLat
}

// Validate returns a ValidationError naming the offending coordinate when it
// falls outside the box.
func (b BoundingBox) Validate(c Coordinates) error {
	if b.Contains(c) {
		return nil
	}
	return &ValidationError{
		Field:  "coordinate",
		Value:  c.Key(),
		Reason: fmt.Sprintf("outside bounds lon=[%v,%v] lat=[%v,%v]", b.MinLon, b.MaxLon, b.MinLat, b.MaxLat),
	}
}

// NormalizeAxisOrder applies one dataset-wide axis correction: when the mean
// absolute longitude is smaller than the mean absolute latitude, the two
// columns were swapped at the source and every pair is flipped. The decision
// is made once for the whole slice, never per point, so a dataset is either
// fully swapped or left untouched. Reports whether a swap was applied.
func NormalizeAxisOrder(coords []Coordinates) bool {
	if len(coords) == 0 {
		return false
	}

	var lonSum, latSum float64
	for _, c := range coords {
		lonSum += math.Abs(c.Lon)
		latSum += math.Abs(c.Lat)
	}
	if lonSum >= latSum {
		return false
	}

	for i := range coords {
		coords[i].Lon, coords[i].Lat = coords[i].Lat, coords[i].Lon
	}
	return true
}
