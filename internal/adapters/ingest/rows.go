package ingest

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"delivery-route-optimizer/internal/domain"
)

// Required header columns, case-insensitive. An "id" column is optional;
// absent IDs are derived from the row position.
var requiredColumns = []string{"zone", "address", "lon", "lat", "parcels"}

type columnIndex map[string]int

func indexHeader(header []string) (columnIndex, error) {
	idx := make(columnIndex, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, &domain.ValidationError{
				Field:  "header",
				Value:  strings.Join(header, ","),
				Reason: fmt.Sprintf("missing required column %q", col),
			}
		}
	}
	return idx, nil
}

func (idx columnIndex) get(row []string, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// buildStops converts raw rows into validated stops: parses coordinates and
// parcel counts, applies the dataset-wide axis correction, then checks every
// coordinate against the bounding box. The first invalid row fails the whole
// load; routing never starts on a partially valid dataset.
func buildStops(header []string, rows [][]string, bounds domain.BoundingBox) ([]domain.Stop, error) {
	idx, err := indexHeader(header)
	if err != nil {
		return nil, err
	}

	stops := make([]domain.Stop, 0, len(rows))
	for n, row := range rows {
		rowNum := n + 2 // 1-based, after the header

		lon, err := parseCoord(idx.get(row, "lon"), "lon", rowNum)
		if err != nil {
			return nil, err
		}
		lat, err := parseCoord(idx.get(row, "lat"), "lat", rowNum)
		if err != nil {
			return nil, err
		}

		parcelsRaw := idx.get(row, "parcels")
		parcels, err := strconv.Atoi(parcelsRaw)
		if err != nil || parcels <= 0 {
			return nil, &domain.ValidationError{
				Field:  "parcels",
				Value:  parcelsRaw,
				Reason: fmt.Sprintf("row %d: parcel count must be a positive integer", rowNum),
			}
		}

		id := idx.get(row, "id")
		if id == "" {
			id = fmt.Sprintf("stop-%d", n+1)
		}

		stops = append(stops, domain.Stop{
			ID:          id,
			Zone:        idx.get(row, "zone"),
			Address:     idx.get(row, "address"),
			Coord:       domain.Coordinates{Lon: lon, Lat: lat},
			ParcelCount: parcels,
		})
	}

	coords := make([]domain.Coordinates, len(stops))
	for i, s := range stops {
		coords[i] = s.Coord
	}
	if domain.NormalizeAxisOrder(coords) {
		log.Printf("op=ingest axis order corrected for %d stops", len(stops))
		for i := range stops {
			stops[i].Coord = coords[i]
		}
	}

	for i, s := range stops {
		if err := bounds.Validate(s.Coord); err != nil {
			return nil, fmt.Errorf("row %d (stop %q): %w", i+2, s.ID, err)
		}
	}

	return stops, nil
}

func parseCoord(raw, field string, rowNum int) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &domain.ValidationError{
			Field:  field,
			Value:  raw,
			Reason: fmt.Sprintf("row %d: not a decimal degree", rowNum),
		}
	}
	return v, nil
}
