package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"delivery-route-optimizer/internal/config"
	"delivery-route-optimizer/internal/domain"
)

// CSVStopSource loads stops from a comma-separated file with a header row.
type CSVStopSource struct {
	path   string
	bounds domain.BoundingBox
}

func NewCSVStopSource(cfg *config.Config, path string) *CSVStopSource {
	return &CSVStopSource{
		path: path,
		bounds: domain.BoundingBox{
			MinLon: cfg.MinLon, MaxLon: cfg.MaxLon,
			MinLat: cfg.MinLat, MaxLat: cfg.MaxLat,
		},
	}
}

func (s *CSVStopSource) LoadStops(ctx context.Context) ([]domain.Stop, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("load stops from %s: %w", s.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("load stops from %s: %w", s.path, err)
	}
	if len(records) == 0 {
		return nil, &domain.ValidationError{
			Field:  "file",
			Value:  s.path,
			Reason: "empty file, expected a header row",
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stops, err := buildStops(records[0], records[1:], s.bounds)
	if err != nil {
		return nil, fmt.Errorf("load stops from %s: %w", s.path, err)
	}
	return stops, nil
}
