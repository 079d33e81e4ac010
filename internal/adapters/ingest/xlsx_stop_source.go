package ingest

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"delivery-route-optimizer/internal/config"
	"delivery-route-optimizer/internal/domain"
)

// XLSXStopSource loads stops from the first sheet of an Excel workbook. Row
// semantics match CSVStopSource: a header row followed by one stop per row.
type XLSXStopSource struct {
	path   string
	bounds domain.BoundingBox
}

func NewXLSXStopSource(cfg *config.Config, path string) *XLSXStopSource {
	return &XLSXStopSource{
		path: path,
		bounds: domain.BoundingBox{
			MinLon: cfg.MinLon, MaxLon: cfg.MaxLon,
			MinLat: cfg.MinLat, MaxLat: cfg.MaxLat,
		},
	}
}

func (s *XLSXStopSource) LoadStops(ctx context.Context) ([]domain.Stop, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("load stops from %s: %w", s.path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &domain.ValidationError{
			Field:  "file",
			Value:  s.path,
			Reason: "workbook has no sheets",
		}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("load stops from %s: %w", s.path, err)
	}
	if len(rows) == 0 {
		return nil, &domain.ValidationError{
			Field:  "sheet",
			Value:  sheets[0],
			Reason: "empty sheet, expected a header row",
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stops, err := buildStops(rows[0], rows[1:], s.bounds)
	if err != nil {
		return nil, fmt.Errorf("load stops from %s: %w", s.path, err)
	}
	return stops, nil
}
