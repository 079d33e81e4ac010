package ports

import (
	"context"

	"delivery-route-optimizer/internal/domain"
)

// StopSource is the ingestion boundary: it yields fully validated stop
// records (bounding box checked, axis order normalized, positive parcel
// counts) or fails with a domain.ValidationError before the core runs.
type StopSource interface {
	LoadStops(ctx context.Context) ([]domain.Stop, error)
}
