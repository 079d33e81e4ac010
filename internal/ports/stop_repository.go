package ports

import (
	"context"

	"delivery-route-optimizer/internal/domain"
)

// Port: a boundary for retrieving Stop entities from a data store.
type StopRepository interface {
	// Retrieve all stops available for routing, in input order.
	ListStops(ctx context.Context) ([]domain.Stop, error)
}
