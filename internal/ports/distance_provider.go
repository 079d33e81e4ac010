package ports

import (
	"context"

	"delivery-route-optimizer/internal/domain"
)

// Contract for retrieving road travel distance between two coordinates.
type DistanceProvider interface {
	// Return the road distance in meters from origin to destination.
	Distance(ctx context.Context, origin, destination domain.Coordinates) (float64, error)
}
