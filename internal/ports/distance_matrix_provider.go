package ports

import (
	"context"

	"delivery-route-optimizer/internal/domain"
)

// Optional extension of DistanceProvider that supports batched lookups.
type DistanceMatrixProvider interface {
	DistanceProvider
	// Return pairwise road distances over points. Index 0 is conventionally
	// the hub. Requests larger than the provider's batch cap are decomposed
	// into block-diagonal sub-requests, so cross-block cells of the result
	// may be left uncomputed.
	DistanceMatrix(ctx context.Context, points []domain.Coordinates) (*domain.DistanceMatrix, error)
}
