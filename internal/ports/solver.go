package ports

import (
	"context"

	"delivery-route-optimizer/internal/domain"
)

// TourSolver finds an exact or near-optimal single-vehicle tour over a
// complete road-distance matrix. Any conforming combinatorial-optimization
// backend can stand behind this port without touching the validator.
type TourSolver interface {
	// SolveTour returns stop indices (1..n, hub excluded) in visiting order
	// for a round trip that starts and ends at index 0. The matrix must be
	// complete.
	SolveTour(ctx context.Context, m *domain.DistanceMatrix) ([]int, error)
}
