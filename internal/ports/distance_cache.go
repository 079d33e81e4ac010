package ports

import "context"

// DistanceCache persists origin->destination road distances between runs so
// repeated planning over a stable stop set avoids external matrix calls.
// Keys are coordinate strings produced by domain.Coordinates.Key.
type DistanceCache interface {
	// Fetch cached distances in meters for one origin and many destinations.
	// Missing destinations are simply absent from the result map.
	GetMany(ctx context.Context, origin string, destinations []string) (map[string]float64, error)
	// Store many origin->destination distances.
	PutMany(ctx context.Context, origin string, meters map[string]float64) error
}
