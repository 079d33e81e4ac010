package services

import (
	"context"
	"fmt"
	"time"

	"delivery-route-optimizer/internal/config"
	"delivery-route-optimizer/internal/domain"
	"delivery-route-optimizer/internal/platform/obs"
	"delivery-route-optimizer/internal/ports"
)

// RouteBuilder constructs one visiting order with a greedy nearest-unvisited
// heuristic over real road distances.
//
// The algorithm minimizes the immediate next leg at each step. It does not
// attempt global optimization; that is the validator's reference solver.
// The design prioritizes determinism: equal-distance candidates resolve to
// the lowest input index, so identical input yields identical output.
type RouteBuilder struct {
	provider       ports.DistanceProvider
	hub            domain.Coordinates
	avgSpeedKmh    float64
	serviceMinutes float64
}

// BuildResult is one finished construction run. The matrix is shared
// read-only with the validator afterwards.
type BuildResult struct {
	Steps  []domain.RouteStep
	Matrix *domain.DistanceMatrix
}

func NewRouteBuilder(cfg *config.Config, provider ports.DistanceProvider) *RouteBuilder {
	return &RouteBuilder{
		provider:       provider,
		hub:            domain.Coordinates{Lon: cfg.HubLon, Lat: cfg.HubLat},
		avgSpeedKmh:    cfg.AvgSpeedKmh,
		serviceMinutes: cfg.ServiceTimeMinutes,
	}
}

func (b *RouteBuilder) Hub() domain.Coordinates { return b.hub }

// travelMinutes converts a road distance to driving time at the configured
// average speed.
func (b *RouteBuilder) travelMinutes(meters float64) float64 {
	return (meters / 1000 / b.avgSpeedKmh) * 60
}

// BuildRoute visits every stop exactly once, starting from the hub. Each run
// owns its own visited set and matrix reference; builders hold no per-run
// state and may be reused.
func (b *RouteBuilder) BuildRoute(ctx context.Context, stops []domain.Stop) (_ *BuildResult, err error) {
	defer obs.Time(ctx, "route.build")(&err)

	if len(stops) == 0 {
		return nil, &domain.OptimizationError{
			Visited: 1,
			Total:   1,
			Reason:  "no stops to sequence",
		}
	}

	points := pointsWithHub(b.hub, stops)

	matrix, err := prefetchMatrix(ctx, b.provider, points)
	if err != nil {
		return nil, fmt.Errorf("build route: prefetch distance matrix: %w", err)
	}

	look := newLegLookup(b.provider, matrix, points)

	totalParcels := 0
	for _, s := range stops {
		totalParcels += s.ParcelCount
	}

	visited := make([]bool, len(points))
	visited[0] = true
	current := 0
	cumulative := 0.0
	remainingParcels := totalParcels

	steps := make([]domain.RouteStep, 0, len(stops))

	for order := 1; order <= len(stops); order++ {
		next := -1
		nextDist := 0.0

		// Ascending scan with a strict comparison: ties go to the lowest
		// input index.
		for j := 1; j < len(points); j++ {
			if visited[j] {
				continue
			}

			d, err := look.distance(ctx, current, j)
			if err != nil {
				return nil, fmt.Errorf("build route: step %d: %w", order, err)
			}

			if next == -1 || d < nextDist {
				next = j
				nextDist = d
			}
		}

		if next == -1 {
			visitedCount := 0
			for _, v := range visited {
				if v {
					visitedCount++
				}
			}
			return nil, &domain.OptimizationError{
				Visited: visitedCount,
				Total:   len(points),
				Reason:  "no unvisited candidate found",
			}
		}

		// Independent hub->stop lookup; this is not the cumulative distance.
		hubDist, err := look.distance(ctx, 0, next)
		if err != nil {
			return nil, fmt.Errorf("build route: hub leg to point %d: %w", next, err)
		}

		visited[next] = true
		current = next
		cumulative += nextDist

		stop := stops[next-1]
		remainingParcels -= stop.ParcelCount

		steps = append(steps, domain.RouteStep{
			OrderIndex:             order,
			PointIndex:             next,
			Stop:                   stop,
			DistanceFromPrevMeters: nextDist,
			DistanceFromHubMeters:  hubDist,
			CumulativeMeters:       cumulative,
			ETAMinutes:             b.travelMinutes(nextDist) + b.serviceMinutes,
			RemainingStops:         len(stops) - order,
			RemainingParcels:       remainingParcels,
		})
	}

	return &BuildResult{Steps: steps, Matrix: matrix}, nil
}

// PartitionByZone splits a built route by operational zone, preserving the
// relative visiting order. Stop numbers restart from 1 and cumulative
// distance restarts from zero inside each zone. Arrival times accumulate
// travel plus service time from dayStart. The hub-return leg of each zone's
// last stop is reported separately and excluded from the outbound total.
func (b *RouteBuilder) PartitionByZone(
	ctx context.Context,
	steps []domain.RouteStep,
	matrix *domain.DistanceMatrix,
	dayStart time.Time,
) ([]domain.ZoneRoute, error) {
	if len(steps) == 0 {
		return []domain.ZoneRoute{}, nil
	}

	points := make([]domain.Coordinates, matrix.Size())
	points[0] = b.hub
	for _, s := range steps {
		points[s.PointIndex] = s.Stop.Coord
	}
	look := newLegLookup(b.provider, matrix, points)

	zoneOrder := make([]string, 0)
	byZone := make(map[string][]domain.RouteStep)
	for _, s := range steps {
		if _, ok := byZone[s.Stop.Zone]; !ok {
			zoneOrder = append(zoneOrder, s.Stop.Zone)
		}
		byZone[s.Stop.Zone] = append(byZone[s.Stop.Zone], s)
	}

	zones := make([]domain.ZoneRoute, 0, len(zoneOrder))
	for _, zone := range zoneOrder {
		group := byZone[zone]

		zr := domain.ZoneRoute{
			Zone:  zone,
			Stops: make([]domain.ZoneStop, 0, len(group)),
		}

		arrival := dayStart
		cumulative := 0.0

		for i, s := range group {
			arrival = arrival.Add(minutesToDuration(b.travelMinutes(s.DistanceFromPrevMeters) + b.serviceMinutes))
			cumulative += s.DistanceFromPrevMeters

			zr.Stops = append(zr.Stops, domain.ZoneStop{
				StopNumber:             i + 1,
				Stop:                   s.Stop,
				DistanceFromPrevMeters: s.DistanceFromPrevMeters,
				CumulativeMeters:       cumulative,
				ArrivalTime:            arrival,
			})
		}

		zr.OutboundMeters = cumulative

		last := group[len(group)-1]
		back, err := look.distance(ctx, last.PointIndex, 0)
		if err != nil {
			return nil, fmt.Errorf("partition zones: return leg for zone %q: %w", zone, err)
		}
		zr.ReturnLegMeters = back
		zr.ReturnLegMinutes = b.travelMinutes(back)

		zones = append(zones, zr)
	}

	return zones, nil
}

func minutesToDuration(min float64) time.Duration {
	return time.Duration(min * float64(time.Minute))
}

func pointsWithHub(hub domain.Coordinates, stops []domain.Stop) []domain.Coordinates {
	points := make([]domain.Coordinates, 0, 1+len(stops))
	points = append(points, hub)
	for _, s := range stops {
		points = append(points, s.Coord)
	}
	return points
}

// prefetchMatrix fetches the pairwise table in one batched pass when the
// provider supports it. Plain point providers start from an empty matrix and
// rely on the per-leg fallback chain.
func prefetchMatrix(
	ctx context.Context,
	provider ports.DistanceProvider,
	points []domain.Coordinates,
) (*domain.DistanceMatrix, error) {
	if mp, ok := provider.(ports.DistanceMatrixProvider); ok {
		m, err := mp.DistanceMatrix(ctx, points)
		if err != nil {
			return nil, &domain.RoutingServiceError{
				Op:        "distance matrix prefetch",
				FromIndex: 0,
				ToIndex:   len(points) - 1,
				Err:       err,
			}
		}
		return m, nil
	}
	return domain.NewDistanceMatrix(len(points)), nil
}

// legLookup resolves one leg distance through the fallback chain:
// precomputed matrix cell, then a direct point query, then the last value
// this run resolved for the pair. Approximate (great-circle) distances are
// never substituted here.
type legLookup struct {
	provider  ports.DistanceProvider
	matrix    *domain.DistanceMatrix
	points    []domain.Coordinates
	lastKnown map[[2]int]float64
}

func newLegLookup(provider ports.DistanceProvider, matrix *domain.DistanceMatrix, points []domain.Coordinates) *legLookup {
	return &legLookup{
		provider:  provider,
		matrix:    matrix,
		points:    points,
		lastKnown: make(map[[2]int]float64),
	}
}

func (l *legLookup) distance(ctx context.Context, i, j int) (float64, error) {
	if d, ok := l.matrix.At(i, j); ok {
		return d, nil
	}

	d, err := l.provider.Distance(ctx, l.points[i], l.points[j])
	if err == nil {
		l.lastKnown[[2]int{i, j}] = d
		return d, nil
	}

	if d, ok := l.lastKnown[[2]int{i, j}]; ok {
		return d, nil
	}

	return 0, &domain.RoutingServiceError{
		Op:        "leg distance",
		FromIndex: i,
		ToIndex:   j,
		Err:       err,
	}
}
