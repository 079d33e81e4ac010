package services

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"delivery-route-optimizer/internal/config"
	"delivery-route-optimizer/internal/domain"
	"delivery-route-optimizer/internal/platform/obs"
	"delivery-route-optimizer/internal/ports"
)

// RouteValidator benchmarks the built route against alternative construction
// strategies over the same stop set: a uniform random permutation (worst-case
// baseline), the same greedy heuristic driven by great-circle distances, and
// an exact or near-optimal solver used as the reference for percentage
// deviation. Every order is scored on real road distances for comparability.
//
// Validation is diagnostic: its failures never block delivery of the primary
// route.
type RouteValidator struct {
	provider ports.DistanceProvider
	solver   ports.TourSolver

	hub            domain.Coordinates
	avgSpeedKmh    float64
	serviceMinutes float64
	earthRadiusKm  float64

	// Rand drives the random-order baseline. Time-seeded by default; tests
	// may replace it for reproducibility. The baseline itself is
	// non-deterministic by design.
	Rand *rand.Rand
}

func NewRouteValidator(cfg *config.Config, provider ports.DistanceProvider, solver ports.TourSolver) *RouteValidator {
	return &RouteValidator{
		provider:       provider,
		solver:         solver,
		hub:            domain.Coordinates{Lon: cfg.HubLon, Lat: cfg.HubLat},
		avgSpeedKmh:    cfg.AvgSpeedKmh,
		serviceMinutes: cfg.ServiceTimeMinutes,
		earthRadiusKm:  cfg.EarthRadiusKm,
		Rand:           rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Compare scores the built order and the competing strategies. The shared
// matrix is not mutated; missing cells are completed on a private clone via
// point queries.
func (v *RouteValidator) Compare(
	ctx context.Context,
	stops []domain.Stop,
	built []domain.RouteStep,
	shared *domain.DistanceMatrix,
) (_ []domain.ValidationResult, err error) {
	defer obs.Time(ctx, "route.validate")(&err)

	if len(stops) == 0 || len(built) == 0 {
		return []domain.ValidationResult{}, nil
	}

	points := pointsWithHub(v.hub, stops)
	m, err := v.completeMatrix(ctx, shared, points)
	if err != nil {
		return nil, fmt.Errorf("validate route: complete distance matrix: %w", err)
	}

	builtOrder := make([]int, 0, len(built))
	for _, s := range built {
		builtOrder = append(builtOrder, s.PointIndex)
	}

	type method struct {
		name  string
		order []int
	}

	methods := []method{
		{domain.MethodNearestNeighbor, builtOrder},
		{domain.MethodRandomOrder, v.randomOrder(len(stops))},
		{domain.MethodEuclideanGreedy, v.euclideanGreedyOrder(stops)},
	}

	// The exact baseline degrades instead of failing the run.
	exactOrder, solverErr := v.solver.SolveTour(ctx, m)
	if solverErr != nil {
		log.Printf("op=route.validate exact solver degraded: %v", solverErr)
	} else {
		methods = append(methods, method{domain.MethodExactSolver, exactOrder})
	}

	results := make([]domain.ValidationResult, 0, len(methods))
	for _, mt := range methods {
		r, err := v.score(mt.name, mt.order, stops, m)
		if err != nil {
			return nil, fmt.Errorf("validate route: score %q: %w", mt.name, err)
		}
		results = append(results, r)
	}

	if solverErr == nil {
		optimal := results[len(results)-1].TotalMeters
		for i := range results {
			pct := 0.0
			if results[i].Method != domain.MethodExactSolver && optimal > 0 {
				pct = (results[i].TotalMeters - optimal) / optimal * 100
			}
			p := pct
			results[i].PctFromOptimal = &p
		}
	}

	return results, nil
}

// completeMatrix clones the shared table and fills every uncomputed cell with
// a direct point query. The clone keeps the shared matrix read-only.
func (v *RouteValidator) completeMatrix(
	ctx context.Context,
	shared *domain.DistanceMatrix,
	points []domain.Coordinates,
) (*domain.DistanceMatrix, error) {
	m := shared.Clone()
	look := newLegLookup(v.provider, m, points)

	for i := 0; i < m.Size(); i++ {
		for j := 0; j < m.Size(); j++ {
			if _, ok := m.At(i, j); ok {
				continue
			}
			d, err := look.distance(ctx, i, j)
			if err != nil {
				return nil, err
			}
			m.Set(i, j, d)
		}
	}

	return m, nil
}

func (v *RouteValidator) randomOrder(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i + 1
	}
	v.Rand.Shuffle(n, func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	return order
}

// euclideanGreedyOrder runs the builder's greedy selection with haversine
// distances instead of road distances. Ties resolve to the lowest index,
// matching the builder.
func (v *RouteValidator) euclideanGreedyOrder(stops []domain.Stop) []int {
	visited := make([]bool, len(stops)+1)
	visited[0] = true
	current := v.hub

	order := make([]int, 0, len(stops))
	for len(order) < len(stops) {
		next := -1
		nextDist := 0.0

		for j := 1; j <= len(stops); j++ {
			if visited[j] {
				continue
			}
			d := Haversine(current, stops[j-1].Coord, v.earthRadiusKm)
			if next == -1 || d < nextDist {
				next = j
				nextDist = d
			}
		}

		visited[next] = true
		order = append(order, next)
		current = stops[next-1].Coord
	}

	return order
}

// score totals one visiting order over the completed road matrix, including
// the hub-return leg, and counts redundant revisits of rounded coordinates.
func (v *RouteValidator) score(
	name string,
	order []int,
	stops []domain.Stop,
	m *domain.DistanceMatrix,
) (domain.ValidationResult, error) {
	totalMeters := 0.0
	current := 0

	seenAreas := make(map[string]struct{}, len(order))
	redundant := 0

	for _, idx := range order {
		d, ok := m.At(current, idx)
		if !ok {
			return domain.ValidationResult{}, &domain.RoutingServiceError{
				Op:        "score leg",
				FromIndex: current,
				ToIndex:   idx,
				Err:       fmt.Errorf("matrix cell not computed"),
			}
		}
		totalMeters += d
		current = idx

		area := stops[idx-1].Coord.RoundedKey()
		if _, ok := seenAreas[area]; ok {
			redundant++
		}
		seenAreas[area] = struct{}{}
	}

	back, ok := m.At(current, 0)
	if !ok {
		return domain.ValidationResult{}, &domain.RoutingServiceError{
			Op:        "score return leg",
			FromIndex: current,
			ToIndex:   0,
			Err:       fmt.Errorf("matrix cell not computed"),
		}
	}
	totalMeters += back

	travelMinutes := (totalMeters / 1000 / v.avgSpeedKmh) * 60
	totalMinutes := travelMinutes + v.serviceMinutes*float64(len(order))

	avg := 0.0
	if len(order) > 0 {
		avg = totalMinutes / float64(len(order))
	}

	return domain.ValidationResult{
		Method:            name,
		TotalMeters:       totalMeters,
		TotalMinutes:      totalMinutes,
		StopCount:         len(order),
		AvgMinutesPerStop: avg,
		RedundancyCount:   redundant,
	}, nil
}
