package solver

import (
	"context"
	"fmt"
	"log"

	"delivery-route-optimizer/internal/domain"
)

const (
	// maxExactStops bounds the Held-Karp run. 2^14 * 14 states keeps the
	// table under a few megabytes and the run under a second.
	maxExactStops = 14
	// maxHeuristicStops bounds the 2-opt fallback.
	maxHeuristicStops = 500
)

// TourSolver produces a reference visiting order for the benchmark report.
// Small instances are solved exactly with Held-Karp dynamic programming;
// larger ones get a nearest-neighbor tour improved by 2-opt, which is still a
// meaningful lower reference even if not provably optimal. Instances beyond
// the heuristic bound report domain.ErrSolverUnavailable.
type TourSolver struct{}

func New() *TourSolver { return &TourSolver{} }

// SolveTour returns a visiting order of matrix indices 1..n-1. The tour
// starts and ends at index 0 (the hub); the endpoints are implied, not
// returned. Every cell of m must be computed.
func (s *TourSolver) SolveTour(ctx context.Context, m *domain.DistanceMatrix) ([]int, error) {
	n := m.Size()
	if n <= 1 {
		return []int{}, nil
	}
	if n-1 > maxHeuristicStops {
		return nil, fmt.Errorf("%d stops exceeds solver limit %d: %w", n-1, maxHeuristicStops, domain.ErrSolverUnavailable)
	}

	dist, err := denseCosts(m)
	if err != nil {
		return nil, err
	}

	if n-1 <= maxExactStops {
		order := heldKarp(dist)
		log.Printf("op=solver.tour method=held-karp stops=%d", n-1)
		return order, nil
	}

	order := nearestNeighborTour(dist)
	order = twoOpt(ctx, dist, order)
	log.Printf("op=solver.tour method=2-opt stops=%d", n-1)
	return order, nil
}

// denseCosts copies the matrix into a plain table; a missing cell is a
// caller bug, the solver never queries a distance service itself.
func denseCosts(m *domain.DistanceMatrix) ([][]float64, error) {
	n := m.Size()
	dist := make([][]float64, n)
	for i := 0; i < n; i++ {
		dist[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			d, ok := m.At(i, j)
			if !ok {
				return nil, &domain.RoutingServiceError{
					Op:        "solver cost table",
					FromIndex: i,
					ToIndex:   j,
					Err:       fmt.Errorf("matrix cell not computed"),
				}
			}
			dist[i][j] = d
		}
	}
	return dist, nil
}

// heldKarp solves the round trip from index 0 exactly. dp[mask][j] is the
// cheapest cost of starting at 0, visiting exactly the stops in mask, and
// ending at stop j.
func heldKarp(dist [][]float64) []int {
	n := len(dist) - 1
	if n == 1 {
		return []int{1}
	}

	full := 1 << n
	const inf = 1e18

	dp := make([][]float64, full)
	parent := make([][]int, full)
	for mask := 0; mask < full; mask++ {
		dp[mask] = make([]float64, n)
		parent[mask] = make([]int, n)
		for j := range dp[mask] {
			dp[mask][j] = inf
			parent[mask][j] = -1
		}
	}

	for j := 0; j < n; j++ {
		dp[1<<j][j] = dist[0][j+1]
	}

	for mask := 1; mask < full; mask++ {
		for j := 0; j < n; j++ {
			if mask&(1<<j) == 0 || dp[mask][j] >= inf {
				continue
			}
			for k := 0; k < n; k++ {
				if mask&(1<<k) != 0 {
					continue
				}
				next := mask | 1<<k
				cost := dp[mask][j] + dist[j+1][k+1]
				if cost < dp[next][k] {
					dp[next][k] = cost
					parent[next][k] = j
				}
			}
		}
	}

	best := inf
	last := 0
	for j := 0; j < n; j++ {
		cost := dp[full-1][j] + dist[j+1][0]
		if cost < best {
			best = cost
			last = j
		}
	}

	order := make([]int, n)
	mask := full - 1
	for i := n - 1; i >= 0; i-- {
		order[i] = last + 1
		prev := parent[mask][last]
		mask ^= 1 << last
		last = prev
	}
	return order
}

func nearestNeighborTour(dist [][]float64) []int {
	n := len(dist) - 1
	visited := make([]bool, n+1)
	visited[0] = true
	current := 0

	order := make([]int, 0, n)
	for len(order) < n {
		next := -1
		nextDist := 0.0
		for j := 1; j <= n; j++ {
			if visited[j] {
				continue
			}
			if next == -1 || dist[current][j] < nextDist {
				next = j
				nextDist = dist[current][j]
			}
		}
		visited[next] = true
		order = append(order, next)
		current = next
	}
	return order
}

// twoOptMaxSweeps caps the improvement loop. Every accepted move strictly
// shortens the tour, so the cap only matters as a hard stop on pathological
// cost tables.
const twoOptMaxSweeps = 200

// twoOpt repeatedly reverses tour segments while any reversal shortens the
// round trip. Reversing a segment also flips every arc inside it, and the
// matrix is not assumed symmetric, so the gain check prices the reversed
// inner arcs too, not just the two boundary edges. Stops early if the
// context is cancelled, returning the best tour found so far.
func twoOpt(ctx context.Context, dist [][]float64, order []int) []int {
	tour := make([]int, len(order)+2)
	tour[0] = 0
	copy(tour[1:], order)
	tour[len(tour)-1] = 0

	for sweep := 0; sweep < twoOptMaxSweeps; sweep++ {
		if ctx.Err() != nil {
			break
		}
		improved := false
		for i := 1; i < len(tour)-2; i++ {
			// fwd and rev track the inner arcs of tour[i..j] in both
			// directions as j grows.
			fwd, rev := 0.0, 0.0
			for j := i + 1; j < len(tour)-1; j++ {
				fwd += dist[tour[j-1]][tour[j]]
				rev += dist[tour[j]][tour[j-1]]

				before := dist[tour[i-1]][tour[i]] + fwd + dist[tour[j]][tour[j+1]]
				after := dist[tour[i-1]][tour[j]] + rev + dist[tour[i]][tour[j+1]]
				if after < before-1e-9 {
					reverse(tour[i : j+1])
					improved = true
					// The segment's arcs now run the other way.
					fwd, rev = rev, fwd
				}
			}
		}
		if !improved {
			break
		}
	}

	return tour[1 : len(tour)-1]
}

func reverse(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
