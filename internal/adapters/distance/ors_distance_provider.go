package distance

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"delivery-route-optimizer/internal/config"
	"delivery-route-optimizer/internal/domain"
	"delivery-route-optimizer/internal/platform/obs"
	"delivery-route-optimizer/internal/ports"
)

// ORSDistanceProvider implements DistanceProvider and DistanceMatrixProvider
// using OpenRouteService.
//
// It coordinates:
//   - Bounding-box preconditions on every queried coordinate
//   - Persistent distance caching keyed by coordinate pair
//   - Block-diagonal decomposition of oversized matrix requests
//   - External API calls with retry/backoff
//
// The provider is safe for concurrent use.
type ORSDistanceProvider struct {
	session  *http.Client
	apiKey   string
	baseURL  string
	profile  string
	bounds   domain.BoundingBox
	maxBatch int
	cache    ports.DistanceCache
}

func NewORSDistanceProvider(cfg *config.Config, cache ports.DistanceCache) (*ORSDistanceProvider, error) {
	if cfg.ORSAPIKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	provider := &ORSDistanceProvider{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  cfg.ORSAPIKey,
		baseURL: cfg.ORSBaseURL,
		profile: cfg.ORSProfile,
		bounds: domain.BoundingBox{
			MinLon: cfg.MinLon, MaxLon: cfg.MaxLon,
			MinLat: cfg.MinLat, MaxLat: cfg.MaxLat,
		},
		maxBatch: cfg.MaxMatrixBatch,
		cache:    cache,
	}

	return provider, nil
}

// Distance returns the road distance in meters between two coordinates,
// consulting the persistent cache before issuing an external call.
func (o *ORSDistanceProvider) Distance(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
) (float64, error) {
	if err := o.bounds.Validate(origin); err != nil {
		return 0, fmt.Errorf("get ORS distance: origin: %w", err)
	}
	if err := o.bounds.Validate(destination); err != nil {
		return 0, fmt.Errorf("get ORS distance: destination: %w", err)
	}

	originKey := origin.Key()
	destKey := destination.Key()

	if o.cache != nil {
		hits, err := o.cache.GetMany(ctx, originKey, []string{destKey})
		if err != nil {
			return 0, fmt.Errorf("get ORS distance: cache read: %w", err)
		}
		if meters, ok := hits[destKey]; ok {
			return meters, nil
		}
	}

	block, err := o.fetchMatrixBlock(ctx, []domain.Coordinates{origin, destination})
	if err != nil {
		return 0, fmt.Errorf("get ORS distance %s -> %s: %w", originKey, destKey, err)
	}

	cell := block[0][1]
	if cell == nil {
		return 0, fmt.Errorf("ORS returned no route %s -> %s", originKey, destKey)
	}

	if o.cache != nil {
		if err := o.cache.PutMany(ctx, originKey, map[string]float64{destKey: *cell}); err != nil {
			log.Printf("distance cache write failed: %v", err)
		}
	}

	return *cell, nil
}

// DistanceMatrix computes pairwise road distances over points. Point sets
// larger than the batch cap are split into contiguous index blocks and each
// block is fetched as an independent square sub-request; cells outside the
// blocks stay uncomputed in the returned matrix.
func (o *ORSDistanceProvider) DistanceMatrix(
	ctx context.Context,
	points []domain.Coordinates,
) (_ *domain.DistanceMatrix, err error) {
	defer obs.Time(ctx, "ors.DistanceMatrix")(&err)

	if len(points) == 0 {
		return domain.NewDistanceMatrix(0), nil
	}

	for i, p := range points {
		if err := o.bounds.Validate(p); err != nil {
			return nil, fmt.Errorf("distance matrix: point %d: %w", i, err)
		}
	}

	m := domain.NewDistanceMatrix(len(points))

	// Sub-requests run strictly sequentially to bound instantaneous load on
	// the backend.
	for start := 0; start < len(points); start += o.maxBatch {
		end := start + o.maxBatch
		if end > len(points) {
			end = len(points)
		}

		if err := o.fillBlock(ctx, m, points, start, end); err != nil {
			return nil, fmt.Errorf("distance matrix: block [%d,%d): %w", start, end, err)
		}
	}

	return m, nil
}

// fillBlock populates the square block [start,end) x [start,end) of m, from
// cache when every cell is already known, otherwise from one ORS request.
func (o *ORSDistanceProvider) fillBlock(
	ctx context.Context,
	m *domain.DistanceMatrix,
	points []domain.Coordinates,
	start, end int,
) error {
	block := points[start:end]

	if o.fillBlockFromCache(ctx, m, block, start) {
		return nil
	}

	cells, err := o.fetchMatrixBlock(ctx, block)
	if err != nil {
		return err
	}

	for r := range cells {
		row := make(map[string]float64, len(cells[r]))
		for c := range cells[r] {
			// A nil cell means the backend could not route this pair.
			// Leave it uncomputed; the point-query fallback may still
			// resolve it later.
			if cells[r][c] == nil {
				continue
			}
			m.Set(start+r, start+c, *cells[r][c])
			if r != c {
				row[block[c].Key()] = *cells[r][c]
			}
		}
		if o.cache != nil && len(row) > 0 {
			if err := o.cache.PutMany(ctx, block[r].Key(), row); err != nil {
				log.Printf("distance cache write failed: %v", err)
			}
		}
	}

	return nil
}

// fillBlockFromCache reports whether the cache alone covered the whole block.
// Partial hits are discarded: the block is refetched in one request rather
// than stitched from mixed sources.
func (o *ORSDistanceProvider) fillBlockFromCache(
	ctx context.Context,
	m *domain.DistanceMatrix,
	block []domain.Coordinates,
	offset int,
) bool {
	if o.cache == nil {
		return false
	}

	destKeys := make([]string, len(block))
	for i, p := range block {
		destKeys[i] = p.Key()
	}

	type rowHit struct {
		row  int
		hits map[string]float64
	}

	rows := make([]rowHit, 0, len(block))
	for r, p := range block {
		hits, err := o.cache.GetMany(ctx, p.Key(), destKeys)
		if err != nil {
			log.Printf("distance cache read failed: %v", err)
			return false
		}
		for c := range block {
			if c == r {
				continue
			}
			if _, ok := hits[destKeys[c]]; !ok {
				return false
			}
		}
		rows = append(rows, rowHit{row: r, hits: hits})
	}

	for _, rh := range rows {
		for c := range block {
			if c == rh.row {
				continue
			}
			m.Set(offset+rh.row, offset+c, rh.hits[destKeys[c]])
		}
	}

	return true
}
