package distance

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"delivery-route-optimizer/internal/config"
	"delivery-route-optimizer/internal/domain"
)

func orsConfig(baseURL string) *config.Config {
	return &config.Config{
		ORSAPIKey:      "test-key",
		ORSBaseURL:     baseURL,
		ORSProfile:     "driving-car",
		MinLon:         125.0,
		MaxLon:         126.0,
		MinLat:         6.5,
		MaxLat:         7.5,
		MaxMatrixBatch: 2,
	}
}

// matrixServer answers every matrix request with distances derived from the
// longitudes it was sent, so assertions can recompute expected cell values.
func matrixServer(t *testing.T) (*httptest.Server, *[]matrixRequest) {
	t.Helper()

	var mu sync.Mutex
	var requests []matrixRequest

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "test-key" {
			http.Error(w, "missing key", http.StatusUnauthorized)
			return
		}

		var req matrixRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		mu.Lock()
		requests = append(requests, req)
		mu.Unlock()

		n := len(req.Locations)
		distances := make([][]*float64, n)
		for i := 0; i < n; i++ {
			distances[i] = make([]*float64, n)
			for j := 0; j < n; j++ {
				d := math.Abs(req.Locations[i][0]-req.Locations[j][0]) * 100000
				distances[i][j] = &d
			}
		}
		_ = json.NewEncoder(w).Encode(matrixResponse{Distances: distances})
	}))
	return ts, &requests
}

func testPoints(n int) []domain.Coordinates {
	points := make([]domain.Coordinates, n)
	for i := range points {
		points[i] = domain.Coordinates{Lon: 125.60 + float64(i)*0.01, Lat: 7.08}
	}
	return points
}

func TestDistanceMatrixBlockDecomposition(t *testing.T) {
	ts, requests := matrixServer(t)
	defer ts.Close()

	provider, err := NewORSDistanceProvider(orsConfig(ts.URL), nil)
	if err != nil {
		t.Fatalf("NewORSDistanceProvider: %v", err)
	}

	points := testPoints(5)
	m, err := provider.DistanceMatrix(context.Background(), points)
	if err != nil {
		t.Fatalf("DistanceMatrix: %v", err)
	}

	// Batch cap 2 splits 5 points into blocks [0,2), [2,4), [4,5).
	if len(*requests) != 3 {
		t.Fatalf("expected 3 block requests, got %d", len(*requests))
	}
	for i, req := range *requests {
		if len(req.Locations) > 2 {
			t.Fatalf("request %d exceeds batch cap: %d locations", i, len(req.Locations))
		}
	}

	// In-block cells are computed with the backend's values.
	d, ok := m.At(0, 1)
	if !ok {
		t.Fatalf("expected cell (0,1) to be computed")
	}
	want := math.Abs(points[0].Lon-points[1].Lon) * 100000
	if math.Abs(d-want) > 1e-6 {
		t.Fatalf("cell (0,1): expected %v, got %v", want, d)
	}

	// Cross-block cells stay uncomputed rather than silently zero.
	if _, ok := m.At(0, 2); ok {
		t.Fatalf("expected cross-block cell (0,2) to stay uncomputed")
	}
	if _, ok := m.At(4, 0); ok {
		t.Fatalf("expected cross-block cell (4,0) to stay uncomputed")
	}

	// The diagonal is always known.
	if d, ok := m.At(3, 3); !ok || d != 0 {
		t.Fatalf("expected zero diagonal, got %v/%v", d, ok)
	}
}

func TestDistanceMatrixRejectsOutOfBounds(t *testing.T) {
	ts, _ := matrixServer(t)
	defer ts.Close()

	provider, err := NewORSDistanceProvider(orsConfig(ts.URL), nil)
	if err != nil {
		t.Fatalf("NewORSDistanceProvider: %v", err)
	}

	points := testPoints(3)
	points[1] = domain.Coordinates{Lon: 10, Lat: 50}

	_, err = provider.DistanceMatrix(context.Background(), points)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

type memoryCache struct {
	mu   sync.Mutex
	m    map[string]map[string]float64
	puts int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{m: map[string]map[string]float64{}}
}

func (c *memoryCache) GetMany(ctx context.Context, origin string, destinations []string) (map[string]float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := map[string]float64{}
	for _, d := range destinations {
		if v, ok := c.m[origin][d]; ok {
			out[d] = v
		}
	}
	return out, nil
}

func (c *memoryCache) PutMany(ctx context.Context, origin string, meters map[string]float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.puts++
	if c.m[origin] == nil {
		c.m[origin] = map[string]float64{}
	}
	for d, v := range meters {
		c.m[origin][d] = v
	}
	return nil
}

func TestDistanceUsesCache(t *testing.T) {
	ts, requests := matrixServer(t)
	defer ts.Close()

	cache := newMemoryCache()
	provider, err := NewORSDistanceProvider(orsConfig(ts.URL), cache)
	if err != nil {
		t.Fatalf("NewORSDistanceProvider: %v", err)
	}

	origin := domain.Coordinates{Lon: 125.60, Lat: 7.08}
	dest := domain.Coordinates{Lon: 125.65, Lat: 7.08}

	first, err := provider.Distance(context.Background(), origin, dest)
	if err != nil {
		t.Fatalf("first Distance: %v", err)
	}
	second, err := provider.Distance(context.Background(), origin, dest)
	if err != nil {
		t.Fatalf("second Distance: %v", err)
	}

	if first != second {
		t.Fatalf("cache returned a different value: %v vs %v", first, second)
	}
	if len(*requests) != 1 {
		t.Fatalf("expected the second lookup to come from cache, got %d requests", len(*requests))
	}
}

func TestDistanceMatrixServedFromCache(t *testing.T) {
	ts, requests := matrixServer(t)
	defer ts.Close()

	cache := newMemoryCache()
	provider, err := NewORSDistanceProvider(orsConfig(ts.URL), cache)
	if err != nil {
		t.Fatalf("NewORSDistanceProvider: %v", err)
	}

	points := testPoints(2)
	if _, err := provider.DistanceMatrix(context.Background(), points); err != nil {
		t.Fatalf("first DistanceMatrix: %v", err)
	}
	if _, err := provider.DistanceMatrix(context.Background(), points); err != nil {
		t.Fatalf("second DistanceMatrix: %v", err)
	}

	if len(*requests) != 1 {
		t.Fatalf("expected the second matrix to come from cache, got %d requests", len(*requests))
	}
}

func TestRetryOnServerError(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			http.Error(w, "upstream hiccup", http.StatusBadGateway)
			return
		}
		d := 1234.5
		_ = json.NewEncoder(w).Encode(matrixResponse{
			Distances: [][]*float64{{&d, &d}, {&d, &d}},
		})
	}))
	defer ts.Close()

	provider, err := NewORSDistanceProvider(orsConfig(ts.URL), nil)
	if err != nil {
		t.Fatalf("NewORSDistanceProvider: %v", err)
	}

	got, err := provider.Distance(
		context.Background(),
		domain.Coordinates{Lon: 125.60, Lat: 7.08},
		domain.Coordinates{Lon: 125.61, Lat: 7.08},
	)
	if err != nil {
		t.Fatalf("Distance: %v", err)
	}
	if got != 1234.5 {
		t.Fatalf("expected 1234.5, got %v", got)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestNoRetryOnClientError(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer ts.Close()

	provider, err := NewORSDistanceProvider(orsConfig(ts.URL), nil)
	if err != nil {
		t.Fatalf("NewORSDistanceProvider: %v", err)
	}

	_, err = provider.Distance(
		context.Background(),
		domain.Coordinates{Lon: 125.60, Lat: 7.08},
		domain.Coordinates{Lon: 125.61, Lat: 7.08},
	)
	if err == nil {
		t.Fatal("expected an error")
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt for a 400, got %d", calls)
	}
}
