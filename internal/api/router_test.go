package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"delivery-route-optimizer/internal/adapters/distance"
	"delivery-route-optimizer/internal/adapters/export"
	"delivery-route-optimizer/internal/adapters/solver"
	"delivery-route-optimizer/internal/api/dto"
	"delivery-route-optimizer/internal/config"
	"delivery-route-optimizer/internal/domain"
)

type staticRepo struct {
	stops []domain.Stop
}

func (r *staticRepo) ListStops(ctx context.Context) ([]domain.Stop, error) {
	return r.stops, nil
}

func testRouter() http.Handler {
	cfg := &config.Config{
		HubLon:             125.6100,
		HubLat:             7.0800,
		AvgSpeedKmh:        30,
		ServiceTimeMinutes: 6,
		EarthRadiusKm:      6371,
		DayStart:           "08:00",
	}

	hub := domain.Coordinates{Lon: 125.6100, Lat: 7.0800}
	a := domain.Coordinates{Lon: 125.6200, Lat: 7.0900}
	b := domain.Coordinates{Lon: 125.6300, Lat: 7.1000}

	points := []domain.Coordinates{hub, a, b}
	table := [][]float64{
		{0, 500, 100},
		{500, 0, 400},
		{100, 400, 0},
	}
	var pairs []distance.MockPair
	for i := range points {
		for j := range points {
			if i != j {
				pairs = append(pairs, distance.MockPair{From: points[i], To: points[j], Meters: table[i][j]})
			}
		}
	}

	repo := &staticRepo{stops: []domain.Stop{
		{ID: "A", Zone: "Buhangin", Address: "stop a", Coord: a, ParcelCount: 2},
		{ID: "B", Zone: "Talomo", Address: "stop b", Coord: b, ParcelCount: 1},
	}}

	return NewRouter(cfg, repo, distance.NewMockDistanceProvider(pairs), solver.New(), export.NewXLSXRouteExporter())
}

func TestHealthEndpoint(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected a request id header")
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" || body["service"] != "route-optimizer" {
		t.Fatalf("unexpected health body: %v", body)
	}
}

func TestListStopsEndpoint(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stops", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var res dto.ListStopsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res.Stops) != 2 || res.Stops[0].ID != "A" {
		t.Fatalf("unexpected stops: %+v", res.Stops)
	}
}

func TestPlanEndpoint(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/routes/plan", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var res dto.PlanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.RunID == "" {
		t.Fatal("expected a run id")
	}
	// B is 100 m out versus A's 500 m, so the greedy order is B then A.
	if len(res.Steps) != 2 || res.Steps[0].StopID != "B" {
		t.Fatalf("unexpected steps: %+v", res.Steps)
	}
	if len(res.Validation) != 4 {
		t.Fatalf("expected 4 validation rows, got %d", len(res.Validation))
	}
}

func TestPlanEndpointRejectsGet(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/routes/plan", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestReportEndpointReturnsWorkbook(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/routes/report", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if rec.Body.Len() == 0 {
		t.Fatal("expected workbook bytes")
	}
}
