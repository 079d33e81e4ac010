package repositories

import (
	"context"
	"path/filepath"
	"testing"

	"delivery-route-optimizer/internal/domain"
)

type staticStopSource struct {
	stops []domain.Stop
}

func (s *staticStopSource) LoadStops(ctx context.Context) ([]domain.Stop, error) {
	return s.stops, nil
}

func testStops() []domain.Stop {
	return []domain.Stop{
		{ID: "a-1", Zone: "North", Address: "Buhangin", Coord: domain.Coordinates{Lon: 125.6130, Lat: 7.1010}, ParcelCount: 3},
		{ID: "a-2", Zone: "South", Address: "Matina", Coord: domain.Coordinates{Lon: 125.5950, Lat: 7.0520}, ParcelCount: 1},
		{ID: "a-3", Zone: "North", Address: "Lanang", Coord: domain.Coordinates{Lon: 125.6290, Lat: 7.1120}, ParcelCount: 2},
	}
}

func TestSeedAndListStops(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer db.Close()

	src := &staticStopSource{stops: testStops()}
	if err := SeedStops(ctx, db, src); err != nil {
		t.Fatalf("SeedStops: %v", err)
	}

	repo := NewSqliteStopRepository(db)
	stops, err := repo.ListStops(ctx)
	if err != nil {
		t.Fatalf("ListStops: %v", err)
	}

	if len(stops) != 3 {
		t.Fatalf("expected 3 stops, got %d", len(stops))
	}
	for i, want := range testStops() {
		if stops[i] != want {
			t.Fatalf("stop %d: got %+v, want %+v", i, stops[i], want)
		}
	}
}

func TestSeedStopsSkipsNonEmptyTable(t *testing.T) {
	ctx := context.Background()
	db, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer db.Close()

	if err := SeedStops(ctx, db, &staticStopSource{stops: testStops()}); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	// A second seed with different data must not overwrite existing rows.
	other := []domain.Stop{{ID: "x-1", Zone: "East", Address: "Sasa", Coord: domain.Coordinates{Lon: 125.66, Lat: 7.12}, ParcelCount: 5}}
	if err := SeedStops(ctx, db, &staticStopSource{stops: other}); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	stops, err := NewSqliteStopRepository(db).ListStops(ctx)
	if err != nil {
		t.Fatalf("ListStops: %v", err)
	}
	if len(stops) != 3 {
		t.Fatalf("expected the original 3 stops, got %d", len(stops))
	}
}
