package services

import (
	"math"
	"testing"

	"delivery-route-optimizer/internal/domain"
)

func TestHaversineOneDegreeAtEquator(t *testing.T) {
	// One degree of longitude on the equator is about 111.19 km on a sphere
	// of mean radius 6371 km.
	a := domain.Coordinates{Lon: 0, Lat: 0}
	b := domain.Coordinates{Lon: 1, Lat: 0}

	got := Haversine(a, b, 6371)
	if math.Abs(got-111194.9) > 100 {
		t.Fatalf("expected ~111194.9 m, got %v", got)
	}
}

func TestHaversineZeroDistance(t *testing.T) {
	p := domain.Coordinates{Lon: 125.6117, Lat: 7.0854}
	if got := Haversine(p, p, 6371); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}

func TestHaversineSymmetric(t *testing.T) {
	a := domain.Coordinates{Lon: 125.6117, Lat: 7.0854}
	b := domain.Coordinates{Lon: 125.6290, Lat: 7.1120}

	ab := Haversine(a, b, 6371)
	ba := Haversine(b, a, 6371)
	if math.Abs(ab-ba) > 1e-9 {
		t.Fatalf("expected symmetric distances, got %v and %v", ab, ba)
	}
	if ab <= 0 {
		t.Fatalf("expected positive distance, got %v", ab)
	}
}

func TestHaversineScalesWithRadius(t *testing.T) {
	a := domain.Coordinates{Lon: 0, Lat: 0}
	b := domain.Coordinates{Lon: 1, Lat: 0}

	small := Haversine(a, b, 6371)
	large := Haversine(a, b, 2*6371)
	if math.Abs(large-2*small) > 1e-6 {
		t.Fatalf("distance should scale linearly with radius: %v vs %v", small, large)
	}
}
