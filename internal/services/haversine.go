package services

import (
	"math"

	"delivery-route-optimizer/internal/domain"
)

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// Haversine computes the great-circle distance between two points in meters,
// on a sphere of the given mean radius in kilometers. It backs the Euclidean
// baseline only; scoring always uses road distances.
func Haversine(a, b domain.Coordinates, earthRadiusKm float64) float64 {
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	dLat := toRadians(b.Lat - a.Lat)
	dLon := toRadians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * 1000 * c
}
