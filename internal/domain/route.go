package domain

import "time"

// RouteStep is one visit in the constructed route. Steps are appended once by
// the builder and immutable thereafter.
type RouteStep struct {
	// OrderIndex is the 1-based position in the global visiting order.
	OrderIndex int
	// PointIndex is the stop's index in the distance matrix (0 is the hub).
	PointIndex int
	Stop       Stop

	// DistanceFromPrevMeters is the edge just traversed.
	DistanceFromPrevMeters float64
	// DistanceFromHubMeters is an independent hub->stop lookup, not the
	// cumulative route distance.
	DistanceFromHubMeters float64
	CumulativeMeters      float64
	ETAMinutes            float64
	RemainingStops        int
	RemainingParcels      int
}

// ZoneStop is a RouteStep re-numbered inside its operational zone, with a
// time-of-day arrival accumulated from the daily start.
type ZoneStop struct {
	StopNumber int
	Stop       Stop

	DistanceFromPrevMeters float64
	// CumulativeMeters restarts from zero at each zone boundary.
	CumulativeMeters float64
	ArrivalTime      time.Time
}

// ZoneRoute is the slice of the global route belonging to one zone, in
// preserved relative order. The hub-return leg of the zone's last stop is
// reported separately and excluded from the outbound totals.
type ZoneRoute struct {
	Zone  string
	Stops []ZoneStop

	OutboundMeters   float64
	ReturnLegMeters  float64
	ReturnLegMinutes float64
}

// RoutePlan is the full output of one planning run.
type RoutePlan struct {
	RunID       string
	Hub         Coordinates
	Steps       []RouteStep
	Zones       []ZoneRoute
	TotalMeters float64
	Validation  []ValidationResult
}
