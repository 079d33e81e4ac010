package dto

type RouteStepResponse struct {
	Order                int     `json:"order"`
	StopID               string  `json:"stop_id"`
	Zone                 string  `json:"zone"`
	Address              string  `json:"address"`
	DistanceFromPrevKm   float64 `json:"distance_from_prev_km"`
	DistanceFromHubKm    float64 `json:"distance_from_hub_km"`
	CumulativeDistanceKm float64 `json:"cumulative_distance_km"`
	ETAMinutes           float64 `json:"eta_minutes"`
	RemainingStops       int     `json:"remaining_stops"`
	RemainingParcels     int     `json:"remaining_parcels"`
}

type ZoneStopResponse struct {
	StopNumber           int     `json:"stop_number"`
	StopID               string  `json:"stop_id"`
	Address              string  `json:"address"`
	DistanceFromPrevKm   float64 `json:"distance_from_prev_km"`
	CumulativeDistanceKm float64 `json:"cumulative_distance_km"`
	ArrivalTime          string  `json:"arrival_time"`
}

type ZoneRouteResponse struct {
	Zone             string             `json:"zone"`
	Stops            []ZoneStopResponse `json:"stops"`
	OutboundKm       float64            `json:"outbound_km"`
	ReturnLegKm      float64            `json:"return_leg_km"`
	ReturnLegMinutes float64            `json:"return_leg_minutes"`
}

type ValidationResponse struct {
	Method            string   `json:"method"`
	TotalKm           float64  `json:"total_km"`
	TotalMinutes      float64  `json:"total_minutes"`
	StopCount         int      `json:"stop_count"`
	AvgMinutesPerStop float64  `json:"avg_minutes_per_stop"`
	RedundancyCount   int      `json:"redundancy_count"`
	PctFromOptimal    *float64 `json:"pct_from_optimal"`
}

type PlanResponse struct {
	RunID      string               `json:"run_id"`
	HubLon     float64              `json:"hub_lon"`
	HubLat     float64              `json:"hub_lat"`
	TotalKm    float64              `json:"total_km"`
	Steps      []RouteStepResponse  `json:"steps"`
	Zones      []ZoneRouteResponse  `json:"zones"`
	Validation []ValidationResponse `json:"validation,omitempty"`
}
