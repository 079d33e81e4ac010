package dto

type StopResponse struct {
	ID          string  `json:"id"`
	Zone        string  `json:"zone"`
	Address     string  `json:"address"`
	Lon         float64 `json:"lon"`
	Lat         float64 `json:"lat"`
	ParcelCount int     `json:"parcel_count"`
}

type ListStopsResponse struct {
	Stops []StopResponse `json:"stops"`
}
