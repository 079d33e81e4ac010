package handlers

import (
	"log"
	"net/http"

	"delivery-route-optimizer/internal/api/dto"
	"delivery-route-optimizer/internal/ports"
)

// StopHandler exposes read-only stop retrieval endpoints.
type StopHandler struct {
	Repo ports.StopRepository
}

func (h *StopHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	stops, err := h.Repo.ListStops(r.Context())
	if err != nil {
		log.Printf("list stops failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListStopsResponse{
		Stops: make([]dto.StopResponse, 0, len(stops)),
	}
	for _, s := range stops {
		res.Stops = append(res.Stops, dto.StopResponse{
			ID:          s.ID,
			Zone:        s.Zone,
			Address:     s.Address,
			Lon:         s.Coord.Lon,
			Lat:         s.Coord.Lat,
			ParcelCount: s.ParcelCount,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
