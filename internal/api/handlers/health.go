package handlers

import (
	"net/http"
)

// Health is a minimal liveness probe. It deliberately touches no store or
// upstream service: a planner with a cold cache is still alive.
func Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "route-optimizer",
	})
}
