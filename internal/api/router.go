package api

import (
	"net/http"

	"delivery-route-optimizer/internal/api/handlers"
	"delivery-route-optimizer/internal/config"
	"delivery-route-optimizer/internal/ports"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(
	cfg *config.Config,
	repo ports.StopRepository,
	provider ports.DistanceProvider,
	solver ports.TourSolver,
	exporter ports.RouteExporter,
) http.Handler {
	mux := http.NewServeMux()

	stopHandler := &handlers.StopHandler{Repo: repo}
	routeHandler := &handlers.RouteHandler{
		Cfg:      cfg,
		Repo:     repo,
		Provider: provider,
		Solver:   solver,
		Exporter: exporter,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/stops", stopHandler.List)
	mux.HandleFunc("/routes/plan", routeHandler.Plan)
	mux.HandleFunc("/routes/report", routeHandler.Report)

	return requestIDMiddleware(loggingMiddleware(mux))
}
