package handlers

import (
	"errors"
	"log"
	"math"
	"net/http"

	"delivery-route-optimizer/internal/api/dto"
	"delivery-route-optimizer/internal/config"
	"delivery-route-optimizer/internal/domain"
	"delivery-route-optimizer/internal/ports"
	"delivery-route-optimizer/internal/services"
)

// RouteHandler runs the planning pipeline on demand. Plan returns the JSON
// plan; Report streams the same plan as a workbook download.
type RouteHandler struct {
	Cfg      *config.Config
	Repo     ports.StopRepository
	Provider ports.DistanceProvider
	Solver   ports.TourSolver
	Exporter ports.RouteExporter
}

func (h *RouteHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	plan, err := services.PlanDeliveryRoute(r.Context(), h.Cfg, h.Repo, h.Provider, h.Solver)
	if err != nil {
		status, msg := planErrorStatus(err)
		log.Printf("plan route failed: %v", err)
		writeError(w, r, status, msg)
		return
	}

	writeJSON(w, r, http.StatusOK, toPlanResponse(plan))
}

func (h *RouteHandler) Report(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	plan, err := services.PlanDeliveryRoute(r.Context(), h.Cfg, h.Repo, h.Provider, h.Solver)
	if err != nil {
		status, msg := planErrorStatus(err)
		log.Printf("plan route failed: %v", err)
		writeError(w, r, status, msg)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="route-`+plan.RunID+`.xlsx"`)
	if err := h.Exporter.Export(r.Context(), plan, w); err != nil {
		// Headers are already out; all we can do is log.
		log.Printf("export report failed: run_id=%s err=%v", plan.RunID, err)
	}
}

// planErrorStatus maps pipeline failures to HTTP statuses: input problems are
// the client's, routing-service problems are upstream, the rest is internal.
func planErrorStatus(err error) (int, string) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return http.StatusUnprocessableEntity, verr.Error()
	}
	var oerr *domain.OptimizationError
	if errors.As(err, &oerr) {
		return http.StatusUnprocessableEntity, oerr.Error()
	}
	var rerr *domain.RoutingServiceError
	if errors.As(err, &rerr) {
		return http.StatusBadGateway, "routing service unavailable"
	}
	return http.StatusInternalServerError, "internal server error"
}

func toPlanResponse(plan *domain.RoutePlan) dto.PlanResponse {
	res := dto.PlanResponse{
		RunID:   plan.RunID,
		HubLon:  plan.Hub.Lon,
		HubLat:  plan.Hub.Lat,
		TotalKm: roundKm(plan.TotalMeters),
		Steps:   make([]dto.RouteStepResponse, 0, len(plan.Steps)),
		Zones:   make([]dto.ZoneRouteResponse, 0, len(plan.Zones)),
	}

	for _, s := range plan.Steps {
		res.Steps = append(res.Steps, dto.RouteStepResponse{
			Order:                s.OrderIndex,
			StopID:               s.Stop.ID,
			Zone:                 s.Stop.Zone,
			Address:              s.Stop.Address,
			DistanceFromPrevKm:   roundKm(s.DistanceFromPrevMeters),
			DistanceFromHubKm:    roundKm(s.DistanceFromHubMeters),
			CumulativeDistanceKm: roundKm(s.CumulativeMeters),
			ETAMinutes:           round2(s.ETAMinutes),
			RemainingStops:       s.RemainingStops,
			RemainingParcels:     s.RemainingParcels,
		})
	}

	for _, z := range plan.Zones {
		zr := dto.ZoneRouteResponse{
			Zone:             z.Zone,
			Stops:            make([]dto.ZoneStopResponse, 0, len(z.Stops)),
			OutboundKm:       roundKm(z.OutboundMeters),
			ReturnLegKm:      roundKm(z.ReturnLegMeters),
			ReturnLegMinutes: round2(z.ReturnLegMinutes),
		}
		for _, s := range z.Stops {
			zr.Stops = append(zr.Stops, dto.ZoneStopResponse{
				StopNumber:           s.StopNumber,
				StopID:               s.Stop.ID,
				Address:              s.Stop.Address,
				DistanceFromPrevKm:   roundKm(s.DistanceFromPrevMeters),
				CumulativeDistanceKm: roundKm(s.CumulativeMeters),
				ArrivalTime:          s.ArrivalTime.Format("15:04"),
			})
		}
		res.Zones = append(res.Zones, zr)
	}

	for _, v := range plan.Validation {
		res.Validation = append(res.Validation, dto.ValidationResponse{
			Method:            v.Method,
			TotalKm:           roundKm(v.TotalMeters),
			TotalMinutes:      round2(v.TotalMinutes),
			StopCount:         v.StopCount,
			AvgMinutesPerStop: round2(v.AvgMinutesPerStop),
			RedundancyCount:   v.RedundancyCount,
			PctFromOptimal:    v.PctFromOptimal,
		})
	}

	return res
}

func roundKm(meters float64) float64 { return round2(meters / 1000) }

func round2(v float64) float64 { return math.Round(v*100) / 100 }
