package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"delivery-route-optimizer/internal/config"
	"delivery-route-optimizer/internal/domain"
	"delivery-route-optimizer/internal/ports"
)

// PlanDeliveryRoute is the end-to-end planning pipeline: greedy construction
// over road distances, zone partition, then quality benchmarking. Builder
// errors are fatal; validator errors only cost the diagnostic report.
func PlanDeliveryRoute(
	ctx context.Context,
	cfg *config.Config,
	repo ports.StopRepository,
	provider ports.DistanceProvider,
	solver ports.TourSolver,
) (*domain.RoutePlan, error) {
	stops, err := repo.ListStops(ctx)
	if err != nil {
		return nil, fmt.Errorf("plan delivery route: list stops: %w", err)
	}

	builder := NewRouteBuilder(cfg, provider)

	res, err := builder.BuildRoute(ctx, stops)
	if err != nil {
		return nil, fmt.Errorf("plan delivery route: build: %w", err)
	}

	zones, err := builder.PartitionByZone(ctx, res.Steps, res.Matrix, dayStart(cfg, time.Now()))
	if err != nil {
		return nil, fmt.Errorf("plan delivery route: partition zones: %w", err)
	}

	plan := &domain.RoutePlan{
		RunID: uuid.NewString(),
		Hub:   builder.Hub(),
		Steps: res.Steps,
		Zones: zones,
	}
	if n := len(res.Steps); n > 0 {
		plan.TotalMeters = res.Steps[n-1].CumulativeMeters
	}

	validator := NewRouteValidator(cfg, provider, solver)
	results, err := validator.Compare(ctx, stops, res.Steps, res.Matrix)
	if err != nil {
		// Benchmarking is diagnostic; the primary route still ships.
		log.Printf("run_id=%s route validation skipped: %v", plan.RunID, err)
	} else {
		plan.Validation = results
	}

	return plan, nil
}

// dayStart anchors the configured HH:MM departure time to now's calendar day.
func dayStart(cfg *config.Config, now time.Time) time.Time {
	t, err := time.Parse("15:04", cfg.DayStart)
	if err != nil {
		// Config validation rejects malformed values at startup; default
		// defensively anyway.
		t, _ = time.Parse("15:04", "08:00")
	}
	return time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, now.Location())
}
