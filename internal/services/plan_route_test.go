package services

import (
	"context"
	"testing"

	"delivery-route-optimizer/internal/adapters/solver"
	"delivery-route-optimizer/internal/domain"
)

type staticRepo struct {
	stops []domain.Stop
}

func (r *staticRepo) ListStops(ctx context.Context) ([]domain.Stop, error) {
	return r.stops, nil
}

func TestPlanDeliveryRoute(t *testing.T) {
	stops, provider := testFixture()
	repo := &staticRepo{stops: stops}

	plan, err := PlanDeliveryRoute(context.Background(), testConfig(), repo, provider, solver.New())
	if err != nil {
		t.Fatalf("PlanDeliveryRoute: %v", err)
	}

	if plan.RunID == "" {
		t.Fatal("expected a run identifier")
	}
	if len(plan.Steps) != 4 {
		t.Fatalf("expected 4 steps, got %d", len(plan.Steps))
	}
	if plan.TotalMeters != 1600 {
		t.Fatalf("expected total 1600, got %v", plan.TotalMeters)
	}
	if len(plan.Zones) != 2 {
		t.Fatalf("expected 2 zones, got %d", len(plan.Zones))
	}
	if len(plan.Validation) != 4 {
		t.Fatalf("expected 4 validation rows, got %d", len(plan.Validation))
	}

	// The arrival clock starts at the configured day start.
	first := plan.Zones[0].Stops[0].ArrivalTime
	if first.Hour() != 8 || first.Minute() > 30 {
		t.Fatalf("expected an early-morning first arrival, got %v", first)
	}
}

func TestPlanDeliveryRouteSurvivesSolverFailure(t *testing.T) {
	stops, provider := testFixture()
	repo := &staticRepo{stops: stops}

	plan, err := PlanDeliveryRoute(context.Background(), testConfig(), repo, provider, failingSolver{})
	if err != nil {
		t.Fatalf("PlanDeliveryRoute: %v", err)
	}

	if len(plan.Validation) != 3 {
		t.Fatalf("expected 3 validation rows in degraded mode, got %d", len(plan.Validation))
	}
	for _, r := range plan.Validation {
		if r.PctFromOptimal != nil {
			t.Fatalf("method %q: pct must be unset without a baseline", r.Method)
		}
	}
}
