package export

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/xuri/excelize/v2"

	"delivery-route-optimizer/internal/domain"
	"delivery-route-optimizer/internal/platform/obs"
)

// XLSXRouteExporter renders a plan as a workbook: one overview sheet with the
// full visiting order, one sheet per zone, and a validation sheet when the
// benchmark ran.
type XLSXRouteExporter struct{}

func NewXLSXRouteExporter() *XLSXRouteExporter { return &XLSXRouteExporter{} }

func (e *XLSXRouteExporter) Export(ctx context.Context, plan *domain.RoutePlan, w io.Writer) (err error) {
	defer obs.Time(ctx, "export.xlsx")(&err)

	f := excelize.NewFile()
	defer f.Close()

	if err := e.writeRouteSheet(f, plan); err != nil {
		return fmt.Errorf("export plan %s: %w", plan.RunID, err)
	}
	for _, zone := range plan.Zones {
		if err := e.writeZoneSheet(f, zone); err != nil {
			return fmt.Errorf("export plan %s: zone %q: %w", plan.RunID, zone.Zone, err)
		}
	}
	if len(plan.Validation) > 0 {
		if err := e.writeValidationSheet(f, plan.Validation); err != nil {
			return fmt.Errorf("export plan %s: %w", plan.RunID, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export plan %s: write workbook: %w", plan.RunID, err)
	}
	return nil
}

func (e *XLSXRouteExporter) writeRouteSheet(f *excelize.File, plan *domain.RoutePlan) error {
	const sheet = "Route"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return err
	}

	header := []interface{}{
		"Order", "Stop", "Zone", "Address",
		"Leg (km)", "From Hub (km)", "Cumulative (km)",
		"ETA (min)", "Stops Left", "Parcels Left",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, s := range plan.Steps {
		row := []interface{}{
			s.OrderIndex, s.Stop.ID, s.Stop.Zone, s.Stop.Address,
			km(s.DistanceFromPrevMeters), km(s.DistanceFromHubMeters), km(s.CumulativeMeters),
			round1(s.ETAMinutes), s.RemainingStops, s.RemainingParcels,
		}
		if err := f.SetSheetRow(sheet, "A"+strconv.Itoa(i+2), &row); err != nil {
			return err
		}
	}

	totalRow := []interface{}{"", "", "", "Total", "", "", km(plan.TotalMeters)}
	return f.SetSheetRow(sheet, "A"+strconv.Itoa(len(plan.Steps)+3), &totalRow)
}

func (e *XLSXRouteExporter) writeZoneSheet(f *excelize.File, zone domain.ZoneRoute) error {
	sheet := "Zone " + zone.Zone
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	header := []interface{}{"Stop #", "Stop", "Address", "Leg (km)", "Cumulative (km)", "Arrival"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, s := range zone.Stops {
		row := []interface{}{
			s.StopNumber, s.Stop.ID, s.Stop.Address,
			km(s.DistanceFromPrevMeters), km(s.CumulativeMeters),
			s.ArrivalTime.Format("15:04"),
		}
		if err := f.SetSheetRow(sheet, "A"+strconv.Itoa(i+2), &row); err != nil {
			return err
		}
	}

	summary := []interface{}{
		"", "Outbound (km)", km(zone.OutboundMeters),
		"Return leg (km)", km(zone.ReturnLegMeters),
		fmt.Sprintf("%.1f min", zone.ReturnLegMinutes),
	}
	return f.SetSheetRow(sheet, "A"+strconv.Itoa(len(zone.Stops)+3), &summary)
}

func (e *XLSXRouteExporter) writeValidationSheet(f *excelize.File, results []domain.ValidationResult) error {
	const sheet = "Validation"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	header := []interface{}{
		"Method", "Total (km)", "Total (min)", "Stops",
		"Avg min/stop", "Redundant", "% from optimal",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, r := range results {
		pct := "N/A"
		if r.PctFromOptimal != nil {
			pct = fmt.Sprintf("%.2f", *r.PctFromOptimal)
		}
		row := []interface{}{
			r.Method, km(r.TotalMeters), round1(r.TotalMinutes), r.StopCount,
			round1(r.AvgMinutesPerStop), r.RedundancyCount, pct,
		}
		if err := f.SetSheetRow(sheet, "A"+strconv.Itoa(i+2), &row); err != nil {
			return err
		}
	}
	return nil
}

func km(meters float64) float64 { return round2(meters / 1000) }

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }
