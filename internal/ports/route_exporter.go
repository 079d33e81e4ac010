package ports

import (
	"context"
	"io"

	"delivery-route-optimizer/internal/domain"
)

// RouteExporter renders a finished plan for the presentation collaborator.
// The core hands over plain structured records; file-format concerns live
// entirely behind this port.
type RouteExporter interface {
	Export(ctx context.Context, plan *domain.RoutePlan, w io.Writer) error
}
