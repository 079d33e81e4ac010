package distance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"delivery-route-optimizer/internal/domain"
)

type matrixRequest struct {
	Locations [][]float64 `json:"locations"`
	Metrics   []string    `json:"metrics"`
}

type matrixResponse struct {
	Distances [][]*float64 `json:"distances"`
}

// fetchMatrixBlock retrieves the full square distance table over points using
// the OpenRouteService matrix endpoint. Cells the backend cannot route come
// back nil and are passed through as-is.
func (o *ORSDistanceProvider) fetchMatrixBlock(
	ctx context.Context,
	points []domain.Coordinates,
) ([][]*float64, error) {
	if len(points) == 0 {
		return nil, nil
	}
	if len(points) > o.maxBatch {
		return nil, fmt.Errorf("matrix block of %d points exceeds batch cap %d", len(points), o.maxBatch)
	}

	endpoint := fmt.Sprintf("%s/v2/matrix/%s", o.baseURL, o.profile)

	locations := make([][]float64, 0, len(points))
	for _, p := range points {
		locations = append(locations, p.CoordsToList())
	}

	payload, err := json.Marshal(matrixRequest{
		Locations: locations,
		Metrics:   []string{"distance"},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal matrix request: %w", err)
	}

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		body := bytes.NewReader(payload)
		return o.newRequest(ctx, http.MethodPost, endpoint, body)
	})
	if err != nil {
		return nil, fmt.Errorf("matrix request failed: %w", err)
	}
	defer resp.Body.Close()

	var mr matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return nil, fmt.Errorf("decode matrix response: %w", err)
	}

	if len(mr.Distances) != len(points) {
		return nil, fmt.Errorf(
			"matrix rows do not match request: got %d, want %d",
			len(mr.Distances), len(points),
		)
	}
	for i, row := range mr.Distances {
		if len(row) != len(points) {
			return nil, fmt.Errorf(
				"matrix row %d length %d does not match request size %d",
				i, len(row), len(points),
			)
		}
	}

	return mr.Distances, nil
}
