package distance

import (
	"context"
	"eco-route-service/internal/domain"
	"eco-route-service/internal/platform/obs"
	"fmt"
	"net/http"
)

type tableResponse struct {
	Code      string       `json:"code"`
	Message   string       `json:"message"`
	Distances [][]*float64 `json:"distances"`
}

// GetDistanceMatrix retrieves the full point-to-point road distance table
// using the OSRM table service.
func (o *OSRMProvider) GetDistanceMatrix(
	ctx context.Context,
	points []domain.Coordinates,
) (_ domain.DistanceMatrix, err error) {
	defer obs.Time(ctx, "osrm.Table")(&err)

	if len(points) < 2 {
		return nil, fmt.Errorf("distance matrix: need at least 2 points, got %d", len(points))
	}

	endpoint := fmt.Sprintf("%s/table/v1/%s/%s", o.baseURL, o.profile, coordinatePath(points))

	req, err := newRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, o.upstreamError("table", err)
	}
	q := req.URL.Query()
	q.Set("annotations", "distance")
	req.URL.RawQuery = q.Encode()

	var tr tableResponse
	if err := doJSON(o.session, req, &tr); err != nil {
		return nil, o.upstreamError("table", err)
	}

	if tr.Code != "Ok" {
		return nil, o.upstreamError("table", fmt.Errorf("code %q: %s", tr.Code, tr.Message))
	}

	n := len(points)
	if len(tr.Distances) != n {
		return nil, o.upstreamError("table", fmt.Errorf("expected %d distance rows, got %d", n, len(tr.Distances)))
	}

	matrix := make(domain.DistanceMatrix, n)
	for i, row := range tr.Distances {
		if len(row) != n {
			return nil, o.upstreamError("table", fmt.Errorf("row %d has %d columns, want %d", i, len(row), n))
		}

		matrix[i] = make([]float64, n)
		for j, d := range row {
			// OSRM reports unreachable pairs as null.
			if d == nil {
				return nil, o.upstreamError("table", fmt.Errorf("no route between point %d and point %d", i, j))
			}
			matrix[i][j] = *d
		}
	}

	if err := matrix.Validate(n); err != nil {
		return nil, o.upstreamError("table", err)
	}

	return matrix, nil
}
