package distance

import (
	"eco-route-service/internal/domain"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	GeometryGeoJSON  = "geojson"
	GeometryPolyline = "polyline"
)

// OSRMProvider implements DistanceMatrixProvider and RouteGeometryProvider
// against an OSRM HTTP server (/table and /route services).
//
// Each lookup is a single bounded request: no retry, no caching.
// The provider is safe for concurrent use.
type OSRMProvider struct {
	session  *http.Client
	baseURL  string
	profile  string
	geometry string
}

func NewOSRMProvider(baseURL, profile, geometry string, timeout time.Duration) (*OSRMProvider, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("OSRM base url is empty")
	}
	if profile == "" {
		profile = "driving"
	}
	switch geometry {
	case "":
		geometry = GeometryGeoJSON
	case GeometryGeoJSON, GeometryPolyline:
	default:
		return nil, fmt.Errorf("OSRM geometry format %q is not supported", geometry)
	}

	return &OSRMProvider{
		session:  &http.Client{Timeout: timeout},
		baseURL:  strings.TrimRight(baseURL, "/"),
		profile:  profile,
		geometry: geometry,
	}, nil
}

// coordinatePath joins points as "lon,lat;lon,lat;..." for OSRM URLs.
func coordinatePath(points []domain.Coordinates) string {
	parts := make([]string, 0, len(points))
	for _, p := range points {
		parts = append(parts, p.PathSegment())
	}
	return strings.Join(parts, ";")
}

func (o *OSRMProvider) upstreamError(op string, err error) error {
	return &domain.UpstreamServiceError{
		Service:    "osrm",
		Op:         op,
		StatusCode: statusCode(err),
		Err:        err,
	}
}
