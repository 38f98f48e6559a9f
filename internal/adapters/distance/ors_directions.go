package distance

import (
	"bytes"
	"context"
	"eco-route-service/internal/domain"
	"eco-route-service/internal/platform/obs"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ORSDirections implements DirectionsProvider using the OpenRouteService
// directions endpoint (/v2/directions/{profile}/geojson).
type ORSDirections struct {
	session *http.Client
	apiKey  string
	baseURL string
}

func NewORSDirections(apiKey, baseURL string, timeout time.Duration) (*ORSDirections, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "https://api.openrouteservice.org"
	}

	return &ORSDirections{
		session: &http.Client{Timeout: timeout},
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

type directionsRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
}

type directionsResponse struct {
	Features []struct {
		Properties *struct {
			Segments []struct {
				Duration *float64 `json:"duration"`
			} `json:"segments"`
		} `json:"properties"`
	} `json:"features"`
}

// GetSegmentDurations returns the duration in seconds of each leg of the route.
// Any missing sub-field in the payload is reported as an error.
func (o *ORSDirections) GetSegmentDurations(
	ctx context.Context,
	points []domain.Coordinates,
	profile string,
) (_ []float64, err error) {
	defer obs.Time(ctx, "ors.Directions")(&err)

	if len(points) < 2 {
		return nil, fmt.Errorf("directions: need at least 2 points, got %d", len(points))
	}
	if profile == "" {
		return nil, errors.New("directions: profile must be non-empty")
	}

	coords := make([][]float64, 0, len(points))
	for _, p := range points {
		coords = append(coords, p.CoordsToList())
	}

	payload, err := json.Marshal(directionsRequest{Coordinates: coords})
	if err != nil {
		return nil, fmt.Errorf("marshal directions request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/directions/%s/geojson", o.baseURL, profile)
	req, err := newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, o.upstreamError(err)
	}
	req.Header.Set("Authorization", o.apiKey)

	var dr directionsResponse
	if err := doJSON(o.session, req, &dr); err != nil {
		return nil, o.upstreamError(err)
	}

	if len(dr.Features) == 0 || dr.Features[0].Properties == nil {
		return nil, o.upstreamError(errors.New("response has no route properties"))
	}

	segments := dr.Features[0].Properties.Segments
	if len(segments) == 0 {
		return nil, o.upstreamError(errors.New("response has no segments"))
	}

	out := make([]float64, 0, len(segments))
	for i, s := range segments {
		if s.Duration == nil {
			return nil, o.upstreamError(fmt.Errorf("segment %d has no duration", i))
		}
		out = append(out, *s.Duration)
	}

	return out, nil
}

func (o *ORSDirections) upstreamError(err error) error {
	return &domain.UpstreamServiceError{
		Service:    "ors",
		Op:         "directions",
		StatusCode: statusCode(err),
		Err:        err,
	}
}
