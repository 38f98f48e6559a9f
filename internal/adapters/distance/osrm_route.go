package distance

import (
	"context"
	"eco-route-service/internal/domain"
	"eco-route-service/internal/platform/obs"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/twpayne/go-polyline"
)

type routeResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Distance *float64        `json:"distance"`
		Geometry json.RawMessage `json:"geometry"`
	} `json:"routes"`
}

// GetRoute retrieves the full path geometry and distance for points visited in order.
func (o *OSRMProvider) GetRoute(
	ctx context.Context,
	points []domain.Coordinates,
) (_ *domain.Route, err error) {
	defer obs.Time(ctx, "osrm.Route")(&err)

	if len(points) < 2 {
		return nil, fmt.Errorf("route: need at least 2 points, got %d", len(points))
	}

	endpoint := fmt.Sprintf("%s/route/v1/%s/%s", o.baseURL, o.profile, coordinatePath(points))

	req, err := newRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, o.upstreamError("route", err)
	}
	q := req.URL.Query()
	q.Set("overview", "full")
	q.Set("geometries", o.geometry)
	req.URL.RawQuery = q.Encode()

	var rr routeResponse
	if err := doJSON(o.session, req, &rr); err != nil {
		return nil, o.upstreamError("route", err)
	}

	if rr.Code != "Ok" {
		return nil, o.upstreamError("route", fmt.Errorf("code %q: %s", rr.Code, rr.Message))
	}
	if len(rr.Routes) == 0 {
		return nil, o.upstreamError("route", errors.New("no routes returned"))
	}

	first := rr.Routes[0]
	if first.Distance == nil {
		return nil, o.upstreamError("route", errors.New("route has no distance"))
	}

	line, err := o.decodeGeometry(first.Geometry)
	if err != nil {
		return nil, o.upstreamError("route", err)
	}

	return &domain.Route{
		Geometry:       line,
		DistanceMeters: *first.Distance,
	}, nil
}

func (o *OSRMProvider) decodeGeometry(raw json.RawMessage) (orb.LineString, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, errors.New("route has no geometry")
	}

	if o.geometry == GeometryPolyline {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return nil, fmt.Errorf("decode polyline geometry: %w", err)
		}

		coords, _, err := polyline.DecodeCoords([]byte(encoded))
		if err != nil {
			return nil, fmt.Errorf("decode polyline geometry: %w", err)
		}

		// Polylines encode [lat, lon]; orb points are [lon, lat].
		line := make(orb.LineString, 0, len(coords))
		for _, c := range coords {
			line = append(line, orb.Point{c[1], c[0]})
		}
		return line, nil
	}

	var g geojson.Geometry
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, fmt.Errorf("decode geojson geometry: %w", err)
	}

	line, ok := g.Coordinates.(orb.LineString)
	if !ok {
		return nil, fmt.Errorf("expected LineString geometry, got %s", g.Type)
	}
	return line, nil
}
