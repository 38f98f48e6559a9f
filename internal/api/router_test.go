package api

import (
	"eco-route-service/internal/adapters/mock"
	"eco-route-service/internal/domain"
	"eco-route-service/internal/services"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/paulmach/orb"
)

const routeBody = `{
	"baseAddress": {"address": "A", "lat": 0, "lon": 0},
	"followingAddresses": [
		{"address": "B", "lat": 0, "lon": 1},
		{"address": "C", "lat": 1, "lon": 0}
	],
	"vehicle": "car"
}`

type testServer struct {
	handler  http.Handler
	matrix   *mock.MatrixProvider
	geometry *mock.GeometryProvider
	geocoder *mock.Geocoder
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	ts := &testServer{
		matrix: &mock.MatrixProvider{Matrix: domain.DistanceMatrix{
			{0, 1000, 2000},
			{1000, 0, 500},
			{2000, 500, 0},
		}},
		geometry: &mock.GeometryProvider{Route: &domain.Route{
			Geometry:       orb.LineString{{0, 0}, {1, 0}, {0, 1}},
			DistanceMeters: 1500,
		}},
		geocoder: &mock.Geocoder{Points: map[string]domain.Point{
			"Times Square": {Address: "Times Square, Manhattan", Lat: 40.758, Lon: -73.9855},
		}},
	}

	dirs := &mock.DirectionsProvider{Durations: []float64{600, 300}}
	opt, err := services.NewRouteOptimizer(ts.matrix, ts.geometry, services.NewDurationEstimator(dirs), services.OptimizerConfig{MaxStops: 8, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("NewRouteOptimizer: %v", err)
	}
	geo := services.NewGeocodeService(ts.geocoder, mock.NewGeocodeCache())

	ts.handler = NewRouter(opt, geo, []string{"*"})
	return ts
}

func (ts *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Fatalf("missing %s header", requestIDHeader)
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	if got := rec.Header().Get(requestIDHeader); got != "abc-123" {
		t.Fatalf("request id = %q, want abc-123", got)
	}
}

func TestCalculateRoute(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/calculate-route", routeBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		OptimizedPoints []struct {
			Address string `json:"address"`
		} `json:"optimizedPoints"`
		Geometry struct {
			Type        string      `json:"type"`
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
		TotalDistance   string `json:"totalDistance"`
		TotalTime       int    `json:"totalTime"`
		CarbonFootprint string `json:"carbonFootprint"`
		DurationSource  string `json:"durationSource"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if len(resp.OptimizedPoints) != 3 || resp.OptimizedPoints[1].Address != "B" || resp.OptimizedPoints[2].Address != "C" {
		t.Fatalf("optimizedPoints = %+v", resp.OptimizedPoints)
	}
	if resp.Geometry.Type != "LineString" || len(resp.Geometry.Coordinates) != 3 {
		t.Fatalf("geometry = %+v", resp.Geometry)
	}
	if resp.TotalDistance != "1.50" {
		t.Fatalf("totalDistance = %q, want 1.50", resp.TotalDistance)
	}
	if resp.TotalTime != 15 {
		t.Fatalf("totalTime = %d, want 15", resp.TotalTime)
	}
	if resp.CarbonFootprint != "327.00" {
		t.Fatalf("carbonFootprint = %q, want 327.00", resp.CarbonFootprint)
	}
	if resp.DurationSource != "directions" {
		t.Fatalf("durationSource = %q, want directions", resp.DurationSource)
	}
}

func TestCalculateRouteErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "malformed json", body: `{"baseAddress":`, want: http.StatusBadRequest},
		{name: "unknown field", body: `{"bogus": 1}`, want: http.StatusBadRequest},
		{name: "missing base", body: `{"followingAddresses":[{"address":"B","lat":0,"lon":1}],"vehicle":"car"}`, want: http.StatusBadRequest},
		{name: "no stops", body: `{"baseAddress":{"address":"A","lat":0,"lon":0},"followingAddresses":[],"vehicle":"car"}`, want: http.StatusBadRequest},
		{name: "unknown vehicle", body: `{"baseAddress":{"address":"A","lat":0,"lon":0},"followingAddresses":[{"address":"B","lat":0,"lon":1}],"vehicle":"rocket"}`, want: http.StatusBadRequest},
		{name: "too many stops", body: tooManyStopsBody(9), want: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)

			rec := ts.do(http.MethodPost, "/api/calculate-route", tt.body)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
			if ts.matrix.Calls() != 0 {
				t.Fatalf("matrix called %d times for a rejected request", ts.matrix.Calls())
			}
		})
	}
}

func TestCalculateRouteUpstreamFailure(t *testing.T) {
	ts := newTestServer(t)
	ts.geometry.Err = &domain.UpstreamServiceError{Service: "osrm", Op: "route", StatusCode: 500}

	rec := ts.do(http.MethodPost, "/api/calculate-route", routeBody)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}

func TestCalculateRouteWrongMethod(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/api/calculate-route", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestGeocodeAddress(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/geocode-address", `{"query":"Times Square"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var p struct {
		Address string  `json:"address"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if p.Lat != 40.758 || p.Lon != -73.9855 {
		t.Fatalf("point = %+v", p)
	}

	// Second lookup differs only in case and spacing and is served from cache.
	rec = ts.do(http.MethodPost, "/api/geocode-address", `{"query":"  times   square "}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ts.geocoder.Calls() != 1 {
		t.Fatalf("geocoder calls = %d, want 1", ts.geocoder.Calls())
	}
}

func TestGeocodeAddressNotFound(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/geocode-address", `{"query":"nowhere"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	rec = ts.do(http.MethodPost, "/api/geocode-address", `{"query":"   "}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestExportGPX(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/export-gpx", routeBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/gpx+xml" {
		t.Fatalf("content type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "<gpx") {
		t.Fatalf("body is not a GPX document: %s", rec.Body.String())
	}
	if ts.geometry.Calls() != 0 {
		t.Fatalf("geometry fetched for export")
	}
}

func TestExportGoogleMaps(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/export-googlemaps", routeBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.HasPrefix(resp.URL, "https://www.google.com/maps/dir/") {
		t.Fatalf("url = %q", resp.URL)
	}
}

func tooManyStopsBody(n int) string {
	var b strings.Builder
	b.WriteString(`{"baseAddress":{"address":"A","lat":0,"lon":0},"followingAddresses":[`)
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(`{"address":"S","lat":0,"lon":1}`)
	}
	b.WriteString(`],"vehicle":"car"}`)
	return b.String()
}
