package services

import (
	"context"
	"eco-route-service/internal/adapters/mock"
	"eco-route-service/internal/domain"
	"errors"
	"testing"
	"time"

	"github.com/paulmach/orb"
)

type fixture struct {
	matrix    *mock.MatrixProvider
	geometry  *mock.GeometryProvider
	dirs      *mock.DirectionsProvider
	optimizer *RouteOptimizer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		matrix: &mock.MatrixProvider{Matrix: domain.DistanceMatrix{
			{0, 1000, 2000},
			{1000, 0, 500},
			{2000, 500, 0},
		}},
		geometry: &mock.GeometryProvider{Route: &domain.Route{
			Geometry:       orb.LineString{{0, 0}, {1, 0}, {0, 1}},
			DistanceMeters: 1500,
		}},
		dirs: &mock.DirectionsProvider{Durations: []float64{600, 300}},
	}

	opt, err := NewRouteOptimizer(f.matrix, f.geometry, NewDurationEstimator(f.dirs), OptimizerConfig{MaxStops: 8, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("NewRouteOptimizer: %v", err)
	}
	f.optimizer = opt
	return f
}

func baseRequest() OptimizeRouteRequest {
	return OptimizeRouteRequest{
		Base: &domain.Point{Address: "A", Lat: 0, Lon: 0},
		Stops: []domain.Point{
			{Address: "B", Lat: 0, Lon: 1},
			{Address: "C", Lat: 1, Lon: 0},
		},
		Vehicle: "car",
	}
}

func TestOptimizeRoute(t *testing.T) {
	f := newFixture(t)

	res, err := f.optimizer.OptimizeRoute(context.Background(), baseRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(res.OptimizedPoints) != 3 {
		t.Fatalf("expected 3 points, got %d", len(res.OptimizedPoints))
	}
	if res.OptimizedPoints[0].Address != "A" || res.OptimizedPoints[1].Address != "B" || res.OptimizedPoints[2].Address != "C" {
		t.Fatalf("order = %v", domain.PointSet(res.OptimizedPoints))
	}
	if got := res.TotalDistanceKm(); got != "1.50" {
		t.Fatalf("distance = %q, want 1.50", got)
	}
	if got := res.CarbonFootprint(); got != "327.00" {
		t.Fatalf("carbon = %q, want 327.00", got)
	}
	if res.TotalTimeMin() != 15 {
		t.Fatalf("time = %d, want 15", res.TotalTimeMin())
	}
	if res.Duration.Source != domain.DurationFromDirections {
		t.Fatalf("duration source = %q, want directions", res.Duration.Source)
	}
	if len(res.Geometry) != 3 {
		t.Fatalf("geometry = %v", res.Geometry)
	}

	sent := f.geometry.LastPoints()
	if len(sent) != 3 || sent[1] != (domain.Coordinates{Lon: 1, Lat: 0}) {
		t.Fatalf("geometry requested for %v", sent)
	}
	if f.dirs.LastProfile() != "driving-car" {
		t.Fatalf("profile = %q, want driving-car", f.dirs.LastProfile())
	}
}

func TestOptimizeRouteReordersStops(t *testing.T) {
	f := newFixture(t)
	// C is now much closer to the origin than B.
	f.matrix.Matrix = domain.DistanceMatrix{
		{0, 2000, 100},
		{2000, 0, 500},
		{100, 500, 0},
	}

	res, err := f.optimizer.OptimizeRoute(context.Background(), baseRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := []string{res.OptimizedPoints[0].Address, res.OptimizedPoints[1].Address, res.OptimizedPoints[2].Address}
	want := []string{"A", "C", "B"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestOptimizeRouteDirectionsFallback(t *testing.T) {
	f := newFixture(t)
	f.dirs.Err = &domain.UpstreamServiceError{Service: "ors", Op: "directions", StatusCode: 503}

	res, err := f.optimizer.OptimizeRoute(context.Background(), baseRequest())
	if err != nil {
		t.Fatalf("directions failure must not abort: %v", err)
	}

	if res.Duration.Source != domain.DurationFromFallback {
		t.Fatalf("source = %q, want fallback", res.Duration.Source)
	}
	// 1.5 km at 60 km/h = 90 s = 1 min.
	if res.TotalTimeMin() != 1 {
		t.Fatalf("time = %d, want 1", res.TotalTimeMin())
	}
}

func TestOptimizeRouteValidation(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(r *OptimizeRouteRequest)
		field string
	}{
		{"missing base", func(r *OptimizeRouteRequest) { r.Base = nil }, "baseAddress"},
		{"no stops", func(r *OptimizeRouteRequest) { r.Stops = nil }, "followingAddresses"},
		{"missing vehicle", func(r *OptimizeRouteRequest) { r.Vehicle = "" }, "vehicle"},
		{"unknown vehicle", func(r *OptimizeRouteRequest) { r.Vehicle = "spaceship" }, "vehicle"},
		{"bad coordinates", func(r *OptimizeRouteRequest) { r.Stops[1].Lat = 200 }, "followingAddresses[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			req := baseRequest()
			tt.edit(&req)

			_, err := f.optimizer.OptimizeRoute(context.Background(), req)

			var ve *domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if ve.Field != tt.field {
				t.Fatalf("field = %q, want %q", ve.Field, tt.field)
			}
			if f.matrix.Calls() != 0 || f.geometry.Calls() != 0 || f.dirs.Calls() != 0 {
				t.Fatalf("upstream called on invalid input")
			}
		})
	}
}

func TestOptimizeRouteTooManyStops(t *testing.T) {
	f := newFixture(t)
	opt, err := NewRouteOptimizer(f.matrix, f.geometry, NewDurationEstimator(f.dirs), OptimizerConfig{MaxStops: 1})
	if err != nil {
		t.Fatalf("NewRouteOptimizer: %v", err)
	}

	_, err = opt.OptimizeRoute(context.Background(), baseRequest())
	if !errors.Is(err, domain.ErrTooManyStops) {
		t.Fatalf("err = %v, want ErrTooManyStops", err)
	}
	if f.matrix.Calls() != 0 {
		t.Fatalf("matrix fetched for an out-of-scope request")
	}
}

func TestOptimizeRouteMatrixFailureAborts(t *testing.T) {
	f := newFixture(t)
	f.matrix.Err = errors.New("dial tcp: connection refused")

	res, err := f.optimizer.OptimizeRoute(context.Background(), baseRequest())
	if res != nil {
		t.Fatalf("expected no partial result, got %+v", res)
	}

	var ue *domain.UpstreamServiceError
	if !errors.As(err, &ue) {
		t.Fatalf("err = %v, want UpstreamServiceError", err)
	}
	if ue.Op != "table" {
		t.Fatalf("op = %q, want table", ue.Op)
	}
	if f.geometry.Calls() != 0 || f.dirs.Calls() != 0 {
		t.Fatalf("pipeline continued after matrix failure")
	}
}

func TestOptimizeRouteGeometryFailureAborts(t *testing.T) {
	f := newFixture(t)
	f.geometry.Err = &domain.UpstreamServiceError{Service: "osrm", Op: "route", StatusCode: 500}

	res, err := f.optimizer.OptimizeRoute(context.Background(), baseRequest())
	if res != nil {
		t.Fatalf("expected no partial result, got %+v", res)
	}

	var ue *domain.UpstreamServiceError
	if !errors.As(err, &ue) || ue.Op != "route" {
		t.Fatalf("err = %v, want route UpstreamServiceError", err)
	}
}

func TestOptimizeRouteRejectsMisSizedMatrix(t *testing.T) {
	f := newFixture(t)
	f.matrix.Matrix = domain.DistanceMatrix{{0, 1}, {1, 0}}

	_, err := f.optimizer.OptimizeRoute(context.Background(), baseRequest())
	var ue *domain.UpstreamServiceError
	if !errors.As(err, &ue) {
		t.Fatalf("err = %v, want UpstreamServiceError", err)
	}
}

func TestOptimizeOrder(t *testing.T) {
	f := newFixture(t)

	ordered, err := f.optimizer.OptimizeOrder(context.Background(), baseRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ordered.BestDistance != 1500 {
		t.Fatalf("best distance = %v, want 1500", ordered.BestDistance)
	}
	if ordered.Vehicle != domain.VehicleCar {
		t.Fatalf("vehicle = %q", ordered.Vehicle)
	}
	if f.geometry.Calls() != 0 || f.dirs.Calls() != 0 {
		t.Fatalf("order-only optimization must not fetch geometry or durations")
	}
}

func TestNewRouteOptimizerRequiresProviders(t *testing.T) {
	if _, err := NewRouteOptimizer(nil, &mock.GeometryProvider{}, nil, OptimizerConfig{}); err == nil {
		t.Fatalf("expected error for missing matrix provider")
	}
}
