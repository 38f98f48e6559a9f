package services

import (
	"context"
	"eco-route-service/internal/domain"
	"eco-route-service/internal/platform/obs"
	"eco-route-service/internal/ports"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// OptimizeRouteRequest is the input of one optimization cycle.
type OptimizeRouteRequest struct {
	Base    *domain.Point
	Stops   []domain.Point
	Vehicle string
}

// OrderedRoute is a validated request whose stops have been put in optimal order.
type OrderedRoute struct {
	Points       domain.PointSet
	Vehicle      domain.Vehicle
	BestDistance float64
}

// OptimizerConfig holds the immutable limits applied to every request.
type OptimizerConfig struct {
	// MaxStops caps the waypoint count; requests above it are rejected.
	MaxStops int
	// Timeout bounds a whole optimization request. Zero disables it.
	Timeout time.Duration
}

// RouteOptimizer runs the optimization pipeline:
// distance matrix -> exact order -> route geometry + travel time -> emissions.
//
// It holds no per-request state and is safe for concurrent use.
type RouteOptimizer struct {
	matrix    ports.DistanceMatrixProvider
	geometry  ports.RouteGeometryProvider
	durations *DurationEstimator
	cfg       OptimizerConfig
}

func NewRouteOptimizer(
	matrix ports.DistanceMatrixProvider,
	geometry ports.RouteGeometryProvider,
	durations *DurationEstimator,
	cfg OptimizerConfig,
) (*RouteOptimizer, error) {
	if matrix == nil || geometry == nil {
		return nil, errors.New("route optimizer: matrix and geometry providers are required")
	}
	if durations == nil {
		durations = NewDurationEstimator(nil)
	}
	if cfg.MaxStops <= 0 || cfg.MaxStops > domain.MaxSupportedStops {
		cfg.MaxStops = domain.MaxSupportedStops
	}

	return &RouteOptimizer{
		matrix:    matrix,
		geometry:  geometry,
		durations: durations,
		cfg:       cfg,
	}, nil
}

// OptimizeRoute computes the optimal visiting order and scores the resulting route.
//
// A matrix or geometry failure aborts the request with an UpstreamServiceError.
// A directions failure never does: the duration falls back to the vehicle's speed.
func (o *RouteOptimizer) OptimizeRoute(ctx context.Context, req OptimizeRouteRequest) (_ *domain.RouteResult, err error) {
	defer obs.Time(ctx, "optimize.Route")(&err)

	ctx, cancel := o.withTimeout(ctx)
	defer cancel()

	ordered, err := o.optimizeOrder(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("optimize route: %w", err)
	}

	// Geometry and travel time only depend on the order, so fetch them together.
	var (
		route  *domain.Route
		lookup DirectionsLookup
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := o.geometry.GetRoute(gctx, ordered.Points.Coordinates())
		if err != nil {
			return asUpstream("route", "geometry", err)
		}
		if r == nil {
			return asUpstream("route", "geometry", errors.New("empty route"))
		}
		route = r
		return nil
	})
	g.Go(func() error {
		lookup = o.durations.Lookup(gctx, ordered.Points, ordered.Vehicle)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("optimize route: fetch route geometry: %w", err)
	}

	duration := o.durations.Resolve(ctx, lookup, ordered.Vehicle, route.DistanceMeters)

	return &domain.RouteResult{
		OptimizedPoints: ordered.Points,
		Geometry:        route.Geometry,
		DistanceMeters:  route.DistanceMeters,
		Duration:        duration,
		CarbonGrams:     CarbonFootprintGrams(route.DistanceMeters, ordered.Vehicle),
	}, nil
}

// OptimizeOrder validates the request and returns its points in optimal visiting order,
// without fetching geometry or travel time.
func (o *RouteOptimizer) OptimizeOrder(ctx context.Context, req OptimizeRouteRequest) (_ *OrderedRoute, err error) {
	defer obs.Time(ctx, "optimize.Order")(&err)

	ctx, cancel := o.withTimeout(ctx)
	defer cancel()

	ordered, err := o.optimizeOrder(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("optimize order: %w", err)
	}
	return ordered, nil
}

func (o *RouteOptimizer) optimizeOrder(ctx context.Context, req OptimizeRouteRequest) (*OrderedRoute, error) {
	points, vehicle, err := o.validate(req)
	if err != nil {
		return nil, err
	}

	matrix, err := o.matrix.GetDistanceMatrix(ctx, points.Coordinates())
	if err != nil {
		return nil, fmt.Errorf("fetch distance matrix: %w", asUpstream("table", "distance-matrix", err))
	}
	if err := matrix.Validate(len(points)); err != nil {
		return nil, fmt.Errorf("fetch distance matrix: %w", asUpstream("table", "distance-matrix", err))
	}

	solution, err := SolveRouteOrder(matrix)
	if err != nil {
		return nil, err
	}

	optimized, err := points.Reorder(solution.Order)
	if err != nil {
		return nil, err
	}

	return &OrderedRoute{
		Points:       optimized,
		Vehicle:      vehicle,
		BestDistance: solution.BestDistance,
	}, nil
}

// validate runs before any upstream call.
func (o *RouteOptimizer) validate(req OptimizeRouteRequest) (domain.PointSet, domain.Vehicle, error) {
	if req.Base == nil {
		return nil, "", &domain.ValidationError{Field: "baseAddress", Reason: "is required"}
	}
	if len(req.Stops) == 0 {
		return nil, "", &domain.ValidationError{Field: "followingAddresses", Reason: "must not be empty"}
	}
	if req.Vehicle == "" {
		return nil, "", &domain.ValidationError{Field: "vehicle", Reason: "is required"}
	}

	vehicle, err := domain.ParseVehicle(req.Vehicle)
	if err != nil {
		return nil, "", err
	}

	if len(req.Stops) > o.cfg.MaxStops {
		return nil, "", &domain.ValidationError{
			Field:  "followingAddresses",
			Reason: fmt.Sprintf("%d stops exceeds the maximum of %d", len(req.Stops), o.cfg.MaxStops),
			Err:    domain.ErrTooManyStops,
		}
	}

	if err := req.Base.Validate("baseAddress"); err != nil {
		return nil, "", err
	}
	for i, s := range req.Stops {
		if err := s.Validate(fmt.Sprintf("followingAddresses[%d]", i)); err != nil {
			return nil, "", err
		}
	}

	return domain.NewPointSet(*req.Base, req.Stops), vehicle, nil
}

func (o *RouteOptimizer) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, o.cfg.Timeout)
}

// asUpstream guarantees stage failures surface as UpstreamServiceError,
// including transport errors and timeouts raised before a response arrived.
func asUpstream(op, service string, err error) error {
	var ue *domain.UpstreamServiceError
	if errors.As(err, &ue) {
		return err
	}
	return &domain.UpstreamServiceError{Service: service, Op: op, Err: err}
}
