package services

import (
	"context"
	"eco-route-service/internal/domain"
	"eco-route-service/internal/platform/obs"
	"eco-route-service/internal/ports"
	"errors"
	"fmt"
	"log"
	"math"
)

// defaultFallbackSpeedKmh applies only if a vehicle without a profile ever reaches the estimator.
const defaultFallbackSpeedKmh = 60

var errDirectionsDisabled = errors.New("directions provider not configured")

// DirectionsLookup is the outcome of the primary travel-time query.
type DirectionsLookup struct {
	Seconds float64
	Err     error
}

// DurationEstimator produces a travel time for an ordered route.
//
// It has two branches: the directions service (primary) and a speed
// heuristic over the routed distance (fallback). It never returns an error.
type DurationEstimator struct {
	directions ports.DirectionsProvider
}

// NewDurationEstimator builds an estimator. A nil provider means every
// estimate comes from the fallback branch.
func NewDurationEstimator(directions ports.DirectionsProvider) *DurationEstimator {
	return &DurationEstimator{directions: directions}
}

// Lookup queries the directions service and sums its segment durations.
// Failures are captured in the result, never returned.
func (e *DurationEstimator) Lookup(ctx context.Context, points domain.PointSet, vehicle domain.Vehicle) (res DirectionsLookup) {
	defer func() {
		if r := recover(); r != nil {
			res = DirectionsLookup{Err: fmt.Errorf("directions lookup panicked: %v", r)}
		}
	}()

	if e.directions == nil {
		return DirectionsLookup{Err: errDirectionsDisabled}
	}

	profile, ok := vehicle.Profile()
	if !ok {
		return DirectionsLookup{Err: fmt.Errorf("no directions profile for vehicle %q", vehicle)}
	}

	segments, err := e.directions.GetSegmentDurations(ctx, points.Coordinates(), profile.DirectionsProfile)
	if err != nil {
		return DirectionsLookup{Err: err}
	}

	total := 0.0
	for _, s := range segments {
		total += s
	}
	if math.IsNaN(total) || math.IsInf(total, 0) || total < 0 {
		return DirectionsLookup{Err: fmt.Errorf("invalid total duration %v", total)}
	}

	return DirectionsLookup{Seconds: total}
}

// Resolve picks the travel time: the directions result when the lookup
// succeeded, otherwise the speed heuristic over distanceMeters.
func (e *DurationEstimator) Resolve(
	ctx context.Context,
	lookup DirectionsLookup,
	vehicle domain.Vehicle,
	distanceMeters float64,
) domain.DurationEstimate {
	if lookup.Err == nil {
		return domain.DurationEstimate{Seconds: lookup.Seconds, Source: domain.DurationFromDirections}
	}

	log.Printf(
		"req_id=%s op=duration.fallback vehicle=%s distance_m=%.0f reason=%v",
		obs.RequestID(ctx), vehicle, distanceMeters, lookup.Err,
	)

	return domain.DurationEstimate{
		Seconds: FallbackDurationSeconds(distanceMeters, vehicle),
		Source:  domain.DurationFromFallback,
	}
}

// Estimate runs Lookup then Resolve. distanceMeters must come from the route
// geometry already fetched for points.
func (e *DurationEstimator) Estimate(
	ctx context.Context,
	points domain.PointSet,
	vehicle domain.Vehicle,
	distanceMeters float64,
) domain.DurationEstimate {
	return e.Resolve(ctx, e.Lookup(ctx, points, vehicle), vehicle, distanceMeters)
}

// FallbackDurationSeconds converts a distance into seconds at the vehicle's assumed speed.
func FallbackDurationSeconds(distanceMeters float64, vehicle domain.Vehicle) float64 {
	speed := float64(defaultFallbackSpeedKmh)
	if p, ok := vehicle.Profile(); ok && p.FallbackSpeedKmh > 0 {
		speed = p.FallbackSpeedKmh
	}
	return (distanceMeters / 1000) / speed * 3600
}
