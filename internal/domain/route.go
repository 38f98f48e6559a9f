package domain

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// DistanceMatrix holds pairwise road distances in meters.
// m[i][j] is the distance from point i to point j. It is not assumed symmetric.
type DistanceMatrix [][]float64

// Validate checks that the matrix is square, sized for n points and holds
// finite non-negative entries.
func (m DistanceMatrix) Validate(n int) error {
	if len(m) != n {
		return fmt.Errorf("distance matrix: got %d rows, want %d", len(m), n)
	}
	for i, row := range m {
		if len(row) != n {
			return fmt.Errorf("distance matrix: row %d has %d columns, want %d", i, len(row), n)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
				return fmt.Errorf("distance matrix: invalid entry [%d][%d]=%v", i, j, v)
			}
		}
	}
	return nil
}

// MaxSupportedStops is the largest waypoint count optimized exactly.
// The search enumerates k! visiting orders, which stays interactive only for small k.
const MaxSupportedStops = 9

// VisitOrder is a permutation of the stop indices 1..k. The origin (index 0)
// is implicit and always visited first.
type VisitOrder []int

// Validate checks that the order visits each of the k stops exactly once.
func (o VisitOrder) Validate(k int) error {
	if len(o) != k {
		return fmt.Errorf("visit order: got %d stops, want %d", len(o), k)
	}
	seen := make([]bool, k+1)
	for _, idx := range o {
		if idx < 1 || idx > k {
			return fmt.Errorf("visit order: index %d outside 1..%d", idx, k)
		}
		if seen[idx] {
			return fmt.Errorf("visit order: index %d visited twice", idx)
		}
		seen[idx] = true
	}
	return nil
}

// Route is the concrete path returned by the routing service for an ordered PointSet.
type Route struct {
	Geometry       orb.LineString
	DistanceMeters float64
}

// DurationSource records which branch produced a travel time.
type DurationSource string

const (
	DurationFromDirections DurationSource = "directions"
	DurationFromFallback   DurationSource = "fallback"
)

// DurationEstimate is the travel time for a route and how it was obtained.
type DurationEstimate struct {
	Seconds float64
	Source  DurationSource
}

// Minutes returns the whole number of minutes, rounded down.
func (d DurationEstimate) Minutes() int {
	return int(math.Floor(d.Seconds / 60))
}

// RouteResult is the outcome of one optimization request. It is built once
// per request and never persisted.
type RouteResult struct {
	OptimizedPoints []Point
	Geometry        orb.LineString
	DistanceMeters  float64
	Duration        DurationEstimate
	CarbonGrams     float64
}

// TotalDistanceKm formats the route distance in kilometers with two decimals.
func (r *RouteResult) TotalDistanceKm() string {
	return fmt.Sprintf("%.2f", r.DistanceMeters/1000)
}

// TotalTimeMin returns the travel time in whole minutes (floored).
func (r *RouteResult) TotalTimeMin() int {
	return r.Duration.Minutes()
}

// CarbonFootprint formats the emitted CO2 mass in grams with two decimals.
func (r *RouteResult) CarbonFootprint() string {
	return fmt.Sprintf("%.2f", r.CarbonGrams)
}
