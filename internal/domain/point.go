package domain

import (
	"fmt"
	"math"
	"strings"
)

// Point is a geocoded location supplied by the client.
// Points are treated as immutable values once created.
type Point struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

func (p Point) Coordinates() Coordinates {
	return Coordinates{Lon: p.Lon, Lat: p.Lat}
}

// Validate reports whether the point carries usable coordinates.
func (p Point) Validate(field string) error {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) || p.Lat < -90 || p.Lat > 90 || p.Lon < -180 || p.Lon > 180 {
		return &ValidationError{
			Field:  field,
			Reason: fmt.Sprintf("coordinates out of range (lat=%v lon=%v)", p.Lat, p.Lon),
		}
	}
	return nil
}

// PointSet is an ordered point sequence whose first element is the fixed origin.
type PointSet []Point

func NewPointSet(origin Point, stops []Point) PointSet {
	ps := make(PointSet, 0, 1+len(stops))
	ps = append(ps, origin)
	ps = append(ps, stops...)
	return ps
}

// Origin returns the fixed start of the set.
func (ps PointSet) Origin() Point { return ps[0] }

// Stops returns the number of waypoints (origin excluded).
func (ps PointSet) Stops() int { return len(ps) - 1 }

func (ps PointSet) Coordinates() []Coordinates {
	out := make([]Coordinates, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Coordinates())
	}
	return out
}

// Reorder builds a new set starting at the origin and visiting stops in the given order.
// The receiver is left untouched.
func (ps PointSet) Reorder(order VisitOrder) (PointSet, error) {
	if err := order.Validate(ps.Stops()); err != nil {
		return nil, fmt.Errorf("reorder point set: %w", err)
	}

	out := make(PointSet, 0, len(ps))
	out = append(out, ps[0])
	for _, idx := range order {
		out = append(out, ps[idx])
	}
	return out, nil
}

// String renders the set as "addr -> addr -> ..." for log lines.
func (ps PointSet) String() string {
	names := make([]string, 0, len(ps))
	for _, p := range ps {
		names = append(names, p.Address)
	}
	return strings.Join(names, " -> ")
}
