package mock

import (
	"context"
	"eco-route-service/internal/domain"
	"errors"
	"sync"
)

// MatrixProvider returns a fixed distance matrix.
type MatrixProvider struct {
	Matrix domain.DistanceMatrix
	Err    error

	mu    sync.Mutex
	calls int
}

func (m *MatrixProvider) GetDistanceMatrix(ctx context.Context, points []domain.Coordinates) (domain.DistanceMatrix, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.Matrix) != len(points) {
		return nil, &domain.UpstreamServiceError{
			Service: "mock",
			Op:      "table",
			Err:     errors.New("matrix size does not match points"),
		}
	}
	return m.Matrix, nil
}

func (m *MatrixProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// GeometryProvider returns a fixed route and records the requested sequence.
type GeometryProvider struct {
	Route *domain.Route
	Err   error

	mu     sync.Mutex
	calls  int
	points []domain.Coordinates
}

func (g *GeometryProvider) GetRoute(ctx context.Context, points []domain.Coordinates) (*domain.Route, error) {
	g.mu.Lock()
	g.calls++
	g.points = points
	g.mu.Unlock()

	if g.Err != nil {
		return nil, g.Err
	}
	return g.Route, nil
}

func (g *GeometryProvider) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// LastPoints returns the sequence passed to the most recent call.
func (g *GeometryProvider) LastPoints() []domain.Coordinates {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.points
}

// DirectionsProvider returns fixed segment durations.
type DirectionsProvider struct {
	Durations []float64
	Err       error

	mu      sync.Mutex
	calls   int
	profile string
}

func (d *DirectionsProvider) GetSegmentDurations(ctx context.Context, points []domain.Coordinates, profile string) ([]float64, error) {
	d.mu.Lock()
	d.calls++
	d.profile = profile
	d.mu.Unlock()

	if d.Err != nil {
		return nil, d.Err
	}
	return d.Durations, nil
}

func (d *DirectionsProvider) Calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

// LastProfile returns the profile passed to the most recent call.
func (d *DirectionsProvider) LastProfile() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.profile
}

// Geocoder resolves queries from a fixed table.
type Geocoder struct {
	Points map[string]domain.Point
	Err    error

	mu    sync.Mutex
	calls int
}

func (g *Geocoder) Search(ctx context.Context, query string) (domain.Point, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()

	if g.Err != nil {
		return domain.Point{}, g.Err
	}
	p, ok := g.Points[query]
	if !ok {
		return domain.Point{}, domain.ErrNotFound
	}
	return p, nil
}

func (g *Geocoder) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// GeocodeCache is an in-memory GeocodeCache.
type GeocodeCache struct {
	GetErr error
	PutErr error

	mu      sync.Mutex
	entries map[string]domain.Point
}

func NewGeocodeCache() *GeocodeCache {
	return &GeocodeCache{entries: map[string]domain.Point{}}
}

func (c *GeocodeCache) Get(ctx context.Context, query string) (domain.Point, bool, error) {
	if c.GetErr != nil {
		return domain.Point{}, false, c.GetErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.entries[query]
	return p, ok, nil
}

func (c *GeocodeCache) Put(ctx context.Context, query string, p domain.Point) error {
	if c.PutErr != nil {
		return c.PutErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[query] = p
	return nil
}

func (c *GeocodeCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
