package ports

import (
	"context"
	"eco-route-service/internal/domain"
)

// Contract for retrieving the driven path through an ordered point sequence.
type RouteGeometryProvider interface {
	// Return the path geometry and total distance for points visited in order.
	GetRoute(ctx context.Context, points []domain.Coordinates) (*domain.Route, error)
}
