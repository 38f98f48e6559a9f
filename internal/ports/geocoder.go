package ports

import (
	"context"
	"eco-route-service/internal/domain"
)

// Geocoder resolves a free-text address to a point.
type Geocoder interface {
	// Return the best match for query, or domain.ErrNotFound.
	Search(ctx context.Context, query string) (domain.Point, error)
}

// GeocodeCache stores resolved addresses keyed by normalized query text.
type GeocodeCache interface {
	Get(ctx context.Context, query string) (domain.Point, bool, error)
	Put(ctx context.Context, query string, p domain.Point) error
}
