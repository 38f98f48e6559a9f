package ports

import (
	"context"
	"eco-route-service/internal/domain"
)

// Contract for retrieving travel times along an ordered point sequence.
type DirectionsProvider interface {
	// Return the duration in seconds of every leg between consecutive points.
	GetSegmentDurations(ctx context.Context, points []domain.Coordinates, profile string) ([]float64, error)
}
