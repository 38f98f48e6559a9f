package ports

import (
	"context"
	"eco-route-service/internal/domain"
)

// Contract for retrieving pairwise road distances for a point set.
type DistanceMatrixProvider interface {
	// Return a square matrix of distances in meters, ordered like points.
	GetDistanceMatrix(ctx context.Context, points []domain.Coordinates) (domain.DistanceMatrix, error)
}
