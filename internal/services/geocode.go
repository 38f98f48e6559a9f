package services

import (
	"context"
	"eco-route-service/internal/domain"
	"eco-route-service/internal/platform/obs"
	"eco-route-service/internal/ports"
	"fmt"
	"log"
	"strings"
)

// GeocodeService resolves addresses, reading through an optional cache.
// Cache failures are logged and never fail a lookup.
type GeocodeService struct {
	geocoder ports.Geocoder
	cache    ports.GeocodeCache
}

func NewGeocodeService(geocoder ports.Geocoder, cache ports.GeocodeCache) *GeocodeService {
	return &GeocodeService{geocoder: geocoder, cache: cache}
}

// NormalizeQuery lowercases and collapses whitespace for consistent cache keys.
func NormalizeQuery(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func (s *GeocodeService) Geocode(ctx context.Context, query string) (domain.Point, error) {
	key := NormalizeQuery(query)
	if key == "" {
		return domain.Point{}, &domain.ValidationError{Field: "query", Reason: "is required"}
	}

	if s.cache != nil {
		p, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			log.Printf("req_id=%s geocode cache read failed: %v", obs.RequestID(ctx), err)
		} else if ok {
			return p, nil
		}
	}

	p, err := s.geocoder.Search(ctx, strings.TrimSpace(query))
	if err != nil {
		return domain.Point{}, fmt.Errorf("geocode %q: %w", key, err)
	}

	if s.cache != nil {
		if err := s.cache.Put(ctx, key, p); err != nil {
			log.Printf("req_id=%s geocode cache write failed: %v", obs.RequestID(ctx), err)
		}
	}

	return p, nil
}
