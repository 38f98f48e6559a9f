package services

import (
	"context"
	"eco-route-service/internal/domain"
	"eco-route-service/internal/ports"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// GeocodeSeed is one preloaded address, keyed by the query that resolves to it.
type GeocodeSeed struct {
	Query   string  `json:"query"`
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// SeedGeocodeCache loads a JSON array of GeocodeSeed into the cache.
// Every entry is validated before anything is written.
func SeedGeocodeCache(ctx context.Context, cache ports.GeocodeCache, r io.Reader) (int, error) {
	if cache == nil {
		return 0, errors.New("seed geocode cache: cache is nil")
	}

	var data []GeocodeSeed
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return 0, fmt.Errorf("seed geocode cache: parse json: %w", err)
	}

	keys := make([]string, len(data))
	for i, item := range data {
		keys[i] = NormalizeQuery(item.Query)
		if keys[i] == "" {
			return 0, fmt.Errorf("seed geocode cache: entry %d: query cannot be empty", i+1)
		}
		p := domain.Point{Address: item.Address, Lat: item.Lat, Lon: item.Lon}
		if err := p.Validate(fmt.Sprintf("entry %d", i+1)); err != nil {
			return 0, fmt.Errorf("seed geocode cache: %w", err)
		}
	}

	for i, item := range data {
		p := domain.Point{Address: item.Address, Lat: item.Lat, Lon: item.Lon}
		if err := cache.Put(ctx, keys[i], p); err != nil {
			return i, fmt.Errorf("seed geocode cache: put %q: %w", keys[i], err)
		}
	}

	return len(data), nil
}
