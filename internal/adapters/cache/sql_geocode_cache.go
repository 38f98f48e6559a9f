package cache

import (
	"context"
	"database/sql"
	"eco-route-service/internal/domain"
	"eco-route-service/internal/platform/obs"
	"errors"
	"fmt"
	"strings"
	"time"
)

// SQLGeocodeCache is a Postgres-backed cache mapping query text to points.
type SQLGeocodeCache struct {
	DB  *sql.DB
	TTL time.Duration
}

func NewSQLGeocodeCache(db *sql.DB, ttl time.Duration) *SQLGeocodeCache {
	return &SQLGeocodeCache{DB: db, TTL: ttl}
}

// Fetch the cached point for query. ok is false on a miss or an expired entry.
func (s *SQLGeocodeCache) Get(ctx context.Context, query string) (_ domain.Point, ok bool, err error) {
	defer obs.Time(ctx, "geocode.cache.Get")(&err)

	if s.DB == nil {
		return domain.Point{}, false, errors.New("geocode cache: db is nil")
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return domain.Point{}, false, errors.New("get geocode cache: query must not be empty")
	}

	q := `
	SELECT address, lat, lon, fetched_at
    FROM geocode_cache
    WHERE query = $1;
	`

	var p domain.Point
	var fetchedAt time.Time
	err = s.DB.QueryRowContext(ctx, q, query).Scan(&p.Address, &p.Lat, &p.Lon, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Point{}, false, nil
	}
	if err != nil {
		return domain.Point{}, false, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}

	if s.TTL > 0 && time.Since(fetchedAt) > s.TTL {
		return domain.Point{}, false, nil
	}

	return p, true, nil
}

// Store the point resolved for query.
func (s *SQLGeocodeCache) Put(ctx context.Context, query string, p domain.Point) error {
	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return errors.New("insert geocode cache: empty query key")
	}

	_, err := s.DB.ExecContext(ctx, `
	INSERT INTO geocode_cache (query, address, lat, lon, fetched_at)
    VALUES ($1, $2, $3, $4, now())
	ON CONFLICT (query) DO UPDATE
	SET address = EXCLUDED.address,
		lat = EXCLUDED.lat,
		lon = EXCLUDED.lon,
		fetched_at = EXCLUDED.fetched_at;
	`, query, p.Address, p.Lat, p.Lon)
	if err != nil {
		return fmt.Errorf("insert geocode cache query=%q: %w", query, err)
	}

	return nil
}
