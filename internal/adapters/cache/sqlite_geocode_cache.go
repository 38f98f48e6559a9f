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

// SQLite backed cache mapping query text to points.
// Keys are expected to be normalized by the caller.
type SqliteGeocodeCache struct {
	DB  *sql.DB
	TTL time.Duration

	now func() time.Time
}

func NewSqliteGeocodeCache(db *sql.DB, ttl time.Duration) *SqliteGeocodeCache {
	return &SqliteGeocodeCache{DB: db, TTL: ttl, now: time.Now}
}

func (s *SqliteGeocodeCache) Get(ctx context.Context, query string) (_ domain.Point, ok bool, err error) {
	defer obs.Time(ctx, "geocode.cache.Get")(&err)

	if s.DB == nil {
		return domain.Point{}, false, errors.New("geocode cache: db is nil")
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return domain.Point{}, false, errors.New("get geocode cache: query must not be empty")
	}

	var p domain.Point
	var fetchedAt int64
	err = s.DB.QueryRowContext(ctx, `
	SELECT
        address,
        lat,
        lon,
        fetched_at
    FROM geocode_cache
    WHERE query = ?;
	`, query).Scan(&p.Address, &p.Lat, &p.Lon, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Point{}, false, nil
	}
	if err != nil {
		return domain.Point{}, false, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}

	if s.TTL > 0 && s.now().Sub(time.Unix(fetchedAt, 0)) > s.TTL {
		return domain.Point{}, false, nil
	}

	return p, true, nil
}

func (s *SqliteGeocodeCache) Put(ctx context.Context, query string, p domain.Point) error {
	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return errors.New("insert geocode cache: empty query key")
	}

	_, err := s.DB.ExecContext(ctx, `
	INSERT OR REPLACE INTO geocode_cache (
        query,
        address,
        lat,
        lon,
        fetched_at
    )
    VALUES (?, ?, ?, ?, ?)
	`, query, p.Address, p.Lat, p.Lon, s.now().Unix())
	if err != nil {
		return fmt.Errorf("insert geocode cache query=%q: %w", query, err)
	}

	return nil
}
