package cache

import (
	"context"
	"eco-route-service/internal/domain"
	"eco-route-service/internal/platform/obs"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "geocode:"

// RedisGeocodeCache stores resolved points as JSON values with an expiry.
type RedisGeocodeCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisGeocodeCache(client *redis.Client, ttl time.Duration) *RedisGeocodeCache {
	return &RedisGeocodeCache{client: client, ttl: ttl}
}

func (r *RedisGeocodeCache) Get(ctx context.Context, query string) (_ domain.Point, ok bool, err error) {
	defer obs.Time(ctx, "geocode.cache.Get")(&err)

	query = strings.TrimSpace(query)
	if query == "" {
		return domain.Point{}, false, errors.New("get geocode cache: query must not be empty")
	}

	raw, err := r.client.Get(ctx, redisKeyPrefix+query).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Point{}, false, nil
	}
	if err != nil {
		return domain.Point{}, false, fmt.Errorf("get geocode cache: redis get: %w", err)
	}

	var p domain.Point
	if err := json.Unmarshal(raw, &p); err != nil {
		return domain.Point{}, false, fmt.Errorf("get geocode cache: decode entry: %w", err)
	}

	return p, true, nil
}

func (r *RedisGeocodeCache) Put(ctx context.Context, query string, p domain.Point) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return errors.New("insert geocode cache: empty query key")
	}

	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("insert geocode cache: encode entry: %w", err)
	}

	if err := r.client.Set(ctx, redisKeyPrefix+query, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("insert geocode cache query=%q: %w", query, err)
	}

	return nil
}
