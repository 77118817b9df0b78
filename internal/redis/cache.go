package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"triproute/internal/domain"
)

// DefaultRouteCacheTTL matches the default route fetch throttle window so
// that every instance reuses the same provider result within it.
const DefaultRouteCacheTTL = 30 * time.Second

const routeCachePrefix = "cache:route:"

// RouteCacheStore caches fetched routes in Redis, keyed by route subject.
type RouteCacheStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRouteCacheStore creates a new RouteCacheStore. The TTL should equal
// the fetch throttle window; a non-positive value falls back to the
// default.
func NewRouteCacheStore(client *redis.Client, ttl time.Duration) *RouteCacheStore {
	if ttl <= 0 {
		ttl = DefaultRouteCacheTTL
	}
	return &RouteCacheStore{client: client, ttl: ttl}
}

// Get retrieves a cached route for the subject. A cache miss returns
// (nil, nil).
func (s *RouteCacheStore) Get(ctx context.Context, subject string) (*domain.RouteInfo, error) {
	data, err := s.client.Get(ctx, routeCachePrefix+subject).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var route domain.RouteInfo
	if err := json.Unmarshal(data, &route); err != nil {
		return nil, err
	}
	return &route, nil
}

// Set stores a route for the subject with the cache TTL.
func (s *RouteCacheStore) Set(ctx context.Context, subject string, route *domain.RouteInfo) error {
	data, err := json.Marshal(route)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, routeCachePrefix+subject, data, s.ttl).Err()
}

// Invalidate removes a cached route.
func (s *RouteCacheStore) Invalidate(ctx context.Context, subject string) error {
	return s.client.Del(ctx, routeCachePrefix+subject).Err()
}
