package redis

import (
	"context"
	"time"

	"triproute/internal/domain"
)

// VehicleLocationStoreInterface defines the interface for vehicle position
// operations.
type VehicleLocationStoreInterface interface {
	Update(ctx context.Context, tripID string, lat, lng float64) error
	Get(ctx context.Context, tripID string) (*VehicleLocation, error)
	Remove(ctx context.Context, tripID string) error
}

// RouteCacheStoreInterface defines the interface for route caching.
type RouteCacheStoreInterface interface {
	Get(ctx context.Context, subject string) (*domain.RouteInfo, error)
	Set(ctx context.Context, subject string, route *domain.RouteInfo) error
	Invalidate(ctx context.Context, subject string) error
}

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireFetchLock(ctx context.Context, subject string, ttl time.Duration) (bool, error)
	ReleaseFetchLock(ctx context.Context, subject string) error
}

// Ensure concrete types implement interfaces.
var (
	_ VehicleLocationStoreInterface = (*VehicleLocationStore)(nil)
	_ RouteCacheStoreInterface      = (*RouteCacheStore)(nil)
	_ LockStoreInterface            = (*LockStore)(nil)
)
