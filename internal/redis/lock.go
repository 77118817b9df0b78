package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireFetchLock attempts to acquire the single-flight lock for a route
// subject, so only one instance queries the directions provider per
// subject at a time. Returns true if the lock was acquired.
func (s *LockStore) AcquireFetchLock(ctx context.Context, subject string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:route:%s", subject)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseFetchLock releases the fetch lock for the given subject.
func (s *LockStore) ReleaseFetchLock(ctx context.Context, subject string) error {
	key := fmt.Sprintf("lock:route:%s", subject)

	return s.client.Del(ctx, key).Err()
}
