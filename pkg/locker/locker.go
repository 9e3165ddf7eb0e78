// Package locker provides a small Redis-backed mutual-exclusion lock used to
// serialize credential refresh per connection across concurrent sync passes.
package locker

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// DefaultTTL bounds how long a crashed holder can keep a lock.
	DefaultTTL = 30 * time.Second

	// keyPrefix namespaces lock keys in Redis.
	keyPrefix = "triago:lock:"

	retryInterval = 50 * time.Millisecond
)

type Locker struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(rdb *redis.Client) *Locker {
	return &Locker{
		rdb: rdb,
		ttl: DefaultTTL,
	}
}

// Acquire blocks until the lock named by key is held, the TTL window passes,
// or the context is cancelled. SET NX makes the claim atomic.
func (l *Locker) Acquire(ctx context.Context, key string) error {
	deadline := time.Now().Add(l.ttl)
	for {
		set, err := l.rdb.SetNX(ctx, keyPrefix+key, 1, l.ttl).Result()
		if err != nil {
			return fmt.Errorf("lock SETNX: %w", err)
		}
		if set {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("lock %s: timed out", key)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryInterval):
		}
	}
}

// Release drops the lock. Safe to call for a lock that already expired.
func (l *Locker) Release(ctx context.Context, key string) error {
	return l.rdb.Del(ctx, keyPrefix+key).Err()
}
