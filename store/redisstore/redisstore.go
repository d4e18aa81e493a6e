// Package redisstore implements the goThrottle store contract on Redis.
//
// Increment runs as a single Lua script so the counter bump and the
// first-hit TTL assignment are one atomic operation. Two concurrent first
// requests in a window can therefore never both treat the key as new, and a
// later increment can never stretch the window.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/goThrottle/store"
)

// INCR and the conditional EXPIRE must be one round trip; splitting them
// client-side reintroduces the check-then-act race on window length.
var incrementScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
  redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return count`)

// Store adapts a go-redis client to [store.Store].
type Store struct {
	client redis.UniversalClient
}

// New creates a Redis-backed store. The client is borrowed, not owned;
// closing it is the caller's responsibility.
func New(client redis.UniversalClient) *Store {
	return &Store{client: client}
}

// Increment bumps the counter at key, setting ttl only when this call
// created the key.
func (s *Store) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	seconds := int64(ttl / time.Second)
	if seconds < 1 {
		seconds = 1
	}

	count, err := incrementScript.Run(ctx, s.client, []string{key}, seconds).Int64()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return count, nil
}

// Exists reports whether key is present.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return n > 0, nil
}

// SetWithTTL stores value at key with the given TTL.
func (s *Store) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return nil
}

// Get returns the value at key, or false when absent.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return value, true, nil
}

// Delete removes key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrUnavailable, err)
	}
	return nil
}

// DeleteByPrefix removes all keys starting with prefix via SCAN, so it
// never blocks the server the way KEYS would.
func (s *Store) DeleteByPrefix(ctx context.Context, prefix string) (int64, error) {
	var (
		removed int64
		cursor  uint64
	)

	for {
		keys, next, err := s.client.Scan(ctx, cursor, prefix+"*", 128).Result()
		if err != nil {
			return removed, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
		}

		if len(keys) > 0 {
			n, err := s.client.Del(ctx, keys...).Result()
			if err != nil {
				return removed, fmt.Errorf("%w: %v", store.ErrUnavailable, err)
			}
			removed += n
		}

		cursor = next
		if cursor == 0 {
			return removed, nil
		}
	}
}
