// Package store defines the counter/TTL store contract consumed by the
// goThrottle engine. The engine delegates all atomicity to the store: a
// conforming implementation must make Increment a single atomic operation,
// including the decision to set a TTL on a freshly created key.
//
// # What this package must NOT do
//
//   - Implement admission policy (budgets, multipliers, block escalation).
//   - Hide store outages: transport failures are wrapped in
//     [ErrUnavailable] so callers can fail open.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable indicates the backing store could not be reached or timed
// out. Admission paths treat it as a signal to fail open, never as a reason
// to deny a request.
var ErrUnavailable = errors.New("counter store unavailable")

// Store is the key-value contract required by the engine.
//
// All methods must be safe for concurrent use. Implementations are expected
// to bound every call with the deadline carried by ctx.
type Store interface {
	// Increment atomically increments the counter at key and returns the
	// new value. The TTL is applied only when this call creates the key;
	// increments on an existing key must not extend its lifetime.
	Increment(ctx context.Context, key string, ttl time.Duration) (int64, error)

	// Exists reports whether key is present and unexpired.
	Exists(ctx context.Context, key string) (bool, error)

	// SetWithTTL stores value at key, replacing any previous value and
	// resetting the TTL.
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get returns the value at key. The second result is false when the
	// key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// DeleteByPrefix removes every key starting with prefix and returns
	// the number of keys removed. Used by administrative resets only; it
	// is not on any admission path.
	DeleteByPrefix(ctx context.Context, prefix string) (int64, error)
}
