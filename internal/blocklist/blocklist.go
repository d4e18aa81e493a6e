// Package blocklist maintains temporary per-address blocks.
//
// A block is one TTL-keyed record in the store; existence of the key is the
// whole truth about being blocked. Blocks expire on their own through the
// store's TTL and are only ever removed early by an administrative unblock.
package blocklist

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Store is the store capability the block list needs.
type Store interface {
	Exists(ctx context.Context, key string) (bool, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Entry is the record stored for a blocked address. It exists for
// operators reading the store directly; the engine only checks key
// existence.
type Entry struct {
	ID              string    `json:"id"`
	Address         string    `json:"address"`
	BlockedAt       time.Time `json:"blocked_at"`
	Reason          string    `json:"reason"`
	DurationSeconds int64     `json:"duration_seconds"`
}

// Manager creates, checks, and lifts address blocks.
type Manager struct {
	store  Store
	prefix string
	now    func() time.Time
}

// New creates a block manager. prefix is prepended to every block key; now
// defaults to time.Now.
func New(store Store, prefix string, now func() time.Time) *Manager {
	if now == nil {
		now = time.Now
	}
	return &Manager{store: store, prefix: prefix, now: now}
}

// IsBlocked reports whether the address currently has an active block.
func (m *Manager) IsBlocked(ctx context.Context, address string) (bool, error) {
	return m.store.Exists(ctx, m.key(address))
}

// Block records a block for the address lasting d. Re-blocking an already
// blocked address overwrites the record, refreshing both TTL and reason.
func (m *Manager) Block(ctx context.Context, address string, d time.Duration, reason string) error {
	entry := Entry{
		ID:              uuid.NewString(),
		Address:         address,
		BlockedAt:       m.now().UTC(),
		Reason:          reason,
		DurationSeconds: int64(d / time.Second),
	}

	value, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	return m.store.SetWithTTL(ctx, m.key(address), value, d)
}

// Unblock lifts the block on the address before its TTL expires. Unblocking
// an address that is not blocked is a no-op.
func (m *Manager) Unblock(ctx context.Context, address string) error {
	return m.store.Delete(ctx, m.key(address))
}

func (m *Manager) key(address string) string {
	return m.prefix + address
}
