package goThrottle

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestBuildRequiresStore(t *testing.T) {
	if _, err := New().Build(); err == nil {
		t.Fatal("expected Build to fail without a store")
	}
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	cfg := DefaultConfig()
	cfg.DefaultCategory = "missing"

	if _, err := New().WithConfig(cfg).WithRedis(rdb).Build(); err == nil {
		t.Fatal("expected Build to reject an invalid config")
	}
}

func TestBuilderBuildsExactlyOnce(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()

	builder := New().WithRedis(rdb)

	engine, err := builder.Build()
	if err != nil {
		t.Fatalf("first Build failed: %v", err)
	}
	defer engine.Close()

	if _, err := builder.Build(); !errors.Is(err, ErrBuilderUsed) {
		t.Fatalf("expected ErrBuilderUsed on reuse, got %v", err)
	}
}

// fakeStore is an in-memory store.Store used to prove the engine has no
// Redis dependency beyond the adapter.
type fakeStore struct {
	counts map[string]int64
	values map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		counts: map[string]int64{},
		values: map[string][]byte{},
	}
}

func (f *fakeStore) Increment(_ context.Context, key string, _ time.Duration) (int64, error) {
	f.counts[key]++
	return f.counts[key], nil
}

func (f *fakeStore) Exists(_ context.Context, key string) (bool, error) {
	_, ok := f.values[key]
	return ok, nil
}

func (f *fakeStore) SetWithTTL(_ context.Context, key string, value []byte, _ time.Duration) error {
	f.values[key] = value
	return nil
}

func (f *fakeStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *fakeStore) Delete(_ context.Context, key string) error {
	delete(f.values, key)
	return nil
}

func (f *fakeStore) DeleteByPrefix(_ context.Context, prefix string) (int64, error) {
	var removed int64
	for key := range f.counts {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(f.counts, key)
			removed++
		}
	}
	return removed, nil
}

func TestBuildAcceptsCustomStore(t *testing.T) {
	engine, err := New().WithStore(newFakeStore()).Build()
	if err != nil {
		t.Fatalf("Build with custom store failed: %v", err)
	}
	defer engine.Close()

	d := engine.Admit(context.Background(), AdmitRequest{
		Category: "api",
		Identity: ResolveIdentity(nil, "203.0.113.5"),
	})
	if !d.Allowed() {
		t.Fatalf("expected admission against custom store, got %v", d.Outcome)
	}
}

func TestWithAuditSinkEnablesAuditing(t *testing.T) {
	sink := NewChannelSink(4)

	engine, err := New().WithStore(newFakeStore()).WithAuditSink(sink).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	if err := engine.Block(context.Background(), "203.0.113.5", time.Hour, "test"); err != nil {
		t.Fatalf("Block failed: %v", err)
	}

	select {
	case event := <-sink.Events():
		if event.EventType != "block_applied" {
			t.Fatalf("expected block_applied, got %q", event.EventType)
		}
	case <-time.After(time.Second):
		t.Fatal("expected an audit event")
	}
}
