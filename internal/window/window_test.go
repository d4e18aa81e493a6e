package window

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"
)

type fakeCounter struct {
	counts map[string]int64
	ttls   map[string]time.Duration
	err    error
}

func newFakeCounter() *fakeCounter {
	return &fakeCounter{
		counts: map[string]int64{},
		ttls:   map[string]time.Duration{},
	}
}

func (f *fakeCounter) Increment(_ context.Context, key string, ttl time.Duration) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.counts[key]++
	if f.counts[key] == 1 {
		f.ttls[key] = ttl
	}
	return f.counts[key], nil
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestTakeCountsWithinOneWindow(t *testing.T) {
	counter := newFakeCounter()
	now := time.Unix(1_699_999_810, 0) // 10s into a 60s window
	e := New(counter, "t:rl:", fixedClock(now))

	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		res, err := e.Take(ctx, "api", "ip:1.2.3.4", 3, time.Minute)
		if err != nil {
			t.Fatalf("Take failed: %v", err)
		}
		if !res.Allowed {
			t.Fatalf("request %d should be allowed", i)
		}
		if res.Count != int64(i) {
			t.Fatalf("request %d: expected count %d, got %d", i, i, res.Count)
		}
		if res.Remaining != 3-i {
			t.Fatalf("request %d: expected remaining %d, got %d", i, 3-i, res.Remaining)
		}
		if res.RetryAfter != 0 {
			t.Fatal("allowed results must not carry RetryAfter")
		}
	}

	res, err := e.Take(ctx, "api", "ip:1.2.3.4", 3, time.Minute)
	if err != nil {
		t.Fatalf("Take failed: %v", err)
	}
	if res.Allowed {
		t.Fatal("4th request must be denied")
	}
	if want := time.Unix(1_699_999_860, 0); !res.ResetAt.Equal(want) {
		t.Fatalf("expected reset at %v, got %v", want, res.ResetAt)
	}
	if res.RetryAfter != 50*time.Second {
		t.Fatalf("expected retry-after 50s, got %s", res.RetryAfter)
	}
}

func TestTakeBucketChangesAcrossBoundary(t *testing.T) {
	counter := newFakeCounter()
	current := time.Unix(1_699_999_810, 0)
	e := New(counter, "t:rl:", func() time.Time { return current })

	ctx := context.Background()

	if _, err := e.Take(ctx, "api", "id", 5, time.Minute); err != nil {
		t.Fatal(err)
	}

	current = current.Add(time.Minute)

	res, err := e.Take(ctx, "api", "id", 5, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if res.Count != 1 {
		t.Fatalf("expected a fresh counter across the boundary, got count %d", res.Count)
	}
	if len(counter.counts) != 2 {
		t.Fatalf("expected two distinct keys, got %d", len(counter.counts))
	}
}

func TestTakeKeyCarriesPrefixCategoryIdentityBucket(t *testing.T) {
	counter := newFakeCounter()
	now := time.Unix(1_699_999_810, 0)
	e := New(counter, "t:rl:", fixedClock(now))

	if _, err := e.Take(context.Background(), "auth", "user:user:u1", 5, 5*time.Minute); err != nil {
		t.Fatal(err)
	}

	bucket := now.Unix() / 300
	want := "t:rl:auth:user:user:u1:" + strconv.FormatInt(bucket, 10)
	if _, ok := counter.counts[want]; !ok {
		t.Fatalf("expected key %q, got %v", want, keys(counter.counts))
	}
	if counter.ttls[want] != 5*time.Minute {
		t.Fatalf("expected the window as TTL, got %s", counter.ttls[want])
	}
}

func TestTakeRaisesLimitBelowOne(t *testing.T) {
	counter := newFakeCounter()
	e := New(counter, "t:rl:", fixedClock(time.Unix(1_699_999_810, 0)))

	res, err := e.Take(context.Background(), "api", "id", 0, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if res.Limit != 1 {
		t.Fatalf("expected limit raised to 1, got %d", res.Limit)
	}
	if !res.Allowed {
		t.Fatal("first request must fit the raised limit")
	}
}

func TestTakePropagatesCounterErrors(t *testing.T) {
	counter := newFakeCounter()
	counter.err = errors.New("store down")
	e := New(counter, "t:rl:", fixedClock(time.Unix(1_699_999_810, 0)))

	if _, err := e.Take(context.Background(), "api", "id", 5, time.Minute); err == nil {
		t.Fatal("expected the counter error to propagate")
	}
}

func TestCurrentKeyMatchesTakeKey(t *testing.T) {
	counter := newFakeCounter()
	now := time.Unix(1_699_999_810, 0)
	e := New(counter, "t:rl:", fixedClock(now))

	if _, err := e.Take(context.Background(), "api", "id", 5, time.Minute); err != nil {
		t.Fatal(err)
	}

	key := e.CurrentKey("api", "id", time.Minute)
	if _, ok := counter.counts[key]; !ok {
		t.Fatalf("CurrentKey %q does not match the key Take used: %v", key, keys(counter.counts))
	}
}

func TestKeyPrefixCoversAllBuckets(t *testing.T) {
	e := New(newFakeCounter(), "t:rl:", nil)

	prefix := e.KeyPrefix("api", "id")
	if prefix != "t:rl:api:id:" {
		t.Fatalf("unexpected prefix %q", prefix)
	}
}

func keys(m map[string]int64) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
