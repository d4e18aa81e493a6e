// Package window implements fixed-window quota counting.
//
// # Window semantics
//
// A window of length W starting at Unix time floor(now/W)*W owns one
// counter key. Every request inside the window increments that key; the
// key's TTL equals W, set by whichever increment created it, so the counter
// disappears exactly when its window ends. Crossing a window boundary
// changes the bucket id and therefore the key, starting a fresh count.
//
// # What this package must NOT do
//
//   - Resolve policies or multipliers (the root package owns those).
//   - Swallow store errors: they propagate so the caller can fail open.
package window

import (
	"context"
	"strconv"
	"time"
)

// Counter is the store capability the window engine needs.
type Counter interface {
	Increment(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// Result reports the outcome of one counted request.
type Result struct {
	Allowed    bool
	Count      int64
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration
}

// Engine counts requests per category+identity pair in fixed windows.
type Engine struct {
	counter Counter
	prefix  string
	now     func() time.Time
}

// New creates a window engine. prefix is prepended to every counter key;
// now supplies the clock and defaults to time.Now.
func New(counter Counter, prefix string, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{counter: counter, prefix: prefix, now: now}
}

// Take counts one request against the identity's budget for the category
// and reports whether it fits. limit is the effective (already multiplied)
// budget; values below 1 are raised to 1 so no policy can zero out a
// client entirely.
func (e *Engine) Take(ctx context.Context, category, identity string, limit int, window time.Duration) (Result, error) {
	if limit < 1 {
		limit = 1
	}

	now := e.now()
	windowSeconds := int64(window / time.Second)
	bucket := now.Unix() / windowSeconds

	count, err := e.counter.Increment(ctx, e.key(category, identity, bucket), window)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Count:   count,
		Limit:   limit,
		ResetAt: time.Unix((bucket+1)*windowSeconds, 0),
	}
	res.Allowed = count <= int64(limit)

	if remaining := int64(limit) - count; remaining > 0 {
		res.Remaining = int(remaining)
	}
	if !res.Allowed {
		if wait := res.ResetAt.Sub(now); wait > 0 {
			res.RetryAfter = wait
		}
	}

	return res, nil
}

// CurrentKey returns the counter key for the window that is open right
// now. Used by non-incrementing reads (stats).
func (e *Engine) CurrentKey(category, identity string, window time.Duration) string {
	windowSeconds := int64(window / time.Second)
	return e.key(category, identity, e.now().Unix()/windowSeconds)
}

// KeyPrefix returns the prefix shared by all of the identity's counter
// keys in the category, across every window. Used by administrative
// resets.
func (e *Engine) KeyPrefix(category, identity string) string {
	return e.prefix + category + ":" + identity + ":"
}

func (e *Engine) key(category, identity string, bucket int64) string {
	return e.KeyPrefix(category, identity) + strconv.FormatInt(bucket, 10)
}
