// Package goThrottle provides a request-admission engine: per-category
// fixed-window rate limiting with role-based quota scaling, temporary IP
// blocks, and multi-axis brute-force detection, backed by a shared atomic
// counter/TTL store (Redis in production, any [store.Store] in tests).
//
// The engine holds no mutable state of its own — every counter and block
// lives in the store — so any number of instances can run side by side as
// long as they share one store. Engine methods are safe to call from
// multiple goroutines after initialization through [Builder.Build].
//
// # Architecture boundaries
//
// goThrottle is the public surface. It exposes [Engine], [Builder],
// [Config], and value types (Decision, ClientIdentity, MetricsSnapshot).
// The mechanism packages — window counters, the block list, the brute-force
// detector — live under internal/ and are never exported.
//
// # What this package must NOT do
//
//   - Issue or verify credentials (callers hand over already-verified
//     principals).
//   - Route or serve HTTP (the middleware package adapts net/http to
//     Engine calls).
//   - Raise errors for quota or block outcomes: every admission check
//     returns a typed [Decision], and a store outage admits the request
//     (fail open) rather than failing the caller.
package goThrottle
