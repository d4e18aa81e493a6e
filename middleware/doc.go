// Package middleware exposes net/http adapters that enforce goThrottle
// admission decisions around request handlers.
//
// # Wrappers
//
//   - [Limit] — enforce a category's policy.
//   - [LimitWith] — enforce a call-site policy override.
//   - [Auth], [API], [Upload], [Emergency], [Admin] — category shorthands.
//
// Each wrapper resolves the client identity (principal from the request
// context when present, otherwise the network address), calls
// [goThrottle.Engine.Admit], and translates the decision: denials become
// 429 responses with X-RateLimit-* and Retry-After headers, admissions
// proceed to the wrapped handler with the same rate-limit headers attached.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT
// decide anything itself — all admission logic lives in the engine.
//
// # What this package must NOT do
//
//   - Verify credentials (callers attach a verified Principal via
//     [goThrottle.WithPrincipal]; [PrincipalFromClaims] only maps already
//     verified claims).
//   - Access the counter store directly.
package middleware
