package goThrottle

import (
	"time"
)

// Outcome is the terminal state of one admission check.
type Outcome uint8

const (
	// OutcomeAllowed admits the request.
	OutcomeAllowed Outcome = iota
	// OutcomeRateLimited denies the request because the identity's
	// windowed budget for the category is spent.
	OutcomeRateLimited
	// OutcomeBlocked denies the request because the source address has an
	// active block, independent of any quota.
	OutcomeBlocked
)

// String returns the outcome name used in audit events and HTTP bodies.
func (o Outcome) String() string {
	switch o {
	case OutcomeAllowed:
		return "allowed"
	case OutcomeRateLimited:
		return "rate_limited"
	case OutcomeBlocked:
		return "blocked"
	default:
		return "unknown"
	}
}

// LimitPolicy is a request budget over a fixed window.
type LimitPolicy struct {
	Requests int
	Window   time.Duration
}

// Decision is the result of [Engine.Admit]. It never carries an error:
// store outages surface as an allowed decision with Degraded set.
type Decision struct {
	Outcome Outcome

	// Limit, Remaining, and ResetAt describe the window the decision was
	// made in. They are zero when Degraded is set.
	Limit     int
	Remaining int
	ResetAt   time.Time

	// RetryAfter is how long a denied client should wait. Zero on allowed
	// decisions.
	RetryAfter time.Duration

	// Degraded marks a fail-open decision made while the counter store
	// was unreachable. The request is admitted but no limit metadata is
	// available.
	Degraded bool
}

// Allowed reports whether the request may proceed.
func (d Decision) Allowed() bool {
	return d.Outcome == OutcomeAllowed
}

// AdmitRequest describes one request to be admitted.
type AdmitRequest struct {
	// Category names the traffic class ("auth", "api", "upload", ...).
	// Unknown categories resolve to the configured default category.
	Category string

	// Identity is the client the budget is charged to. Build it with
	// [ResolveIdentity].
	Identity ClientIdentity

	// Override, when non-nil, replaces the resolved policy for this call
	// site only. Role multipliers still apply on top of it. A malformed
	// override (non-positive requests, window under a second or not a
	// whole second) is ignored in favor of the resolved policy.
	Override *LimitPolicy
}

// CategoryStats is a non-incrementing snapshot of one category's counter
// for an identity.
type CategoryStats struct {
	Count     int64
	Limit     int
	Remaining int
	Window    time.Duration
}

// Stats reports an identity's standing across all configured categories.
type Stats struct {
	Identity   string
	Categories map[string]CategoryStats
}
