package goThrottle

import (
	"context"
)

// Admit evaluates one request: block check first, then the windowed quota.
// An active block on the source address always wins — the quota counter is
// not even incremented for a blocked request.
//
// Admit never returns an error. If the counter store is unreachable the
// request is admitted with [Decision.Degraded] set (fail open): losing rate
// limiting for the duration of a store outage is deliberately preferred
// over refusing all traffic.
func (e *Engine) Admit(ctx context.Context, req AdmitRequest) Decision {
	start := e.now()
	decision := e.admit(ctx, req)
	e.metrics.Observe(MetricAdmitLatency, e.now().Sub(start))

	switch decision.Outcome {
	case OutcomeAllowed:
		if decision.Degraded {
			e.metrics.Inc(MetricFailOpen)
		} else {
			e.metrics.Inc(MetricAdmitAllowed)
		}
	case OutcomeRateLimited:
		e.metrics.Inc(MetricAdmitRateLimited)
		e.emitDenied(ctx, auditEventRateLimited, req, decision)
	case OutcomeBlocked:
		e.metrics.Inc(MetricAdmitBlocked)
		e.emitDenied(ctx, auditEventBlocked, req, decision)
	}

	return decision
}

func (e *Engine) admit(ctx context.Context, req AdmitRequest) Decision {
	if address := req.Identity.Address; address != "" {
		blocked, err := e.blocks.IsBlocked(ctx, address)
		if err != nil {
			// A failed block lookup admits the request only through
			// the quota path below, which will itself fail open if
			// the store is still down.
			e.emitFailOpen(ctx, "block_check", req, err)
		} else if blocked {
			return Decision{Outcome: OutcomeBlocked}
		}
	}

	category, policy := e.resolvePolicy(ctx, req.Category)
	if req.Override != nil {
		// Call-site overrides arrive unvalidated; a malformed one falls
		// back to the resolved policy rather than corrupting the check.
		if validatePolicy(*req.Override) == nil {
			policy = *req.Override
		}
	}

	limit := effectiveLimit(policy.Requests, e.resolveMultiplier(ctx, req.Identity))

	res, err := e.windows.Take(ctx, category, req.Identity.Key(), limit, policy.Window)
	if err != nil {
		e.emitFailOpen(ctx, "quota_check", req, err)
		return Decision{Outcome: OutcomeAllowed, Degraded: true}
	}

	if !res.Allowed {
		return Decision{
			Outcome:    OutcomeRateLimited,
			Limit:      res.Limit,
			Remaining:  0,
			ResetAt:    res.ResetAt,
			RetryAfter: res.RetryAfter,
		}
	}

	return Decision{
		Outcome:   OutcomeAllowed,
		Limit:     res.Limit,
		Remaining: res.Remaining,
		ResetAt:   res.ResetAt,
	}
}
