package goThrottle

import (
	"context"
	"strconv"
)

const (
	auditEventRateLimited     = "admission_rate_limited"
	auditEventBlocked         = "admission_blocked"
	auditEventFailOpen        = "admission_fail_open"
	auditEventBruteForceBlock = "brute_force_block"
	auditEventBlockApplied    = "block_applied"
	auditEventBlockLifted     = "block_lifted"
	auditEventLimitsReset     = "limits_reset"
	auditEventOverrideSet     = "override_set"
	auditEventMultiplierSet   = "multiplier_set"
)

func (e *Engine) emitDenied(ctx context.Context, eventType string, req AdmitRequest, decision Decision) {
	if e.audit == nil {
		return
	}

	event := AuditEvent{
		Timestamp: e.now().UTC(),
		EventType: eventType,
		Category:  req.Category,
		Identity:  req.Identity.Key(),
		IP:        req.Identity.Address,
	}
	if decision.Outcome == OutcomeRateLimited {
		event.Metadata = map[string]string{
			"limit":       strconv.Itoa(decision.Limit),
			"retry_after": strconv.FormatInt(int64(decision.RetryAfter.Seconds()), 10),
		}
	}

	e.audit.Emit(ctx, event)
}

// emitFailOpen is the engine's warning channel: auditing and the
// MetricFailOpen counter stand in for a log line when enforcement is
// running without its store.
func (e *Engine) emitFailOpen(ctx context.Context, stage string, req AdmitRequest, err error) {
	if e.audit == nil {
		return
	}

	e.audit.Emit(ctx, AuditEvent{
		Timestamp: e.now().UTC(),
		EventType: auditEventFailOpen,
		Category:  req.Category,
		Identity:  req.Identity.Key(),
		IP:        req.Identity.Address,
		Error:     err.Error(),
		Metadata:  map[string]string{"stage": stage},
	})
}

func (e *Engine) emitAdmin(ctx context.Context, eventType, identity, address string, metadata map[string]string) {
	if e.audit == nil {
		return
	}

	e.audit.Emit(ctx, AuditEvent{
		Timestamp: e.now().UTC(),
		EventType: eventType,
		Identity:  identity,
		IP:        address,
		Success:   true,
		Metadata:  metadata,
	})
}
