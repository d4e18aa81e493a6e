package goThrottle

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// IsBlocked reports whether the address currently has an active block.
func (e *Engine) IsBlocked(ctx context.Context, address string) (bool, error) {
	return e.blocks.IsBlocked(ctx, address)
}

// Block places a temporary block on the address. A non-positive duration
// and an empty reason fall back to the configured defaults. Re-blocking an
// already blocked address refreshes its TTL and reason; it never stacks.
func (e *Engine) Block(ctx context.Context, address string, d time.Duration, reason string) error {
	if d <= 0 {
		d = e.config.Block.DefaultDuration
	}
	if reason == "" {
		reason = e.config.Block.DefaultReason
	}

	if err := e.blocks.Block(ctx, address, d, reason); err != nil {
		return err
	}

	e.metrics.Inc(MetricBlockApplied)
	e.emitAdmin(ctx, auditEventBlockApplied, "", address, map[string]string{
		"reason":           reason,
		"duration_seconds": strconv.FormatInt(int64(d/time.Second), 10),
	})
	return nil
}

// Unblock lifts a block before its TTL expires.
func (e *Engine) Unblock(ctx context.Context, address string) error {
	if err := e.blocks.Unblock(ctx, address); err != nil {
		return err
	}

	e.metrics.Inc(MetricBlockLifted)
	e.emitAdmin(ctx, auditEventBlockLifted, "", address, nil)
	return nil
}

// ResetLimits clears every category counter for the identity and, for
// address-bearing identities, lifts any block on the address. Overrides
// and multipliers are untouched; they expire on their own.
func (e *Engine) ResetLimits(ctx context.Context, identity ClientIdentity) error {
	key := identity.Key()

	for category := range e.config.Categories {
		if _, err := e.store.DeleteByPrefix(ctx, e.windows.KeyPrefix(category, key)); err != nil {
			return fmt.Errorf("reset %s counters: %w", category, err)
		}
	}

	if identity.Address != "" {
		if err := e.blocks.Unblock(ctx, identity.Address); err != nil {
			return fmt.Errorf("lift block: %w", err)
		}
	}

	e.metrics.Inc(MetricLimitsReset)
	e.emitAdmin(ctx, auditEventLimitsReset, key, identity.Address, nil)
	return nil
}

// SetCategoryOverride replaces the category's policy for ttl. The override
// expires on its own; there is no explicit removal. Malformed policies and
// unknown categories are rejected here so checks never see them. Unknown
// categories collapse to the default at check time, so an override stored
// under one would never be read.
func (e *Engine) SetCategoryOverride(ctx context.Context, category string, policy LimitPolicy, ttl time.Duration) error {
	if _, ok := e.config.Categories[category]; !ok {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidPolicy, category)
	}
	if err := validatePolicy(policy); err != nil {
		return err
	}
	if ttl <= 0 {
		return fmt.Errorf("%w: override ttl must be > 0", ErrInvalidPolicy)
	}

	value, err := json.Marshal(storedPolicy{
		Requests:      policy.Requests,
		WindowSeconds: int64(policy.Window / time.Second),
	})
	if err != nil {
		return err
	}

	if err := e.store.SetWithTTL(ctx, e.overrideKey(category), value, ttl); err != nil {
		return err
	}

	e.metrics.Inc(MetricOverrideSet)
	e.emitAdmin(ctx, auditEventOverrideSet, "", "", map[string]string{
		"category":       category,
		"requests":       strconv.Itoa(policy.Requests),
		"window_seconds": strconv.FormatInt(int64(policy.Window/time.Second), 10),
	})
	return nil
}

// SetUserMultiplier grants a user a temporary quota scale that wins over
// its role multiplier for ttl.
func (e *Engine) SetUserMultiplier(ctx context.Context, userID string, multiplier float64, ttl time.Duration) error {
	if multiplier <= 0 {
		return ErrInvalidMultiplier
	}
	if ttl <= 0 {
		return fmt.Errorf("%w: ttl must be > 0", ErrInvalidMultiplier)
	}

	value, err := json.Marshal(storedMultiplier{Multiplier: multiplier})
	if err != nil {
		return err
	}

	if err := e.store.SetWithTTL(ctx, e.multiplierKey(userID), value, ttl); err != nil {
		return err
	}

	e.metrics.Inc(MetricMultiplierSet)
	e.emitAdmin(ctx, auditEventMultiplierSet, "user:"+userID, "", map[string]string{
		"multiplier": strconv.FormatFloat(multiplier, 'f', -1, 64),
	})
	return nil
}

// Stats reads the identity's standing across every configured category
// without incrementing anything. Missing counters read as zero.
func (e *Engine) Stats(ctx context.Context, identity ClientIdentity) (Stats, error) {
	key := identity.Key()
	out := Stats{
		Identity:   key,
		Categories: make(map[string]CategoryStats, len(e.config.Categories)),
	}

	multiplier := e.resolveMultiplier(ctx, identity)

	for category := range e.config.Categories {
		_, policy := e.resolvePolicy(ctx, category)
		limit := effectiveLimit(policy.Requests, multiplier)

		var count int64
		raw, ok, err := e.store.Get(ctx, e.windows.CurrentKey(category, key, policy.Window))
		if err != nil {
			return Stats{}, err
		}
		if ok {
			count, _ = strconv.ParseInt(string(raw), 10, 64)
		}

		stats := CategoryStats{Count: count, Limit: limit, Window: policy.Window}
		if remaining := int64(limit) - count; remaining > 0 {
			stats.Remaining = int(remaining)
		}
		out.Categories[category] = stats
	}

	return out, nil
}
