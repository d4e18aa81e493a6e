package goThrottle

import (
	"context"
	"encoding/json"
	"math"
	"time"
)

// storedPolicy is the wire form of a per-category override kept in the
// store. Seconds rather than time.Duration so the record stays readable to
// operators inspecting keys by hand.
type storedPolicy struct {
	Requests      int   `json:"requests"`
	WindowSeconds int64 `json:"window_seconds"`
}

type storedMultiplier struct {
	Multiplier float64 `json:"multiplier"`
}

// resolvePolicy returns the effective category name and policy for a
// check: a stored, unexpired override wins over the built-in table, and
// unknown categories collapse to the default category first. Store errors
// while reading an override fall back to the built-in policy — an outage
// must not change which requests are admitted beyond the documented
// fail-open path.
func (e *Engine) resolvePolicy(ctx context.Context, category string) (string, LimitPolicy) {
	if _, ok := e.config.Categories[category]; !ok {
		category = e.config.DefaultCategory
	}

	if raw, ok, err := e.store.Get(ctx, e.overrideKey(category)); err == nil && ok {
		var stored storedPolicy
		if json.Unmarshal(raw, &stored) == nil && stored.Requests > 0 && stored.WindowSeconds > 0 {
			return category, LimitPolicy{
				Requests: stored.Requests,
				Window:   time.Duration(stored.WindowSeconds) * time.Second,
			}
		}
	}

	return category, e.config.Categories[category]
}

// resolveMultiplier returns the quota scale for the identity. Order:
// stored per-user multiplier, then the role table, then the conservative
// unknown-role default. Anonymous (address) identities always get the
// unknown-role default.
func (e *Engine) resolveMultiplier(ctx context.Context, identity ClientIdentity) float64 {
	if identity.Kind != IdentityUser {
		return e.config.UnknownRoleMultiplier
	}

	if raw, ok, err := e.store.Get(ctx, e.multiplierKey(identity.UserID)); err == nil && ok {
		var stored storedMultiplier
		if json.Unmarshal(raw, &stored) == nil && stored.Multiplier > 0 {
			return stored.Multiplier
		}
	}

	if m, ok := e.config.RoleMultipliers[identity.Role]; ok {
		return m
	}

	return e.config.UnknownRoleMultiplier
}

// effectiveLimit applies a multiplier to a budget: floor, never below 1.
func effectiveLimit(requests int, multiplier float64) int {
	limit := int(math.Floor(float64(requests) * multiplier))
	if limit < 1 {
		limit = 1
	}
	return limit
}

func (e *Engine) overrideKey(category string) string {
	return e.config.RedisPrefix + ":ovr:" + category
}

func (e *Engine) multiplierKey(userID string) string {
	return e.config.RedisPrefix + ":um:" + userID
}
