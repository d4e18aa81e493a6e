// Package bruteforce detects credential-stuffing and password-guessing
// patterns across three independent axes: the source address, the targeted
// username, and the address+username combination.
//
// Each axis keeps its own fixed-window counter with its own threshold, so a
// single address spraying many usernames is caught by the address axis, a
// distributed attack on one account by the username axis, and a focused
// attack by the much tighter combo axis. Whichever axis trips, the
// resulting block is always applied to the source address — blocking a
// username would lock out its legitimate owner.
package bruteforce

import (
	"context"
	"time"
)

// Counter is the store capability the detector needs.
type Counter interface {
	Increment(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// Blocker escalates a tripped axis into an address block.
type Blocker interface {
	Block(ctx context.Context, address string, d time.Duration, reason string) error
}

// Axis configures one tracked dimension.
type Axis struct {
	MaxAttempts int
	Window      time.Duration
}

// Config holds the per-axis thresholds.
type Config struct {
	IP       Axis
	Username Axis
	Combo    Axis
}

// Trip reports which axes crossed their threshold during one recorded
// failure.
type Trip struct {
	IP       bool
	Username bool
	Combo    bool
}

// Any reports whether at least one axis tripped.
func (t Trip) Any() bool {
	return t.IP || t.Username || t.Combo
}

// BlockReason is attached to every block this detector creates.
const BlockReason = "Brute force protection"

// Detector counts failed authentication attempts and escalates to address
// blocks.
type Detector struct {
	counter Counter
	blocks  Blocker
	config  Config
	prefix  string
}

// New creates a detector. prefix is prepended to every axis counter key.
func New(counter Counter, blocks Blocker, cfg Config, prefix string) *Detector {
	return &Detector{counter: counter, blocks: blocks, config: cfg, prefix: prefix}
}

// RecordFailure counts one failed login for every axis and blocks the
// address for each axis whose post-increment count reached its threshold.
// All three counters are incremented on every call, even when an earlier
// axis already tripped, so the wider windows keep accumulating evidence.
func (d *Detector) RecordFailure(ctx context.Context, username, address string) (Trip, error) {
	var trip Trip

	axes := []struct {
		key     string
		axis    Axis
		tripped *bool
	}{
		{d.prefix + "ip:" + address, d.config.IP, &trip.IP},
		{d.prefix + "user:" + username, d.config.Username, &trip.Username},
		{d.prefix + "combo:" + address + ":" + username, d.config.Combo, &trip.Combo},
	}

	for _, a := range axes {
		count, err := d.counter.Increment(ctx, a.key, a.axis.Window)
		if err != nil {
			return trip, err
		}
		if count < int64(a.axis.MaxAttempts) {
			continue
		}

		// The block lasts as long as the axis window that caught the
		// attack, and is always keyed by address. The axis only counts
		// as tripped once the block is actually written; a trip that
		// failed to block must not be reported or audited as one.
		if err := d.blocks.Block(ctx, address, a.axis.Window, BlockReason); err != nil {
			return trip, err
		}
		*a.tripped = true
	}

	return trip, nil
}
