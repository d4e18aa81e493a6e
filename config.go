package goThrottle

import (
	"errors"
	"fmt"
	"time"
)

// Config defines the engine's policy tables and ambient behavior. Configure
// it before [Builder.Build]; treat it as immutable afterwards.
type Config struct {
	// RedisPrefix namespaces every key the engine writes. Two engines
	// with different prefixes can share one store without interfering.
	RedisPrefix string

	// Categories maps traffic classes to their default budgets.
	Categories map[string]LimitPolicy

	// DefaultCategory is the policy applied when an unknown category is
	// requested. It must name an entry in Categories.
	DefaultCategory string

	// RoleMultipliers scales category budgets per principal role.
	// Effective limit = floor(requests * multiplier), minimum 1.
	RoleMultipliers map[string]float64

	// UnknownRoleMultiplier applies to anonymous clients and to
	// principals whose role is absent from RoleMultipliers. Deliberately
	// below the regular-user baseline: an unrecognized role is treated as
	// an untrusted guest, not as a default user.
	UnknownRoleMultiplier float64

	BruteForce BruteForceConfig
	Block      BlockConfig
	Audit      AuditConfig
	Metrics    MetricsConfig
}

/*
====================================
BRUTE FORCE CONFIG
====================================
*/

// AxisPolicy is the threshold and window of one brute-force axis.
type AxisPolicy struct {
	MaxAttempts int
	Window      time.Duration
}

// BruteForceConfig configures the failed-login detector. The three axes
// are counted independently; any of them tripping blocks the source
// address for that axis's window.
type BruteForceConfig struct {
	Enabled  bool
	IP       AxisPolicy
	Username AxisPolicy
	Combo    AxisPolicy
}

/*
====================================
BLOCK CONFIG
====================================
*/

// BlockConfig controls explicit (non-brute-force) address blocks.
type BlockConfig struct {
	// DefaultDuration applies when [Engine.Block] is called with a
	// non-positive duration.
	DefaultDuration time.Duration
	// DefaultReason applies when [Engine.Block] is called with an empty
	// reason.
	DefaultReason string
}

/*
====================================
AUDIT / METRICS CONFIG
====================================
*/

// AuditConfig controls the asynchronous audit event dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	// DropIfFull drops events (and counts the drops) instead of applying
	// backpressure to admission paths.
	DropIfFull bool
}

// MetricsConfig controls the in-process atomic metrics.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns the stock configuration: the built-in category
// table, the standard role multipliers, and the brute-force axes tuned for
// credential endpoints.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		RedisPrefix: "gt",
		Categories: map[string]LimitPolicy{
			"auth":      {Requests: 5, Window: 5 * time.Minute},
			"api":       {Requests: 100, Window: time.Minute},
			"upload":    {Requests: 10, Window: 5 * time.Minute},
			"emergency": {Requests: 3, Window: time.Minute},
			"admin":     {Requests: 200, Window: time.Minute},
		},
		DefaultCategory: "api",
		RoleMultipliers: map[string]float64{
			"admin":          3.0,
			"hospital_admin": 2.0,
			"doctor":         2.0,
			"user":           1.0,
			"guest":          0.5,
		},
		UnknownRoleMultiplier: 0.5,
		BruteForce: BruteForceConfig{
			Enabled:  true,
			IP:       AxisPolicy{MaxAttempts: 10, Window: 15 * time.Minute},
			Username: AxisPolicy{MaxAttempts: 5, Window: 30 * time.Minute},
			Combo:    AxisPolicy{MaxAttempts: 3, Window: 10 * time.Minute},
		},
		Block: BlockConfig{
			DefaultDuration: time.Hour,
			DefaultReason:   "Rate limit exceeded",
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg

	out.Categories = make(map[string]LimitPolicy, len(cfg.Categories))
	for name, policy := range cfg.Categories {
		out.Categories[name] = policy
	}

	out.RoleMultipliers = make(map[string]float64, len(cfg.RoleMultipliers))
	for role, m := range cfg.RoleMultipliers {
		out.RoleMultipliers[role] = m
	}

	return out
}

// Validate rejects malformed configuration at build time so admission
// checks never have to.
func (c *Config) Validate() error {
	if c.RedisPrefix == "" {
		return errors.New("RedisPrefix must not be empty")
	}

	if len(c.Categories) == 0 {
		return errors.New("at least one category is required")
	}
	for name, policy := range c.Categories {
		if err := validatePolicy(policy); err != nil {
			return fmt.Errorf("category %q: %w", name, err)
		}
	}

	if c.DefaultCategory == "" {
		return errors.New("DefaultCategory must not be empty")
	}
	if _, ok := c.Categories[c.DefaultCategory]; !ok {
		return fmt.Errorf("DefaultCategory %q is not a configured category", c.DefaultCategory)
	}

	for role, m := range c.RoleMultipliers {
		if m <= 0 {
			return fmt.Errorf("role %q: multiplier must be > 0", role)
		}
	}
	if c.UnknownRoleMultiplier <= 0 {
		return errors.New("UnknownRoleMultiplier must be > 0")
	}

	if c.BruteForce.Enabled {
		for _, axis := range []struct {
			name   string
			policy AxisPolicy
		}{
			{"IP", c.BruteForce.IP},
			{"Username", c.BruteForce.Username},
			{"Combo", c.BruteForce.Combo},
		} {
			if axis.policy.MaxAttempts <= 0 {
				return fmt.Errorf("BruteForce %s MaxAttempts must be > 0", axis.name)
			}
			if err := validateWindow(axis.policy.Window); err != nil {
				return fmt.Errorf("BruteForce %s: %w", axis.name, err)
			}
		}
	}

	if c.Block.DefaultDuration <= 0 {
		return errors.New("Block DefaultDuration must be > 0")
	}
	if c.Block.DefaultReason == "" {
		return errors.New("Block DefaultReason must not be empty")
	}

	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when Audit is enabled")
	}

	return nil
}

func validatePolicy(policy LimitPolicy) error {
	if policy.Requests <= 0 {
		return fmt.Errorf("%w: requests must be > 0", ErrInvalidPolicy)
	}
	if err := validateWindow(policy.Window); err != nil {
		return err
	}
	return nil
}

// Windows must be whole, positive seconds: bucket ids are computed in Unix
// seconds.
func validateWindow(window time.Duration) error {
	if window < time.Second {
		return fmt.Errorf("%w: window must be >= 1s", ErrInvalidPolicy)
	}
	if window%time.Second != 0 {
		return fmt.Errorf("%w: window must be a whole number of seconds", ErrInvalidPolicy)
	}
	return nil
}
