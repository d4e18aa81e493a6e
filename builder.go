package goThrottle

import (
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/goThrottle/internal/blocklist"
	"github.com/MrEthical07/goThrottle/internal/bruteforce"
	"github.com/MrEthical07/goThrottle/internal/window"
	"github.com/MrEthical07/goThrottle/store"
	"github.com/MrEthical07/goThrottle/store/redisstore"
)

// Builder assembles an [Engine]. Construction is allocation-only; no store
// I/O happens until the first Engine call.
type Builder struct {
	config    Config
	store     store.Store
	auditSink AuditSink
	built     bool
}

// New starts a builder preloaded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the entire configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis wires the engine to Redis through the bundled
// [redisstore.Store] adapter.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	if client != nil {
		b.store = redisstore.New(client)
	}
	return b
}

// WithStore wires the engine to any conforming counter store. Later calls
// to WithStore or WithRedis win.
func (b *Builder) WithStore(s store.Store) *Builder {
	b.store = s
	return b
}

// WithAuditSink sets the destination for audit events and enables
// auditing.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	b.config.Audit.Enabled = sink != nil
	return b
}

// WithMetricsEnabled toggles the in-process metrics.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the admission latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and assembles the engine. A builder
// can build exactly once.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, ErrBuilderUsed
	}

	if b.store == nil {
		return nil, errors.New("counter store required (WithRedis or WithStore)")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	engine := &Engine{
		config:  cfg,
		store:   b.store,
		metrics: NewMetrics(cfg.Metrics),
		audit:   newAuditDispatcher(cfg.Audit, b.auditSink),
		now:     time.Now,
	}

	// The mechanism packages share the engine clock so tests can move
	// time for all of them at once.
	engine.windows = window.New(b.store, cfg.RedisPrefix+":rl:", engine.timeNow)
	engine.blocks = blocklist.New(b.store, cfg.RedisPrefix+":blk:", engine.timeNow)
	engine.bruteforce = bruteforce.New(b.store, engine.blocks, bruteforce.Config{
		IP:       bruteforce.Axis(cfg.BruteForce.IP),
		Username: bruteforce.Axis(cfg.BruteForce.Username),
		Combo:    bruteforce.Axis(cfg.BruteForce.Combo),
	}, cfg.RedisPrefix+":bf:")

	b.built = true
	return engine, nil
}
