package goThrottle

import (
	"time"

	"github.com/MrEthical07/goThrottle/internal/blocklist"
	"github.com/MrEthical07/goThrottle/internal/bruteforce"
	"github.com/MrEthical07/goThrottle/internal/window"
	"github.com/MrEthical07/goThrottle/store"
)

// Engine is the request-admission engine. Construct it with [Builder.Build]
// and share one instance across the whole process; it is stateless apart
// from the injected store, so multiple processes sharing a store enforce
// one global budget.
type Engine struct {
	config     Config
	store      store.Store
	windows    *window.Engine
	blocks     *blocklist.Manager
	bruteforce *bruteforce.Detector
	audit      *auditDispatcher
	metrics    *Metrics

	// now is the engine clock. Overridden in tests to cross window
	// boundaries without sleeping.
	now func() time.Time
}

func (e *Engine) timeNow() time.Time {
	return e.now()
}

// Close flushes and stops the audit dispatcher. The engine must not be
// used after Close.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// MetricsSnapshot returns a copy of all engine counters and histograms.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// AuditDropped reports audit events discarded under backpressure.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}
