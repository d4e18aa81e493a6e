package goThrottle

import (
	"sync/atomic"
	"time"
)

// MetricID identifies one engine counter or histogram.
type MetricID uint16

const (
	// MetricAdmitAllowed counts admitted requests.
	MetricAdmitAllowed MetricID = iota
	// MetricAdmitRateLimited counts requests denied for quota.
	MetricAdmitRateLimited
	// MetricAdmitBlocked counts requests denied by an address block.
	MetricAdmitBlocked
	// MetricFailOpen counts admissions granted while the store was
	// unreachable.
	MetricFailOpen
	// MetricFailedLoginRecorded counts recorded failed logins.
	MetricFailedLoginRecorded
	// MetricBruteForceIPTrip counts address-axis threshold crossings.
	MetricBruteForceIPTrip
	// MetricBruteForceUsernameTrip counts username-axis threshold crossings.
	MetricBruteForceUsernameTrip
	// MetricBruteForceComboTrip counts combo-axis threshold crossings.
	MetricBruteForceComboTrip
	// MetricBlockApplied counts blocks created (explicit or escalated).
	MetricBlockApplied
	// MetricBlockLifted counts administrative unblocks.
	MetricBlockLifted
	// MetricLimitsReset counts administrative counter resets.
	MetricLimitsReset
	// MetricOverrideSet counts per-category policy overrides written.
	MetricOverrideSet
	// MetricMultiplierSet counts per-user multipliers written.
	MetricMultiplierSet
	// MetricAdmitLatency is the admission check latency histogram.
	MetricAdmitLatency
	metricIDCount
)

const (
	histBucketCount = 8
	cacheLineSize   = 64
)

type metricHistogram struct {
	buckets [histBucketCount]uint64
}

// paddedCounter keeps hot counters on separate cache lines so concurrent
// admission paths do not false-share.
type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics is the engine's lock-free counter set. All methods are safe for
// concurrent use and are no-ops when metrics are disabled.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [metricIDCount]paddedCounter
	histograms    [metricIDCount]metricHistogram
}

// MetricsSnapshot is a point-in-time copy of all counters and histograms,
// consumed by the exporters under metrics/export.
type MetricsSnapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// NewMetrics creates a metric set for the given configuration.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

// Enabled reports whether any metric is being recorded.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// Inc adds one to the counter.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Observe records a latency sample. Only MetricAdmitLatency is a
// histogram; other ids are ignored.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enableLatency || id != MetricAdmitLatency {
		return
	}
	atomic.AddUint64(&m.histograms[id].buckets[bucketIndex(d)], 1)
}

// Value returns the current counter value.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot copies every counter and histogram. The copy is internally
// consistent enough for scraping; individual counters are read atomically.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}

	s := MetricsSnapshot{
		Counters:   make(map[MetricID]uint64, int(metricIDCount)),
		Histograms: make(map[MetricID][]uint64, 1),
	}

	for id := MetricID(0); id < metricIDCount; id++ {
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	if m.enableLatency {
		buckets := make([]uint64, histBucketCount)
		for i := 0; i < histBucketCount; i++ {
			buckets[i] = atomic.LoadUint64(&m.histograms[MetricAdmitLatency].buckets[i])
		}
		s.Histograms[MetricAdmitLatency] = buckets
	}

	return s
}

func bucketIndex(d time.Duration) int {
	ms := d.Milliseconds()

	switch {
	case ms <= 5:
		return 0
	case ms <= 10:
		return 1
	case ms <= 25:
		return 2
	case ms <= 50:
		return 3
	case ms <= 100:
		return 4
	case ms <= 250:
		return 5
	case ms <= 500:
		return 6
	default:
		return 7
	}
}
