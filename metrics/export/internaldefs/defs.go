package internaldefs

import (
	goThrottle "github.com/MrEthical07/goThrottle"
)

// CounterDef binds an engine counter to its exported name.
type CounterDef struct {
	ID   goThrottle.MetricID
	Name string
	Help string
}

// HistogramDef binds an engine histogram to its exported name.
type HistogramDef struct {
	ID   goThrottle.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter in a stable order.
var CounterDefs = []CounterDef{
	{ID: goThrottle.MetricAdmitAllowed, Name: "gothrottle_admit_allowed_total", Help: "Admitted requests."},
	{ID: goThrottle.MetricAdmitRateLimited, Name: "gothrottle_admit_rate_limited_total", Help: "Requests denied for quota."},
	{ID: goThrottle.MetricAdmitBlocked, Name: "gothrottle_admit_blocked_total", Help: "Requests denied by an address block."},
	{ID: goThrottle.MetricFailOpen, Name: "gothrottle_fail_open_total", Help: "Requests admitted while the counter store was unreachable."},
	{ID: goThrottle.MetricFailedLoginRecorded, Name: "gothrottle_failed_login_recorded_total", Help: "Failed logins recorded by the brute-force detector."},
	{ID: goThrottle.MetricBruteForceIPTrip, Name: "gothrottle_brute_force_ip_trip_total", Help: "Address-axis brute-force threshold crossings."},
	{ID: goThrottle.MetricBruteForceUsernameTrip, Name: "gothrottle_brute_force_username_trip_total", Help: "Username-axis brute-force threshold crossings."},
	{ID: goThrottle.MetricBruteForceComboTrip, Name: "gothrottle_brute_force_combo_trip_total", Help: "Combo-axis brute-force threshold crossings."},
	{ID: goThrottle.MetricBlockApplied, Name: "gothrottle_block_applied_total", Help: "Address blocks created, explicit or escalated."},
	{ID: goThrottle.MetricBlockLifted, Name: "gothrottle_block_lifted_total", Help: "Address blocks lifted administratively."},
	{ID: goThrottle.MetricLimitsReset, Name: "gothrottle_limits_reset_total", Help: "Administrative counter resets."},
	{ID: goThrottle.MetricOverrideSet, Name: "gothrottle_override_set_total", Help: "Per-category policy overrides written."},
	{ID: goThrottle.MetricMultiplierSet, Name: "gothrottle_multiplier_set_total", Help: "Per-user multipliers written."},
}

// HistogramDefs lists every exported histogram.
var HistogramDefs = []HistogramDef{
	{ID: goThrottle.MetricAdmitLatency, Name: "gothrottle_admit_latency_seconds", Help: "Admission check latency histogram."},
}

// HistogramBounds are the upper bucket bounds in seconds, matching the
// engine's fixed millisecond buckets.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix provides instrument-name-safe bound labels for
// exporters that cannot use "le" labels.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets pads or truncates a raw snapshot slice to the fixed
// bucket count.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts to the cumulative form
// Prometheus histograms require.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
