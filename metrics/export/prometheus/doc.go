// Package prometheus provides a Prometheus collector for goThrottle metrics.
//
// [NewPrometheusExporter] accepts a [goThrottle.Engine] and exposes an
// [net/http.Handler] that renders all goThrottle counters and histograms in
// Prometheus text exposition format. Counter names are prefixed
// gothrottle_*_total; the single histogram is gothrottle_admit_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the Handler.
//   - Mutate engine state.
package prometheus
