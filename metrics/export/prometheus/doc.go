// Package prometheus renders authguard metrics in Prometheus text
// exposition format.
//
// [NewPrometheusExporter] accepts an engine and exposes an [net/http.Handler]
// that renders all counters and histograms. Counter names are prefixed
// authguard_*_total; the single histogram is authguard_validate_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry. Callers mount the Handler.
//   - Mutate engine state.
package prometheus
