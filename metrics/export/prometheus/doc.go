// Package prometheus exposes goSession metrics to Prometheus through
// client_golang.
//
// [NewCollector] returns a Collector for callers that already run a registry.
// [NewExporter] wraps the Collector in a private registry and serves it with
// promhttp.
//
// Counter names are prefixed gosession_*_total; the single histogram is
// gosession_resolve_latency_seconds (no _sum is tracked, it is reported as 0).
//
// # What this package must NOT do
//
//   - Register metrics in the global Prometheus registry.
//   - Mutate engine state.
package prometheus
