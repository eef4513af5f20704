// Package otel exports goSession metrics through OpenTelemetry observable
// instruments.
//
// Each counter becomes an Int64ObservableCounter with the same name as the
// Prometheus export. The resolve latency histogram becomes a cumulative
// `<name>_bucket` gauge carrying an "le" attribute and a `<name>_count`
// gauge. One callback reads [goSession.Engine.MetricsSnapshot] per
// collection cycle.
//
// The caller owns the MeterProvider; the exporter never mutates engine state.
package otel
