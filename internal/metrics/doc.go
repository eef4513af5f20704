// Package metrics keeps the engine's in-process counters: one per session
// outcome, guard decision and login/register result, plus the resolve
// latency histogram.
//
// Counters sit in cache-line padded slots so the hot resolve path does not
// false-share between cores; increments are single atomic adds and never
// allocate. The histogram has 8 fixed buckets (5ms, 10ms, 25ms, 50ms,
// 100ms, 250ms, 500ms, +Inf). [Metrics.Snapshot] copies everything out for
// the exporters under metrics/export.
//
// A disabled Metrics is a valid no-op, as is a nil *Metrics.
package metrics
