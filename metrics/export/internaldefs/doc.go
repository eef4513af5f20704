// Package internaldefs holds the metric names and bucket boundaries shared by
// the exporter implementations.
//
// Counter and histogram definitions live here so that the Prometheus and OTel
// exporters publish identical names and buckets. Bucket bounds mirror the
// resolve latency histogram kept by goSession.Metrics.
//
// # What this package must NOT do
//
//   - Import any exporter package.
//   - Perform I/O.
package internaldefs
