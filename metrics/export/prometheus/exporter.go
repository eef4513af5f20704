package prometheus

import (
	"net/http"

	goSession "github.com/MrEthical07/goSession"
	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Source is what the exporter reads on each scrape. *goSession.Engine
// satisfies it.
type Source interface {
	MetricsSnapshot() goSession.MetricsSnapshot
	AuditDropped() uint64
}

// Exporter owns a private registry holding the engine Collector and serves
// it in the Prometheus exposition format.
type Exporter struct {
	registry *promclient.Registry
}

// NewExporter returns an Exporter reading from engine.
func NewExporter(engine *goSession.Engine) *Exporter {
	return NewExporterFromSource(engine)
}

// NewExporterFromSource returns an Exporter reading from source.
func NewExporterFromSource(source Source) *Exporter {
	reg := promclient.NewRegistry()
	reg.MustRegister(NewCollectorFromSource(source))
	return &Exporter{registry: reg}
}

// Registry exposes the private registry so callers can add their own
// collectors (Go runtime, process) next to the engine metrics.
func (e *Exporter) Registry() *promclient.Registry {
	return e.registry
}

// Handler serves the registry. Collection errors are reported in the
// response body rather than failing the scrape.
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
}
