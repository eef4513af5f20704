package prometheus

import (
	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/metrics/export/internaldefs"
	promclient "github.com/prometheus/client_golang/prometheus"
)

// Collector adapts engine metrics to a client_golang registry. Each scrape
// reads one snapshot; nothing is cached between scrapes.
type Collector struct {
	source       Source
	counters     []collectedCounter
	histograms   []collectedHistogram
	auditDropped *promclient.Desc
}

type collectedCounter struct {
	id   goSession.MetricID
	desc *promclient.Desc
}

type collectedHistogram struct {
	id   goSession.MetricID
	desc *promclient.Desc
}

var _ promclient.Collector = (*Collector)(nil)

// NewCollector returns a Collector reading from engine.
func NewCollector(engine *goSession.Engine) *Collector {
	if engine == nil {
		return NewCollectorFromSource(nil)
	}
	return NewCollectorFromSource(engine)
}

// NewCollectorFromSource returns a Collector reading from source.
func NewCollectorFromSource(source Source) *Collector {
	c := &Collector{
		source:       source,
		counters:     make([]collectedCounter, 0, len(internaldefs.CounterDefs)),
		histograms:   make([]collectedHistogram, 0, len(internaldefs.HistogramDefs)),
		auditDropped: promclient.NewDesc(internaldefs.AuditDroppedName, internaldefs.AuditDroppedHelp, nil, nil),
	}
	for _, def := range internaldefs.CounterDefs {
		c.counters = append(c.counters, collectedCounter{
			id:   def.ID,
			desc: promclient.NewDesc(def.Name, def.Help, nil, nil),
		})
	}
	for _, def := range internaldefs.HistogramDefs {
		c.histograms = append(c.histograms, collectedHistogram{
			id:   def.ID,
			desc: promclient.NewDesc(def.Name, def.Help, nil, nil),
		})
	}
	return c
}

// Describe implements promclient.Collector.
func (c *Collector) Describe(ch chan<- *promclient.Desc) {
	for _, counter := range c.counters {
		ch <- counter.desc
	}
	for _, h := range c.histograms {
		ch <- h.desc
	}
	ch <- c.auditDropped
}

// Collect implements promclient.Collector.
func (c *Collector) Collect(ch chan<- promclient.Metric) {
	if c == nil || c.source == nil {
		return
	}

	snapshot := c.source.MetricsSnapshot()
	dropped := c.source.AuditDropped()
	// Disabled engine metrics yield empty maps; publish nothing rather
	// than a page of zeros.
	if len(snapshot.Counters) == 0 && len(snapshot.Histograms) == 0 && dropped == 0 {
		return
	}

	for _, counter := range c.counters {
		ch <- promclient.MustNewConstMetric(counter.desc, promclient.CounterValue, float64(snapshot.Counters[counter.id]))
	}

	for _, h := range c.histograms {
		cumulative := internaldefs.CumulativeBuckets(internaldefs.NormalizeBuckets(snapshot.Histograms[h.id]))
		buckets := make(map[float64]uint64, len(internaldefs.HistogramUpperBounds))
		for i, bound := range internaldefs.HistogramUpperBounds {
			buckets[bound] = cumulative[i]
		}
		// Sum is not tracked by the core histogram.
		ch <- promclient.MustNewConstHistogram(h.desc, cumulative[len(cumulative)-1], 0, buckets)
	}

	ch <- promclient.MustNewConstMetric(c.auditDropped, promclient.CounterValue, float64(dropped))
}
