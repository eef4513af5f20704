package metrics

import (
	"sync/atomic"
	"time"
)

// MetricID identifies one counter slot.
type MetricID uint16

const (
	MetricLoginSuccess MetricID = iota
	MetricLoginFailure
	MetricLoginRateLimited
	MetricRegisterSuccess
	MetricRegisterFailure
	MetricRegisterDuplicate
	MetricSessionCreated
	MetricSessionValid
	MetricSessionAbsent
	MetricSessionDecodeFailure
	MetricSessionExpired
	MetricSessionUserGone
	MetricSessionResolveError
	MetricRefreshSuccess
	MetricRefreshFailure
	MetricLogout
	MetricAuthAllowed
	MetricAuthUnauthorized
	MetricAuthForbidden
	MetricAuthError
	MetricResolveLatency
	MetricIDCount
)

// HistBucketCount is the number of resolve latency buckets, +Inf included.
const HistBucketCount = 8

// latencyBoundsMs are the inclusive upper bounds of every bucket but the last.
var latencyBoundsMs = [HistBucketCount - 1]int64{5, 10, 25, 50, 100, 250, 500}

// Config selects which metrics are recorded.
type Config struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// counter sits alone on a cache line so hot counters bumped from different
// cores do not contend.
type counter struct {
	atomic.Uint64
	_ [56]byte
}

// Metrics holds lock-free counters and the resolve latency histogram. The
// zero value and a nil *Metrics record nothing.
type Metrics struct {
	enabled bool
	latency bool
	slots   [MetricIDCount]counter
	resolve [HistBucketCount]atomic.Uint64
}

// Snapshot is a point-in-time copy of every counter and histogram.
type Snapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// New returns metrics honouring cfg. Latency histograms require Enabled.
func New(cfg Config) *Metrics {
	return &Metrics{
		enabled: cfg.Enabled,
		latency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

func (m *Metrics) Enabled() bool { return m != nil && m.enabled }
func (m *Metrics) LatencyEnabled() bool { return m != nil && m.latency }

// Inc adds one to counter id. Unknown ids are ignored.
func (m *Metrics) Inc(id MetricID) {
	if m.Enabled() && id < MetricIDCount {
		m.slots[id].Add(1)
	}
}

// Observe records d against id. Only MetricResolveLatency carries a
// histogram; other ids are ignored.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if id != MetricResolveLatency || !m.LatencyEnabled() {
		return
	}
	m.resolve[bucketFor(d)].Add(1)
}

// Value returns the current value of counter id.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= MetricIDCount {
		return 0
	}
	return m.slots[id].Load()
}

// Snapshot copies all counters. Disabled metrics yield empty maps.
func (m *Metrics) Snapshot() Snapshot {
	s := Snapshot{
		Counters:   map[MetricID]uint64{},
		Histograms: map[MetricID][]uint64{},
	}
	if !m.Enabled() {
		return s
	}
	for id := range MetricIDCount {
		if id != MetricResolveLatency {
			s.Counters[id] = m.slots[id].Load()
		}
	}
	if m.latency {
		buckets := make([]uint64, HistBucketCount)
		for i := range buckets {
			buckets[i] = m.resolve[i].Load()
		}
		s.Histograms[MetricResolveLatency] = buckets
	}
	return s
}

// bucketFor truncates d to whole milliseconds, so 5.9ms lands in the 5ms bucket.
func bucketFor(d time.Duration) int {
	ms := d.Milliseconds()
	for i, bound := range latencyBoundsMs {
		if ms <= bound {
			return i
		}
	}
	return HistBucketCount - 1
}
