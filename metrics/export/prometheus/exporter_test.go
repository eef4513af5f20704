package prometheus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/cookie"
	"github.com/MrEthical07/goSession/directory"
	"github.com/MrEthical07/goSession/directory/directorytest"
	"github.com/MrEthical07/goSession/directory/memory"
	"github.com/MrEthical07/goSession/metrics/export/internaldefs"
	promclient "github.com/prometheus/client_golang/prometheus"
)

type fakeSource struct {
	snapshot goSession.MetricsSnapshot
	dropped  uint64
}

func (f fakeSource) MetricsSnapshot() goSession.MetricsSnapshot { return f.snapshot }
func (f fakeSource) AuditDropped() uint64                       { return f.dropped }

func sampleSource() fakeSource {
	return fakeSource{
		snapshot: goSession.MetricsSnapshot{
			Counters: map[goSession.MetricID]uint64{
				goSession.MetricLoginSuccess:   7,
				goSession.MetricRefreshSuccess: 3,
			},
			Histograms: map[goSession.MetricID][]uint64{
				goSession.MetricResolveLatency: {1, 2, 3, 4, 5, 6, 7, 8},
			},
		},
		dropped: 2,
	}
}

func scrape(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); !strings.Contains(got, "text/plain") {
		t.Fatalf("expected text exposition content type, got %q", got)
	}
	return rec.Body.String()
}

func TestExporterServesCountersAndHistogram(t *testing.T) {
	out := scrape(t, NewExporterFromSource(sampleSource()).Handler())

	for _, want := range []string{
		"gosession_login_success_total 7",
		"gosession_refresh_success_total 3",
		`gosession_resolve_latency_seconds_bucket{le="0.005"} 1`,
		`gosession_resolve_latency_seconds_bucket{le="+Inf"} 36`,
		"gosession_resolve_latency_seconds_count 36",
		"gosession_audit_dropped_total 2",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got:\n%s", want, out)
		}
	}
}

func TestExporterEmptyWhenMetricsDisabled(t *testing.T) {
	out := scrape(t, NewExporterFromSource(fakeSource{
		snapshot: goSession.MetricsSnapshot{
			Counters:   map[goSession.MetricID]uint64{},
			Histograms: map[goSession.MetricID][]uint64{},
		},
	}).Handler())

	if strings.Contains(out, "gosession_") {
		t.Fatalf("expected no gosession series for disabled metrics, got:\n%s", out)
	}
}

func TestExporterRegistryAcceptsExtraCollectors(t *testing.T) {
	exp := NewExporterFromSource(sampleSource())
	extra := promclient.NewCounter(promclient.CounterOpts{Name: "app_requests_total", Help: "Requests."})
	extra.Add(4)
	exp.Registry().MustRegister(extra)

	out := scrape(t, exp.Handler())
	if !strings.Contains(out, "app_requests_total 4") || !strings.Contains(out, "gosession_login_success_total 7") {
		t.Fatalf("expected both collectors in output, got:\n%s", out)
	}
}

func TestCollectorGathers(t *testing.T) {
	reg := promclient.NewPedanticRegistry()
	if err := reg.Register(NewCollectorFromSource(sampleSource())); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	if len(families) != len(internaldefs.CounterDefs)+len(internaldefs.HistogramDefs)+1 {
		t.Fatalf("unexpected family count %d", len(families))
	}

	byName := map[string]float64{}
	var histCount uint64
	var firstBucket uint64
	for _, mf := range families {
		m := mf.GetMetric()[0]
		switch {
		case m.GetCounter() != nil:
			byName[mf.GetName()] = m.GetCounter().GetValue()
		case m.GetHistogram() != nil:
			histCount = m.GetHistogram().GetSampleCount()
			firstBucket = m.GetHistogram().GetBucket()[0].GetCumulativeCount()
		}
	}
	if byName["gosession_login_success_total"] != 7 || byName["gosession_audit_dropped_total"] != 2 {
		t.Fatalf("unexpected counters %v", byName)
	}
	if histCount != 36 || firstBucket != 1 {
		t.Fatalf("unexpected histogram count=%d first=%d", histCount, firstBucket)
	}
}

func TestCollectorReadsLiveEngine(t *testing.T) {
	dir := memory.New(directorytest.FastHasher(t))
	if _, err := dir.CreateUser(context.Background(), directory.CreateUserInput{
		Email: "p@example.com", Password: "pw-prom", Name: "Prom",
	}); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	engine, err := goSession.New().
		WithSecret([]byte("prometheus-test-secret-0123456789")).
		WithUserDirectory(dir).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	if _, err := engine.Login(context.Background(), cookie.NewMapJar(nil), "p@example.com", "pw-prom"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	out := scrape(t, NewExporter(engine).Handler())
	if !strings.Contains(out, "gosession_login_success_total 1") {
		t.Fatalf("expected live login counter, got:\n%s", out)
	}

	reg := promclient.NewRegistry()
	reg.MustRegister(NewCollector(engine))
	if _, err := reg.Gather(); err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
}

func BenchmarkCollect(b *testing.B) {
	c := NewCollectorFromSource(fakeSource{
		snapshot: goSession.MetricsSnapshot{
			Counters: map[goSession.MetricID]uint64{
				goSession.MetricLoginSuccess:     1000,
				goSession.MetricLoginFailure:     40,
				goSession.MetricRefreshSuccess:   800,
				goSession.MetricRefreshFailure:   10,
				goSession.MetricSessionCreated:   800,
				goSession.MetricSessionValid:     20000,
				goSession.MetricAuthUnauthorized: 3,
			},
			Histograms: map[goSession.MetricID][]uint64{
				goSession.MetricResolveLatency: {10, 20, 30, 40, 50, 60, 70, 80},
			},
		},
	})

	ch := make(chan promclient.Metric, len(internaldefs.CounterDefs)+len(internaldefs.HistogramDefs)+1)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Collect(ch)
		for len(ch) > 0 {
			<-ch
		}
	}
}
