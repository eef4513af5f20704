package internaldefs

import (
	"strings"
	"testing"

	goSession "github.com/MrEthical07/goSession"
)

func TestCounterDefsCoverEveryCounterOnce(t *testing.T) {
	seen := map[goSession.MetricID]bool{}
	names := map[string]bool{}
	for _, def := range CounterDefs {
		if seen[def.ID] {
			t.Fatalf("duplicate id %d", def.ID)
		}
		if names[def.Name] {
			t.Fatalf("duplicate name %s", def.Name)
		}
		if !strings.HasPrefix(def.Name, "gosession_") || !strings.HasSuffix(def.Name, "_total") {
			t.Fatalf("unexpected counter name %s", def.Name)
		}
		seen[def.ID] = true
		names[def.Name] = true
	}
	for id := goSession.MetricID(0); id < goSession.MetricResolveLatency; id++ {
		if !seen[id] {
			t.Fatalf("counter %d has no definition", id)
		}
	}
}

func TestBucketTablesAgree(t *testing.T) {
	if len(HistogramBounds) != 8 || HistogramBounds[7] != "+Inf" {
		t.Fatalf("unexpected bounds %v", HistogramBounds)
	}
	if len(HistogramUpperBounds) != len(HistogramBounds)-1 {
		t.Fatal("upper bounds must omit only +Inf")
	}
}

func TestCumulativeBuckets(t *testing.T) {
	got := CumulativeBuckets(NormalizeBuckets([]uint64{1, 2, 3}))
	want := [8]uint64{1, 3, 6, 6, 6, 6, 6, 6}
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}
