package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baselineOutput = `goos: linux
goarch: amd64
pkg: github.com/MrEthical07/goSession
BenchmarkGetSession-8        	  500000	      2000 ns/op	     512 B/op	       6 allocs/op
BenchmarkGetSession-8        	  500000	      2200 ns/op	     512 B/op	       6 allocs/op
BenchmarkGetSession-8        	  500000	      2100 ns/op	     512 B/op	       6 allocs/op
BenchmarkVerifyAuthAdmin-8   	  500000	      2300 ns/op	     600 B/op	       7 allocs/op
BenchmarkDecodeRejection-8   	 5000000	       300 ns/op	       0 B/op	       0 allocs/op
BenchmarkLogin-8             	     100	  900000 ns/op	 8000000 B/op	      40 allocs/op
BenchmarkMetricsInc-8        	100000000	        10 ns/op
PASS
`

func TestParseKeepsTrackedBenchmarksOnly(t *testing.T) {
	s, err := parse(strings.NewReader(baselineOutput))
	require.NoError(t, err)

	assert.Len(t, s, 4)
	assert.NotContains(t, s, "BenchmarkMetricsInc")
	assert.Equal(t, []float64{2000, 2200, 2100}, s["BenchmarkGetSession"]["ns/op"])
	assert.Equal(t, []float64{0}, s["BenchmarkDecodeRejection"]["allocs/op"])
}

func TestCompareWithinThreshold(t *testing.T) {
	base, err := parse(strings.NewReader(baselineOutput))
	require.NoError(t, err)

	results, failures := compare(base, base, defaultThreshold)
	assert.Empty(t, failures)
	assert.Len(t, results, 7)
	assert.Equal(t, "BenchmarkDecodeRejection", results[0].Benchmark)
}

func TestCompareFlagsRegressions(t *testing.T) {
	base, err := parse(strings.NewReader(baselineOutput))
	require.NoError(t, err)

	slower := strings.NewReplacer(
		"2000 ns/op", "4000 ns/op",
		"2200 ns/op", "4400 ns/op",
		"2100 ns/op", "4200 ns/op",
		"0 B/op	       0 allocs/op", "0 B/op	       1 allocs/op",
	).Replace(baselineOutput)
	cand, err := parse(strings.NewReader(slower))
	require.NoError(t, err)

	_, failures := compare(base, cand, defaultThreshold)
	require.Len(t, failures, 2)
	assert.Contains(t, failures[0], "BenchmarkDecodeRejection allocs/op went from 0 to 1")
	assert.Contains(t, failures[1], "BenchmarkGetSession ns/op regressed")
}

func TestCompareReportsMissingSamples(t *testing.T) {
	base, err := parse(strings.NewReader(baselineOutput))
	require.NoError(t, err)

	_, failures := compare(base, samples{}, defaultThreshold)
	assert.Len(t, failures, 7)
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "BenchmarkLogin", normalizeName("BenchmarkLogin-16"))
	assert.Equal(t, "BenchmarkLogin", normalizeName("BenchmarkLogin"))
	assert.Equal(t, "BenchmarkA-b", normalizeName("BenchmarkA-b"))
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 0.0, median(nil))
	assert.Equal(t, 2.0, median([]float64{3, 1, 2}))
	assert.Equal(t, 2.5, median([]float64{4, 1, 3, 2}))
}
