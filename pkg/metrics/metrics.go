// Package metrics registers the Prometheus collectors exposed on the
// /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultBuckets is a common set of latency histogram buckets, in seconds.
var DefaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10} //nolint: gochecknoglobals

//nolint: gochecknoglobals
var (
	// ProbeDuration observes how long a single host probe took, labeled by
	// the resulting status.
	ProbeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "domainmon",
		Name:      "probe_duration_seconds",
		Help:      "Duration of a single domain health probe.",
		Buckets:   DefaultBuckets,
	}, []string{"status"})

	// ProbeResults counts probe outcomes by status (Live, Down).
	ProbeResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "domainmon",
		Name:      "probe_results_total",
		Help:      "Total probe results by status.",
	}, []string{"status"})

	// ScansStarted counts scan batches started.
	ScansStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "domainmon",
		Name:      "scans_started_total",
		Help:      "Total number of account scans started.",
	})

	// ScannedDomains counts individual domains covered by completed scans.
	ScannedDomains = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "domainmon",
		Name:      "scanned_domains_total",
		Help:      "Total number of domains probed by completed scans.",
	})
)
