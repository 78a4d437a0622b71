package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the scan engine.
type Metrics struct {
	ScansStarted    prometheus.Counter
	ScansCompleted  prometheus.Counter
	ScansFailed     prometheus.Counter
	ScanDuration    prometheus.Histogram
	ProviderResults *prometheus.CounterVec
	ProviderErrors  *prometheus.CounterVec
	BatchFallbacks  prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		ScansStarted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "luminary_scans_started_total",
			Help: "Total number of scans started",
		}),
		ScansCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "luminary_scans_completed_total",
			Help: "Total number of scans that reached completed status",
		}),
		ScansFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "luminary_scans_failed_total",
			Help: "Total number of scans that reached failed status",
		}),
		ScanDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "luminary_scan_duration_seconds",
			Help:    "End-to-end scan duration",
			Buckets: []float64{5, 15, 30, 60, 120, 300, 600},
		}),
		ProviderResults: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "luminary_provider_results_total",
			Help: "Results returned per provider adapter",
		}, []string{"provider"}),
		ProviderErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "luminary_provider_errors_total",
			Help: "Contained failures per provider adapter",
		}, []string{"provider"}),
		BatchFallbacks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "luminary_enrichment_batch_fallbacks_total",
			Help: "Enrichment batches degraded to neutral defaults",
		}),
	}
}

// ObserveScan records a finished scan with its terminal status.
func (m *Metrics) ObserveScan(completed bool, d time.Duration) {
	if m == nil {
		return
	}
	if completed {
		m.ScansCompleted.Inc()
	} else {
		m.ScansFailed.Inc()
	}
	m.ScanDuration.Observe(d.Seconds())
}

// IncProviderResults adds n to the result counter for a provider.
func (m *Metrics) IncProviderResults(provider string, n int) {
	if m == nil {
		return
	}
	m.ProviderResults.WithLabelValues(provider).Add(float64(n))
}

// IncProviderError counts one contained adapter failure.
func (m *Metrics) IncProviderError(provider string) {
	if m == nil {
		return
	}
	m.ProviderErrors.WithLabelValues(provider).Inc()
}
