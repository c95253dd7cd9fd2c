package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// AnalysesTotal counts Analyze calls by engine and result ("ok" or an error code).
	AnalysesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "multa",
		Subsystem: "analyzer",
		Name:      "analyses_total",
		Help:      "Total number of notice analyses, labeled by engine and result.",
	}, []string{"engine", "result"})

	// AnalysisDurationSeconds covers the whole Analyze call, model round trip included.
	AnalysisDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "multa",
		Subsystem: "analyzer",
		Name:      "analysis_duration_seconds",
		Help:      "Time spent in a notice analysis, including the model call.",
		Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60, 120},
	}, []string{"engine"})

	// HTTPRequestsTotal counts served HTTP requests by route and status.
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "multa",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests, labeled by route and status code.",
	}, []string{"route", "status"})

	// UploadsTotal counts client-side uploads by outcome (stored, empty, failed, stale).
	UploadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "multa",
		Subsystem: "client",
		Name:      "uploads_total",
		Help:      "Total number of uploads handled by the client orchestrator, labeled by outcome.",
	}, []string{"outcome"})
)

// Register adds all collectors to the default registry. Safe to call more than once.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			AnalysesTotal,
			AnalysisDurationSeconds,
			HTTPRequestsTotal,
			UploadsTotal,
		)
	})
}

func ObserveAnalysis(engine, result string, took time.Duration) {
	AnalysesTotal.WithLabelValues(engine, result).Inc()
	AnalysisDurationSeconds.WithLabelValues(engine).Observe(took.Seconds())
}
