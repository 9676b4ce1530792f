// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const service = "reel-remix"

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method"},
	)

	// ItemsProcessed counts item pipelines by role (own, reference) and final state.
	ItemsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "items_processed_total",
			Help: "Total number of item pipelines by role and outcome",
		},
		[]string{"role", "outcome"},
	)

	ChunkTranscriptions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chunk_transcriptions_total",
			Help: "Total number of window transcription attempts",
		},
		[]string{"status"},
	)

	StageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stage_duration_seconds",
			Help:    "Time spent in each item pipeline stage",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
		[]string{"stage"},
	)

	Synthesis = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "synthesis_total",
			Help: "Total number of remix synthesis attempts by outcome",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		ItemsProcessed,
		ChunkTranscriptions,
		StageDuration,
		Synthesis,
	)
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordRequest records one served HTTP request.
func RecordRequest(method, status string, duration time.Duration) {
	RequestsTotal.WithLabelValues(service, method, status).Inc()
	RequestDuration.WithLabelValues(service, method).Observe(duration.Seconds())
}

// ObserveStage records how long an item spent in stage.
func ObserveStage(stage string, since time.Time) {
	StageDuration.WithLabelValues(stage).Observe(time.Since(since).Seconds())
}
