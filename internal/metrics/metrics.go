// Package metrics exposes Prometheus instrumentation for model builds,
// recommendation queries and the HTTP API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Query outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeInvalid  = "invalid"
	OutcomeNotBuilt = "not_built"
	OutcomeError    = "error"
)

var (
	// BuildsTotal counts model builds.
	// Labels:
	//   - outcome: "ok", "error"
	BuildsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinematch_builds_total",
			Help: "Total number of model builds",
		},
		[]string{"outcome"},
	)

	// BuildDuration measures the wall time of successful builds.
	BuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cinematch_build_duration_seconds",
			Help:    "Duration of model builds in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	// Profiles reports the number of movie profiles in the current model.
	Profiles = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cinematch_profiles",
			Help: "Number of movie profiles in the current model",
		},
	)

	// Vocabulary reports the vocabulary size of the current model.
	Vocabulary = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cinematch_vocabulary_size",
			Help: "Number of distinct tokens in the current model",
		},
	)

	// QueriesTotal counts recommendation queries.
	// Labels:
	//   - outcome: "ok", "not_found", "invalid", "not_built", "error"
	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinematch_queries_total",
			Help: "Total number of recommendation queries",
		},
		[]string{"outcome"},
	)

	// QueryDuration measures recommendation latency.
	QueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cinematch_query_duration_seconds",
			Help:    "Duration of recommendation queries in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	)

	// HTTPRequests counts API requests by route pattern and status code.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinematch_http_requests_total",
			Help: "Total number of HTTP API requests",
		},
		[]string{"method", "route", "status"},
	)
)

// RecordBuild records a finished build. Gauges only move on success.
func RecordBuild(err error, duration time.Duration, profiles, vocabulary int) {
	if err != nil {
		BuildsTotal.WithLabelValues(OutcomeError).Inc()
		return
	}
	BuildsTotal.WithLabelValues(OutcomeOK).Inc()
	BuildDuration.Observe(duration.Seconds())
	Profiles.Set(float64(profiles))
	Vocabulary.Set(float64(vocabulary))
}

// RecordQuery records one recommendation query.
func RecordQuery(outcome string, duration time.Duration) {
	QueriesTotal.WithLabelValues(outcome).Inc()
	QueryDuration.Observe(duration.Seconds())
}

// RecordHTTPRequest records one API request.
func RecordHTTPRequest(method, route, status string) {
	HTTPRequests.WithLabelValues(method, route, status).Inc()
}
