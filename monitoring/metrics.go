// Package monitoring exposes Prometheus metrics and a websocket feed of
// completed assessments.
package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// AssessmentsTotal counts scored assessments per resulting tier.
	AssessmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "riskscreen_assessments_total",
		Help: "Completed risk assessments by tier.",
	}, []string{"tier"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "riskscreen_http_request_duration_seconds",
		Help:    "HTTP request latency by method, path and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	// TrainingDuration records startup training time.
	TrainingDuration = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "riskscreen_training_duration_seconds",
		Help: "Wall time of the most recent model training.",
	})
)

// ObserveRequest records one served HTTP request.
func ObserveRequest(method, path string, status int, elapsed time.Duration) {
	requestDuration.WithLabelValues(method, path, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// MetricsHandler serves the Prometheus scrape endpoint.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
