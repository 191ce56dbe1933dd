package metrics

import "github.com/prometheus/client_golang/prometheus"

// Engine and explainer Prometheus metrics.
var (
	ValidationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "listcheck",
			Name:      "validations_total",
			Help:      "Total number of product validations by overall verdict",
		},
		[]string{"verdict"},
	)

	ValidationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "listcheck",
			Name:      "validation_duration_seconds",
			Help:      "Validation engine call duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		},
	)

	ExplainerRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "listcheck",
			Name:      "explainer_requests_total",
			Help:      "Total number of explanation requests",
		},
		[]string{"model", "status"},
	)

	ExplainerRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "listcheck",
			Name:      "explainer_request_duration_seconds",
			Help:      "Explanation request duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20},
		},
		[]string{"model"},
	)
)

var engineMetricsRegistered bool

// RegisterEngineMetrics registers engine metrics. Must be called once from main.
func RegisterEngineMetrics() {
	if engineMetricsRegistered {
		return
	}
	prometheus.MustRegister(ValidationsTotal)
	prometheus.MustRegister(ValidationDuration)
	prometheus.MustRegister(ExplainerRequestsTotal)
	prometheus.MustRegister(ExplainerRequestDuration)
	engineMetricsRegistered = true
}
