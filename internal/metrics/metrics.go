// Package metrics exposes Prometheus instrumentation for both services.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// HTTPRequestsTotal counts handled HTTP requests by route and status.
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "moodle_augment",
		Subsystem: "api",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests handled, labeled by service, method, route and status code.",
	}, []string{"service", "method", "route", "status"})

	// HTTPRequestDurationSeconds is time spent handling a request.
	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "moodle_augment",
		Subsystem: "api",
		Name:      "http_request_duration_seconds",
		Help:      "Time to handle an HTTP request, labeled by service and route.",
		// Upstream calls dominate; buckets stretch to the provider timeout.
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"service", "route"})

	// ProviderCallsTotal counts upstream provider calls by outcome.
	ProviderCallsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "moodle_augment",
		Subsystem: "api",
		Name:      "provider_calls_total",
		Help:      "Total number of upstream AI provider calls, labeled by provider and result.",
	}, []string{"provider", "result"})

	// ProviderCallDurationSeconds is time spent waiting on an upstream
	// provider, including request marshaling and response decoding.
	ProviderCallDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "moodle_augment",
		Subsystem: "api",
		Name:      "provider_call_duration_seconds",
		Help:      "Time spent on one upstream AI provider call, labeled by provider.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"provider"})

	// QuestionsGeneratedTotal counts questions returned from real model
	// output, labeled by question type. Placeholder questions are excluded;
	// those are tracked by PlaceholderFallbacksTotal.
	QuestionsGeneratedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "moodle_augment",
		Subsystem: "api",
		Name:      "questions_generated_total",
		Help:      "Total number of questions generated from provider output, labeled by question type.",
	}, []string{"question_type"})

	// PlaceholderFallbacksTotal counts question generations that served
	// placeholder content because model output could not be parsed. A rising
	// rate means an upstream is degrading behind 200 responses.
	PlaceholderFallbacksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "moodle_augment",
		Subsystem: "api",
		Name:      "placeholder_fallbacks_total",
		Help:      "Total number of question generation requests answered with placeholder questions.",
	}, []string{"provider"})
)

// Register registers service metrics with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDurationSeconds,
			ProviderCallsTotal,
			ProviderCallDurationSeconds,
			QuestionsGeneratedTotal,
			PlaceholderFallbacksTotal,
		)
	})
}
