// Package metrics holds the prometheus collectors for provider calls and
// pipeline outcomes. Collectors live on their own registry so the function
// runtime and the standalone server expose the same set.
package metrics

import (
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the registry every collector in this package is registered on.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		providerCalls,
		providerCallDuration,
		extractionFallbacks,
		parseDegraded,
		pipelineOutcomes,
	)
}

var (
	providerCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_provider_calls_total",
			Help: "Model and OCR calls per provider/model and outcome.",
		},
		[]string{"provider", "model", "outcome"},
	)

	providerCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quiz_provider_call_duration_ms",
			Help:    "Provider call latency distribution in milliseconds.",
			Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 20000, 40000},
		},
		[]string{"provider", "model"},
	)

	extractionFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_extraction_fallbacks_total",
			Help: "Classified provider failures and the route taken for them.",
		},
		[]string{"failure_class", "route"},
	)

	parseDegraded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quiz_parse_degraded_total",
			Help: "Quiz outputs returned as raw text because they did not decode.",
		},
	)

	pipelineOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_pipeline_outcomes_total",
			Help: "Terminal pipeline states.",
		},
		[]string{"outcome"},
	)
)

// ObserveProviderCall records one provider round trip.
func ObserveProviderCall(provider, model string, elapsed time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	providerCalls.WithLabelValues(norm(provider), norm(model), outcome).Inc()
	providerCallDuration.WithLabelValues(norm(provider), norm(model)).Observe(float64(elapsed.Milliseconds()))
}

// FallbackTaken records how a classified failure was routed.
func FallbackTaken(failureClass, route string) {
	extractionFallbacks.WithLabelValues(norm(failureClass), norm(route)).Inc()
}

func ParseDegraded() {
	parseDegraded.Inc()
}

func PipelineOutcome(outcome string) {
	pipelineOutcomes.WithLabelValues(norm(outcome)).Inc()
}

// Handler serves the registry in the prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func norm(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "unknown"
	}
	return s
}
