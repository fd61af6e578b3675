// internal/ai/metrics.go

package ai

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	providerCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ai_provider_calls_total",
		Help: "Total LLM provider calls by provider and result",
	}, []string{"provider", "result"})

	fallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ai_fallbacks_total",
		Help: "Total requests answered by the canned fallback",
	})
)

// RecordProviderCall counts a provider attempt
func RecordProviderCall(provider string, success bool) {
	result := "error"
	if success {
		result = "success"
	}
	providerCallsTotal.WithLabelValues(provider, result).Inc()
}

// RecordFallback counts a request that exhausted every provider
func RecordFallback() {
	fallbacksTotal.Inc()
}
