package metrics

import "github.com/prometheus/client_golang/prometheus"

// AIMetrics exposes counters/histograms for completion calls.
type AIMetrics struct {
	completionTotal    *prometheus.CounterVec
	completionLatency  *prometheus.HistogramVec
	suggestionFallback prometheus.Counter
}

func NewAIMetrics(reg prometheus.Registerer) *AIMetrics {
	m := &AIMetrics{
		completionTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "finadvise",
			Subsystem: "ai",
			Name:      "completion_total",
			Help:      "Total completion calls by operation and outcome",
		}, []string{"operation", "status"}),
		completionLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "finadvise",
			Subsystem: "ai",
			Name:      "completion_latency_seconds",
			Help:      "Latency of completion calls",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		}, []string{"operation"}),
		suggestionFallback: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "finadvise",
			Subsystem: "ai",
			Name:      "suggestions_fallback_total",
			Help:      "Replies with no bullet lines that got the default suggestions",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.completionTotal, m.completionLatency, m.suggestionFallback)
	return m
}

func (m *AIMetrics) ObserveCompletion(operation, status string, seconds float64) {
	if m == nil {
		return
	}
	m.completionTotal.WithLabelValues(operation, status).Inc()
	m.completionLatency.WithLabelValues(operation).Observe(seconds)
}

func (m *AIMetrics) ObserveSuggestionFallback() {
	if m == nil {
		return
	}
	m.suggestionFallback.Inc()
}
