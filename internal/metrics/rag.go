package metrics

import "github.com/prometheus/client_golang/prometheus"

// Outcome labels for AnswersTotal.
const (
	OutcomeOK                 = "ok"
	OutcomeNoContext          = "no_context"
	OutcomeRetrievalFallback  = "retrieval_fallback"
	OutcomeGenerationFallback = "generation_fallback"
	OutcomeValidationError    = "validation_error"
)

// RAG pipeline Prometheus metrics. Fallback outcomes are counted here so
// operators can detect silent degradation: the API keeps returning 200s
// even when retrieval or generation is failing.
var (
	AnswersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "brewrag",
			Name:      "answers_total",
			Help:      "Total answered questions by outcome",
		},
		[]string{"outcome"},
	)

	StageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "brewrag",
			Name:      "stage_duration_seconds",
			Help:      "RAG pipeline stage duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"stage"}, // "retrieve" / "generate"
	)

	GenerationTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "brewrag",
			Name:      "generation_tokens_total",
			Help:      "Total generation tokens consumed",
		},
		[]string{"provider", "model", "type"},
	)

	DocumentsIndexedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "brewrag",
			Name:      "documents_indexed_total",
			Help:      "Total documents processed by the indexer",
		},
		[]string{"status"}, // "indexed" / "skipped"
	)
)

var ragMetricsRegistered bool

// RegisterRAGMetrics registers Prometheus RAG metrics. Must be called once from main.
func RegisterRAGMetrics() {
	if ragMetricsRegistered {
		return
	}
	prometheus.MustRegister(AnswersTotal)
	prometheus.MustRegister(StageDuration)
	prometheus.MustRegister(GenerationTokensTotal)
	prometheus.MustRegister(DocumentsIndexedTotal)
	ragMetricsRegistered = true
}
