package metrics

import "github.com/prometheus/client_golang/prometheus"

// Pipeline Prometheus metrics.
var (
	TranscriptionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "align",
			Name:      "transcriptions_total",
			Help:      "Total number of transcription requests",
		},
		[]string{"status"},
	)

	GenerationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "align",
			Name:      "generations_total",
			Help:      "Total number of generation calls",
		},
		[]string{"kind", "status"}, // kind: chat (one-shot) / reply (streamed)
	)

	GenerationTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "align",
			Name:      "generation_tokens_total",
			Help:      "Total generation tokens consumed",
		},
		[]string{"kind", "type"}, // kind: chat / reply; type: prompt / completion
	)

	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "align",
			Name:      "embedding_requests_total",
			Help:      "Total number of embedding requests",
		},
		[]string{"status"},
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "align",
			Name:      "embedding_cache_total",
			Help:      "Embedding cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	RetrievalResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "align",
			Name:      "retrieval_results",
			Help:      "Candidate passages returned per retrieval",
			Buckets:   []float64{0, 1, 2, 4, 6, 8, 12},
		},
	)

	RateLimitDenialsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "align",
			Name:      "rate_limit_denials_total",
			Help:      "Requests denied by the rate limiter",
		},
	)

	CrisisTripsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "align",
			Name:      "crisis_trips_total",
			Help:      "Requests short-circuited by the crisis gate",
		},
	)
)

var pipelineMetricsRegistered bool

// RegisterPipelineMetrics registers pipeline metrics. Must be called once from main.
func RegisterPipelineMetrics() {
	if pipelineMetricsRegistered {
		return
	}
	prometheus.MustRegister(TranscriptionsTotal)
	prometheus.MustRegister(GenerationsTotal)
	prometheus.MustRegister(GenerationTokensTotal)
	prometheus.MustRegister(EmbeddingRequestsTotal)
	prometheus.MustRegister(EmbeddingCacheTotal)
	prometheus.MustRegister(RetrievalResults)
	prometheus.MustRegister(RateLimitDenialsTotal)
	prometheus.MustRegister(CrisisTripsTotal)
	pipelineMetricsRegistered = true
}
