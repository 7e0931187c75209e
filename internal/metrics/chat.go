package metrics

import "github.com/prometheus/client_golang/prometheus"

// Chat pipeline Prometheus metrics.
var (
	ChatIntentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dinebot",
			Name:      "chat_intents_total",
			Help:      "Chat messages handled, by classified intent",
		},
		[]string{"intent"},
	)

	ChatConfidence = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dinebot",
			Name:      "chat_confidence",
			Help:      "Classification confidence of handled chat messages",
			Buckets:   []float64{0.3, 0.6, 0.8, 0.85, 0.9, 1},
		},
		[]string{"intent"},
	)

	ChatErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dinebot",
			Name:      "chat_errors_total",
			Help:      "Chat messages that failed with an internal error",
		},
		[]string{"intent"},
	)

	PhraseRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dinebot",
			Name:      "phrase_requests_total",
			Help:      "Total number of phrase extraction requests",
		},
		[]string{"provider", "model", "status"},
	)

	PhraseRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dinebot",
			Name:      "phrase_request_duration_seconds",
			Help:      "Phrase extraction request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"provider", "model"},
	)

	PhraseErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dinebot",
			Name:      "phrase_errors_total",
			Help:      "Total phrase extraction errors",
		},
		[]string{"provider", "model", "error_type"},
	)

	PhraseCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dinebot",
			Name:      "phrase_cache_total",
			Help:      "Phrase cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var chatMetricsRegistered bool

// RegisterChatMetrics registers the chat and phrase metrics. Must be called once from main.
func RegisterChatMetrics() {
	if chatMetricsRegistered {
		return
	}
	prometheus.MustRegister(
		ChatIntentsTotal,
		ChatConfidence,
		ChatErrorsTotal,
		PhraseRequestsTotal,
		PhraseRequestDuration,
		PhraseErrorsTotal,
		PhraseCacheTotal,
	)
	chatMetricsRegistered = true
}
