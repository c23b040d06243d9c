package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Turn outcomes reported by the conversation orchestrator.
const (
	TurnSmallTalk      = "small_talk"
	TurnCacheHit       = "cache_hit"
	TurnConfirmation   = "confirmation"
	TurnNarrowing      = "narrowing"
	TurnRecommendation = "recommendation"
	TurnConversation   = "conversation"
)

// Metrics are the advisor's Prometheus instruments.
type Metrics struct {
	turns                  *prometheus.CounterVec
	degradedTurns          prometheus.Counter
	recommendationDuration prometheus.Histogram
	candidateCount         prometheus.Histogram
	cacheLookups           *prometheus.CounterVec
	llmFallbacks           *prometheus.CounterVec
	feedbackEvents         *prometheus.CounterVec
	catalogErrors          prometheus.Counter
}

// NewMetrics creates the instruments and registers them with reg.
// A nil registerer leaves them unregistered, which tests rely on.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		turns: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "advisor_turns_total",
			Help: "Conversation turns by outcome",
		}, []string{"outcome"}),
		degradedTurns: factory.NewCounter(prometheus.CounterOpts{
			Name: "advisor_degraded_turns_total",
			Help: "Turns answered without a usable model response",
		}),
		recommendationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "advisor_recommendation_duration_seconds",
			Help:    "Time spent producing a recommendation list",
			Buckets: prometheus.DefBuckets,
		}),
		candidateCount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "advisor_recommendation_candidates",
			Help:    "Catalog candidates retrieved per recommendation",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
		}),
		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "advisor_response_cache_lookups_total",
			Help: "Response cache lookups by result",
		}, []string{"result"}),
		llmFallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "advisor_llm_fallbacks_total",
			Help: "Model calls that fell back, by reason",
		}, []string{"reason"}),
		feedbackEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "advisor_feedback_events_total",
			Help: "Feedback events recorded by action",
		}, []string{"action"}),
		catalogErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "advisor_catalog_errors_total",
			Help: "Failed catalog queries",
		}),
	}
}

func (m *Metrics) turn(outcome string, degraded bool) {
	m.turns.WithLabelValues(outcome).Inc()
	if degraded {
		m.degradedTurns.Inc()
	}
}

func (m *Metrics) cacheLookup(hit bool) {
	if hit {
		m.cacheLookups.WithLabelValues("hit").Inc()
		return
	}
	m.cacheLookups.WithLabelValues("miss").Inc()
}
