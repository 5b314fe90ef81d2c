package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of the suggestion and metadata
// services. A nil *Metrics records nothing.
type Metrics struct {
	suggestions *prometheus.CounterVec
	attempts    prometheus.Histogram
	collisions  prometheus.Counter
	logEntries  *prometheus.CounterVec
}

// NewMetrics registers the service collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		suggestions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "passcheck",
			Name:      "suggestions_total",
			Help:      "Suggestion requests by outcome.",
		}, []string{"outcome"}),
		attempts: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "passcheck",
			Name:      "suggestion_attempts",
			Help:      "Generate and claim attempts used per suggestion request.",
			Buckets:   []float64{1, 2, 3, 4, 6, 8, 12},
		}),
		collisions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "passcheck",
			Name:      "fingerprint_collisions_total",
			Help:      "Claims rejected because the fingerprint was already issued.",
		}),
		logEntries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "passcheck",
			Name:      "metadata_entries_total",
			Help:      "Metadata log writes by outcome.",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) observeSuggestion(outcome string, attempts int) {
	if m == nil {
		return
	}
	m.suggestions.WithLabelValues(outcome).Inc()
	if attempts > 0 {
		m.attempts.Observe(float64(attempts))
	}
}

func (m *Metrics) observeCollision() {
	if m == nil {
		return
	}
	m.collisions.Inc()
}

func (m *Metrics) observeLogEntry(outcome string) {
	if m == nil {
		return
	}
	m.logEntries.WithLabelValues(outcome).Inc()
}
