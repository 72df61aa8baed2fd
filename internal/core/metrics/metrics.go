// Package metrics exposes Prometheus instrumentation for the rules service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Evaluation kinds, the kind label on evaluation metrics.
const (
	EvalInline  = "inline"
	EvalRule    = "rule"
	EvalProduct = "product"
)

// Evaluation outcomes, the outcome label on riskgate_evaluations_total.
const (
	OutcomeMatched   = "matched"
	OutcomeUnmatched = "unmatched"
	OutcomeBlocked   = "blocked"
	OutcomeError     = "error"
)

// Draft generation outcomes, the outcome label on riskgate_drafts_total.
const (
	DraftOutcomeDraft         = "draft"
	DraftOutcomeNeedsMoreInfo = "needs_more_info"
	DraftOutcomeError         = "error"
)

// Metrics tracks rule evaluation and draft generation.
//
// Metrics:
//   - riskgate_evaluations_total: evaluations by kind and outcome
//   - riskgate_evaluation_duration_seconds: evaluation duration by kind
//   - riskgate_ruleset_size: active rules per product-wide evaluation
//   - riskgate_drafts_total: AI draft generations by outcome
//   - riskgate_draft_duration_seconds: AI draft generation duration
type Metrics struct {
	registry *prometheus.Registry

	evaluationsTotal   *prometheus.CounterVec
	evaluationDuration *prometheus.HistogramVec
	rulesetSize        prometheus.Histogram
	draftsTotal        *prometheus.CounterVec
	draftDuration      prometheus.Histogram
}

// New creates metrics on a private registry. The registry carries only
// riskgate series; runtime collectors stay off the scrape payload.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		evaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "riskgate",
				Name:      "evaluations_total",
				Help:      "Total number of rule evaluations",
			},
			[]string{"kind", "outcome"},
		),

		evaluationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "riskgate",
				Name:      "evaluation_duration_seconds",
				Help:      "Duration of rule evaluation in seconds",
				// Single-rule evaluations sit in the microsecond range;
				// product-wide runs over parsed 1MB contexts reach tens of ms.
				Buckets: prometheus.ExponentialBuckets(0.000001, 4, 12),
			},
			[]string{"kind"},
		),

		rulesetSize: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "riskgate",
				Name:      "ruleset_size",
				Help:      "Number of active rules per product-wide evaluation",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
			},
		),

		draftsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "riskgate",
				Name:      "drafts_total",
				Help:      "Total number of AI draft generations",
			},
			[]string{"outcome"},
		),

		draftDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "riskgate",
				Name:      "draft_duration_seconds",
				Help:      "Duration of AI draft generation in seconds",
				// Dominated by the model round-trip.
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
			},
		),
	}

	m.registry.MustRegister(
		m.evaluationsTotal,
		m.evaluationDuration,
		m.rulesetSize,
		m.draftsTotal,
		m.draftDuration,
	)

	return m
}

// RecordEvaluation records one evaluation with its outcome and duration.
func (m *Metrics) RecordEvaluation(kind, outcome string, duration time.Duration) {
	m.evaluationsTotal.WithLabelValues(kind, outcome).Inc()
	m.evaluationDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordRulesetSize records how many rules a product-wide evaluation covered.
func (m *Metrics) RecordRulesetSize(n int) {
	m.rulesetSize.Observe(float64(n))
}

// RecordDraft records one AI draft generation attempt.
func (m *Metrics) RecordDraft(outcome string, duration time.Duration) {
	m.draftsTotal.WithLabelValues(outcome).Inc()
	m.draftDuration.Observe(duration.Seconds())
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
