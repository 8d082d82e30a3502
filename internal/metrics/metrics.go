// Package metrics exposes Prometheus instrumentation for the query pipeline
// and the HTTP API. A nil *Metrics is safe to use and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Question outcomes recorded against QuestionsTotal.
const (
	OutcomeAnswered          = "answered"
	OutcomeShortCircuit      = "short_circuit"
	OutcomeUnanswerable      = "unanswerable"
	OutcomeGenerationFailure = "generation_failure"
	OutcomeExecutionFailure  = "execution_failure"
	OutcomeSynthesisDegraded = "synthesis_degraded"
)

type Metrics struct {
	questionsTotal  *prometheus.CounterVec
	stageDuration   *prometheus.HistogramVec
	completionCalls prometheus.Counter
}

// New registers pipeline metrics against reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		questionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "premstats",
			Name:      "questions_total",
			Help:      "Natural-language questions handled, by terminal outcome.",
		}, []string{"outcome"}),
		stageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "premstats",
			Name:      "pipeline_stage_duration_seconds",
			Help:      "Wall time spent per pipeline stage.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
		completionCalls: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "premstats",
			Name:      "completion_calls_total",
			Help:      "Completion-service calls issued by the pipeline.",
		}),
	}
}

func (m *Metrics) CountOutcome(outcome string) {
	if m == nil {
		return
	}
	m.questionsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (m *Metrics) CountCompletionCall() {
	if m == nil {
		return
	}
	m.completionCalls.Inc()
}
