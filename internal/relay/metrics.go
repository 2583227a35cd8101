package relay

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for plan generation.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Generations      *prometheus.CounterVec
	UpstreamLatency  *prometheus.HistogramVec
	TaskCount        prometheus.Histogram
	ValidationIssues *prometheus.CounterVec
}

// NewMetrics creates the relay metrics and registers them with registry.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		Generations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskflow_generations_total",
				Help: "Total number of task generation requests by outcome",
			},
			[]string{"provider", "outcome"},
		),
		UpstreamLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "taskflow_upstream_latency_seconds",
				Help:    "Upstream completion latency in seconds",
				Buckets: []float64{0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0, 60.0},
			},
			[]string{"provider", "model"},
		),
		TaskCount: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "taskflow_generated_tasks",
				Help:    "Number of tasks returned per successful generation",
				Buckets: []float64{0, 1, 3, 5, 7, 10, 15},
			},
		),
		ValidationIssues: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskflow_validation_issues_total",
				Help: "Deviations from the prompted task shape, by check",
			},
			[]string{"check"},
		),
	}
}

func (m *Metrics) observeUpstream(provider, model string, seconds float64) {
	if m == nil {
		return
	}
	m.UpstreamLatency.WithLabelValues(provider, model).Observe(seconds)
}

func (m *Metrics) recordOutcome(provider, outcome string) {
	if m == nil {
		return
	}
	m.Generations.WithLabelValues(provider, outcome).Inc()
}

func (m *Metrics) recordTasks(n int) {
	if m == nil {
		return
	}
	m.TaskCount.Observe(float64(n))
}

func (m *Metrics) recordIssue(check string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.ValidationIssues.WithLabelValues(check).Add(float64(n))
}
