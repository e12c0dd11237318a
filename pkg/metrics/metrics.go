package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors for the generation pipeline and the quota engine.
type Metrics struct {
	ProviderAttempts  *prometheus.CounterVec
	GenerationLatency *prometheus.HistogramVec
	Generations       *prometheus.CounterVec
	QuotaRejections   *prometheus.CounterVec
	CommitFailures    prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ProviderAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "healwise",
			Name:      "provider_attempts_total",
			Help:      "Generation attempts per provider and outcome.",
		}, []string{"provider", "outcome"}),
		GenerationLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "healwise",
			Name:      "provider_latency_seconds",
			Help:      "Latency of provider calls.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		}, []string{"provider"}),
		Generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "healwise",
			Name:      "generations_total",
			Help:      "Completed submissions per operation, module and result.",
		}, []string{"operation", "module", "result"}),
		QuotaRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "healwise",
			Name:      "quota_rejections_total",
			Help:      "Submissions rejected for exceeding the remaining allowance.",
		}, []string{"tier"}),
		CommitFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "healwise",
			Name:      "usage_commit_failures_total",
			Help:      "Usage commits that failed after a successful generation.",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.ProviderAttempts, m.GenerationLatency, m.Generations, m.QuotaRejections, m.CommitFailures)
	}
	return m
}

// NewNop returns unregistered collectors, for tests and tools.
func NewNop() *Metrics {
	return New(nil)
}
