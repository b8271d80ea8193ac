package pos

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeCommitted = "committed"
	outcomeInvalid   = "invalid"
	outcomeRejected  = "rejected"
	outcomePartial   = "partial"
	outcomeFailed    = "failed"
)

// Metrics counts commit outcomes. A nil *Metrics records nothing.
type Metrics struct {
	commits        *prometheus.CounterVec
	partialCommits *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		commits: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pos",
			Name:      "commits_total",
			Help:      "Sale and transfer commits by outcome.",
		}, []string{"kind", "outcome"}),
		partialCommits: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pos",
			Name:      "partial_commits_total",
			Help:      "Commits that left an incomplete header needing reconciliation.",
		}, []string{"kind"}),
	}
}

func (m *Metrics) observe(kind Kind, outcome string) {
	if m == nil {
		return
	}
	m.commits.WithLabelValues(kind.String(), outcome).Inc()
	if outcome == outcomePartial {
		m.partialCommits.WithLabelValues(kind.String()).Inc()
	}
}
