package observability

import (
	"github.com/aretw0/scorm"
	"github.com/aretw0/scorm/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors shared by every attached session.
type Metrics struct {
	operations *prometheus.CounterVec
	commits    *prometheus.CounterVec
	active     *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scorm_operations_total",
				Help: "Total number of runtime operations by variant and operation",
			},
			[]string{"variant", "operation"},
		),
		commits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scorm_commits_total",
				Help: "Total number of commits sent by variant and outcome",
			},
			[]string{"variant", "outcome"},
		),
		active: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "scorm_sessions_running",
				Help: "Sessions initialized and not yet terminated",
			},
			[]string{"variant"},
		),
	}
	for _, c := range []prometheus.Collector{m.operations, m.commits, m.active} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Attach registers listeners on s that record its operations.
func (m *Metrics) Attach(s *scorm.Session) {
	variant := s.Variant().Name()
	for _, op := range domain.Operations {
		op := op
		s.On(string(op), func(element, value string) {
			m.record(variant, op)
		})
	}
}

func (m *Metrics) record(variant string, op domain.Operation) {
	m.operations.WithLabelValues(variant, string(op)).Inc()
	switch op {
	case domain.OpInitialize:
		m.active.WithLabelValues(variant).Inc()
	case domain.OpTerminate:
		m.active.WithLabelValues(variant).Dec()
	case domain.OpCommitSuccess:
		m.commits.WithLabelValues(variant, "success").Inc()
	case domain.OpCommitError:
		m.commits.WithLabelValues(variant, "error").Inc()
	}
}
