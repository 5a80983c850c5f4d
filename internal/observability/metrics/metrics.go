package metrics

import "github.com/prometheus/client_golang/prometheus"

// IntakeMetrics exposes counters for the lead submission pipeline.
type IntakeMetrics struct {
	submissionsTotal *prometheus.CounterVec
	routingTotal     *prometheus.CounterVec
	auditDropsTotal  prometheus.Counter
}

func NewIntakeMetrics(reg prometheus.Registerer) *IntakeMetrics {
	m := &IntakeMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadflow",
			Subsystem: "intake",
			Name:      "submissions_total",
			Help:      "Lead submissions by path and terminal outcome",
		}, []string{"path", "outcome"}),
		routingTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadflow",
			Subsystem: "intake",
			Name:      "routing_total",
			Help:      "Routing decisions by agent and priority",
		}, []string{"agent", "priority"}),
		auditDropsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "leadflow",
			Subsystem: "intake",
			Name:      "audit_drops_total",
			Help:      "Audit entries dropped because the queue was full",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.routingTotal, m.auditDropsTotal)
	return m
}

func (m *IntakeMetrics) ObserveSubmission(path, outcome string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(path, outcome).Inc()
}

func (m *IntakeMetrics) ObserveRouting(agent, priority string) {
	if m == nil {
		return
	}
	m.routingTotal.WithLabelValues(agent, priority).Inc()
}

func (m *IntakeMetrics) ObserveAuditDrop() {
	if m == nil {
		return
	}
	m.auditDropsTotal.Inc()
}
