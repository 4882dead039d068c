package metrics

import "github.com/prometheus/client_golang/prometheus"

// IntakeMetrics exposes counters/histograms for the lead intake flow.
type IntakeMetrics struct {
	submissionsTotal *prometheus.CounterVec
	crmSyncTotal     *prometheus.CounterVec
	emailFallback    *prometheus.CounterVec
	intakeLatency    *prometheus.HistogramVec
}

func NewIntakeMetrics(reg prometheus.Registerer) *IntakeMetrics {
	m := &IntakeMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadflow",
			Subsystem: "intake",
			Name:      "submissions_total",
			Help:      "Total accepted lead submissions",
		}, []string{"form_type", "quality"}),
		crmSyncTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadflow",
			Subsystem: "intake",
			Name:      "crm_sync_total",
			Help:      "Total CRM upsert attempts",
		}, []string{"status"}),
		emailFallback: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadflow",
			Subsystem: "intake",
			Name:      "email_fallback_total",
			Help:      "Total lead notifications delivered by email fallback",
		}, []string{"status"}),
		intakeLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "leadflow",
			Subsystem: "intake",
			Name:      "latency_seconds",
			Help:      "Latency of lead submission processing",
			Buckets:   prometheus.DefBuckets,
		}, []string{"form_type"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.crmSyncTotal, m.emailFallback, m.intakeLatency)
	return m
}

func (m *IntakeMetrics) ObserveSubmission(formType, quality string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(formType, quality).Inc()
}

func (m *IntakeMetrics) ObserveCRMSync(status string) {
	if m == nil {
		return
	}
	m.crmSyncTotal.WithLabelValues(status).Inc()
}

func (m *IntakeMetrics) ObserveEmailFallback(status string) {
	if m == nil {
		return
	}
	m.emailFallback.WithLabelValues(status).Inc()
}

func (m *IntakeMetrics) ObserveIntakeLatency(formType string, seconds float64) {
	if m == nil {
		return
	}
	m.intakeLatency.WithLabelValues(formType).Observe(seconds)
}
