package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestIntakeMetricsObserve(t *testing.T) {
	m := NewIntakeMetrics(prometheus.NewRegistry())
	m.ObserveSubmission("assessment", "hot")
	m.ObserveCRMSync("ok")
	m.ObserveEmailFallback("sent")
	m.ObserveIntakeLatency("assessment", 0.5)
}

func TestIntakeMetricsDefaultRegistry(t *testing.T) {
	m := NewIntakeMetrics(nil)
	m.ObserveSubmission("get-started", "warm")
}

func TestIntakeMetricsNilSafe(t *testing.T) {
	var m *IntakeMetrics
	m.ObserveSubmission("assessment", "hot")
	m.ObserveCRMSync("error")
	m.ObserveEmailFallback("error")
	m.ObserveIntakeLatency("assessment", 0.1)
}
