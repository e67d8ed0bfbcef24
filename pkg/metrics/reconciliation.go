package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Reconciliation metrics, recorded each time a basket view is composed
var (
	ReconciliationRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "basket",
			Subsystem: "reconciliation",
			Name:      "runs_total",
			Help:      "Total number of metric reconciliations by payload presence",
		},
		[]string{"payload"}, // present, absent
	)

	ReconciliationFieldSourceTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "basket",
			Subsystem: "reconciliation",
			Name:      "field_source_total",
			Help:      "Reconciled fields by the source that supplied the value",
		},
		[]string{"field", "source"}, // remote, local, default
	)

	ReconciliationFundsSourceTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "basket",
			Subsystem: "reconciliation",
			Name:      "funds_source_total",
			Help:      "Fund lists by the source that supplied them",
		},
		[]string{"source"},
	)
)

// InitReconciliationLabels pre-registers every field and source series at
// zero so dashboards see them before the first reconciliation.
func InitReconciliationLabels(fields []string, sources []string) {
	for _, payload := range []string{"present", "absent"} {
		ReconciliationRunsTotal.WithLabelValues(payload)
	}
	for _, source := range sources {
		for _, field := range fields {
			ReconciliationFieldSourceTotal.WithLabelValues(field, source)
		}
		ReconciliationFundsSourceTotal.WithLabelValues(source)
	}
}

// RecordReconciliation records one reconciliation pass. fieldSources maps
// each field name to the source that won it.
func RecordReconciliation(payloadPresent bool, fieldSources map[string]string, fundsSource string) {
	payload := "absent"
	if payloadPresent {
		payload = "present"
	}
	ReconciliationRunsTotal.WithLabelValues(payload).Inc()

	for field, source := range fieldSources {
		ReconciliationFieldSourceTotal.WithLabelValues(field, source).Inc()
	}
	ReconciliationFundsSourceTotal.WithLabelValues(fundsSource).Inc()
}
