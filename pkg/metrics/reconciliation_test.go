package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestInitReconciliationLabels(t *testing.T) {
	InitReconciliationLabels([]string{"cagr3Y", "sharpe"}, []string{"remote", "local", "default"})

	assert.Equal(t, 2, testutil.CollectAndCount(ReconciliationRunsTotal))
	assert.Equal(t, 6, testutil.CollectAndCount(ReconciliationFieldSourceTotal))
	assert.Equal(t, 3, testutil.CollectAndCount(ReconciliationFundsSourceTotal))
	assert.Zero(t, testutil.ToFloat64(ReconciliationFieldSourceTotal.WithLabelValues("sharpe", "default")))

	RecordReconciliation(true, map[string]string{"sharpe": "remote"}, "remote")
	assert.Equal(t, 1.0, testutil.ToFloat64(ReconciliationFieldSourceTotal.WithLabelValues("sharpe", "remote")))
	assert.Equal(t, 1.0, testutil.ToFloat64(ReconciliationRunsTotal.WithLabelValues("present")))
	assert.Equal(t, 6, testutil.CollectAndCount(ReconciliationFieldSourceTotal))
}
