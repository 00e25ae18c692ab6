package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func Test_ObserveJob_CountsByResult(t *testing.T) {
	before := testutil.ToFloat64(jobRuns.WithLabelValues("test-job", "skipped"))

	ObserveJob("test-job", "skipped", 0)
	ObserveJob("test-job", "skipped", 0)
	ObserveJob("test-job", "ok", time.Second)

	assert.Equal(t, before+2, testutil.ToFloat64(jobRuns.WithLabelValues("test-job", "skipped")))
	assert.Equal(t, 1, testutil.CollectAndCount(jobDuration, "orderwatch_job_duration_seconds"))
}

func Test_ObserveReconciliation(t *testing.T) {
	ok := testutil.ToFloat64(ordersReconciled.WithLabelValues("ok"))
	moved := testutil.ToFloat64(statusTransitions)

	ObserveReconciliation(3, 1, 1, 2)

	assert.Equal(t, ok+3, testutil.ToFloat64(ordersReconciled.WithLabelValues("ok")))
	assert.Equal(t, moved+2, testutil.ToFloat64(statusTransitions))
}

func Test_SetEnrichmentBacklog(t *testing.T) {
	SetEnrichmentBacklog(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(enrichmentBacklog))
	SetEnrichmentBacklog(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(enrichmentBacklog))
}
