// Package metrics holds the process-wide prometheus collectors. They are
// registered on the default registry, which /metrics exposes.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	jobRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orderwatch_job_runs_total",
		Help: "Scheduled job runs grouped by job and result (ok, skipped, failed).",
	}, []string{"job", "result"})

	jobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "orderwatch_job_duration_seconds",
		Help:    "Wall time of job runs that acquired their lock.",
		Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300, 900, 3600},
	}, []string{"job"})

	ordersReconciled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orderwatch_orders_reconciled_total",
		Help: "Reconciled observations grouped by outcome (ok, failed, ambiguous).",
	}, []string{"outcome"})

	statusTransitions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orderwatch_status_transitions_total",
		Help: "Status log entries appended by reconciliation.",
	})

	logEntriesDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orderwatch_status_log_entries_deleted_total",
		Help: "Rebound and post-terminal entries removed by the sanitizer.",
	})

	storeActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orderwatch_store_enforcement_total",
		Help: "Per-store enforcement outcomes (closed, compliant, untouched, failed).",
	}, []string{"outcome"})

	enrichmentBacklog = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "orderwatch_enrichment_backlog_pending",
		Help: "1 when the last enrichment run stopped with orders still missing fields.",
	})
)

func ObserveJob(job, result string, elapsed time.Duration) {
	jobRuns.WithLabelValues(job, result).Inc()
	if result != "skipped" {
		jobDuration.WithLabelValues(job).Observe(elapsed.Seconds())
	}
}

// ObserveReconciliation records one batch worth of reconciliation counts.
func ObserveReconciliation(reconciled, failed, ambiguous, transitions int) {
	ordersReconciled.WithLabelValues("ok").Add(float64(reconciled))
	ordersReconciled.WithLabelValues("failed").Add(float64(failed))
	ordersReconciled.WithLabelValues("ambiguous").Add(float64(ambiguous))
	statusTransitions.Add(float64(transitions))
}

func ObserveSanitized(deleted int) {
	logEntriesDeleted.Add(float64(deleted))
}

func ObserveEnforcement(closed, compliant, untouched, failed int) {
	storeActions.WithLabelValues("closed").Add(float64(closed))
	storeActions.WithLabelValues("compliant").Add(float64(compliant))
	storeActions.WithLabelValues("untouched").Add(float64(untouched))
	storeActions.WithLabelValues("failed").Add(float64(failed))
}

func SetEnrichmentBacklog(pending bool) {
	if pending {
		enrichmentBacklog.Set(1)
		return
	}
	enrichmentBacklog.Set(0)
}
