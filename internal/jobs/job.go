package jobs

import (
	"context"
	"time"

	"orderwatch/internal/core/application/usecases/commands"
	"orderwatch/internal/metrics"
)

// Job is one named, lock-guarded unit of background work.
type Job struct {
	Name string
	// Schedule is a five-field cron spec. Empty means on demand only.
	Schedule string
	TTL      time.Duration
	// RunOnStart fires the job once when the manager starts.
	RunOnStart bool
	Run        func(ctx context.Context) error
}

// Settings tunes the collector-driven jobs.
type Settings struct {
	MonitorLimit        int
	EnrichmentBatchSize int
	EnrichmentMaxCycles int
	EnrichmentPause     time.Duration
	SweepMaxPages       int
	SanitizeWindow      time.Duration
}

func DefaultSettings() Settings {
	return Settings{
		MonitorLimit:        15,
		EnrichmentBatchSize: 50,
		EnrichmentMaxCycles: 10,
		EnrichmentPause:     2 * time.Second,
		SweepMaxPages:       20,
		SanitizeWindow:      48 * time.Hour,
	}
}

// enrichmentFetchBudget is the time one console fetch and reconciliation is
// allowed inside an enrichment run.
const enrichmentFetchBudget = 3 * time.Second

// EnrichmentTTL is the enrichment lock lifetime: every cycle fetching a full
// batch, plus the pauses between cycles, never less than five minutes.
func (s Settings) EnrichmentTTL() time.Duration {
	cycles := time.Duration(max(s.EnrichmentMaxCycles, 1))
	ttl := cycles*time.Duration(s.EnrichmentBatchSize)*enrichmentFetchBudget + (cycles-1)*s.EnrichmentPause
	return max(ttl, 5*time.Minute)
}

const (
	BackfillJob   = "backfill"
	MonitorJob    = "monitor"
	EnrichmentJob = "enrichment"
	SweepJob      = "integrity_sweep"
	SanitizeJob   = "sanitize_logs"
	EnforceJob    = "enforce_schedules"
)

// NewBackfillJob walks the whole console history once per process start.
func NewBackfillJob(handler commands.BackfillHistoryCommandHandler) Job {
	return Job{
		Name:       BackfillJob,
		TTL:        4 * time.Hour,
		RunOnStart: true,
		Run: func(ctx context.Context) error {
			cmd, err := commands.NewBackfillHistoryCommand(1, 0)
			if err != nil {
				return err
			}
			report, err := handler.Handle(ctx, cmd)
			observeIngestion(report)
			return err
		},
	}
}

func NewMonitorJob(handler commands.SyncRecentOrdersCommandHandler, settings Settings) Job {
	return Job{
		Name:     MonitorJob,
		Schedule: "* * * * *",
		TTL:      55 * time.Second,
		Run: func(ctx context.Context) error {
			cmd, err := commands.NewSyncRecentOrdersCommand(settings.MonitorLimit)
			if err != nil {
				return err
			}
			report, err := handler.Handle(ctx, cmd)
			observeIngestion(report)
			return err
		},
	}
}

// NewEnrichmentJob drains the enrichment backlog in bounded cycles. Whatever
// is left is picked up by the next tick.
func NewEnrichmentJob(handler commands.EnrichOrdersCommandHandler, settings Settings) Job {
	return Job{
		Name:     EnrichmentJob,
		Schedule: "*/30 * * * *",
		TTL:      settings.EnrichmentTTL(),
		Run: func(ctx context.Context) error {
			cmd, err := commands.NewEnrichOrdersCommand(settings.EnrichmentBatchSize, settings.EnrichmentMaxCycles, settings.EnrichmentPause)
			if err != nil {
				return err
			}
			report, err := handler.Handle(ctx, cmd)
			observeIngestion(report)
			metrics.SetEnrichmentBacklog(report.BacklogLeft)
			return err
		},
	}
}

func NewSweepJob(handler commands.IntegritySweepCommandHandler, settings Settings) Job {
	return Job{
		Name:     SweepJob,
		Schedule: "0 4 * * *",
		TTL:      2 * time.Hour,
		Run: func(ctx context.Context) error {
			cmd, err := commands.NewIntegritySweepCommand(settings.SweepMaxPages)
			if err != nil {
				return err
			}
			report, err := handler.Handle(ctx, cmd)
			observeIngestion(report)
			return err
		},
	}
}

func NewSanitizeJob(handler commands.SanitizeLogsCommandHandler, settings Settings) Job {
	return Job{
		Name:     SanitizeJob,
		Schedule: "30 3 * * *",
		TTL:      time.Hour,
		Run: func(ctx context.Context) error {
			cmd, err := commands.NewSanitizeLogsCommand(time.Now().Add(-settings.SanitizeWindow))
			if err != nil {
				return err
			}
			report, err := handler.Handle(ctx, cmd)
			metrics.ObserveSanitized(report.Removed)
			return err
		},
	}
}

func NewEnforceJob(handler commands.EnforceSchedulesCommandHandler) Job {
	return Job{
		Name:     EnforceJob,
		Schedule: "*/5 * * * *",
		TTL:      4 * time.Minute,
		Run: func(ctx context.Context) error {
			cmd, err := commands.NewEnforceSchedulesCommand(time.Now())
			if err != nil {
				return err
			}
			report, err := handler.Handle(ctx, cmd)
			metrics.ObserveEnforcement(report.Closed, report.AlreadyCompliant, report.Untouched, report.Failed)
			return err
		},
	}
}

func observeIngestion(report commands.IngestionReport) {
	metrics.ObserveReconciliation(report.Reconciled, report.Failed, report.Ambiguous, report.Transitions)
}
