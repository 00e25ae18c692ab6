// Package jobs provides the lock-guarded background jobs of the tracker.
//
// Jobs are scheduled with github.com/robfig/cron/v3 in the configured
// business time zone. Every run first takes a distributed lock named after
// the job; if another process holds it the run is skipped, not queued.
//
// # Available Jobs
//
//  1. backfill          - once per start, walks the whole console history (lock 4h)
//  2. monitor           - every minute, reconciles the newest orders (lock 55s)
//  3. enrichment        - every 30 minutes, drains orders missing derived fields (lock 5m)
//  4. integrity_sweep   - 04:00, re-ingests suspicious recent orders (lock 2h)
//  5. sanitize_logs     - 03:30, prunes rebounds from the last 48h of logs (lock 1h)
//  6. enforce_schedules - every 5 minutes, closes stores outside their hours (lock 4m)
//
// # Usage
//
//	jobManager, err := jobs.NewJobManager(locker, caracas, logger,
//		jobs.NewMonitorJob(syncHandler, settings),
//		jobs.NewEnforceJob(enforceHandler),
//	)
//	if err := jobManager.StartAll(ctx); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A held lock is not an error: the run is reported as skipped and logged at
// DEBUG. Any other failure is logged at ERROR; the next tick retries.
package jobs
