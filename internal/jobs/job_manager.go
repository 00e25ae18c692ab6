package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"orderwatch/internal/core/ports"
	"orderwatch/internal/pkg/errs"
)

// JobManager coordinates all scheduled jobs in the application.
// Every run, scheduled or triggered by an operator, goes through the
// job's lock, so a job never overlaps itself across processes.
type JobManager struct {
	cron   *cron.Cron
	guard  LockGuard
	locker ports.Locker
	jobs   map[string]Job
	order  []string
	logger *slog.Logger

	// ctx is the parent of scheduled runs; StopAll cancels it.
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewJobManager registers the jobs. Schedules are evaluated in location.
func NewJobManager(locker ports.Locker, location *time.Location, logger *slog.Logger, jobs ...Job) (*JobManager, error) {
	if locker == nil {
		return nil, errs.NewValueIsRequiredError("locker")
	}
	if location == nil {
		location = time.UTC
	}
	logger = logger.With("component", "job_manager")

	jm := &JobManager{
		cron: cron.New(
			cron.WithLocation(location),
			cron.WithChain(cron.Recover(cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelError)))),
		),
		guard:  NewLockGuard(locker, logger),
		locker: locker,
		jobs:   make(map[string]Job, len(jobs)),
		logger: logger,
	}

	for _, job := range jobs {
		if job.Name == "" || job.Run == nil {
			return nil, errs.NewValueIsInvalidError("job")
		}
		if job.TTL <= 0 {
			return nil, errs.NewValueIsInvalidErrorWithCause("job", fmt.Errorf("%s has no lock ttl", job.Name))
		}
		if _, dup := jm.jobs[job.Name]; dup {
			return nil, errs.NewValueIsInvalidErrorWithCause("job", fmt.Errorf("%s registered twice", job.Name))
		}
		jm.jobs[job.Name] = job
		jm.order = append(jm.order, job.Name)
	}
	return jm, nil
}

// StartAll schedules every job with a cron spec and fires the RunOnStart
// ones in the background. Nothing is started if a spec is invalid.
func (jm *JobManager) StartAll(ctx context.Context) error {
	jm.ctx, jm.cancel = context.WithCancel(ctx)

	for _, name := range jm.order {
		job := jm.jobs[name]
		if job.Schedule == "" {
			continue
		}
		if _, err := jm.cron.AddFunc(job.Schedule, func() { jm.runScheduled(job) }); err != nil {
			jm.cancel()
			return fmt.Errorf("failed to schedule %s job: %w", job.Name, err)
		}
	}

	jm.cron.Start()
	jm.logger.InfoContext(ctx, "jobs started", "jobs", jm.order)

	for _, name := range jm.order {
		if job := jm.jobs[name]; job.RunOnStart {
			jm.wg.Add(1)
			go func() {
				defer jm.wg.Done()
				jm.runScheduled(job)
			}()
		}
	}
	return nil
}

// StopAll stops the scheduler, cancels in-flight runs and waits for them.
func (jm *JobManager) StopAll() {
	if jm.cancel == nil {
		return
	}
	stopped := jm.cron.Stop()
	jm.cancel()
	<-stopped.Done()
	jm.wg.Wait()
	jm.logger.Info("jobs stopped")
}

// Run executes a job now, in the caller's goroutine. With force the job's
// lock is broken first, for clearing a lock left behind by a crashed run.
func (jm *JobManager) Run(ctx context.Context, name string, force bool) (Result, error) {
	job, ok := jm.jobs[name]
	if !ok {
		return ResultFailed, errs.NewObjectNotFoundError("job", name)
	}
	if force {
		if err := jm.locker.ForceRelease(ctx, name); err != nil {
			return ResultFailed, fmt.Errorf("break %s lock: %w", name, err)
		}
		jm.logger.WarnContext(ctx, "job lock broken by operator", "job", name)
	}
	return jm.guard.WithLock(ctx, job.Name, job.TTL, job.Run)
}

// Names lists the registered jobs in registration order.
func (jm *JobManager) Names() []string {
	return append([]string(nil), jm.order...)
}

func (jm *JobManager) runScheduled(job Job) {
	result, err := jm.guard.WithLock(jm.ctx, job.Name, job.TTL, job.Run)
	if err != nil {
		jm.logger.ErrorContext(jm.ctx, "job failed", "job", job.Name, "error", err)
		return
	}
	if result == ResultOK {
		jm.logger.DebugContext(jm.ctx, "job finished", "job", job.Name)
	}
}
