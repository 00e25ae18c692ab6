package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"orderwatch/internal/core/ports"
	"orderwatch/internal/metrics"
	"orderwatch/internal/pkg/errs"
)

// Result is the outcome of one guarded run.
type Result string

const (
	ResultOK      Result = "ok"
	ResultSkipped Result = "skipped"
	ResultFailed  Result = "failed"
)

// LockGuard runs a function under a named, expiring lock. When the lock is
// taken the call returns ResultSkipped at once and the function never runs.
type LockGuard struct {
	locker ports.Locker
	logger *slog.Logger
	now    func() time.Time
}

func NewLockGuard(locker ports.Locker, logger *slog.Logger) LockGuard {
	return LockGuard{
		locker: locker,
		logger: logger.With("component", "lock_guard"),
		now:    time.Now,
	}
}

// WithLock releases the lock after fn returns, including on panic. A crash
// leaves the key to expire after ttl. fn's context is cancelled when ttl
// elapses, so a run never continues past the lifetime of its lock.
func (g LockGuard) WithLock(ctx context.Context, name string, ttl time.Duration, fn func(context.Context) error) (result Result, err error) {
	token, err := g.locker.TryAcquire(ctx, name, ttl)
	if errors.Is(err, errs.ErrLockNotAcquired) {
		g.logger.DebugContext(ctx, "job already running, skipped", "job", name)
		metrics.ObserveJob(name, string(ResultSkipped), 0)
		return ResultSkipped, nil
	}
	if err != nil {
		metrics.ObserveJob(name, string(ResultFailed), 0)
		return ResultFailed, fmt.Errorf("acquire %s lock: %w", name, err)
	}

	started := g.now()
	defer func() {
		if relErr := g.locker.Release(context.WithoutCancel(ctx), name, token); relErr != nil {
			g.logger.WarnContext(ctx, "lock release failed, waiting for expiry", "job", name, "error", relErr)
		}
		metrics.ObserveJob(name, string(result), g.now().Sub(started))
	}()

	// result is set before fn so a panic is recorded as a failure.
	result = ResultFailed
	runCtx, cancel := context.WithTimeout(ctx, ttl)
	defer cancel()
	if err = fn(runCtx); err != nil {
		return ResultFailed, err
	}
	return ResultOK, nil
}
