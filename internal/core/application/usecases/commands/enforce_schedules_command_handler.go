package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/errgroup"

	"orderwatch/internal/core/domain/model/store"
	"orderwatch/internal/core/domain/services"
	"orderwatch/internal/core/ports"
	"orderwatch/internal/pkg/errs"
)

// StoreCatalog lists the stores under schedule management.
type StoreCatalog interface {
	ListAll(ctx context.Context) ([]*store.Store, error)
}

// RetryPolicy bounds actuator retries for a single store.
type RetryPolicy struct {
	Interval   time.Duration
	MaxRetries uint64
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Interval: 2 * time.Second, MaxRetries: 2}
}

// StoreEnforcement is the outcome for one store.
type StoreEnforcement struct {
	Store    string
	Decision services.ClosureDecision
	Applied  bool
	Err      error
}

type EnforcementReport struct {
	Evaluated        int
	Closed           int
	AlreadyCompliant int
	Untouched        int
	Failed           int
	Stores           []StoreEnforcement
}

// EnforceSchedulesCommandHandler closes stores found open in a forbidden
// window. Each store is an independent unit: a failing actuator call for one
// store is retried and then reported without affecting the others.
//
// Example:
//
//	handler := NewEnforceSchedulesCommandHandler(stores, schedules, actuator, caracas, DefaultRetryPolicy(), logger)
//	cmd, _ := NewEnforceSchedulesCommand(time.Now())
//
//	report, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return err // configuration could not be read
//	}
//	fmt.Printf("%d closed, %d failed", report.Closed, report.Failed)
type EnforceSchedulesCommandHandler struct {
	stores      StoreCatalog
	schedules   ports.ScheduleRepository
	actuator    ports.Actuator
	location    *time.Location
	retry       RetryPolicy
	concurrency int
	logger      *slog.Logger
}

func NewEnforceSchedulesCommandHandler(
	stores StoreCatalog,
	schedules ports.ScheduleRepository,
	actuator ports.Actuator,
	location *time.Location,
	retry RetryPolicy,
	logger *slog.Logger,
) EnforceSchedulesCommandHandler {
	if location == nil {
		location = time.UTC
	}
	return EnforceSchedulesCommandHandler{
		stores:      stores,
		schedules:   schedules,
		actuator:    actuator,
		location:    location,
		retry:       retry,
		concurrency: 8,
		logger:      logger.With("component", "schedule_enforcer"),
	}
}

func (h *EnforceSchedulesCommandHandler) Handle(ctx context.Context, cmd EnforceSchedulesCommand) (EnforcementReport, error) {
	var report EnforcementReport
	if err := cmd.Validate(); err != nil {
		return report, err
	}

	local := cmd.Now().In(h.location)
	stores, err := h.stores.ListAll(ctx)
	if err != nil {
		return report, fmt.Errorf("list stores: %w", err)
	}
	rules, err := h.schedules.ListRules(ctx, local.Weekday())
	if err != nil {
		return report, fmt.Errorf("list schedule rules: %w", err)
	}
	holidays, err := h.schedules.ListHolidays(ctx, local)
	if err != nil {
		return report, fmt.Errorf("list holidays: %w", err)
	}

	results := make([]StoreEnforcement, len(stores))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.concurrency)
	for i, st := range stores {
		g.Go(func() error {
			results[i] = h.evaluate(gctx, st, local, rules, holidays)
			return nil
		})
	}
	_ = g.Wait()

	report.Stores = results
	for _, r := range results {
		report.Evaluated++
		switch {
		case r.Err != nil:
			report.Failed++
		case !r.Decision.Asserted || !r.Decision.Closed:
			report.Untouched++
		case r.Applied:
			report.Closed++
		default:
			report.AlreadyCompliant++
		}
	}
	return report, nil
}

func (h *EnforceSchedulesCommandHandler) evaluate(
	ctx context.Context,
	st *store.Store,
	local time.Time,
	rules []store.ScheduleRule,
	holidays []store.HolidayOverride,
) StoreEnforcement {
	out := StoreEnforcement{
		Store:    st.Name(),
		Decision: services.EvaluateClosure(st.ID(), local, rules, holidays),
	}
	if !out.Decision.Asserted || !out.Decision.Closed {
		return out
	}

	out.Applied, out.Err = h.EnforceStore(ctx, st, false)
	if out.Err != nil {
		h.logger.ErrorContext(ctx, "Store enforcement failed",
			"store", st.Name(), "source", string(out.Decision.Source), "error", out.Err)
	} else if out.Applied {
		h.logger.InfoContext(ctx, "Store closed", "store", st.Name(), "source", string(out.Decision.Source))
	}
	return out
}

// EnforceStore drives one store to desiredOpen through the actuator with
// bounded constant-interval retries. applied is false when the store was
// already in the desired state.
func (h *EnforceSchedulesCommandHandler) EnforceStore(ctx context.Context, st *store.Store, desiredOpen bool) (bool, error) {
	var applied bool
	operation := func() error {
		a, err := h.actuator.Enforce(ctx, st.ExternalRef(), desiredOpen)
		if errors.Is(err, errs.ErrObjectNotFound) {
			return backoff.Permanent(err)
		}
		if err != nil {
			return err
		}
		applied = a
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(h.retry.Interval), h.retry.MaxRetries),
		ctx,
	)
	err := backoff.RetryNotify(operation, policy, func(err error, wait time.Duration) {
		h.logger.WarnContext(ctx, "Actuator call failed, retrying",
			"store", st.Name(), "wait", wait.String(), "error", err)
	})
	if err != nil {
		return false, fmt.Errorf("enforce %s: %w", st.ExternalRef(), err)
	}
	return applied, nil
}
