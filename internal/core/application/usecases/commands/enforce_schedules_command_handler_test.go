package commands_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"orderwatch/internal/core/application/usecases/commands"
	"orderwatch/internal/core/domain/model/kernel"
	"orderwatch/internal/core/domain/model/store"
	"orderwatch/internal/core/domain/services"
	"orderwatch/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fakeActuator keeps per-store open state and fails the first failures[ref]
// calls for a store.
type fakeActuator struct {
	mu       sync.Mutex
	open     map[string]bool
	failures map[string]int
	calls    map[string]int
	missing  map[string]bool
}

func newFakeActuator() *fakeActuator {
	return &fakeActuator{open: map[string]bool{}, failures: map[string]int{}, calls: map[string]int{}, missing: map[string]bool{}}
}

func (a *fakeActuator) Enforce(_ context.Context, ref string, desiredOpen bool) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls[ref]++
	if a.missing[ref] {
		return false, errs.NewObjectNotFoundError("storeRef", ref)
	}
	if a.failures[ref] > 0 {
		a.failures[ref]--
		return false, errors.New("console returned 502")
	}
	current, known := a.open[ref]
	if !known {
		current = true
	}
	a.open[ref] = desiredOpen
	return current != desiredOpen, nil
}

// friday is 2025-03-14 at the given UTC time of day.
func friday(hour, minute int) time.Time {
	return time.Date(2025, 3, 14, hour, minute, 0, 0, time.UTC)
}

func clock(t *testing.T, hour, minute int) kernel.ClockTime {
	t.Helper()
	c, err := kernel.NewClockTime(hour, minute)
	require.NoError(t, err)
	return c
}

func newStore(t *testing.T, name string) *store.Store {
	t.Helper()
	s, err := store.NewStore(uuid.New(), name, "")
	require.NoError(t, err)
	return s
}

func newEnforcer(
	stores *MockStoreCatalog,
	schedules *MockScheduleRepository,
	actuator *fakeActuator,
) commands.EnforceSchedulesCommandHandler {
	retry := commands.RetryPolicy{Interval: time.Millisecond, MaxRetries: 2}
	return commands.NewEnforceSchedulesCommandHandler(stores, schedules, actuator, time.UTC, retry, discardLogger())
}

func TestNewEnforceSchedulesCommand(t *testing.T) {
	_, err := commands.NewEnforceSchedulesCommand(time.Time{})
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	h := commands.EnforceSchedulesCommandHandler{}
	_, err = h.Handle(t.Context(), commands.EnforceSchedulesCommand{})
	require.ErrorIs(t, err, commands.ErrEnforceSchedulesCommandIsNotConstructed)
}

func TestEnforceSchedulesCommandHandler_IsolatesStores(t *testing.T) {
	altamira := newStore(t, "Altamira")
	chacao := newStore(t, "Chacao")
	lateNight := newStore(t, "Late Night")
	broken := newStore(t, "Broken")

	rule := func(s *store.Store, closeH, closeM, buffer int) store.ScheduleRule {
		r, err := store.NewScheduleRule(s.ID(), time.Friday, clock(t, 8, 0), clock(t, closeH, closeM), buffer, true)
		require.NoError(t, err)
		return r
	}

	catalog := new(MockStoreCatalog)
	catalog.On("ListAll", mock.Anything).Return([]*store.Store{altamira, chacao, lateNight, broken}, nil)
	schedules := new(MockScheduleRepository)
	schedules.On("ListRules", mock.Anything, time.Friday).Return([]store.ScheduleRule{
		rule(altamira, 22, 0, 30),
		rule(lateNight, 23, 59, 0),
		rule(broken, 22, 0, 30),
	}, nil)
	schedules.On("ListHolidays", mock.Anything, mock.Anything).Return([]store.HolidayOverride{}, nil)

	actuator := newFakeActuator()
	actuator.failures[broken.ExternalRef()] = 10
	h := newEnforcer(catalog, schedules, actuator)

	cmd, _ := commands.NewEnforceSchedulesCommand(friday(21, 45))
	report, err := h.Handle(t.Context(), cmd)

	require.NoError(t, err)
	assert.Equal(t, 4, report.Evaluated)
	assert.Equal(t, 1, report.Closed)
	assert.Equal(t, 2, report.Untouched)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 3, actuator.calls[broken.ExternalRef()])
	assert.False(t, actuator.open[altamira.ExternalRef()])
	assert.NotContains(t, actuator.calls, chacao.ExternalRef())
	assert.NotContains(t, actuator.calls, lateNight.ExternalRef())
}

func TestEnforceSchedulesCommandHandler_IsIdempotent(t *testing.T) {
	altamira := newStore(t, "Altamira")
	r, err := store.NewScheduleRule(altamira.ID(), time.Friday, clock(t, 8, 0), clock(t, 22, 0), 30, true)
	require.NoError(t, err)

	catalog := new(MockStoreCatalog)
	catalog.On("ListAll", mock.Anything).Return([]*store.Store{altamira}, nil)
	schedules := new(MockScheduleRepository)
	schedules.On("ListRules", mock.Anything, time.Friday).Return([]store.ScheduleRule{r}, nil)
	schedules.On("ListHolidays", mock.Anything, mock.Anything).Return([]store.HolidayOverride{}, nil)

	actuator := newFakeActuator()
	actuator.open[altamira.ExternalRef()] = false
	h := newEnforcer(catalog, schedules, actuator)

	for range 2 {
		cmd, _ := commands.NewEnforceSchedulesCommand(friday(7, 30))
		report, err := h.Handle(t.Context(), cmd)
		require.NoError(t, err)
		assert.Equal(t, 1, report.AlreadyCompliant)
		assert.False(t, report.Stores[0].Applied)
	}
	assert.False(t, actuator.open[altamira.ExternalRef()])
}

func TestEnforceSchedulesCommandHandler_RetriesTransientFailures(t *testing.T) {
	altamira := newStore(t, "Altamira")
	r, err := store.NewScheduleRule(altamira.ID(), time.Friday, clock(t, 8, 0), clock(t, 22, 0), 30, true)
	require.NoError(t, err)

	catalog := new(MockStoreCatalog)
	catalog.On("ListAll", mock.Anything).Return([]*store.Store{altamira}, nil)
	schedules := new(MockScheduleRepository)
	schedules.On("ListRules", mock.Anything, time.Friday).Return([]store.ScheduleRule{r}, nil)
	schedules.On("ListHolidays", mock.Anything, mock.Anything).Return([]store.HolidayOverride{}, nil)

	actuator := newFakeActuator()
	actuator.failures[altamira.ExternalRef()] = 1
	h := newEnforcer(catalog, schedules, actuator)

	cmd, _ := commands.NewEnforceSchedulesCommand(friday(23, 0))
	report, err := h.Handle(t.Context(), cmd)

	require.NoError(t, err)
	assert.Equal(t, 1, report.Closed)
	assert.Equal(t, 2, actuator.calls[altamira.ExternalRef()])
}

func TestEnforceSchedulesCommandHandler_UnknownStoreIsNotRetried(t *testing.T) {
	ghost := newStore(t, "Ghost")
	r, err := store.NewScheduleRule(ghost.ID(), time.Friday, clock(t, 8, 0), clock(t, 22, 0), 0, true)
	require.NoError(t, err)

	catalog := new(MockStoreCatalog)
	catalog.On("ListAll", mock.Anything).Return([]*store.Store{ghost}, nil)
	schedules := new(MockScheduleRepository)
	schedules.On("ListRules", mock.Anything, time.Friday).Return([]store.ScheduleRule{r}, nil)
	schedules.On("ListHolidays", mock.Anything, mock.Anything).Return([]store.HolidayOverride{}, nil)

	actuator := newFakeActuator()
	actuator.missing[ghost.ExternalRef()] = true
	h := newEnforcer(catalog, schedules, actuator)

	cmd, _ := commands.NewEnforceSchedulesCommand(friday(23, 0))
	report, err := h.Handle(t.Context(), cmd)

	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.ErrorIs(t, report.Stores[0].Err, errs.ErrObjectNotFound)
	assert.Equal(t, 1, actuator.calls[ghost.ExternalRef()])
}

func TestEnforceSchedulesCommandHandler_HolidayBeatsWeeklyRule(t *testing.T) {
	altamira := newStore(t, "Altamira")
	r, err := store.NewScheduleRule(altamira.ID(), time.Friday, clock(t, 0, 0), clock(t, 23, 59), 0, true)
	require.NoError(t, err)
	holiday, err := store.NewHolidayOverride(friday(0, 0), nil, true, nil, nil)
	require.NoError(t, err)

	catalog := new(MockStoreCatalog)
	catalog.On("ListAll", mock.Anything).Return([]*store.Store{altamira}, nil)
	schedules := new(MockScheduleRepository)
	schedules.On("ListRules", mock.Anything, time.Friday).Return([]store.ScheduleRule{r}, nil)
	schedules.On("ListHolidays", mock.Anything, mock.Anything).Return([]store.HolidayOverride{holiday}, nil)

	actuator := newFakeActuator()
	h := newEnforcer(catalog, schedules, actuator)

	cmd, _ := commands.NewEnforceSchedulesCommand(friday(12, 0))
	report, err := h.Handle(t.Context(), cmd)

	require.NoError(t, err)
	require.Len(t, report.Stores, 1)
	assert.Equal(t, services.SourceGlobalHoliday, report.Stores[0].Decision.Source)
	assert.True(t, report.Stores[0].Applied)
}

func TestEnforceSchedulesCommandHandler_ConfigurationErrors(t *testing.T) {
	catalog := new(MockStoreCatalog)
	catalog.On("ListAll", mock.Anything).Return([]*store.Store(nil), errors.New("db down")).Once()
	h := newEnforcer(catalog, new(MockScheduleRepository), newFakeActuator())

	cmd, _ := commands.NewEnforceSchedulesCommand(friday(12, 0))
	_, err := h.Handle(t.Context(), cmd)

	require.Error(t, err)
	catalog.AssertExpectations(t)
}
