package services

import (
	"time"

	"github.com/google/uuid"

	"orderwatch/internal/core/domain/model/kernel"
	"orderwatch/internal/core/domain/model/store"
)

// ClosureSource names the rule that produced a decision.
type ClosureSource string

const (
	SourceNone          ClosureSource = "none"
	SourceStoreHoliday  ClosureSource = "store_holiday"
	SourceGlobalHoliday ClosureSource = "global_holiday"
	SourceSchedule      ClosureSource = "schedule"
)

// ClosureDecision is the outcome of evaluating one store at one instant.
// Asserted is false when no rule applies and the store must be left alone.
type ClosureDecision struct {
	Asserted bool
	Closed   bool
	Source   ClosureSource
}

// EvaluateClosure decides whether a store must be closed at localNow, which
// must already be in the store's time zone.
//
// Precedence: a holiday for the store, then a global holiday, then the first
// active weekly rule for the weekday. Holidays win outright even when a
// weekly rule would allow opening.
func EvaluateClosure(
	storeID uuid.UUID,
	localNow time.Time,
	rules []store.ScheduleRule,
	holidays []store.HolidayOverride,
) ClosureDecision {
	at := kernel.ClockTimeOf(localNow)

	var global *store.HolidayOverride
	for i := range holidays {
		h := holidays[i]
		if !h.AppliesTo(storeID, localNow) {
			continue
		}
		if !h.IsGlobal() {
			return ClosureDecision{Asserted: true, Closed: h.Forbidden(at), Source: SourceStoreHoliday}
		}
		if global == nil {
			global = &h
		}
	}
	if global != nil {
		return ClosureDecision{Asserted: true, Closed: global.Forbidden(at), Source: SourceGlobalHoliday}
	}

	for _, r := range rules {
		if r.StoreID != storeID || r.Weekday != localNow.Weekday() || !r.Active {
			continue
		}
		return ClosureDecision{Asserted: true, Closed: r.Forbidden(at), Source: SourceSchedule}
	}
	return ClosureDecision{Source: SourceNone}
}

// ShouldBeClosed is EvaluateClosure reduced to the enforcement question.
func ShouldBeClosed(storeID uuid.UUID, localNow time.Time, rules []store.ScheduleRule, holidays []store.HolidayOverride) bool {
	d := EvaluateClosure(storeID, localNow, rules, holidays)
	return d.Asserted && d.Closed
}
