package store

import (
	"time"

	"github.com/google/uuid"

	"orderwatch/internal/core/domain/model/kernel"
	"orderwatch/internal/pkg/errs"
)

// ScheduleRule is the weekly opening window of a store for one day.
type ScheduleRule struct {
	StoreID       uuid.UUID
	Weekday       time.Weekday
	Open          kernel.ClockTime
	Close         kernel.ClockTime
	BufferMinutes int
	Active        bool
}

func NewScheduleRule(
	storeID uuid.UUID,
	weekday time.Weekday,
	open, closeAt kernel.ClockTime,
	bufferMinutes int,
	active bool,
) (ScheduleRule, error) {
	if storeID == uuid.Nil {
		return ScheduleRule{}, errs.NewValueIsRequiredError("store_id")
	}
	if weekday < time.Sunday || weekday > time.Saturday {
		return ScheduleRule{}, errs.NewValueIsOutOfRangeError("weekday", int(weekday), 0, 6)
	}
	if err := open.Validate(); err != nil {
		return ScheduleRule{}, err
	}
	if err := closeAt.Validate(); err != nil {
		return ScheduleRule{}, err
	}
	if bufferMinutes < 0 || bufferMinutes > kernel.MinutesPerDay {
		return ScheduleRule{}, errs.NewValueIsOutOfRangeError("buffer_minutes", bufferMinutes, 0, kernel.MinutesPerDay)
	}
	return ScheduleRule{
		StoreID:       storeID,
		Weekday:       weekday,
		Open:          open,
		Close:         closeAt,
		BufferMinutes: bufferMinutes,
		Active:        active,
	}, nil
}

// Forbidden reports whether the store must be closed at the given local time
// of day: before opening, or inside the closing buffer.
func (r ScheduleRule) Forbidden(at kernel.ClockTime) bool {
	return forbidden(at, r.Open, r.Close, r.BufferMinutes)
}

func forbidden(at, open, closeAt kernel.ClockTime, bufferMinutes int) bool {
	now := at.Minutes()
	return now < open.Minutes() || now >= closeAt.Minutes()-bufferMinutes
}
