package store

import (
	"time"

	"github.com/google/uuid"

	"orderwatch/internal/core/domain/model/kernel"
	"orderwatch/internal/pkg/errs"
)

// HolidayBufferMinutes is the closing buffer applied to a holiday window.
const HolidayBufferMinutes = 60

// HolidayOverride replaces the weekly rule of one store, or of every store
// when StoreID is nil, on a single calendar date.
type HolidayOverride struct {
	Date         time.Time
	StoreID      *uuid.UUID
	AllDayClosed bool
	Open         *kernel.ClockTime
	Close        *kernel.ClockTime
}

// NewHolidayOverride normalizes date to midnight UTC of its calendar day.
// A window needs both ends; an override with neither is closed all day.
func NewHolidayOverride(
	date time.Time,
	storeID *uuid.UUID,
	allDayClosed bool,
	open, closeAt *kernel.ClockTime,
) (HolidayOverride, error) {
	if date.IsZero() {
		return HolidayOverride{}, errs.NewValueIsRequiredError("date")
	}
	if (open == nil) != (closeAt == nil) {
		return HolidayOverride{}, errs.NewValueIsInvalidError("holiday window needs both open and close")
	}
	if storeID != nil && *storeID == uuid.Nil {
		storeID = nil
	}
	y, m, d := date.Date()
	return HolidayOverride{
		Date:         time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		StoreID:      storeID,
		AllDayClosed: allDayClosed || open == nil,
		Open:         open,
		Close:        closeAt,
	}, nil
}

// IsGlobal reports whether the override applies to all stores.
func (h HolidayOverride) IsGlobal() bool {
	return h.StoreID == nil
}

// AppliesTo reports whether the override targets storeID on the calendar
// date of localNow.
func (h HolidayOverride) AppliesTo(storeID uuid.UUID, localNow time.Time) bool {
	y, m, d := localNow.Date()
	hy, hm, hd := h.Date.Date()
	if y != hy || m != hm || d != hd {
		return false
	}
	return h.IsGlobal() || *h.StoreID == storeID
}

// Forbidden reports whether the store must be closed at the given local time.
func (h HolidayOverride) Forbidden(at kernel.ClockTime) bool {
	if h.AllDayClosed || h.Open == nil || h.Close == nil {
		return true
	}
	return forbidden(at, *h.Open, *h.Close, HolidayBufferMinutes)
}
