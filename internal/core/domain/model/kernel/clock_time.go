package kernel

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"orderwatch/internal/pkg/errs"
	"orderwatch/internal/pkg/guard"
)

const MinutesPerDay = 24 * 60

var ErrClockTimeIsNotConstructed = errors.New("ClockTime must be created via NewClockTime or ParseClockTime")

// ClockTime is a time of day with minute precision, stored as minutes since
// midnight. Schedule rules and holiday windows are expressed with it.
type ClockTime struct {
	minutes int
	guard   guard.ConstructorGuard
}

func NewClockTime(hour, minute int) (ClockTime, error) {
	if hour < 0 || hour > 23 {
		return ClockTime{}, errs.NewValueIsOutOfRangeError("hour", hour, 0, 23)
	}
	if minute < 0 || minute > 59 {
		return ClockTime{}, errs.NewValueIsOutOfRangeError("minute", minute, 0, 59)
	}
	return ClockTime{minutes: hour*60 + minute, guard: guard.NewConstructorGuard()}, nil
}

// ParseClockTime accepts "HH:MM" and "HH:MM:SS" (seconds are ignored),
// the two forms the schedule tables have held over time.
func ParseClockTime(s string) (ClockTime, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return ClockTime{}, errs.NewValueIsInvalidErrorWithCause("clock time", fmt.Errorf("%q is not HH:MM", s))
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return ClockTime{}, errs.NewValueIsInvalidErrorWithCause("clock time", err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return ClockTime{}, errs.NewValueIsInvalidErrorWithCause("clock time", err)
	}
	return NewClockTime(hour, minute)
}

// ClockTimeOf returns the wall-clock time of t in t's own location.
func ClockTimeOf(t time.Time) ClockTime {
	return ClockTime{minutes: t.Hour()*60 + t.Minute(), guard: guard.NewConstructorGuard()}
}

func (c ClockTime) Validate() error {
	return c.guard.Validate(ErrClockTimeIsNotConstructed)
}

// Minutes returns minutes since midnight.
func (c ClockTime) Minutes() int {
	return c.minutes
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.minutes/60, c.minutes%60)
}
