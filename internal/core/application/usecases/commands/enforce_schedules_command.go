package commands

import (
	"errors"
	"time"

	"orderwatch/internal/pkg/errs"
	"orderwatch/internal/pkg/guard"
)

var ErrEnforceSchedulesCommandIsNotConstructed = errors.New(
	"EnforceSchedulesCommand must be created via NewEnforceSchedulesCommand constructor",
)

// EnforceSchedulesCommand evaluates every store at one instant.
type EnforceSchedulesCommand struct {
	now   time.Time
	guard guard.ConstructorGuard
}

func NewEnforceSchedulesCommand(now time.Time) (EnforceSchedulesCommand, error) {
	if now.IsZero() {
		return EnforceSchedulesCommand{}, errs.NewValueIsRequiredError("now")
	}
	return EnforceSchedulesCommand{now: now, guard: guard.NewConstructorGuard()}, nil
}

func (c EnforceSchedulesCommand) Validate() error {
	return c.guard.Validate(ErrEnforceSchedulesCommandIsNotConstructed)
}

func (c EnforceSchedulesCommand) Now() time.Time {
	return c.now
}
