package commands

import (
	"errors"
	"time"

	"orderwatch/internal/pkg/errs"
	"orderwatch/internal/pkg/guard"
)

var ErrSanitizeLogsCommandIsNotConstructed = errors.New(
	"SanitizeLogsCommand must be created via NewSanitizeLogsCommand constructor",
)

// SanitizeLogsCommand prunes the status logs of orders created since a
// given instant. The nightly job passes now minus 48 hours.
type SanitizeLogsCommand struct {
	since time.Time
	guard guard.ConstructorGuard
}

func NewSanitizeLogsCommand(since time.Time) (SanitizeLogsCommand, error) {
	if since.IsZero() {
		return SanitizeLogsCommand{}, errs.NewValueIsRequiredError("since")
	}
	return SanitizeLogsCommand{since: since, guard: guard.NewConstructorGuard()}, nil
}

func (c SanitizeLogsCommand) Validate() error {
	return c.guard.Validate(ErrSanitizeLogsCommandIsNotConstructed)
}

func (c SanitizeLogsCommand) Since() time.Time {
	return c.since
}
