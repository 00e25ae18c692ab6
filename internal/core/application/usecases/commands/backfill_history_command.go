package commands

import (
	"errors"

	"orderwatch/internal/pkg/errs"
	"orderwatch/internal/pkg/guard"
)

var ErrBackfillHistoryCommandIsNotConstructed = errors.New(
	"BackfillHistoryCommand must be created via NewBackfillHistoryCommand constructor",
)

// BackfillHistoryCommand walks the console history page by page.
// A zero maxPages means until an empty page is returned.
type BackfillHistoryCommand struct {
	startPage int
	maxPages  int
	guard     guard.ConstructorGuard
}

func NewBackfillHistoryCommand(startPage, maxPages int) (BackfillHistoryCommand, error) {
	if startPage < 1 {
		return BackfillHistoryCommand{}, errs.NewValueIsOutOfRangeError("start_page", startPage, 1, "unbounded")
	}
	if maxPages < 0 {
		return BackfillHistoryCommand{}, errs.NewValueIsOutOfRangeError("max_pages", maxPages, 0, "unbounded")
	}
	return BackfillHistoryCommand{startPage: startPage, maxPages: maxPages, guard: guard.NewConstructorGuard()}, nil
}

func (c BackfillHistoryCommand) Validate() error {
	return c.guard.Validate(ErrBackfillHistoryCommandIsNotConstructed)
}

func (c BackfillHistoryCommand) StartPage() int { return c.startPage }
func (c BackfillHistoryCommand) MaxPages() int  { return c.maxPages }
