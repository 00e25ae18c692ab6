package commands

import (
	"errors"

	"orderwatch/internal/pkg/errs"
	"orderwatch/internal/pkg/guard"
)

var ErrSyncRecentOrdersCommandIsNotConstructed = errors.New(
	"SyncRecentOrdersCommand must be created via NewSyncRecentOrdersCommand constructor",
)

// SyncRecentOrdersCommand asks for the newest orders on the console to be
// re-observed. The live monitor issues it every minute.
type SyncRecentOrdersCommand struct {
	limit int
	guard guard.ConstructorGuard
}

func NewSyncRecentOrdersCommand(limit int) (SyncRecentOrdersCommand, error) {
	if limit <= 0 {
		return SyncRecentOrdersCommand{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, "unbounded")
	}
	return SyncRecentOrdersCommand{limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (c SyncRecentOrdersCommand) Validate() error {
	return c.guard.Validate(ErrSyncRecentOrdersCommandIsNotConstructed)
}

func (c SyncRecentOrdersCommand) Limit() int {
	return c.limit
}
