package commands

import (
	"errors"

	"orderwatch/internal/pkg/guard"
)

var ErrIntegritySweepCommandIsNotConstructed = errors.New(
	"IntegritySweepCommand must be created via NewIntegritySweepCommand constructor",
)

// IntegritySweepCommand re-walks the newest maxPages of console history.
type IntegritySweepCommand struct {
	maxPages int
	guard    guard.ConstructorGuard
}

func NewIntegritySweepCommand(maxPages int) (IntegritySweepCommand, error) {
	if err := positive("max_pages", maxPages); err != nil {
		return IntegritySweepCommand{}, err
	}
	return IntegritySweepCommand{maxPages: maxPages, guard: guard.NewConstructorGuard()}, nil
}

func (c IntegritySweepCommand) Validate() error {
	return c.guard.Validate(ErrIntegritySweepCommandIsNotConstructed)
}

func (c IntegritySweepCommand) MaxPages() int { return c.maxPages }
