package commands

import (
	"errors"
	"time"

	"orderwatch/internal/pkg/errs"
	"orderwatch/internal/pkg/guard"
)

var ErrEnrichOrdersCommandIsNotConstructed = errors.New(
	"EnrichOrdersCommand must be created via NewEnrichOrdersCommand constructor",
)

// EnrichOrdersCommand re-observes orders missing derived fields in batches.
// One invocation runs at most maxCycles batches, pausing between them while
// a full batch suggests more backlog.
type EnrichOrdersCommand struct {
	batchSize int
	maxCycles int
	pause     time.Duration
	guard     guard.ConstructorGuard
}

func NewEnrichOrdersCommand(batchSize, maxCycles int, pause time.Duration) (EnrichOrdersCommand, error) {
	if err := errors.Join(
		positive("batch_size", batchSize),
		positive("max_cycles", maxCycles),
	); err != nil {
		return EnrichOrdersCommand{}, err
	}
	if pause < 0 {
		return EnrichOrdersCommand{}, errs.NewValueIsOutOfRangeError("pause", pause, 0, "unbounded")
	}
	return EnrichOrdersCommand{batchSize: batchSize, maxCycles: maxCycles, pause: pause, guard: guard.NewConstructorGuard()}, nil
}

func (c EnrichOrdersCommand) Validate() error {
	return c.guard.Validate(ErrEnrichOrdersCommandIsNotConstructed)
}

func (c EnrichOrdersCommand) BatchSize() int       { return c.batchSize }
func (c EnrichOrdersCommand) MaxCycles() int       { return c.maxCycles }
func (c EnrichOrdersCommand) Pause() time.Duration { return c.pause }

func positive(name string, v int) error {
	if v <= 0 {
		return errs.NewValueIsOutOfRangeError(name, v, 1, "unbounded")
	}
	return nil
}
