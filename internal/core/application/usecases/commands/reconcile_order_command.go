package commands

import (
	"errors"
	"time"

	"orderwatch/internal/core/domain/model/order"
	"orderwatch/internal/pkg/guard"
)

var (
	ErrReconcileOrderCommandIsNotConstructed = errors.New(
		"ReconcileOrderCommand must be created via NewReconcileOrderCommand constructor",
	)
	ErrObservedAtIsRequired = errors.New("observed at is required")
)

// ReconcileOrderCommand carries one observation of one order.
//
// Example:
//
//	cmd, err := NewReconcileOrderCommand(obs, time.Now())
//	if err != nil {
//	    return fmt.Errorf("invalid observation: %w", err)
//	}
//
//	res, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("reconcile %s: %w", obs.ExternalID, err)
//	}
//	if res.Transitioned {
//	    fmt.Printf("order %s is now %s", res.ExternalID, res.Status)
//	}
type ReconcileOrderCommand struct { //nolint:recvcheck //using for validation
	observation order.Observation
	observedAt  time.Time

	guard guard.ConstructorGuard
}

// NewReconcileOrderCommand validates that the observation names an order.
// observedAt is the instant any status change is recorded with.
func NewReconcileOrderCommand(observation order.Observation, observedAt time.Time) (ReconcileOrderCommand, error) {
	cmd := ReconcileOrderCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setObservation(observation),
		cmd.setObservedAt(observedAt),
	); err != nil {
		return ReconcileOrderCommand{}, err
	}
	return cmd, nil
}

func (c ReconcileOrderCommand) Validate() error {
	return c.guard.Validate(ErrReconcileOrderCommandIsNotConstructed)
}

func (c ReconcileOrderCommand) Observation() order.Observation {
	return c.observation
}

func (c ReconcileOrderCommand) ObservedAt() time.Time {
	return c.observedAt
}

func (c *ReconcileOrderCommand) setObservation(o order.Observation) error {
	if err := o.Validate(); err != nil {
		return err
	}
	c.observation = o
	return nil
}

func (c *ReconcileOrderCommand) setObservedAt(t time.Time) error {
	if t.IsZero() {
		return ErrObservedAtIsRequired
	}
	c.observedAt = t
	return nil
}
