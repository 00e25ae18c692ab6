package party

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"orderwatch/internal/pkg/errs"
	"orderwatch/internal/pkg/guard"
)

var ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier constructor")

// Courier is a driver known only by the name the console prints.
type Courier struct {
	id    uuid.UUID
	name  string
	guard guard.ConstructorGuard
}

func NewCourier(id uuid.UUID, name string) (*Courier, error) {
	if id == uuid.Nil {
		return nil, errs.NewValueIsRequiredError("id")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errs.NewValueIsRequiredError("name")
	}
	return &Courier{id: id, name: name, guard: guard.NewConstructorGuard()}, nil
}

func (c *Courier) Validate() error {
	if c == nil {
		return ErrCourierIsNotConstructed
	}
	return c.guard.Validate(ErrCourierIsNotConstructed)
}

func (c *Courier) ID() uuid.UUID { return c.id }
func (c *Courier) Name() string  { return c.name }
