package party

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"orderwatch/internal/pkg/errs"
	"orderwatch/internal/pkg/guard"
)

var ErrCustomerIsNotConstructed = errors.New("Customer must be created via NewCustomer constructor")

type Customer struct {
	id    uuid.UUID
	name  string
	phone string
	guard guard.ConstructorGuard
}

func NewCustomer(id uuid.UUID, name, phone string) (*Customer, error) {
	if id == uuid.Nil {
		return nil, errs.NewValueIsRequiredError("id")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errs.NewValueIsRequiredError("name")
	}
	return &Customer{id: id, name: name, phone: strings.TrimSpace(phone), guard: guard.NewConstructorGuard()}, nil
}

func (c *Customer) Validate() error {
	if c == nil {
		return ErrCustomerIsNotConstructed
	}
	return c.guard.Validate(ErrCustomerIsNotConstructed)
}

// RefreshPhone replaces the phone when a non-empty one was observed and
// reports whether it changed.
func (c *Customer) RefreshPhone(phone string) bool {
	phone = strings.TrimSpace(phone)
	if phone == "" || phone == c.phone {
		return false
	}
	c.phone = phone
	return true
}

func (c *Customer) ID() uuid.UUID { return c.id }
func (c *Customer) Name() string  { return c.name }
func (c *Customer) Phone() string { return c.phone }
