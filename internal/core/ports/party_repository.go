package ports

import (
	"context"

	"orderwatch/internal/core/domain/model/party"
)

type CustomerRepository interface {
	Add(ctx context.Context, c *party.Customer) error
	Update(ctx context.Context, c *party.Customer) error
	// GetByName returns errs.ObjectNotFoundError when absent.
	GetByName(ctx context.Context, name string) (*party.Customer, error)
}

type CourierRepository interface {
	Add(ctx context.Context, c *party.Courier) error
	// GetByName returns errs.ObjectNotFoundError when absent.
	GetByName(ctx context.Context, name string) (*party.Courier, error)
}
