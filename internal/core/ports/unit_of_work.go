package ports

import (
	"context"
)

// UnitOfWorkFactory hands out a fresh UnitOfWork per reconciled order or
// sanitized log. Instances are not shared between goroutines.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is the transaction boundary of one order. Reconciliation
// commits once per order so a failed order never takes its batch down.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	// Rollback is safe to defer; after Commit it returns an error callers ignore.
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
	StatusLogRepository() StatusLogRepository
	StoreRepository() StoreRepository
	CustomerRepository() CustomerRepository
	CourierRepository() CourierRepository
}
