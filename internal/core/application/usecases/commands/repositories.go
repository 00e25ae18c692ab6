// Package commands contains the operations that change tracked state:
// reconciling observations, pulling them from the collector, pruning status
// logs and enforcing store schedules. Every command follows the same shape:
// a constructed command object, a handler with explicit dependencies, and a
// transaction per order.
package commands

import (
	"context"
	"time"

	"github.com/google/uuid"

	"orderwatch/internal/core/domain/model/order"
	"orderwatch/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	StatusLogRepoFactory interface {
		StatusLogRepository() ports.StatusLogRepository
	}

	// PartyRepoFactory gives access to the lazily created entities an
	// observation references.
	PartyRepoFactory interface {
		StoreRepository() ports.StoreRepository
		CustomerRepository() ports.CustomerRepository
		CourierRepository() ports.CourierRepository
	}

	// ReconcileUoW spans everything one observation can touch.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   existing, err := uow.OrderRepository().GetByExternalID(ctx, id)
	//   // ... resolve parties, reconcile, append to the timeline
	//
	//   err = uow.Commit(ctx)
	ReconcileUoW interface {
		TxManager
		OrderRepoFactory
		StatusLogRepoFactory
		PartyRepoFactory
	}

	ReconcileUoWFactory interface {
		Create() ReconcileUoW
	}

	// TimelineUoW manages transactions that only touch the status log.
	TimelineUoW interface {
		TxManager
		StatusLogRepoFactory
	}

	TimelineUoWFactory interface {
		Create() TimelineUoW
	}
)

// OrderReader reads orders outside any transaction. Collector-driven
// commands use it to decide which orders to fetch.
type OrderReader interface {
	GetByExternalID(ctx context.Context, externalID string) (*order.Order, error)
	ListNeedingEnrichment(ctx context.Context, limit int) ([]*order.Order, error)
	ListIDsCreatedSince(ctx context.Context, since time.Time) ([]uuid.UUID, error)
}
