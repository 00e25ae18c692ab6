// Package ports defines the contracts between the order tracker core and
// its infrastructure: repositories bound to a unit of work, the distributed
// lock, the observation source, the store actuator and the event publisher.
package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"orderwatch/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Orders are addressed by their console ExternalID.
type OrderRepository interface {
	// Add persists a new order. A concurrent insert of the same ExternalID
	// surfaces as an error wrapping errs.ErrValueIsInvalid.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists all fields of an existing order.
	Update(ctx context.Context, aggregate *order.Order) error

	// GetByExternalID returns errs.ObjectNotFoundError when absent.
	GetByExternalID(ctx context.Context, externalID string) (*order.Order, error)

	// ListNeedingEnrichment returns at most limit orders missing derived
	// fields, in this priority:
	//   - canceled orders without a cancellation reason
	//   - delivered orders without customer coordinates
	//   - delivered orders with a zero gross delivery fee
	ListNeedingEnrichment(ctx context.Context, limit int) ([]*order.Order, error)

	// ListIDsCreatedSince returns the ids of orders created at or after since.
	ListIDsCreatedSince(ctx context.Context, since time.Time) ([]uuid.UUID, error)
}

// StatusLogRepository is the append-only timeline. Only the sanitizer deletes.
type StatusLogRepository interface {
	Append(ctx context.Context, entry order.StatusLogEntry) error

	// ListByOrder returns entries ordered by timestamp, then insertion.
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]order.StatusLogEntry, error)

	// Delete removes the given entries and returns how many rows went away.
	Delete(ctx context.Context, ids []uuid.UUID) (int, error)
}
