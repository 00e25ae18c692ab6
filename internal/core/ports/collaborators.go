package ports

import (
	"context"
	"time"

	"orderwatch/internal/core/domain/model/order"
)

// Locker is a non-blocking, expiring mutual exclusion keyed by job name.
type Locker interface {
	// TryAcquire returns a release token, or errs.ErrLockNotAcquired when
	// another holder owns the key. It never waits.
	TryAcquire(ctx context.Context, name string, ttl time.Duration) (string, error)

	// Release frees the key only if token still owns it.
	Release(ctx context.Context, name, token string) error

	// ForceRelease frees the key regardless of owner. Operators use it to
	// clear a lock left by a crashed run before its TTL expires.
	ForceRelease(ctx context.Context, name string) error
}

// OrderRef is one row of the console's order list.
type OrderRef struct {
	ExternalID   string
	DurationText string

	// CancellationReason is used when the fetched observation has none.
	CancellationReason string
}

// ObservationSource is the external collector. Failures to reach it wrap
// errs.ErrCollectorUnavailable.
type ObservationSource interface {
	// RecentOrderRefs returns the newest orders first.
	RecentOrderRefs(ctx context.Context, limit int) ([]OrderRef, error)

	// HistoricalOrderRefs returns one page of history, starting at page 1.
	// An empty page means the history is exhausted.
	HistoricalOrderRefs(ctx context.Context, page int) ([]OrderRef, error)

	FetchObservation(ctx context.Context, externalID string) (order.Observation, error)
}

// Actuator opens and closes stores in the external console.
type Actuator interface {
	// Enforce drives the store to desiredOpen and reports whether anything
	// was changed. A store already in the desired state yields false.
	Enforce(ctx context.Context, storeRef string, desiredOpen bool) (bool, error)
}

// EventPublisher publishes integration events after their transaction commits.
type EventPublisher interface {
	PublishStatusChanged(ctx context.Context, event order.StatusChanged) error
}
