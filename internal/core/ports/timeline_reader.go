package ports

import (
	"context"
	"time"

	"orderwatch/internal/core/domain/model/order"
)

// TimelineFilter narrows reporting queries. Zero fields do not filter.
type TimelineFilter struct {
	// From and To bound the order creation instant, To exclusive.
	From      *time.Time
	To        *time.Time
	StoreName string
	// Search matches an ExternalID prefix or a customer name substring.
	Search string
}

// OrderTimeline is the read model the analytics walk consumes.
type OrderTimeline struct {
	ExternalID   string
	Status       order.Status
	Category     order.Category
	HasCourier   bool
	DistanceKm   *float64
	CreatedAt    time.Time
	DurationText string
	// CancellationReason is empty when none was recorded.
	CancellationReason string
	Log                []order.StatusLogEntry
}

// TimelineReader is the read side used by reporting queries.
type TimelineReader interface {
	ListTimelines(ctx context.Context, filter TimelineFilter) ([]OrderTimeline, error)

	// GetTimeline returns errs.ObjectNotFoundError when the order is unknown.
	GetTimeline(ctx context.Context, externalID string) (OrderTimeline, error)
}
