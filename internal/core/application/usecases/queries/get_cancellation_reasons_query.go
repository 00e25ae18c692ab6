package queries

import (
	"errors"
	"time"

	"orderwatch/internal/core/ports"
	"orderwatch/internal/pkg/guard"
)

var (
	ErrGetCancellationReasonsQueryIsNotConstructed = errors.New(
		"GetCancellationReasonsQuery must be created via NewGetCancellationReasonsQuery constructor",
	)
)

// GetCancellationReasonsQuery asks how often each cancellation reason occurs
// among the canceled orders matching a filter.
type GetCancellationReasonsQuery struct {
	filter ports.TimelineFilter
	guard  guard.ConstructorGuard
}

// NewGetCancellationReasonsQuery parses params in loc. A nil loc means UTC.
func NewGetCancellationReasonsQuery(params ReportParams, loc *time.Location) (GetCancellationReasonsQuery, error) {
	filter, err := NewTimelineFilter(params, loc)
	if err != nil {
		return GetCancellationReasonsQuery{}, err
	}
	return GetCancellationReasonsQuery{filter: filter, guard: guard.NewConstructorGuard()}, nil
}

func (q GetCancellationReasonsQuery) Validate() error {
	return q.guard.Validate(ErrGetCancellationReasonsQueryIsNotConstructed)
}

func (q GetCancellationReasonsQuery) Filter() ports.TimelineFilter {
	return q.filter
}
