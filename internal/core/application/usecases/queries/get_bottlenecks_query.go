// Package queries contains the read side used by reporting: bottleneck
// analytics and cancellation reasons over a filtered order population, and
// per-order durations and stage breakdowns.
// Queries return read models and never mutate state.
package queries

import (
	"errors"
	"strings"
	"time"

	"orderwatch/internal/core/ports"
	"orderwatch/internal/pkg/errs"
	"orderwatch/internal/pkg/guard"
)

const dateLayout = "2006-01-02"

var (
	ErrGetBottlenecksQueryIsNotConstructed = errors.New(
		"GetBottlenecksQuery must be created via NewGetBottlenecksQuery constructor",
	)
)

// ReportParams is the raw filter as it arrives from HTTP or the CLI.
// Dates are calendar days (YYYY-MM-DD) in the reporting time zone; the end
// day is inclusive.
type ReportParams struct {
	StartDate string
	EndDate   string
	StoreName string
	Search    string
}

// GetBottlenecksQuery asks for per-state average dwell times over the
// orders matching a filter.
//
// Example:
//
//	query, err := NewGetBottlenecksQuery(ReportParams{StartDate: "2025-03-01", EndDate: "2025-03-31"}, caracas)
//	if err != nil {
//	    return err // malformed date
//	}
//
//	report, err := handler.Handle(ctx, query)
//	for _, bar := range report.Delivery {
//	    fmt.Printf("%s: %.0fs\n", bar.Status, bar.AvgDurationSeconds)
//	}
type GetBottlenecksQuery struct {
	filter ports.TimelineFilter
	guard  guard.ConstructorGuard
}

// NewGetBottlenecksQuery parses params in loc. A nil loc means UTC.
func NewGetBottlenecksQuery(params ReportParams, loc *time.Location) (GetBottlenecksQuery, error) {
	filter, err := NewTimelineFilter(params, loc)
	if err != nil {
		return GetBottlenecksQuery{}, err
	}
	return GetBottlenecksQuery{filter: filter, guard: guard.NewConstructorGuard()}, nil
}

func (q GetBottlenecksQuery) Validate() error {
	return q.guard.Validate(ErrGetBottlenecksQueryIsNotConstructed)
}

func (q GetBottlenecksQuery) Filter() ports.TimelineFilter {
	return q.filter
}

// NewTimelineFilter converts calendar-day bounds into a half-open instant
// range [start 00:00, end+1 00:00) in loc.
func NewTimelineFilter(params ReportParams, loc *time.Location) (ports.TimelineFilter, error) {
	if loc == nil {
		loc = time.UTC
	}
	filter := ports.TimelineFilter{
		StoreName: strings.TrimSpace(params.StoreName),
		Search:    strings.TrimSpace(params.Search),
	}

	if s := strings.TrimSpace(params.StartDate); s != "" {
		from, err := time.ParseInLocation(dateLayout, s, loc)
		if err != nil {
			return ports.TimelineFilter{}, errs.NewValueIsInvalidErrorWithCause("start_date", err)
		}
		filter.From = &from
	}
	if s := strings.TrimSpace(params.EndDate); s != "" {
		end, err := time.ParseInLocation(dateLayout, s, loc)
		if err != nil {
			return ports.TimelineFilter{}, errs.NewValueIsInvalidErrorWithCause("end_date", err)
		}
		to := end.AddDate(0, 0, 1)
		filter.To = &to
	}

	if filter.From != nil && filter.To != nil && !filter.From.Before(*filter.To) {
		return ports.TimelineFilter{}, errs.NewValueIsInvalidError("start_date must not be after end_date")
	}
	return filter, nil
}
