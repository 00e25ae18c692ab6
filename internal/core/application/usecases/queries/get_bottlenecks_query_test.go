package queries_test

import (
	"fmt"
	"testing"
	"time"

	"orderwatch/internal/core/application/usecases/queries"
	"orderwatch/internal/core/domain/model/order"
	"orderwatch/internal/core/domain/services"
	"orderwatch/internal/core/ports"
	"orderwatch/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func timeline(externalID string, final order.Status, cat order.Category, steps ...any) ports.OrderTimeline {
	tl := ports.OrderTimeline{ExternalID: externalID, Status: final, Category: cat, CreatedAt: t0}
	for i := 0; i+1 < len(steps); i += 2 {
		tl.Log = append(tl.Log, order.StatusLogEntry{
			ID:        uuid.New(),
			Status:    steps[i].(order.Status),
			Timestamp: t0.Add(steps[i+1].(time.Duration)),
		})
	}
	return tl
}

func TestNewTimelineFilter(t *testing.T) {
	caracas, err := time.LoadLocation("America/Caracas")
	require.NoError(t, err)

	filter, err := queries.NewTimelineFilter(queries.ReportParams{
		StartDate: "2025-03-01", EndDate: "2025-03-31", StoreName: " Altamira ", Search: "10",
	}, caracas)
	require.NoError(t, err)

	require.NotNil(t, filter.From)
	require.NotNil(t, filter.To)
	assert.Equal(t, time.Date(2025, 3, 1, 4, 0, 0, 0, time.UTC), filter.From.UTC())
	assert.Equal(t, time.Date(2025, 4, 1, 4, 0, 0, 0, time.UTC), filter.To.UTC())
	assert.Equal(t, "Altamira", filter.StoreName)
	assert.Equal(t, "10", filter.Search)
}

func TestNewTimelineFilter_Errors(t *testing.T) {
	_, err := queries.NewTimelineFilter(queries.ReportParams{StartDate: "14/03/2025"}, nil)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = queries.NewTimelineFilter(queries.ReportParams{StartDate: "2025-03-15", EndDate: "2025-03-01"}, nil)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	filter, err := queries.NewTimelineFilter(queries.ReportParams{}, nil)
	require.NoError(t, err)
	assert.Nil(t, filter.From)
	assert.Nil(t, filter.To)
}

func TestGetBottlenecksQuery_NotConstructedViaConstructor(t *testing.T) {
	h := queries.NewGetBottlenecksQueryHandler(new(MockTimelineReader))
	_, err := h.Handle(t.Context(), queries.GetBottlenecksQuery{})
	require.ErrorIs(t, err, queries.ErrGetBottlenecksQueryIsNotConstructed)
}

func TestGetBottlenecksQueryHandler_Handle(t *testing.T) {
	ctx := t.Context()
	query, err := queries.NewGetBottlenecksQuery(queries.ReportParams{}, nil)
	require.NoError(t, err)

	timelines := []ports.OrderTimeline{
		timeline("1", order.Delivered, order.CategoryDelivery,
			order.Pending, time.Duration(0),
			order.Processing, 5*time.Minute,
			order.Processing, 5*time.Minute,
			order.Delivered, 40*time.Minute),
		timeline("2", order.Delivered, order.CategoryDelivery,
			order.Pending, time.Duration(0),
			order.Processing, 3*time.Minute,
			order.Delivered, 28*time.Minute),
		// Zombie: ten hours in processing never counts.
		timeline("3", order.Delivered, order.CategoryDelivery,
			order.Processing, time.Duration(0),
			order.Delivered, 10*time.Hour),
		timeline("4", order.Canceled, order.CategoryUnknown,
			order.Pending, time.Duration(0),
			order.Canceled, 20*time.Minute),
	}
	reader := new(MockTimelineReader)
	reader.On("ListTimelines", ctx, query.Filter()).Return(timelines, nil).Once()

	report, err := queries.NewGetBottlenecksQueryHandler(reader).Handle(ctx, query)

	require.NoError(t, err)
	assert.Equal(t, []services.Bar{
		{Status: "pending", AvgDurationSeconds: 240},
		{Status: "processing", AvgDurationSeconds: 1800},
		{Status: services.DeliveredBar, AvgDurationSeconds: 2040},
		{Status: services.CanceledBar, AvgDurationSeconds: 1200},
	}, report.Delivery)
	assert.Empty(t, report.Pickup)
	reader.AssertExpectations(t)
}

func TestGetBottlenecksQueryHandler_ShardingDoesNotChangeTheReport(t *testing.T) {
	ctx := t.Context()
	query, _ := queries.NewGetBottlenecksQuery(queries.ReportParams{}, nil)

	timelines := make([]ports.OrderTimeline, 0, 1234)
	for i := range 1234 {
		timelines = append(timelines, timeline(fmt.Sprint(i), order.Delivered, order.CategoryPickup,
			order.Pending, time.Duration(0),
			order.Confirmed, time.Duration(i%7+1)*time.Minute,
			order.Delivered, 30*time.Minute))
	}
	reader := new(MockTimelineReader)
	reader.On("ListTimelines", mock.Anything, mock.Anything).Return(timelines, nil).Once()

	report, err := queries.NewGetBottlenecksQueryHandler(reader).Handle(ctx, query)
	require.NoError(t, err)

	var want services.BottleneckAccumulator
	for _, tl := range timelines {
		want.AddOrder(services.OrderTimeline{Status: tl.Status, Category: tl.Category, CreatedAt: tl.CreatedAt, Log: tl.Log})
	}
	assert.Equal(t, want.Report(), report)
	require.NotEmpty(t, report.Pickup)
	assert.Equal(t, services.CompletedBar, report.Pickup[len(report.Pickup)-1].Status)
}
