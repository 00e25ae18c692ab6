package queries_test

import (
	"testing"
	"time"

	"orderwatch/internal/core/application/usecases/queries"
	"orderwatch/internal/core/domain/model/order"
	"orderwatch/internal/core/ports"
	"orderwatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetOrderTimelineQuery(t *testing.T) {
	_, err := queries.NewGetOrderTimelineQuery("")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	q, err := queries.NewGetOrderTimelineQuery(" 42")
	require.NoError(t, err)
	assert.Equal(t, "42", q.ExternalID())

	assert.ErrorIs(t, queries.GetOrderTimelineQuery{}.Validate(), queries.ErrGetOrderTimelineQueryIsNotConstructed)
}

func TestGetOrderTimelineQueryHandler_Handle(t *testing.T) {
	t.Run("should break the log into stages", func(t *testing.T) {
		tl := timeline("1", order.Delivered, order.CategoryDelivery,
			order.Pending, time.Duration(0),
			order.Processing, 5*time.Minute,
			order.Confirmed, 5*time.Minute+3*time.Second,
			order.OnTheWay, 20*time.Minute,
			order.Delivered, 40*time.Minute,
			order.OnTheWay, 50*time.Minute)
		reader := new(MockTimelineReader)
		reader.On("GetTimeline", t.Context(), "1").Return(tl, nil).Once()
		q, _ := queries.NewGetOrderTimelineQuery("1")

		got, err := queries.NewGetOrderTimelineQueryHandler(reader).Handle(t.Context(), q)

		require.NoError(t, err)
		assert.Equal(t, "1", got.ExternalID)
		assert.Equal(t, []queries.TimelineStage{
			{Status: "pending", EnteredAt: t0, DurationSeconds: 300},
			{Status: "confirmed", EnteredAt: t0.Add(5*time.Minute + 3*time.Second), DurationSeconds: 897},
			{Status: "on_the_way", EnteredAt: t0.Add(20 * time.Minute), DurationSeconds: 1200},
		}, got.Stages)
	})

	t.Run("should return no stages for a single entry", func(t *testing.T) {
		reader := new(MockTimelineReader)
		reader.On("GetTimeline", t.Context(), "2").
			Return(timeline("2", order.Pending, order.CategoryDelivery, order.Pending, time.Duration(0)), nil).Once()
		q, _ := queries.NewGetOrderTimelineQuery("2")

		got, err := queries.NewGetOrderTimelineQueryHandler(reader).Handle(t.Context(), q)

		require.NoError(t, err)
		assert.Empty(t, got.Stages)
		assert.NotNil(t, got.Stages)
	})

	t.Run("should report unknown orders", func(t *testing.T) {
		reader := new(MockTimelineReader)
		reader.On("GetTimeline", t.Context(), "404").
			Return(ports.OrderTimeline{}, errs.NewObjectNotFoundError("external_id", "404")).Once()
		q, _ := queries.NewGetOrderTimelineQuery("404")

		_, err := queries.NewGetOrderTimelineQueryHandler(reader).Handle(t.Context(), q)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}
