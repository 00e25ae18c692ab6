package queries_test

import (
	"context"

	"orderwatch/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockTimelineReader struct{ mock.Mock }

func (m *MockTimelineReader) ListTimelines(ctx context.Context, filter ports.TimelineFilter) ([]ports.OrderTimeline, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]ports.OrderTimeline), args.Error(1)
}

func (m *MockTimelineReader) GetTimeline(ctx context.Context, externalID string) (ports.OrderTimeline, error) {
	args := m.Called(ctx, externalID)
	return args.Get(0).(ports.OrderTimeline), args.Error(1)
}
