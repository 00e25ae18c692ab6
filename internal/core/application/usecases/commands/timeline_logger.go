package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"orderwatch/internal/core/domain/model/order"
	"orderwatch/internal/core/ports"
)

// TimelineLogger appends one status log entry per transition. It never
// rewrites history; only the sanitizer removes entries.
type TimelineLogger struct{}

func NewTimelineLogger() TimelineLogger {
	return TimelineLogger{}
}

// RecordTransition appends the transition's target status at its instant.
func (TimelineLogger) RecordTransition(ctx context.Context, logs ports.StatusLogRepository, t order.Transition) error {
	entry := order.StatusLogEntry{
		ID:        uuid.New(),
		OrderID:   t.OrderID,
		Status:    t.To,
		Timestamp: t.At,
	}
	if err := logs.Append(ctx, entry); err != nil {
		return fmt.Errorf("append %s to timeline: %w", t.To, err)
	}
	return nil
}
