package queries

import (
	"context"
	"time"

	"orderwatch/internal/core/domain/services"
	"orderwatch/internal/core/ports"
)

// minStageDuration hides stages the console flicked through.
const minStageDuration = 6 * time.Second

type TimelineStage struct {
	Status          string    `json:"status"`
	EnteredAt       time.Time `json:"entered_at"`
	DurationSeconds float64   `json:"duration_seconds"`
}

type GetOrderTimelineQueryResponse struct {
	ExternalID string          `json:"external_id"`
	Stages     []TimelineStage `json:"stages"`
}

// GetOrderTimelineQueryHandler breaks an order's sanitized log into the time
// spent in each status. The last status has no measurable end and is not a
// stage.
type GetOrderTimelineQueryHandler struct {
	reader ports.TimelineReader
}

func NewGetOrderTimelineQueryHandler(reader ports.TimelineReader) GetOrderTimelineQueryHandler {
	return GetOrderTimelineQueryHandler{reader: reader}
}

// Handle returns errs.ObjectNotFoundError for an unknown order.
func (h GetOrderTimelineQueryHandler) Handle(ctx context.Context, query GetOrderTimelineQuery) (GetOrderTimelineQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderTimelineQueryResponse{}, err
	}

	tl, err := h.reader.GetTimeline(ctx, query.ExternalID())
	if err != nil {
		return GetOrderTimelineQueryResponse{}, err
	}

	resp := GetOrderTimelineQueryResponse{ExternalID: tl.ExternalID, Stages: []TimelineStage{}}
	log, _ := services.SanitizeLog(tl.Log)
	for i := 0; i+1 < len(log); i++ {
		d := log[i+1].Timestamp.Sub(log[i].Timestamp)
		if d <= minStageDuration {
			continue
		}
		resp.Stages = append(resp.Stages, TimelineStage{
			Status:          log[i].Status.String(),
			EnteredAt:       log[i].Timestamp,
			DurationSeconds: d.Seconds(),
		})
	}
	return resp, nil
}
