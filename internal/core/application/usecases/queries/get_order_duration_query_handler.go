package queries

import (
	"context"
	"math"

	"orderwatch/internal/core/domain/services"
	"orderwatch/internal/core/ports"
)

// DurationSource tells where a reported duration came from.
type DurationSource string

const (
	SourceTimeline DurationSource = "timeline"
	SourceFallback DurationSource = "fallback"
	SourceUnknown  DurationSource = "unknown"
)

type GetOrderDurationQueryResponse struct {
	ExternalID   string         `json:"external_id"`
	TotalSeconds float64        `json:"total_seconds"`
	Source       DurationSource `json:"source"`
}

// GetOrderDurationQueryHandler prefers the recorded timeline span and falls
// back to the duration text the console showed.
type GetOrderDurationQueryHandler struct {
	reader ports.TimelineReader
}

func NewGetOrderDurationQueryHandler(reader ports.TimelineReader) GetOrderDurationQueryHandler {
	return GetOrderDurationQueryHandler{reader: reader}
}

// Handle returns errs.ObjectNotFoundError for an unknown order.
func (h GetOrderDurationQueryHandler) Handle(ctx context.Context, query GetOrderDurationQuery) (GetOrderDurationQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderDurationQueryResponse{}, err
	}

	tl, err := h.reader.GetTimeline(ctx, query.ExternalID())
	if err != nil {
		return GetOrderDurationQueryResponse{}, err
	}

	resp := GetOrderDurationQueryResponse{ExternalID: tl.ExternalID, Source: SourceUnknown}
	log, _ := services.SanitizeLog(tl.Log)
	if len(log) >= 2 {
		resp.TotalSeconds = log[len(log)-1].Timestamp.Sub(log[0].Timestamp).Seconds()
		resp.Source = SourceTimeline
		return resp, nil
	}
	if minutes, ok := services.ParseDurationText(tl.DurationText); ok {
		resp.TotalSeconds = math.Round(minutes * 60)
		resp.Source = SourceFallback
	}
	return resp, nil
}
