package queries

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"orderwatch/internal/core/domain/model/order"
	"orderwatch/internal/core/ports"
)

type ReasonCount struct {
	Reason string `json:"reason"`
	Count  int    `json:"count"`
}

// GetCancellationReasonsQueryHandler counts canceled orders per recorded
// reason, most frequent first. Orders without a reason are left out.
type GetCancellationReasonsQueryHandler struct {
	reader ports.TimelineReader
}

func NewGetCancellationReasonsQueryHandler(reader ports.TimelineReader) GetCancellationReasonsQueryHandler {
	return GetCancellationReasonsQueryHandler{reader: reader}
}

func (h GetCancellationReasonsQueryHandler) Handle(ctx context.Context, query GetCancellationReasonsQuery) ([]ReasonCount, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	timelines, err := h.reader.ListTimelines(ctx, query.Filter())
	if err != nil {
		return nil, fmt.Errorf("list timelines: %w", err)
	}

	counts := make(map[string]int)
	for _, tl := range timelines {
		if tl.Status == order.Canceled && tl.CancellationReason != "" {
			counts[tl.CancellationReason]++
		}
	}

	out := make([]ReasonCount, 0, len(counts))
	for reason, n := range counts {
		out = append(out, ReasonCount{Reason: reason, Count: n})
	}
	slices.SortFunc(out, func(a, b ReasonCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Reason, b.Reason)
	})
	return out, nil
}
