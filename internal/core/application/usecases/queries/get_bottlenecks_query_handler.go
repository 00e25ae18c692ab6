package queries

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"orderwatch/internal/core/domain/services"
	"orderwatch/internal/core/ports"
)

// shardSize is how many timelines one accumulator folds before merging.
const shardSize = 500

// GetBottlenecksQueryHandler loads the filtered timelines and folds them
// into per-category accumulators. Shards are folded concurrently and merged,
// so the report does not depend on the shard layout.
type GetBottlenecksQueryHandler struct {
	reader ports.TimelineReader
}

func NewGetBottlenecksQueryHandler(reader ports.TimelineReader) GetBottlenecksQueryHandler {
	return GetBottlenecksQueryHandler{reader: reader}
}

func (h GetBottlenecksQueryHandler) Handle(ctx context.Context, query GetBottlenecksQuery) (services.BottleneckReport, error) {
	if err := query.Validate(); err != nil {
		return services.BottleneckReport{}, err
	}

	timelines, err := h.reader.ListTimelines(ctx, query.Filter())
	if err != nil {
		return services.BottleneckReport{}, fmt.Errorf("list timelines: %w", err)
	}

	shards := make([]services.BottleneckAccumulator, (len(timelines)+shardSize-1)/shardSize)
	var g errgroup.Group
	for i := range shards {
		lo := i * shardSize
		hi := min(lo+shardSize, len(timelines))
		g.Go(func() error {
			for _, tl := range timelines[lo:hi] {
				shards[i].AddOrder(toServiceTimeline(tl))
			}
			return nil
		})
	}
	_ = g.Wait()

	var total services.BottleneckAccumulator
	for _, s := range shards {
		total = total.Merge(s)
	}
	return total.Report(), nil
}

func toServiceTimeline(tl ports.OrderTimeline) services.OrderTimeline {
	return services.OrderTimeline{
		Status:     tl.Status,
		Category:   tl.Category,
		HasCourier: tl.HasCourier,
		DistanceKm: tl.DistanceKm,
		CreatedAt:  tl.CreatedAt,
		Log:        tl.Log,
	}
}
