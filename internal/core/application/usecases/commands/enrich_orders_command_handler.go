package commands

import (
	"context"
	"fmt"
	"time"

	"orderwatch/internal/core/domain/model/order"
	"orderwatch/internal/core/ports"
)

type EnrichOrdersCommandHandler struct {
	orders   OrderReader
	ingestor ObservationIngestor
}

func NewEnrichOrdersCommandHandler(orders OrderReader, ingestor ObservationIngestor) EnrichOrdersCommandHandler {
	return EnrichOrdersCommandHandler{orders: orders, ingestor: ingestor}
}

// Handle runs bounded enrichment cycles. A batch shorter than the batch
// size means the backlog is drained; otherwise BacklogLeft is reported once
// the cycle cap is hit and the next scheduled run picks up from there.
func (h *EnrichOrdersCommandHandler) Handle(ctx context.Context, cmd EnrichOrdersCommand) (IngestionReport, error) {
	var report IngestionReport
	if err := cmd.Validate(); err != nil {
		return report, err
	}

	for report.Cycles < cmd.MaxCycles() {
		batch, err := h.orders.ListNeedingEnrichment(ctx, cmd.BatchSize())
		if err != nil {
			return report, fmt.Errorf("list enrichment backlog: %w", err)
		}
		report.Cycles++
		report.BacklogLeft = len(batch) == cmd.BatchSize()

		refs := make([]ports.OrderRef, 0, len(batch))
		for _, o := range batch {
			ref := ports.OrderRef{ExternalID: o.ExternalID(), DurationText: o.DurationText()}
			if o.Status() == order.Canceled {
				ref.CancellationReason = order.UnspecifiedCancellationReason
			}
			refs = append(refs, ref)
		}
		if err = h.ingestor.ingestAll(ctx, refs, &report); err != nil {
			return report, err
		}

		if !report.BacklogLeft || report.Cycles == cmd.MaxCycles() {
			break
		}
		if err = sleep(ctx, cmd.Pause()); err != nil {
			return report, err
		}
	}
	return report, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
