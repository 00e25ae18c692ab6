package commands

import (
	"context"
	"fmt"

	"orderwatch/internal/core/ports"
)

type SyncRecentOrdersCommandHandler struct {
	source   ports.ObservationSource
	ingestor ObservationIngestor
}

func NewSyncRecentOrdersCommandHandler(source ports.ObservationSource, ingestor ObservationIngestor) SyncRecentOrdersCommandHandler {
	return SyncRecentOrdersCommandHandler{source: source, ingestor: ingestor}
}

// Handle re-observes every listed order; unchanged orders cost one
// transaction and produce no timeline entry.
func (h *SyncRecentOrdersCommandHandler) Handle(ctx context.Context, cmd SyncRecentOrdersCommand) (IngestionReport, error) {
	var report IngestionReport
	if err := cmd.Validate(); err != nil {
		return report, err
	}

	refs, err := h.source.RecentOrderRefs(ctx, cmd.Limit())
	if err != nil {
		return report, fmt.Errorf("list recent orders: %w", err)
	}
	err = h.ingestor.ingestAll(ctx, refs, &report)
	return report, err
}
