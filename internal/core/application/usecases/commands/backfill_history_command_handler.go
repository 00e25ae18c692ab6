package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"orderwatch/internal/core/ports"
	"orderwatch/internal/pkg/errs"
)

// BackfillHistoryCommandHandler imports the console history. Orders that
// are already complete, with customer coordinates and delivery minutes
// known, are skipped without a fetch.
type BackfillHistoryCommandHandler struct {
	source   ports.ObservationSource
	orders   OrderReader
	ingestor ObservationIngestor
	logger   *slog.Logger
}

func NewBackfillHistoryCommandHandler(
	source ports.ObservationSource,
	orders OrderReader,
	ingestor ObservationIngestor,
	logger *slog.Logger,
) BackfillHistoryCommandHandler {
	return BackfillHistoryCommandHandler{
		source:   source,
		orders:   orders,
		ingestor: ingestor,
		logger:   logger.With("component", "backfill"),
	}
}

func (h *BackfillHistoryCommandHandler) Handle(ctx context.Context, cmd BackfillHistoryCommand) (IngestionReport, error) {
	var report IngestionReport
	if err := cmd.Validate(); err != nil {
		return report, err
	}

	for page := cmd.StartPage(); cmd.MaxPages() == 0 || report.PagesVisited < cmd.MaxPages(); page++ {
		refs, err := h.source.HistoricalOrderRefs(ctx, page)
		if err != nil {
			return report, fmt.Errorf("list history page %d: %w", page, err)
		}
		if len(refs) == 0 {
			break
		}
		report.PagesVisited++

		pending := make([]ports.OrderRef, 0, len(refs))
		for _, ref := range refs {
			existing, err := h.orders.GetByExternalID(ctx, ref.ExternalID)
			switch {
			case err == nil && existing.IsEnriched():
				report.Skipped++
			case err == nil || errors.Is(err, errs.ErrObjectNotFound):
				pending = append(pending, ref)
			default:
				return report, fmt.Errorf("look up %s: %w", ref.ExternalID, err)
			}
		}

		if err = h.ingestor.ingestAll(ctx, pending, &report); err != nil {
			return report, err
		}
		h.logger.InfoContext(ctx, "Backfill page done", "page", page, "listed", len(refs), "reconciled", report.Reconciled)
	}
	return report, nil
}
