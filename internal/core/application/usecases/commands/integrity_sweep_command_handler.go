package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"orderwatch/internal/core/ports"
	"orderwatch/internal/pkg/errs"
)

// IntegritySweepCommandHandler forces re-reconciliation of recent orders
// that are missing, still open, have no amount, or carry the courierless
// delivery anomaly left by an earlier misclassification.
type IntegritySweepCommandHandler struct {
	source   ports.ObservationSource
	orders   OrderReader
	ingestor ObservationIngestor
	logger   *slog.Logger
}

func NewIntegritySweepCommandHandler(
	source ports.ObservationSource,
	orders OrderReader,
	ingestor ObservationIngestor,
	logger *slog.Logger,
) IntegritySweepCommandHandler {
	return IntegritySweepCommandHandler{
		source:   source,
		orders:   orders,
		ingestor: ingestor,
		logger:   logger.With("component", "integrity_sweep"),
	}
}

func (h *IntegritySweepCommandHandler) Handle(ctx context.Context, cmd IntegritySweepCommand) (IngestionReport, error) {
	var report IngestionReport
	if err := cmd.Validate(); err != nil {
		return report, err
	}

	for page := 1; page <= cmd.MaxPages(); page++ {
		refs, err := h.source.HistoricalOrderRefs(ctx, page)
		if err != nil {
			return report, fmt.Errorf("list history page %d: %w", page, err)
		}
		if len(refs) == 0 {
			break
		}
		report.PagesVisited++

		suspects := make([]ports.OrderRef, 0)
		for _, ref := range refs {
			existing, err := h.orders.GetByExternalID(ctx, ref.ExternalID)
			switch {
			case errors.Is(err, errs.ErrObjectNotFound):
				suspects = append(suspects, ref)
			case err != nil:
				return report, fmt.Errorf("look up %s: %w", ref.ExternalID, err)
			case existing.NeedsIntegrityRepair():
				if existing.HasCourierlessDeliveryAnomaly() {
					h.logger.InfoContext(ctx, "Courierless delivery anomaly", "external_id", ref.ExternalID)
				}
				suspects = append(suspects, ref)
			default:
				report.Skipped++
			}
		}

		if err = h.ingestor.ingestAll(ctx, suspects, &report); err != nil {
			return report, err
		}
	}
	return report, nil
}
