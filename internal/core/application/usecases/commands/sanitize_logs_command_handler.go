package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"orderwatch/internal/core/domain/model/order"
	"orderwatch/internal/core/domain/services"
)

// SanitizeReport summarizes one sanitizer run.
type SanitizeReport struct {
	Orders  int
	Removed int
	Failed  int
}

// SanitizeLogsCommandHandler deletes rebounds and post-terminal entries,
// one transaction per order.
type SanitizeLogsCommandHandler struct {
	uowFactory TimelineUoWFactory
	orders     OrderReader
	logger     *slog.Logger
}

func NewSanitizeLogsCommandHandler(uowFactory TimelineUoWFactory, orders OrderReader, logger *slog.Logger) SanitizeLogsCommandHandler {
	return SanitizeLogsCommandHandler{
		uowFactory: uowFactory,
		orders:     orders,
		logger:     logger.With("component", "sanitizer"),
	}
}

func (h *SanitizeLogsCommandHandler) Handle(ctx context.Context, cmd SanitizeLogsCommand) (SanitizeReport, error) {
	var report SanitizeReport
	if err := cmd.Validate(); err != nil {
		return report, err
	}

	ids, err := h.orders.ListIDsCreatedSince(ctx, cmd.Since())
	if err != nil {
		return report, fmt.Errorf("list orders since %s: %w", cmd.Since().Format("2006-01-02 15:04"), err)
	}

	for _, id := range ids {
		if err = ctx.Err(); err != nil {
			return report, err
		}
		report.Orders++
		removed, sanitizeErr := h.SanitizeOrder(ctx, id)
		if sanitizeErr != nil {
			report.Failed++
			h.logger.ErrorContext(ctx, "Sanitizing order log failed", "order_id", id.String(), "error", sanitizeErr)
			continue
		}
		report.Removed += removed
	}
	return report, nil
}

// SanitizeOrder prunes one order's log and returns how many entries it removed.
func (h *SanitizeLogsCommandHandler) SanitizeOrder(ctx context.Context, orderID uuid.UUID) (int, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	logs := uow.StatusLogRepository()
	entries, err := logs.ListByOrder(ctx, orderID)
	if err != nil {
		return 0, err
	}

	_, removed := services.SanitizeLog(entries)
	if len(removed) == 0 {
		return 0, nil
	}

	n, err := logs.Delete(ctx, entryIDs(removed))
	if err != nil {
		return 0, err
	}
	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}
	return n, nil
}

func entryIDs(entries []order.StatusLogEntry) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	return ids
}
