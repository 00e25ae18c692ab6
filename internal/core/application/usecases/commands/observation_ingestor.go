package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orderwatch/internal/core/ports"
	"orderwatch/internal/pkg/errs"
)

// IngestionReport summarizes a collector-driven run. Failed counts orders
// whose fetch or transaction failed; the run itself carried on.
type IngestionReport struct {
	Seen         int
	Reconciled   int
	Skipped      int
	Failed       int
	Created      int
	Transitions  int
	Ambiguous    int
	Cycles       int
	BacklogLeft  bool
	PagesVisited int
}

func (r *IngestionReport) add(res ReconcileOrderResult) {
	r.Reconciled++
	if res.Created {
		r.Created++
	}
	if res.Transitioned {
		r.Transitions++
	}
	if res.Ambiguous {
		r.Ambiguous++
	}
}

// ObservationIngestor fetches one order from the collector and reconciles it.
type ObservationIngestor struct {
	source     ports.ObservationSource
	reconciler ReconcileOrderCommandHandler
	now        func() time.Time
}

func NewObservationIngestor(source ports.ObservationSource, reconciler ReconcileOrderCommandHandler) ObservationIngestor {
	return ObservationIngestor{source: source, reconciler: reconciler, now: time.Now}
}

// Ingest returns errs.ErrCollectorUnavailable wrapped when the source is
// down; callers stop their run on it and leave the retry to the next trigger.
func (i ObservationIngestor) Ingest(ctx context.Context, ref ports.OrderRef) (ReconcileOrderResult, error) {
	obs, err := i.source.FetchObservation(ctx, ref.ExternalID)
	if err != nil {
		return ReconcileOrderResult{ExternalID: ref.ExternalID}, fmt.Errorf("fetch %s: %w", ref.ExternalID, err)
	}
	if obs.ExternalID == "" {
		obs.ExternalID = ref.ExternalID
	}
	if obs.DurationText == "" {
		obs.DurationText = ref.DurationText
	}
	if obs.CancellationReason == "" {
		obs.CancellationReason = ref.CancellationReason
	}

	cmd, err := NewReconcileOrderCommand(obs, i.now())
	if err != nil {
		return ReconcileOrderResult{ExternalID: ref.ExternalID}, err
	}
	return i.reconciler.Handle(ctx, cmd)
}

// ingestAll feeds refs through the ingestor, counting per-order failures.
// It stops early only when the collector is unreachable or ctx ends.
func (i ObservationIngestor) ingestAll(ctx context.Context, refs []ports.OrderRef, report *IngestionReport) error {
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return err
		}
		report.Seen++
		res, err := i.Ingest(ctx, ref)
		if errors.Is(err, errs.ErrCollectorUnavailable) {
			report.Failed++
			return err
		}
		if err != nil {
			report.Failed++
			continue
		}
		report.add(res)
	}
	return nil
}
