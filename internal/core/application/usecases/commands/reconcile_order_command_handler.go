package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"orderwatch/internal/core/domain/model/kernel"
	"orderwatch/internal/core/domain/model/order"
	"orderwatch/internal/core/domain/model/party"
	"orderwatch/internal/core/domain/model/store"
	"orderwatch/internal/core/domain/services"
	"orderwatch/internal/core/ports"
	"orderwatch/internal/pkg/errs"
)

// ReconcileOrderResult describes what one reconciliation pass did.
type ReconcileOrderResult struct {
	ExternalID       string
	Status           order.Status
	Category         order.Category
	Created          bool
	Transitioned     bool
	TerminalOverride bool
	Ambiguous        bool
	Anomaly          bool
}

// ReconcileOrderCommandHandler folds one observation into the stored order
// inside a single transaction, then publishes the resulting transition.
//
// Example:
//
//	handler := NewReconcileOrderCommandHandler(uowFactory, canonicalizer, publisher, logger)
//	cmd, _ := NewReconcileOrderCommand(obs, time.Now())
//
//	if _, err := handler.Handle(ctx, cmd); err != nil {
//	    failures++ // errs.PersistenceError: only this order was rolled back
//	}
type ReconcileOrderCommandHandler struct {
	uowFactory    ReconcileUoWFactory
	canonicalizer *services.Canonicalizer
	timeline      TimelineLogger
	publisher     ports.EventPublisher
	logger        *slog.Logger
}

// NewReconcileOrderCommandHandler creates the handler. publisher may be nil
// when no event bus is configured.
func NewReconcileOrderCommandHandler(
	uowFactory ReconcileUoWFactory,
	canonicalizer *services.Canonicalizer,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) ReconcileOrderCommandHandler {
	return ReconcileOrderCommandHandler{
		uowFactory:    uowFactory,
		canonicalizer: canonicalizer,
		timeline:      NewTimelineLogger(),
		publisher:     publisher,
		logger:        logger.With("component", "reconciler"),
	}
}

// Handle reconciles the observation. Any failure after validation is
// returned as errs.PersistenceError with the transaction rolled back.
func (h *ReconcileOrderCommandHandler) Handle(ctx context.Context, cmd ReconcileOrderCommand) (ReconcileOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return ReconcileOrderResult{}, err
	}

	obs := cmd.Observation()
	res, transition, err := h.reconcile(ctx, obs, cmd.ObservedAt())
	if err != nil {
		h.logger.ErrorContext(ctx, "Reconciliation failed", "external_id", obs.ExternalID, "error", err)
		return ReconcileOrderResult{ExternalID: obs.ExternalID}, errs.NewPersistenceError(obs.ExternalID, err)
	}

	if res.Ambiguous {
		h.logger.WarnContext(ctx, "Status label defaulted to pending",
			"external_id", obs.ExternalID, "label", obs.StatusText, "error", errs.ErrMappingAmbiguity)
	}
	if res.TerminalOverride {
		h.logger.InfoContext(ctx, "Terminal status overwritten without timeline entry",
			"external_id", obs.ExternalID, "status", res.Status.String())
	}

	if transition != nil && h.publisher != nil {
		if pubErr := h.publisher.PublishStatusChanged(ctx, transition.Event()); pubErr != nil {
			h.logger.WarnContext(ctx, "Status change not published",
				"external_id", obs.ExternalID, "to", transition.To.String(), "error", pubErr)
		}
	}

	return res, nil
}

func (h *ReconcileOrderCommandHandler) reconcile(
	ctx context.Context,
	obs order.Observation,
	observedAt time.Time,
) (ReconcileOrderResult, *order.Transition, error) {
	res := ReconcileOrderResult{ExternalID: obs.ExternalID}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return res, nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	st, err := h.resolveStore(ctx, uow.StoreRepository(), obs)
	if err != nil {
		return res, nil, err
	}
	customerID, err := h.resolveCustomer(ctx, uow.CustomerRepository(), obs)
	if err != nil {
		return res, nil, err
	}
	courierID, err := h.resolveCourier(ctx, uow.CourierRepository(), obs)
	if err != nil {
		return res, nil, err
	}

	orders := uow.OrderRepository()
	existing, err := orders.GetByExternalID(ctx, obs.ExternalID)
	if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
		return res, nil, fmt.Errorf("load order: %w", err)
	}

	in := services.CanonicalInput{Observation: obs}
	if st != nil {
		in.StoreLocation = st.Location()
	}
	if existing != nil {
		in.KnownCustomerLocation = existing.CustomerLocation()
		in.KnownCourier = existing.CourierID() != nil
	}
	facts := h.canonicalizer.Canonicalize(in)
	res.Ambiguous = facts.Ambiguous

	snap := order.Snapshot{
		Status:              facts.Status,
		Category:            facts.Category,
		DistanceKm:          facts.DistanceKm,
		CustomerLocation:    facts.CustomerLocation,
		CustomerID:          customerID,
		CourierID:           courierID,
		Financials:          obs.Financials(),
		PaymentMethod:       obs.PaymentMethod,
		CancellationReason:  obs.CancellationReason,
		CanceledBy:          obs.CanceledBy,
		DurationText:        obs.DurationText,
		DeliveryTimeMinutes: facts.DeliveryTimeMinutes,
		LineItems:           obs.LineItems,
	}
	if st != nil {
		id := st.ID()
		snap.StoreID = &id
	}

	var (
		aggregate  *order.Order
		transition *order.Transition
	)
	if existing == nil {
		createdAt := observedAt
		if obs.CreatedAt != nil && !obs.CreatedAt.IsZero() {
			createdAt = *obs.CreatedAt
		}
		created, initial, newErr := order.NewOrder(uuid.New(), obs.ExternalID, createdAt, snap)
		if newErr != nil {
			return res, nil, newErr
		}
		if err = orders.Add(ctx, created); err != nil {
			return res, nil, fmt.Errorf("add order: %w", err)
		}
		aggregate, transition = created, &initial
		res.Created = true
	} else {
		outcome, recErr := existing.Reconcile(snap, observedAt)
		if recErr != nil {
			return res, nil, recErr
		}
		if err = orders.Update(ctx, existing); err != nil {
			return res, nil, fmt.Errorf("update order: %w", err)
		}
		aggregate, transition = existing, outcome.Transition
		res.TerminalOverride = outcome.TerminalOverride
	}

	if transition != nil {
		if err = h.timeline.RecordTransition(ctx, uow.StatusLogRepository(), *transition); err != nil {
			return res, nil, err
		}
		res.Transitioned = true
	}

	if err = uow.Commit(ctx); err != nil {
		return res, nil, fmt.Errorf("commit: %w", err)
	}

	res.Status = aggregate.Status()
	res.Category = aggregate.Category()
	res.Anomaly = aggregate.HasCourierlessDeliveryAnomaly()
	return res, transition, nil
}

// resolveStore finds or creates the observed store and learns its pin.
// Add is a no-op on a name another transaction inserted first, so the store
// is read back after creating it.
func (h *ReconcileOrderCommandHandler) resolveStore(
	ctx context.Context,
	repo ports.StoreRepository,
	obs order.Observation,
) (*store.Store, error) {
	if obs.StoreName == "" {
		return nil, nil
	}

	st, err := repo.GetByName(ctx, obs.StoreName)
	if errors.Is(err, errs.ErrObjectNotFound) {
		fresh, newErr := store.NewStore(uuid.New(), obs.StoreName, "")
		if newErr != nil {
			return nil, newErr
		}
		if err = repo.Add(ctx, fresh); err != nil {
			return nil, fmt.Errorf("add store: %w", err)
		}
		st, err = repo.GetByName(ctx, obs.StoreName)
	}
	if err != nil {
		return nil, fmt.Errorf("load store: %w", err)
	}

	if pin, ok := kernel.GeoPointFromPointers(obs.StoreLat, obs.StoreLng); ok && st.LearnLocation(pin) {
		if err = repo.Update(ctx, st); err != nil {
			return nil, fmt.Errorf("update store: %w", err)
		}
	}
	return st, nil
}

func (h *ReconcileOrderCommandHandler) resolveCustomer(
	ctx context.Context,
	repo ports.CustomerRepository,
	obs order.Observation,
) (*uuid.UUID, error) {
	if obs.CustomerName == "" {
		return nil, nil
	}

	c, err := repo.GetByName(ctx, obs.CustomerName)
	if errors.Is(err, errs.ErrObjectNotFound) {
		fresh, newErr := party.NewCustomer(uuid.New(), obs.CustomerName, obs.CustomerPhone)
		if newErr != nil {
			return nil, newErr
		}
		if err = repo.Add(ctx, fresh); err != nil {
			return nil, fmt.Errorf("add customer: %w", err)
		}
		c, err = repo.GetByName(ctx, obs.CustomerName)
	}
	if err != nil {
		return nil, fmt.Errorf("load customer: %w", err)
	}

	if c.RefreshPhone(obs.CustomerPhone) {
		if err = repo.Update(ctx, c); err != nil {
			return nil, fmt.Errorf("update customer: %w", err)
		}
	}
	id := c.ID()
	return &id, nil
}

func (h *ReconcileOrderCommandHandler) resolveCourier(
	ctx context.Context,
	repo ports.CourierRepository,
	obs order.Observation,
) (*uuid.UUID, error) {
	if !h.canonicalizer.IsNamedCourier(obs.CourierName) {
		return nil, nil
	}

	c, err := repo.GetByName(ctx, obs.CourierName)
	if errors.Is(err, errs.ErrObjectNotFound) {
		fresh, newErr := party.NewCourier(uuid.New(), obs.CourierName)
		if newErr != nil {
			return nil, newErr
		}
		if err = repo.Add(ctx, fresh); err != nil {
			return nil, fmt.Errorf("add courier: %w", err)
		}
		c, err = repo.GetByName(ctx, obs.CourierName)
	}
	if err != nil {
		return nil, fmt.Errorf("load courier: %w", err)
	}
	id := c.ID()
	return &id, nil
}
