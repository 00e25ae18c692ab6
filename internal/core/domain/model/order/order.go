package order

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"orderwatch/internal/core/domain/model/kernel"
	"orderwatch/internal/pkg/errs"
	"orderwatch/internal/pkg/guard"
)

var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

// UnspecifiedCancellationReason is recorded for a canceled order whose
// console page shows no reason, so enrichment stops revisiting it.
const UnspecifiedCancellationReason = "Sin especificar"

// Order is the aggregate root for one console order, keyed by ExternalID.
//
// Invariants:
//   - ExternalID is non-empty and never changes
//   - Status is always a canonical status
//   - Once any terminal status has been applied, further status changes are
//     applied but produce no timeline transition, even after the status was
//     overwritten with a non-terminal one
type Order struct {
	id                  uuid.UUID
	externalID          string
	status              Status
	terminalReached     bool
	category            Category
	createdAt           time.Time
	financials          Financials
	customerLocation    *kernel.GeoPoint
	distanceKm          *float64
	storeID             *uuid.UUID
	customerID          *uuid.UUID
	courierID           *uuid.UUID
	paymentMethod       string
	cancellationReason  string
	canceledBy          string
	durationText        string
	deliveryTimeMinutes *float64
	lineItems           []LineItem
	guard               guard.ConstructorGuard
}

// Snapshot is what one reconciliation pass knows about an order after the
// observation has been canonicalized and its related entities resolved.
// Nil pointers and empty strings mean "not observed this time".
type Snapshot struct {
	Status              Status
	Category            Category
	DistanceKm          *float64
	CustomerLocation    *kernel.GeoPoint
	StoreID             *uuid.UUID
	CustomerID          *uuid.UUID
	CourierID           *uuid.UUID
	Financials          Financials
	PaymentMethod       string
	CancellationReason  string
	CanceledBy          string
	DurationText        string
	DeliveryTimeMinutes *float64
	LineItems           []LineItem
}

// State is the flat persisted form of an Order.
type State struct {
	ID                  uuid.UUID
	ExternalID          string
	Status              Status
	TerminalReached     bool
	Category            Category
	CreatedAt           time.Time
	Financials          Financials
	CustomerLocation    *kernel.GeoPoint
	DistanceKm          *float64
	StoreID             *uuid.UUID
	CustomerID          *uuid.UUID
	CourierID           *uuid.UUID
	PaymentMethod       string
	CancellationReason  string
	CanceledBy          string
	DurationText        string
	DeliveryTimeMinutes *float64
	LineItems           []LineItem
}

// ReconcileResult describes what a reconciliation pass did to the status.
type ReconcileResult struct {
	// Transition is set when the Timeline Logger must append an entry.
	Transition *Transition
	// TerminalOverride is set when the status changed after the order had
	// reached a terminal status; the change is applied without a timeline entry.
	TerminalOverride bool
}

// NewOrder creates an order on its first observation. The returned
// transition records the initial status.
//
// Example:
//
//	o, initial, err := NewOrder(uuid.New(), "100234", createdAt, snapshot)
//	if err != nil {
//	    return err
//	}
//	timeline.RecordTransition(ctx, initial)
func NewOrder(id uuid.UUID, externalID string, createdAt time.Time, snap Snapshot) (*Order, Transition, error) {
	if id == uuid.Nil {
		return nil, Transition{}, errs.NewValueIsRequiredError("id")
	}
	if strings.TrimSpace(externalID) == "" {
		return nil, Transition{}, errs.NewValueIsRequiredError("external_id")
	}
	if err := snap.Status.Validate(); err != nil {
		return nil, Transition{}, err
	}

	o := &Order{
		id:         id,
		externalID: externalID,
		status:          snap.Status,
		terminalReached: snap.Status.IsTerminal(),
		createdAt:       createdAt,
		guard:           guard.NewConstructorGuard(),
	}
	o.refresh(snap)

	return o, Transition{OrderID: id, ExternalID: externalID, From: Unknown, To: snap.Status, At: createdAt}, nil
}

// RestoreOrder rebuilds an order from persistence without emitting transitions.
func RestoreOrder(s State) (*Order, error) {
	if s.ID == uuid.Nil {
		return nil, errs.NewValueIsRequiredError("id")
	}
	if strings.TrimSpace(s.ExternalID) == "" {
		return nil, errs.NewValueIsRequiredError("external_id")
	}
	if err := s.Status.Validate(); err != nil {
		return nil, err
	}
	return &Order{
		id:                  s.ID,
		externalID:          s.ExternalID,
		status:              s.Status,
		terminalReached:     s.TerminalReached || s.Status.IsTerminal(),
		category:            s.Category,
		createdAt:           s.CreatedAt,
		financials:          s.Financials,
		customerLocation:    s.CustomerLocation,
		distanceKm:          s.DistanceKm,
		storeID:             s.StoreID,
		customerID:          s.CustomerID,
		courierID:           s.CourierID,
		paymentMethod:       s.PaymentMethod,
		cancellationReason:  s.CancellationReason,
		canceledBy:          s.CanceledBy,
		durationText:        s.DurationText,
		deliveryTimeMinutes: s.DeliveryTimeMinutes,
		lineItems:           s.LineItems,
		guard:               guard.NewConstructorGuard(),
	}, nil
}

func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// Reconcile applies a later observation. Logistics and financial fields are
// refreshed unconditionally; the status changes only if it differs.
func (o *Order) Reconcile(snap Snapshot, now time.Time) (ReconcileResult, error) {
	if err := snap.Status.Validate(); err != nil {
		return ReconcileResult{}, err
	}
	o.refresh(snap)

	if snap.Status == o.status {
		return ReconcileResult{}, nil
	}

	prev := o.status
	o.status = snap.Status
	if o.terminalReached {
		return ReconcileResult{TerminalOverride: true}, nil
	}
	o.terminalReached = snap.Status.IsTerminal()
	return ReconcileResult{Transition: &Transition{
		OrderID:    o.id,
		ExternalID: o.externalID,
		From:       prev,
		To:         snap.Status,
		At:         now,
	}}, nil
}

func (o *Order) refresh(snap Snapshot) {
	o.financials = snap.Financials
	o.category = snap.Category

	if snap.CustomerLocation != nil {
		loc := *snap.CustomerLocation
		o.customerLocation = &loc
	}
	if snap.DistanceKm != nil {
		d := *snap.DistanceKm
		o.distanceKm = &d
	}
	if snap.StoreID != nil {
		o.storeID = snap.StoreID
	}
	if snap.CustomerID != nil {
		o.customerID = snap.CustomerID
	}
	if snap.CourierID != nil {
		o.courierID = snap.CourierID
	}
	if snap.PaymentMethod != "" {
		o.paymentMethod = snap.PaymentMethod
	}
	if snap.CancellationReason != "" {
		o.cancellationReason = snap.CancellationReason
	}
	if snap.CanceledBy != "" {
		o.canceledBy = snap.CanceledBy
	}
	if snap.DurationText != "" {
		o.durationText = snap.DurationText
	}
	if snap.DeliveryTimeMinutes != nil {
		m := *snap.DeliveryTimeMinutes
		o.deliveryTimeMinutes = &m
	}
	if len(snap.LineItems) > 0 {
		o.lineItems = append([]LineItem(nil), snap.LineItems...)
	}
}

// State returns the flat persisted form.
func (o *Order) State() State {
	return State{
		ID:                  o.id,
		ExternalID:          o.externalID,
		Status:              o.status,
		TerminalReached:     o.terminalReached,
		Category:            o.category,
		CreatedAt:           o.createdAt,
		Financials:          o.financials,
		CustomerLocation:    o.customerLocation,
		DistanceKm:          o.distanceKm,
		StoreID:             o.storeID,
		CustomerID:          o.customerID,
		CourierID:           o.courierID,
		PaymentMethod:       o.paymentMethod,
		CancellationReason:  o.cancellationReason,
		CanceledBy:          o.canceledBy,
		DurationText:        o.durationText,
		DeliveryTimeMinutes: o.deliveryTimeMinutes,
		LineItems:           o.lineItems,
	}
}

func (o *Order) ID() uuid.UUID                      { return o.id }
func (o *Order) ExternalID() string                 { return o.externalID }
func (o *Order) Status() Status                     { return o.status }
func (o *Order) TerminalReached() bool              { return o.terminalReached }
func (o *Order) Category() Category                 { return o.category }
func (o *Order) CreatedAt() time.Time               { return o.createdAt }
func (o *Order) Financials() Financials             { return o.financials }
func (o *Order) CustomerLocation() *kernel.GeoPoint { return o.customerLocation }
func (o *Order) DistanceKm() *float64               { return o.distanceKm }
func (o *Order) StoreID() *uuid.UUID                { return o.storeID }
func (o *Order) CustomerID() *uuid.UUID             { return o.customerID }
func (o *Order) CourierID() *uuid.UUID              { return o.courierID }
func (o *Order) CancellationReason() string         { return o.cancellationReason }
func (o *Order) DurationText() string               { return o.durationText }
func (o *Order) DeliveryTimeMinutes() *float64      { return o.deliveryTimeMinutes }

// HasCourierlessDeliveryAnomaly reports a delivered delivery-category order
// with no courier: the mark of an earlier misclassified pickup.
func (o *Order) HasCourierlessDeliveryAnomaly() bool {
	return o.status == Delivered && o.category == CategoryDelivery && o.courierID == nil
}

// NeedsIntegrityRepair reports whether the nightly sweep must re-reconcile
// the order: it is still open, has no amount, or shows the courierless anomaly.
func (o *Order) NeedsIntegrityRepair() bool {
	return !o.status.IsTerminal() || o.financials.TotalAmount.IsZero() || o.HasCourierlessDeliveryAnomaly()
}

// NeedsEnrichment reports whether the enrichment job still has work on the
// order: a canceled order without a reason, or a delivered order missing the
// customer coordinates or the gross delivery fee.
func (o *Order) NeedsEnrichment() bool {
	switch o.status {
	case Canceled:
		return o.cancellationReason == ""
	case Delivered:
		return o.customerLocation == nil || o.financials.GrossDeliveryFee.IsZero()
	default:
		return false
	}
}

// IsEnriched reports whether the derived fields the backfill fills in are known.
func (o *Order) IsEnriched() bool {
	return o.customerLocation != nil && o.deliveryTimeMinutes != nil
}
