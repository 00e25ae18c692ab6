package commands_test

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"orderwatch/internal/core/application/usecases/commands"
	"orderwatch/internal/core/domain/model/order"
	"orderwatch/internal/core/domain/services"
	"orderwatch/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fp(v float64) *float64 { return &v }

func newReconciler(db commands.ReconcileUoWFactory, pub *MockEventPublisher) commands.ReconcileOrderCommandHandler {
	canon := services.NewCanonicalizer(order.DefaultPatternTable())
	if pub == nil {
		return commands.NewReconcileOrderCommandHandler(db, canon, nil, discardLogger())
	}
	return commands.NewReconcileOrderCommandHandler(db, canon, pub, discardLogger())
}

func reconcile(t *testing.T, h commands.ReconcileOrderCommandHandler, obs order.Observation, at time.Time) commands.ReconcileOrderResult {
	t.Helper()
	cmd, err := commands.NewReconcileOrderCommand(obs, at)
	require.NoError(t, err)
	res, err := h.Handle(t.Context(), cmd)
	require.NoError(t, err)
	return res
}

func TestNewReconcileOrderCommand(t *testing.T) {
	_, err := commands.NewReconcileOrderCommand(order.Observation{StatusText: "Entregado"}, t0)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = commands.NewReconcileOrderCommand(order.Observation{ExternalID: "1"}, time.Time{})
	assert.ErrorIs(t, err, commands.ErrObservedAtIsRequired)

	cmd, err := commands.NewReconcileOrderCommand(order.Observation{ExternalID: "1"}, t0)
	require.NoError(t, err)
	assert.Equal(t, "1", cmd.Observation().ExternalID)
	assert.Equal(t, t0, cmd.ObservedAt())
}

func TestReconcileOrderCommandHandler_CreatesOrderAndParties(t *testing.T) {
	db := newMemoryDB()
	h := newReconciler(db, nil)

	res := reconcile(t, h, order.Observation{
		ExternalID:    "100",
		StatusText:    "En preparación",
		StoreName:     "Altamira",
		StoreLat:      fp(10.4961),
		StoreLng:      fp(-66.8530),
		CustomerName:  "Maria",
		CustomerPhone: "0412",
		CourierName:   "Jose",
		TotalAmount:   decimal.RequireFromString("25.40"),
	}, t0)

	assert.True(t, res.Created)
	assert.True(t, res.Transitioned)
	assert.Equal(t, order.DriverAssigned, res.Status)
	assert.Equal(t, order.CategoryDelivery, res.Category)

	o := db.order("100")
	require.NotNil(t, o)
	assert.NotNil(t, o.StoreID())
	assert.NotNil(t, o.CustomerID())
	assert.NotNil(t, o.CourierID())
	assert.Equal(t, t0, o.CreatedAt())
	assert.Len(t, db.logOf(o.ID()), 1)
	require.NotNil(t, db.stores["Altamira"].Location())
	assert.Equal(t, "store_altamira", db.stores["Altamira"].ExternalRef())
	assert.Equal(t, "0412", db.customers["Maria"].Phone())
}

func TestReconcileOrderCommandHandler_LastWriteWins(t *testing.T) {
	db := newMemoryDB()
	h := newReconciler(db, nil)
	labels := []string{"Pendiente", "Confirmado", "En camino", "Pendiente", "Entregado"}

	for i, label := range labels {
		reconcile(t, h, order.Observation{ExternalID: "7", StatusText: label}, t0.Add(time.Duration(i)*time.Minute))
	}

	assert.Equal(t, order.Delivered, db.order("7").Status())
}

func TestReconcileOrderCommandHandler_DuplicateObservationScenario(t *testing.T) {
	db := newMemoryDB()
	h := newReconciler(db, nil)
	stream := []struct {
		label string
		at    time.Duration
	}{
		{"Pendiente", 0},
		{"En proceso", 5 * time.Minute},
		{"En proceso", 5 * time.Minute},
		{"Entregado", 40 * time.Minute},
	}

	for _, s := range stream {
		reconcile(t, h, order.Observation{ExternalID: "9", StatusText: s.label, CreatedAt: &t0}, t0.Add(s.at))
	}

	o := db.order("9")
	log := db.logOf(o.ID())
	require.Len(t, log, 3)

	var acc services.BottleneckAccumulator
	acc.AddOrder(services.OrderTimeline{Status: o.Status(), Category: o.Category(), CreatedAt: o.CreatedAt(), Log: log})
	processing := acc.Delivery.State(order.Processing)
	assert.Equal(t, 1, processing.Count)
	assert.Equal(t, 2100*time.Second, processing.Total)
}

func TestReconcileOrderCommandHandler_TerminalGuard(t *testing.T) {
	db := newMemoryDB()
	h := newReconciler(db, nil)

	reconcile(t, h, order.Observation{ExternalID: "5", StatusText: "Entregado"}, t0)
	res := reconcile(t, h, order.Observation{ExternalID: "5", StatusText: "En camino"}, t0.Add(time.Minute))

	assert.True(t, res.TerminalOverride)
	assert.False(t, res.Transitioned)
	o := db.order("5")
	assert.Equal(t, order.OnTheWay, o.Status())
	assert.Len(t, db.logOf(o.ID()), 1)
}

func TestReconcileOrderCommandHandler_TerminalGuardOutlivesOverwrite(t *testing.T) {
	db := newMemoryDB()
	pub := new(MockEventPublisher)
	pub.On("PublishStatusChanged", mock.Anything, mock.Anything).Return(nil)
	h := newReconciler(db, pub)

	reconcile(t, h, order.Observation{ExternalID: "6", StatusText: "Pendiente"}, t0)
	reconcile(t, h, order.Observation{ExternalID: "6", StatusText: "Entregado"}, t0.Add(time.Minute))
	overwritten := reconcile(t, h, order.Observation{ExternalID: "6", StatusText: "En proceso"}, t0.Add(2*time.Minute))
	res := reconcile(t, h, order.Observation{ExternalID: "6", StatusText: "En camino"}, t0.Add(3*time.Minute))

	assert.True(t, overwritten.TerminalOverride)
	assert.True(t, res.TerminalOverride)
	assert.False(t, res.Transitioned)
	o := db.order("6")
	assert.Equal(t, order.OnTheWay, o.Status())
	log := db.logOf(o.ID())
	require.Len(t, log, 2)
	assert.Equal(t, order.Delivered, log[1].Status)
	pub.AssertNumberOfCalls(t, "PublishStatusChanged", 2)
}

func TestReconcileOrderCommandHandler_CourierIsNeverCleared(t *testing.T) {
	db := newMemoryDB()
	h := newReconciler(db, nil)

	reconcile(t, h, order.Observation{ExternalID: "3", StatusText: "En camino", CourierName: "Jose"}, t0)
	res := reconcile(t, h, order.Observation{ExternalID: "3", StatusText: "Entregado", CourierName: "N/A"}, t0.Add(time.Minute))

	assert.False(t, res.Anomaly)
	assert.NotNil(t, db.order("3").CourierID())
	assert.Equal(t, order.CategoryDelivery, res.Category)
}

func TestReconcileOrderCommandHandler_AmbiguousLabel(t *testing.T) {
	db := newMemoryDB()
	h := newReconciler(db, nil)

	res := reconcile(t, h, order.Observation{ExternalID: "4", StatusText: "Estado raro"}, t0)

	assert.True(t, res.Ambiguous)
	assert.Equal(t, order.Pending, res.Status)
}

func TestReconcileOrderCommandHandler_PublishesAfterCommit(t *testing.T) {
	ctx := t.Context()
	db := newMemoryDB()
	pub := new(MockEventPublisher)
	pub.On("PublishStatusChanged", mock.Anything, order.StatusChanged{
		ExternalID: "8", From: "", To: "pending", OccurredAt: t0,
	}).Return(nil).Once()
	pub.On("PublishStatusChanged", mock.Anything, order.StatusChanged{
		ExternalID: "8", From: "pending", To: "confirmed", OccurredAt: t0.Add(time.Minute),
	}).Return(errors.New("broker down")).Once()
	h := newReconciler(db, pub)

	cmd, _ := commands.NewReconcileOrderCommand(order.Observation{ExternalID: "8", StatusText: "Pendiente"}, t0)
	_, err := h.Handle(ctx, cmd)
	require.NoError(t, err)

	cmd, _ = commands.NewReconcileOrderCommand(order.Observation{ExternalID: "8", StatusText: "Confirmado"}, t0.Add(time.Minute))
	res, err := h.Handle(ctx, cmd)
	require.NoError(t, err, "publication failures never fail reconciliation")
	assert.True(t, res.Transitioned)

	cmd, _ = commands.NewReconcileOrderCommand(order.Observation{ExternalID: "8", StatusText: "Confirmado"}, t0.Add(2*time.Minute))
	_, err = h.Handle(ctx, cmd)
	require.NoError(t, err)

	pub.AssertExpectations(t)
	assert.Equal(t, 3, db.commits)
}

func TestReconcileOrderCommandHandler_ValidationError(t *testing.T) {
	h := newReconciler(newMemoryDB(), nil)

	_, err := h.Handle(t.Context(), commands.ReconcileOrderCommand{})

	require.ErrorIs(t, err, commands.ErrReconcileOrderCommandIsNotConstructed)
}

type failingUoWFactory struct{ uow *MockReconcileUoW }

func (f failingUoWFactory) Create() commands.ReconcileUoW { return f.uow }

func TestReconcileOrderCommandHandler_PersistenceError(t *testing.T) {
	ctx := t.Context()
	uow := new(MockReconcileUoW)
	uow.On("Begin", ctx).Return(errors.New("connection reset")).Once()
	h := newReconciler(failingUoWFactory{uow}, nil)

	cmd, _ := commands.NewReconcileOrderCommand(order.Observation{ExternalID: "11", StatusText: "Pendiente"}, t0)
	_, err := h.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrPersistence)
	var pe *errs.PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "11", pe.ExternalID)
	uow.AssertExpectations(t)
}
