package commands_test

import (
	"context"
	"time"

	"orderwatch/internal/core/application/usecases/commands"
	"orderwatch/internal/core/domain/model/order"
	"orderwatch/internal/core/domain/model/store"
	"orderwatch/internal/core/ports"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockTimelineUoW struct{ mock.Mock }

func (m *MockTimelineUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockTimelineUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockTimelineUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockTimelineUoW) StatusLogRepository() ports.StatusLogRepository {
	args := m.Called()
	return args.Get(0).(ports.StatusLogRepository)
}

type MockTimelineUoWFactory struct{ mock.Mock }

func (m *MockTimelineUoWFactory) Create() commands.TimelineUoW {
	args := m.Called()
	return args.Get(0).(commands.TimelineUoW)
}

type MockStatusLogRepository struct{ mock.Mock }

func (m *MockStatusLogRepository) Append(ctx context.Context, e order.StatusLogEntry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}
func (m *MockStatusLogRepository) ListByOrder(ctx context.Context, id uuid.UUID) ([]order.StatusLogEntry, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]order.StatusLogEntry), args.Error(1)
}
func (m *MockStatusLogRepository) Delete(ctx context.Context, ids []uuid.UUID) (int, error) {
	args := m.Called(ctx, ids)
	return args.Int(0), args.Error(1)
}

type MockOrderReader struct{ mock.Mock }

func (m *MockOrderReader) GetByExternalID(ctx context.Context, externalID string) (*order.Order, error) {
	args := m.Called(ctx, externalID)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}
func (m *MockOrderReader) ListNeedingEnrichment(ctx context.Context, limit int) ([]*order.Order, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]*order.Order), args.Error(1)
}
func (m *MockOrderReader) ListIDsCreatedSince(ctx context.Context, since time.Time) ([]uuid.UUID, error) {
	args := m.Called(ctx, since)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

type MockObservationSource struct{ mock.Mock }

func (m *MockObservationSource) RecentOrderRefs(ctx context.Context, limit int) ([]ports.OrderRef, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]ports.OrderRef), args.Error(1)
}
func (m *MockObservationSource) HistoricalOrderRefs(ctx context.Context, page int) ([]ports.OrderRef, error) {
	args := m.Called(ctx, page)
	return args.Get(0).([]ports.OrderRef), args.Error(1)
}
func (m *MockObservationSource) FetchObservation(ctx context.Context, externalID string) (order.Observation, error) {
	args := m.Called(ctx, externalID)
	return args.Get(0).(order.Observation), args.Error(1)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) PublishStatusChanged(ctx context.Context, e order.StatusChanged) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

type MockStoreCatalog struct{ mock.Mock }

func (m *MockStoreCatalog) ListAll(ctx context.Context) ([]*store.Store, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*store.Store), args.Error(1)
}

type MockScheduleRepository struct{ mock.Mock }

func (m *MockScheduleRepository) ListRules(ctx context.Context, weekday time.Weekday) ([]store.ScheduleRule, error) {
	args := m.Called(ctx, weekday)
	return args.Get(0).([]store.ScheduleRule), args.Error(1)
}
func (m *MockScheduleRepository) ListHolidays(ctx context.Context, day time.Time) ([]store.HolidayOverride, error) {
	args := m.Called(ctx, day)
	return args.Get(0).([]store.HolidayOverride), args.Error(1)
}

type MockActuator struct{ mock.Mock }

func (m *MockActuator) Enforce(ctx context.Context, ref string, desiredOpen bool) (bool, error) {
	args := m.Called(ctx, ref, desiredOpen)
	return args.Bool(0), args.Error(1)
}

type MockReconcileUoW struct{ mock.Mock }

func (m *MockReconcileUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockReconcileUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockReconcileUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockReconcileUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}
func (m *MockReconcileUoW) StatusLogRepository() ports.StatusLogRepository {
	args := m.Called()
	return args.Get(0).(ports.StatusLogRepository)
}
func (m *MockReconcileUoW) StoreRepository() ports.StoreRepository {
	args := m.Called()
	return args.Get(0).(ports.StoreRepository)
}
func (m *MockReconcileUoW) CustomerRepository() ports.CustomerRepository {
	args := m.Called()
	return args.Get(0).(ports.CustomerRepository)
}
func (m *MockReconcileUoW) CourierRepository() ports.CourierRepository {
	args := m.Called()
	return args.Get(0).(ports.CourierRepository)
}
