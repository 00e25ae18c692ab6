package commands_test

import (
	"context"
	"slices"
	"sync"
	"time"

	"orderwatch/internal/core/application/usecases/commands"
	"orderwatch/internal/core/domain/model/order"
	"orderwatch/internal/core/domain/model/party"
	"orderwatch/internal/core/domain/model/store"
	"orderwatch/internal/core/ports"
	"orderwatch/internal/pkg/errs"

	"github.com/google/uuid"
)

// memoryDB is an in-memory stand-in for the postgres adapter. Writes are
// applied immediately; Rollback after Commit is a no-op as in gorm.
type memoryDB struct {
	mu        sync.Mutex
	orders    map[string]order.State
	logs      []order.StatusLogEntry
	stores    map[string]*store.Store
	customers map[string]*party.Customer
	couriers  map[string]*party.Courier
	commits   int
}

func newMemoryDB() *memoryDB {
	return &memoryDB{
		orders:    map[string]order.State{},
		stores:    map[string]*store.Store{},
		customers: map[string]*party.Customer{},
		couriers:  map[string]*party.Courier{},
	}
}

func (db *memoryDB) Create() commands.ReconcileUoW { return &memoryUoW{db: db} }

func (db *memoryDB) reader() commands.OrderReader { return memOrders{db} }

func (db *memoryDB) order(externalID string) *order.Order {
	db.mu.Lock()
	defer db.mu.Unlock()
	s, ok := db.orders[externalID]
	if !ok {
		return nil
	}
	o, _ := order.RestoreOrder(s)
	return o
}

func (db *memoryDB) logOf(orderID uuid.UUID) []order.StatusLogEntry {
	db.mu.Lock()
	defer db.mu.Unlock()
	var out []order.StatusLogEntry
	for _, e := range db.logs {
		if e.OrderID == orderID {
			out = append(out, e)
		}
	}
	return out
}

type memoryUoW struct{ db *memoryDB }

func (u *memoryUoW) Begin(context.Context) error    { return nil }
func (u *memoryUoW) Rollback(context.Context) error { return nil }
func (u *memoryUoW) Commit(context.Context) error {
	u.db.mu.Lock()
	defer u.db.mu.Unlock()
	u.db.commits++
	return nil
}
func (u *memoryUoW) OrderRepository() ports.OrderRepository         { return memOrders{u.db} }
func (u *memoryUoW) StatusLogRepository() ports.StatusLogRepository { return memLogs{u.db} }
func (u *memoryUoW) StoreRepository() ports.StoreRepository         { return memStores{u.db} }
func (u *memoryUoW) CustomerRepository() ports.CustomerRepository   { return memCustomers{u.db} }
func (u *memoryUoW) CourierRepository() ports.CourierRepository     { return memCouriers{u.db} }

type memOrders struct{ db *memoryDB }

func (r memOrders) Add(_ context.Context, o *order.Order) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.orders[o.ExternalID()]; ok {
		return errs.NewValueIsInvalidError("external_id already exists")
	}
	r.db.orders[o.ExternalID()] = o.State()
	return nil
}

func (r memOrders) Update(_ context.Context, o *order.Order) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.orders[o.ExternalID()] = o.State()
	return nil
}

func (r memOrders) GetByExternalID(_ context.Context, externalID string) (*order.Order, error) {
	if o := r.db.order(externalID); o != nil {
		return o, nil
	}
	return nil, errs.NewObjectNotFoundError("external_id", externalID)
}

func (r memOrders) ListNeedingEnrichment(_ context.Context, limit int) ([]*order.Order, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	keys := make([]string, 0, len(r.db.orders))
	for k := range r.db.orders {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	var out []*order.Order
	for _, k := range keys {
		o, _ := order.RestoreOrder(r.db.orders[k])
		if o.NeedsEnrichment() && len(out) < limit {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r memOrders) ListIDsCreatedSince(_ context.Context, since time.Time) ([]uuid.UUID, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []uuid.UUID
	for _, s := range r.db.orders {
		if !s.CreatedAt.Before(since) {
			out = append(out, s.ID)
		}
	}
	return out, nil
}

type memLogs struct{ db *memoryDB }

func (r memLogs) Append(_ context.Context, e order.StatusLogEntry) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.logs = append(r.db.logs, e)
	return nil
}

func (r memLogs) ListByOrder(_ context.Context, id uuid.UUID) ([]order.StatusLogEntry, error) {
	return r.db.logOf(id), nil
}

func (r memLogs) Delete(_ context.Context, ids []uuid.UUID) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	before := len(r.db.logs)
	r.db.logs = slices.DeleteFunc(r.db.logs, func(e order.StatusLogEntry) bool {
		return slices.Contains(ids, e.ID)
	})
	return before - len(r.db.logs), nil
}

type memStores struct{ db *memoryDB }

func (r memStores) Add(_ context.Context, s *store.Store) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.stores[s.Name()]; !ok {
		r.db.stores[s.Name()] = s
	}
	return nil
}

func (r memStores) Update(_ context.Context, s *store.Store) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.stores[s.Name()] = s
	return nil
}

func (r memStores) GetByName(_ context.Context, name string) (*store.Store, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if s, ok := r.db.stores[name]; ok {
		return s, nil
	}
	return nil, errs.NewObjectNotFoundError("store", name)
}

func (r memStores) ListAll(context.Context) ([]*store.Store, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]*store.Store, 0, len(r.db.stores))
	for _, s := range r.db.stores {
		out = append(out, s)
	}
	return out, nil
}

type memCustomers struct{ db *memoryDB }

func (r memCustomers) Add(_ context.Context, c *party.Customer) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.customers[c.Name()]; !ok {
		r.db.customers[c.Name()] = c
	}
	return nil
}

func (r memCustomers) Update(_ context.Context, c *party.Customer) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.customers[c.Name()] = c
	return nil
}

func (r memCustomers) GetByName(_ context.Context, name string) (*party.Customer, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if c, ok := r.db.customers[name]; ok {
		return c, nil
	}
	return nil, errs.NewObjectNotFoundError("customer", name)
}

type memCouriers struct{ db *memoryDB }

func (r memCouriers) Add(_ context.Context, c *party.Courier) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.couriers[c.Name()]; !ok {
		r.db.couriers[c.Name()] = c
	}
	return nil
}

func (r memCouriers) GetByName(_ context.Context, name string) (*party.Courier, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if c, ok := r.db.couriers[name]; ok {
		return c, nil
	}
	return nil, errs.NewObjectNotFoundError("courier", name)
}
