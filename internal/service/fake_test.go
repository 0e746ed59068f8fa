package service

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/mmeshcher/gasflow/internal/model"
	"github.com/mmeshcher/gasflow/internal/repository"
)

// fakeStore хранит данные в памяти. WithTx запоминает состояние и восстанавливает его при ошибке.
type fakeStore struct {
	users       map[uuid.UUID]model.User
	orders      map[uuid.UUID]model.Order
	assignments []model.Assignment
	deliveries  []model.Delivery
	failures    []model.FailedDelivery
	inbounds    []model.StockInbound
	events      []model.AuditEvent

	auditErr error
	clock    time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:  map[uuid.UUID]model.User{},
		orders: map[uuid.UUID]model.Order{},
		clock:  time.Date(2026, 2, 16, 9, 0, 0, 0, time.UTC),
	}
}

func (f *fakeStore) addUser(username string, role model.Role) model.User {
	u := model.User{ID: uuid.New(), Username: username, PasswordHash: "secret", Role: role, CreatedAt: f.clock}
	f.users[u.ID] = u
	return u
}

func (f *fakeStore) addOrder(status model.OrderStatus, assignee *uuid.UUID) model.Order {
	o := model.Order{
		ID:            uuid.New(),
		Address:       "Calle 1",
		Zone:          "Z1",
		ScheduledDate: time.Date(2026, 2, 16, 0, 0, 0, 0, time.UTC),
		TimeSlot:      "MAÑANA",
		Quantity:      2,
		Status:        status,
		AssigneeID:    assignee,
		CreatedAt:     f.clock,
		UpdatedAt:     f.clock,
	}
	f.orders[o.ID] = o
	return o
}

type fakeSnapshot struct {
	users       map[uuid.UUID]model.User
	orders      map[uuid.UUID]model.Order
	assignments []model.Assignment
	deliveries  []model.Delivery
	failures    []model.FailedDelivery
	inbounds    []model.StockInbound
}

func (f *fakeStore) snapshot() fakeSnapshot {
	return fakeSnapshot{
		users:       maps.Clone(f.users),
		orders:      maps.Clone(f.orders),
		assignments: slices.Clone(f.assignments),
		deliveries:  slices.Clone(f.deliveries),
		failures:    slices.Clone(f.failures),
		inbounds:    slices.Clone(f.inbounds),
	}
}

func (f *fakeStore) restore(s fakeSnapshot) {
	f.users = s.users
	f.orders = s.orders
	f.assignments = s.assignments
	f.deliveries = s.deliveries
	f.failures = s.failures
	f.inbounds = s.inbounds
}

func (f *fakeStore) Close() error { return nil }

func (f *fakeStore) WithTx(ctx context.Context, fn func(ctx context.Context, tx repository.TxRepository) error) error {
	snap := f.snapshot()
	if err := fn(ctx, &fakeTx{f}); err != nil {
		f.restore(snap)
		return err
	}
	return nil
}

func (f *fakeStore) GetOrderByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: order %s", model.ErrNotFound, id)
	}
	return &o, nil
}

func (f *fakeStore) ListOrders(_ context.Context, flt model.OrderFilter) (*model.OrderPage, error) {
	var items []model.Order
	for _, o := range f.orders {
		if flt.Date != nil && !o.ScheduledDate.Equal(model.Day(*flt.Date)) {
			continue
		}
		if flt.Status != nil && o.Status != *flt.Status {
			continue
		}
		if flt.AssigneeID != nil && (o.AssigneeID == nil || *o.AssigneeID != *flt.AssigneeID) {
			continue
		}
		items = append(items, o)
	}
	slices.SortFunc(items, func(a, b model.Order) int {
		if c := a.ScheduledDate.Compare(b.ScheduledDate); c != 0 {
			return c
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})

	total := len(items)
	start := min(flt.Offset(), total)
	end := min(start+flt.PageSize, total)
	return &model.OrderPage{
		Items:      items[start:end],
		Pagination: model.NewPagination(flt.Page, flt.PageSize, total),
	}, nil
}

func (f *fakeStore) StockTotals(_ context.Context, cutoff *time.Time) (model.StockTotals, error) {
	var t model.StockTotals
	for _, in := range f.inbounds {
		if cutoff == nil || !in.Date.After(*cutoff) {
			t.InboundFull += int64(in.Quantity)
		}
	}
	for _, d := range f.deliveries {
		if cutoff == nil || !model.Day(d.CreatedAt).After(*cutoff) {
			t.DeliveredFull += int64(d.FullDelivered)
			t.RecoveredEmpty += int64(d.EmptyRecovered)
		}
	}
	return t, nil
}

func (f *fakeStore) DailyTotals(_ context.Context, day time.Time) (model.DailyTotals, error) {
	var t model.DailyTotals
	for _, d := range f.deliveries {
		if model.Day(d.CreatedAt).Equal(day) {
			t.Deliveries++
			t.DeliveredFull += int64(d.FullDelivered)
			t.RecoveredEmpty += int64(d.EmptyRecovered)
		}
	}
	return t, nil
}

func (f *fakeStore) GetUserByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", model.ErrNotFound, id)
	}
	return &u, nil
}

func (f *fakeStore) GetUserByLogin(_ context.Context, username string) (*model.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("%w: user %q", model.ErrNotFound, username)
}

func (f *fakeStore) CreateUser(_ context.Context, username, passwordHash string, role model.Role) (*model.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return nil, fmt.Errorf("%w: username taken", model.ErrConflict)
		}
	}
	u := model.User{ID: uuid.New(), Username: username, PasswordHash: passwordHash, Role: role, CreatedAt: f.clock}
	f.users[u.ID] = u
	return &u, nil
}

func (f *fakeStore) RecordEvent(_ context.Context, e model.AuditEvent) error {
	if f.auditErr != nil {
		return f.auditErr
	}
	f.events = append(f.events, e)
	return nil
}

type fakeTx struct {
	s *fakeStore
}

func (t *fakeTx) CreateOrder(_ context.Context, in model.NewOrder) (*model.Order, error) {
	o := model.Order{
		ID:            uuid.New(),
		Address:       in.Address,
		Zone:          in.Zone,
		ScheduledDate: in.ScheduledDate,
		TimeSlot:      in.TimeSlot,
		Quantity:      in.Quantity,
		Notes:         in.Notes,
		Status:        model.OrderStatusPending,
		CreatedAt:     t.s.clock,
		UpdatedAt:     t.s.clock,
	}
	t.s.orders[o.ID] = o
	return &o, nil
}

func (t *fakeTx) GetOrderForUpdate(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return t.s.GetOrderByID(ctx, id)
}

func (t *fakeTx) UpdateOrderStatus(_ context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error) {
	o, ok := t.s.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: order %s", model.ErrNotFound, id)
	}
	o.Status = status
	o.UpdatedAt = t.s.clock
	t.s.orders[id] = o
	return &o, nil
}

func (t *fakeTx) RescheduleOrder(_ context.Context, id uuid.UUID, date time.Time, slot string, status model.OrderStatus) (*model.Order, error) {
	o, ok := t.s.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: order %s", model.ErrNotFound, id)
	}
	o.ScheduledDate = date
	o.TimeSlot = slot
	o.Status = status
	o.UpdatedAt = t.s.clock
	t.s.orders[id] = o
	return &o, nil
}

func (t *fakeTx) AssignOrder(_ context.Context, id, driverID uuid.UUID) (*model.Assignment, error) {
	o, ok := t.s.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: order %s", model.ErrNotFound, id)
	}
	o.Status = model.OrderStatusAssigned
	o.AssigneeID = &driverID
	t.s.orders[id] = o

	a := model.Assignment{ID: uuid.New(), OrderID: id, DriverID: driverID, AssignedAt: t.s.clock}
	t.s.assignments = append(t.s.assignments, a)
	return &a, nil
}

func (t *fakeTx) CreateDelivery(_ context.Context, in model.NewDelivery) (*model.Delivery, error) {
	for _, d := range t.s.deliveries {
		if d.OrderID == in.OrderID {
			return nil, fmt.Errorf("%w: delivery for order %s exists", model.ErrConflict, in.OrderID)
		}
	}
	d := model.Delivery{
		ID:             uuid.New(),
		OrderID:        in.OrderID,
		FullDelivered:  in.FullDelivered,
		EmptyRecovered: in.EmptyRecovered,
		Notes:          in.Notes,
		CreatedAt:      t.s.clock,
	}
	t.s.deliveries = append(t.s.deliveries, d)
	return &d, nil
}

func (t *fakeTx) CreateFailedDelivery(_ context.Context, in model.NewFailedDelivery) (*model.FailedDelivery, error) {
	f := model.FailedDelivery{
		ID:             uuid.New(),
		OrderID:        in.OrderID,
		Reason:         in.Reason,
		RescheduleDate: in.RescheduleDate,
		RescheduleSlot: in.RescheduleSlot,
		CreatedAt:      t.s.clock,
	}
	t.s.failures = append(t.s.failures, f)
	return &f, nil
}

func (t *fakeTx) CreateStockInbound(_ context.Context, in model.NewStockInbound) (*model.StockInbound, error) {
	s := model.StockInbound{ID: uuid.New(), Date: in.Date, Quantity: in.Quantity, Notes: in.Notes, CreatedAt: t.s.clock}
	t.s.inbounds = append(t.s.inbounds, s)
	return &s, nil
}

func (t *fakeTx) GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return t.s.GetUserByID(ctx, id)
}

var errAuditDown = errors.New("audit store unavailable")
