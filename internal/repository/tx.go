package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mmeshcher/gasflow/internal/model"
)

// TxRepository описывает операции, доступные внутри одной транзакции.
type TxRepository interface {
	CreateOrder(ctx context.Context, in model.NewOrder) (*model.Order, error)
	GetOrderForUpdate(ctx context.Context, id uuid.UUID) (*model.Order, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error)
	RescheduleOrder(ctx context.Context, id uuid.UUID, date time.Time, slot string, status model.OrderStatus) (*model.Order, error)
	AssignOrder(ctx context.Context, id, driverID uuid.UUID) (*model.Assignment, error)
	CreateDelivery(ctx context.Context, in model.NewDelivery) (*model.Delivery, error)
	CreateFailedDelivery(ctx context.Context, in model.NewFailedDelivery) (*model.FailedDelivery, error)
	CreateStockInbound(ctx context.Context, in model.NewStockInbound) (*model.StockInbound, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

type txRepository struct {
	tx pgx.Tx
}

const orderColumns = `id, address, zone, scheduled_date, time_slot, quantity, notes, status, assignee_id, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(
		&o.ID, &o.Address, &o.Zone, &o.ScheduledDate, &o.TimeSlot, &o.Quantity,
		&o.Notes, &o.Status, &o.AssigneeID, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.ScheduledDate = model.Day(o.ScheduledDate)
	return &o, nil
}

func (r *txRepository) CreateOrder(ctx context.Context, in model.NewOrder) (*model.Order, error) {
	row := r.tx.QueryRow(ctx, `
		INSERT INTO orders (id, address, zone, scheduled_date, time_slot, quantity, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+orderColumns,
		uuid.New(), in.Address, in.Zone, in.ScheduledDate, in.TimeSlot, in.Quantity, in.Notes, model.OrderStatusPending,
	)
	o, err := scanOrder(row)
	if err != nil {
		return nil, mapError("create order", err)
	}
	return o, nil
}

func (r *txRepository) GetOrderForUpdate(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	row := r.tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
	o, err := scanOrder(row)
	if err != nil {
		return nil, mapError(fmt.Sprintf("order %s", id), err)
	}
	return o, nil
}

func (r *txRepository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error) {
	row := r.tx.QueryRow(ctx, `
		UPDATE orders SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING `+orderColumns,
		id, status,
	)
	o, err := scanOrder(row)
	if err != nil {
		return nil, mapError(fmt.Sprintf("order %s", id), err)
	}
	return o, nil
}

func (r *txRepository) RescheduleOrder(ctx context.Context, id uuid.UUID, date time.Time, slot string, status model.OrderStatus) (*model.Order, error) {
	row := r.tx.QueryRow(ctx, `
		UPDATE orders SET scheduled_date = $2, time_slot = $3, status = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING `+orderColumns,
		id, date, slot, status,
	)
	o, err := scanOrder(row)
	if err != nil {
		return nil, mapError(fmt.Sprintf("order %s", id), err)
	}
	return o, nil
}

// AssignOrder переводит заказ в ASSIGNED на водителя и добавляет запись в историю назначений.
func (r *txRepository) AssignOrder(ctx context.Context, id, driverID uuid.UUID) (*model.Assignment, error) {
	tag, err := r.tx.Exec(ctx, `
		UPDATE orders SET status = $2, assignee_id = $3, updated_at = NOW()
		WHERE id = $1`,
		id, model.OrderStatusAssigned, driverID,
	)
	if err != nil {
		return nil, mapError(fmt.Sprintf("assign order %s", id), err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: order %s", model.ErrNotFound, id)
	}

	var a model.Assignment
	err = r.tx.QueryRow(ctx, `
		INSERT INTO assignments (id, order_id, driver_id)
		VALUES ($1, $2, $3)
		RETURNING id, order_id, driver_id, assigned_at`,
		uuid.New(), id, driverID,
	).Scan(&a.ID, &a.OrderID, &a.DriverID, &a.AssignedAt)
	if err != nil {
		return nil, mapError(fmt.Sprintf("record assignment %s", id), err)
	}
	return &a, nil
}

func (r *txRepository) CreateDelivery(ctx context.Context, in model.NewDelivery) (*model.Delivery, error) {
	var d model.Delivery
	err := r.tx.QueryRow(ctx, `
		INSERT INTO deliveries (id, order_id, llenas_entregadas, vacias_recibidas, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, order_id, llenas_entregadas, vacias_recibidas, notes, created_at`,
		uuid.New(), in.OrderID, in.FullDelivered, in.EmptyRecovered, in.Notes,
	).Scan(&d.ID, &d.OrderID, &d.FullDelivered, &d.EmptyRecovered, &d.Notes, &d.CreatedAt)
	if err != nil {
		return nil, mapError("create delivery", err)
	}
	return &d, nil
}

func (r *txRepository) CreateFailedDelivery(ctx context.Context, in model.NewFailedDelivery) (*model.FailedDelivery, error) {
	var f model.FailedDelivery
	err := r.tx.QueryRow(ctx, `
		INSERT INTO delivery_failures (id, order_id, reason, reprogram_date, reprogram_time_slot)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, order_id, reason, reprogram_date, reprogram_time_slot, created_at`,
		uuid.New(), in.OrderID, in.Reason, in.RescheduleDate, in.RescheduleSlot,
	).Scan(&f.ID, &f.OrderID, &f.Reason, &f.RescheduleDate, &f.RescheduleSlot, &f.CreatedAt)
	if err != nil {
		return nil, mapError("create failed delivery", err)
	}
	if f.RescheduleDate != nil {
		d := model.Day(*f.RescheduleDate)
		f.RescheduleDate = &d
	}
	return &f, nil
}

func (r *txRepository) CreateStockInbound(ctx context.Context, in model.NewStockInbound) (*model.StockInbound, error) {
	var s model.StockInbound
	err := r.tx.QueryRow(ctx, `
		INSERT INTO stock_inbounds (id, inbound_date, cantidad_llenas, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING id, inbound_date, cantidad_llenas, notes, created_at`,
		uuid.New(), in.Date, in.Quantity, in.Notes,
	).Scan(&s.ID, &s.Date, &s.Quantity, &s.Notes, &s.CreatedAt)
	if err != nil {
		return nil, mapError("create stock inbound", err)
	}
	s.Date = model.Day(s.Date)
	return &s, nil
}

func (r *txRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return getUserByID(ctx, r.tx, id)
}
