package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mmeshcher/gasflow/internal/model"
)

// GetOrderByID возвращает заказ по идентификатору.
func (r *PostgresRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	o, err := scanOrder(row)
	if err != nil {
		return nil, mapError(fmt.Sprintf("order %s", id), err)
	}
	return o, nil
}

// ListOrders возвращает страницу заказов по фильтру. Фильтр должен быть нормализован.
func (r *PostgresRepository) ListOrders(ctx context.Context, f model.OrderFilter) (*model.OrderPage, error) {
	where, args := buildOrdersWhere(f)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`+where, args...).Scan(&total); err != nil {
		return nil, mapError("count orders", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM orders%s ORDER BY scheduled_date, created_at LIMIT $%d OFFSET $%d`,
		orderColumns, where, len(args)+1, len(args)+2)
	rows, err := r.pool.Query(ctx, query, append(args, f.PageSize, f.Offset())...)
	if err != nil {
		return nil, mapError("list orders", err)
	}
	defer rows.Close()

	items := make([]model.Order, 0, f.PageSize)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, mapError("scan order", err)
		}
		items = append(items, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("iterate orders", err)
	}

	return &model.OrderPage{
		Items:      items,
		Pagination: model.NewPagination(f.Page, f.PageSize, total),
	}, nil
}

// buildOrdersWhere собирает условие WHERE и аргументы по заданным полям фильтра.
func buildOrdersWhere(f model.OrderFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.Date != nil {
		args = append(args, model.Day(*f.Date))
		conds = append(conds, fmt.Sprintf("scheduled_date = $%d", len(args)))
	}
	if f.Status != nil {
		args = append(args, *f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.AssigneeID != nil {
		args = append(args, *f.AssigneeID)
		conds = append(conds, fmt.Sprintf("assignee_id = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
