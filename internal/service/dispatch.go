package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmeshcher/gasflow/internal/model"
	"github.com/mmeshcher/gasflow/internal/repository"
)

// AssignOrders назначает все заказы пакета одному водителю в одной транзакции.
// Если хотя бы одного заказа нет, ни один заказ пакета не меняется.
func (s *Service) AssignOrders(ctx context.Context, actor model.Identity, orderIDs []uuid.UUID, driverID uuid.UUID) ([]model.Assignment, error) {
	if len(orderIDs) == 0 {
		return nil, validationf("order_ids must not be empty")
	}
	ids := uniqueIDs(orderIDs)

	assignments := make([]model.Assignment, 0, len(ids))
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx repository.TxRepository) error {
		driver, err := tx.GetUserByID(ctx, driverID)
		if err != nil {
			return err
		}
		if driver.Role != model.RoleDriver {
			return validationf("user %s is not a driver", driverID)
		}

		// Сначала блокируем и проверяем весь пакет, затем пишем.
		for _, id := range ids {
			o, err := tx.GetOrderForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if o.Status == model.OrderStatusDelivered {
				return validationf("order %s is already DELIVERED", id)
			}
		}

		for _, id := range ids {
			a, err := tx.AssignOrder(ctx, id, driverID)
			if err != nil {
				return err
			}
			assignments = append(assignments, *a)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	events := make([]model.AuditEvent, 0, len(ids))
	for _, id := range ids {
		events = append(events, event(actor, "order", id, "assigned", map[string]any{
			"driver_id": driverID.String(),
		}))
	}
	if err := s.record(ctx, events...); err != nil {
		return nil, fmt.Errorf("orders assigned: %w", err)
	}
	return assignments, nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
