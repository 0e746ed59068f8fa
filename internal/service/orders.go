package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mmeshcher/gasflow/internal/model"
	"github.com/mmeshcher/gasflow/internal/repository"
)

// CreateOrder создаёт заказ в статусе PENDING без назначенного водителя.
func (s *Service) CreateOrder(ctx context.Context, actor model.Identity, in model.NewOrder) (*model.Order, error) {
	in.Address = strings.TrimSpace(in.Address)
	in.Zone = strings.TrimSpace(in.Zone)
	in.TimeSlot = strings.TrimSpace(in.TimeSlot)

	if in.Quantity <= 0 {
		return nil, validationf("quantity must be greater than 0")
	}
	if in.Address == "" || in.Zone == "" || in.TimeSlot == "" {
		return nil, validationf("address, zone and time slot are required")
	}
	in.ScheduledDate = model.Day(in.ScheduledDate)

	var created *model.Order
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx repository.TxRepository) error {
		o, err := tx.CreateOrder(ctx, in)
		if err != nil {
			return err
		}
		created = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = s.record(ctx, event(actor, "order", created.ID, "created", map[string]any{
		"zone":           created.Zone,
		"scheduled_date": created.ScheduledDate.Format(model.DateLayout),
		"quantity":       created.Quantity,
	}))
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetOrder возвращает заказ по идентификатору.
func (s *Service) GetOrder(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return s.repo.GetOrderByID(ctx, id)
}

// ListOrders возвращает страницу заказов. Водитель видит только назначенные ему заказы.
func (s *Service) ListOrders(ctx context.Context, actor model.Identity, f model.OrderFilter) (*model.OrderPage, error) {
	if err := f.Normalize(); err != nil {
		return nil, err
	}
	if actor.Role == model.RoleDriver {
		id := actor.UserID
		f.AssigneeID = &id
	}
	return s.repo.ListOrders(ctx, f)
}

// ChangeStatus переводит заказ в статус target, если переход допустим.
func (s *Service) ChangeStatus(ctx context.Context, actor model.Identity, id uuid.UUID, target model.OrderStatus) (*model.Order, error) {
	if !target.IsValid() {
		return nil, validationf("unknown status %q", target)
	}

	var updated *model.Order
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx repository.TxRepository) error {
		o, err := tx.GetOrderForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !model.CanTransition(o.Status, target) {
			return validationf("invalid status transition from %s to %s", o.Status, target)
		}
		updated, err = tx.UpdateOrderStatus(ctx, id, target)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = s.record(ctx, event(actor, "order", id, "status_changed", map[string]any{
		"status": string(target),
	}))
	if err != nil {
		return nil, fmt.Errorf("order %s status changed: %w", id, err)
	}
	return updated, nil
}
