package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mmeshcher/gasflow/internal/access"
	"github.com/mmeshcher/gasflow/internal/model"
	"github.com/mmeshcher/gasflow/internal/repository"
)

// loadDeliverable блокирует заказ и проверяет, что по нему можно регистрировать результат доставки.
func loadDeliverable(ctx context.Context, tx repository.TxRepository, actor model.Identity, orderID uuid.UUID) (*model.Order, error) {
	o, err := tx.GetOrderForUpdate(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.Status.CanDeliver() {
		return nil, validationf("order must be ASSIGNED or IN_TRANSIT to register a delivery, got %s", o.Status)
	}
	if !access.Allow(actor.Role, actor.UserID, o.AssigneeID) {
		return nil, fmt.Errorf("%w: order %s is not assigned to you", model.ErrUnauthorized, o.ID)
	}
	return o, nil
}

// RegisterDelivery фиксирует успешную доставку и переводит заказ в DELIVERED.
func (s *Service) RegisterDelivery(ctx context.Context, actor model.Identity, in model.NewDelivery) (*model.Delivery, error) {
	if in.FullDelivered < 0 || in.EmptyRecovered < 0 {
		return nil, validationf("llenas_entregadas and vacias_recibidas must be >= 0")
	}

	var created *model.Delivery
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx repository.TxRepository) error {
		o, err := loadDeliverable(ctx, tx, actor, in.OrderID)
		if err != nil {
			return err
		}
		if !model.CanTransition(o.Status, model.OrderStatusDelivered) {
			return validationf("invalid status transition from %s to %s", o.Status, model.OrderStatusDelivered)
		}

		created, err = tx.CreateDelivery(ctx, in)
		if err != nil {
			return err
		}
		_, err = tx.UpdateOrderStatus(ctx, o.ID, model.OrderStatusDelivered)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = s.record(ctx, event(actor, "delivery", created.ID, "created", map[string]any{
		"order_id":          created.OrderID.String(),
		"llenas_entregadas": created.FullDelivered,
		"vacias_recibidas":  created.EmptyRecovered,
	}))
	if err != nil {
		return nil, fmt.Errorf("delivery %s registered: %w", created.ID, err)
	}
	return created, nil
}

// RegisterFailedDelivery фиксирует неудачную попытку и возвращает заказ в ASSIGNED тому же водителю.
// Без новой даты или окна заказ сохраняет текущие.
func (s *Service) RegisterFailedDelivery(ctx context.Context, actor model.Identity, in model.NewFailedDelivery) (*model.FailedDelivery, error) {
	in.Reason = strings.TrimSpace(in.Reason)
	if in.Reason == "" {
		return nil, validationf("reason is required")
	}
	if in.RescheduleDate != nil {
		d := model.Day(*in.RescheduleDate)
		in.RescheduleDate = &d
	}
	if in.RescheduleSlot != nil {
		slot := strings.TrimSpace(*in.RescheduleSlot)
		if slot == "" {
			in.RescheduleSlot = nil
		} else {
			in.RescheduleSlot = &slot
		}
	}

	var created *model.FailedDelivery
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx repository.TxRepository) error {
		o, err := loadDeliverable(ctx, tx, actor, in.OrderID)
		if err != nil {
			return err
		}

		created, err = tx.CreateFailedDelivery(ctx, in)
		if err != nil {
			return err
		}

		date, slot := o.ScheduledDate, o.TimeSlot
		if in.RescheduleDate != nil {
			date = *in.RescheduleDate
		}
		if in.RescheduleSlot != nil {
			slot = *in.RescheduleSlot
		}
		// Оба допустимых исходных статуса ведут в ASSIGNED, общий валидатор переходов здесь не нужен.
		_, err = tx.RescheduleOrder(ctx, o.ID, date, slot, model.OrderStatusAssigned)
		return err
	})
	if err != nil {
		return nil, err
	}

	details := map[string]any{
		"order_id":            created.OrderID.String(),
		"reason":              created.Reason,
		"reprogram_date":      nil,
		"reprogram_time_slot": nil,
	}
	if created.RescheduleDate != nil {
		details["reprogram_date"] = created.RescheduleDate.Format(model.DateLayout)
	}
	if created.RescheduleSlot != nil {
		details["reprogram_time_slot"] = *created.RescheduleSlot
	}
	if err := s.record(ctx, event(actor, "delivery_failure", created.ID, "created", details)); err != nil {
		return nil, fmt.Errorf("failed delivery %s registered: %w", created.ID, err)
	}
	return created, nil
}
