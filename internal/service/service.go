// Package service реализует бизнес-логику учёта доставки газовых баллонов:
// жизненный цикл заказа, диспетчеризацию, регистрацию доставок, журнал остатков и отчёты.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmeshcher/gasflow/internal/model"
	"github.com/mmeshcher/gasflow/internal/repository"
)

// Repository описывает контракт доступа к данным, используемый сервисом.
type Repository interface {
	Close() error
	WithTx(ctx context.Context, fn func(ctx context.Context, tx repository.TxRepository) error) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	ListOrders(ctx context.Context, f model.OrderFilter) (*model.OrderPage, error)
	StockTotals(ctx context.Context, cutoff *time.Time) (model.StockTotals, error)
	DailyTotals(ctx context.Context, day time.Time) (model.DailyTotals, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetUserByLogin(ctx context.Context, username string) (*model.User, error)
	CreateUser(ctx context.Context, username, passwordHash string, role model.Role) (*model.User, error)
}

// AuditSink принимает события аудита после фиксации бизнес-операции.
type AuditSink interface {
	RecordEvent(ctx context.Context, e model.AuditEvent) error
}

// Service содержит бизнес-логику сервиса.
type Service struct {
	repo  Repository
	audit AuditSink
	now   func() time.Time
}

// NewService создаёт новый сервис с указанным репозиторием и журналом аудита.
func NewService(repo Repository, audit AuditSink) *Service {
	return &Service{
		repo:  repo,
		audit: audit,
		now:   time.Now,
	}
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}

// record отправляет события в журнал аудита. Бизнес-запись к этому моменту уже зафиксирована,
// поэтому ошибка журнала возвращается вызывающему как ErrInfrastructure без отката.
func (s *Service) record(ctx context.Context, events ...model.AuditEvent) error {
	if s.audit == nil {
		return nil
	}
	for _, e := range events {
		if err := s.audit.RecordEvent(ctx, e); err != nil {
			if errors.Is(err, model.ErrInfrastructure) {
				return fmt.Errorf("audit %s/%s: %w", e.Entity, e.Action, err)
			}
			return fmt.Errorf("%w: audit %s/%s: %w", model.ErrInfrastructure, e.Entity, e.Action, err)
		}
	}
	return nil
}

func event(actor model.Identity, entity string, entityID uuid.UUID, action string, details map[string]any) model.AuditEvent {
	var actorID *uuid.UUID
	if actor.UserID != uuid.Nil {
		id := actor.UserID
		actorID = &id
	}
	return model.AuditEvent{
		ActorID:  actorID,
		Entity:   entity,
		EntityID: &entityID,
		Action:   action,
		Details:  details,
	}
}

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", model.ErrValidation, fmt.Sprintf(format, args...))
}
