// Package model содержит доменные сущности сервиса учёта доставки газовых баллонов.
package model

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout задаёт формат календарной даты во внешних представлениях.
const DateLayout = "2006-01-02"

// Role описывает роль пользователя.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleDriver Role = "DRIVER"
)

// IsValid сообщает, относится ли роль к известным.
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleDriver
}

// User представляет пользователя системы: администратора или водителя.
type User struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// Identity содержит уже проверенные данные о том, кто выполняет запрос.
type Identity struct {
	UserID uuid.UUID
	Role   Role
}

// Order описывает заказ на доставку баллонов.
type Order struct {
	ID            uuid.UUID
	Address       string
	Zone          string
	ScheduledDate time.Time
	TimeSlot      string
	Quantity      int
	Notes         *string
	Status        OrderStatus
	AssigneeID    *uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewOrder содержит данные для создания заказа.
type NewOrder struct {
	Address       string
	Zone          string
	ScheduledDate time.Time
	TimeSlot      string
	Quantity      int
	Notes         *string
}

// OrderFilter описывает параметры выборки заказов.
type OrderFilter struct {
	Date       *time.Time
	Status     *OrderStatus
	AssigneeID *uuid.UUID
	Page       int
	PageSize   int
}

// OrderPage содержит страницу заказов вместе с метаданными пагинации.
type OrderPage struct {
	Items []Order
	Pagination
}

// Assignment описывает запись истории назначения заказа водителю.
type Assignment struct {
	ID         uuid.UUID
	OrderID    uuid.UUID
	DriverID   uuid.UUID
	AssignedAt time.Time
}

// Delivery описывает успешную доставку: сколько полных баллонов отдано и сколько пустых забрано.
type Delivery struct {
	ID             uuid.UUID
	OrderID        uuid.UUID
	FullDelivered  int
	EmptyRecovered int
	Notes          *string
	CreatedAt      time.Time
}

// NewDelivery содержит данные для регистрации доставки.
type NewDelivery struct {
	OrderID        uuid.UUID
	FullDelivered  int
	EmptyRecovered int
	Notes          *string
}

// FailedDelivery описывает неудачную попытку доставки.
type FailedDelivery struct {
	ID             uuid.UUID
	OrderID        uuid.UUID
	Reason         string
	RescheduleDate *time.Time
	RescheduleSlot *string
	CreatedAt      time.Time
}

// NewFailedDelivery содержит данные для регистрации неудачной доставки.
type NewFailedDelivery struct {
	OrderID        uuid.UUID
	Reason         string
	RescheduleDate *time.Time
	RescheduleSlot *string
}

// StockInbound описывает запись журнала поступления полных баллонов.
type StockInbound struct {
	ID        uuid.UUID
	Date      time.Time
	Quantity  int
	Notes     *string
	CreatedAt time.Time
}

// NewStockInbound содержит данные для регистрации поступления.
type NewStockInbound struct {
	Date     time.Time
	Quantity int
	Notes    *string
}

// AuditEvent описывает событие журнала аудита.
type AuditEvent struct {
	ActorID  *uuid.UUID
	Entity   string
	EntityID *uuid.UUID
	Action   string
	Details  map[string]any
}

// Day приводит момент времени к началу календарного дня в UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
