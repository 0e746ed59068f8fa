package model

// OrderStatus описывает статус заказа в жизненном цикле доставки.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusAssigned  OrderStatus = "ASSIGNED"
	OrderStatusInTransit OrderStatus = "IN_TRANSIT"
	OrderStatusDelivered OrderStatus = "DELIVERED"
)

// OrderStatuses перечисляет все статусы в порядке жизненного цикла.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusAssigned,
	OrderStatusInTransit,
	OrderStatusDelivered,
}

// transitions задаёт все допустимые переходы. DELIVERED терминален.
var transitions = map[OrderStatus]map[OrderStatus]struct{}{
	OrderStatusPending: {
		OrderStatusAssigned: {},
	},
	OrderStatusAssigned: {
		OrderStatusInTransit: {},
		OrderStatusDelivered: {},
	},
	OrderStatusInTransit: {
		OrderStatusAssigned:  {},
		OrderStatusDelivered: {},
	},
}

// IsValid сообщает, относится ли статус к известным.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusAssigned, OrderStatusInTransit, OrderStatusDelivered:
		return true
	default:
		return false
	}
}

// CanTransition проверяет, допустим ли переход из current в target.
func CanTransition(current, target OrderStatus) bool {
	_, ok := transitions[current][target]
	return ok
}

// CanDeliver сообщает, можно ли в этом статусе регистрировать результат доставки.
func (s OrderStatus) CanDeliver() bool {
	return s == OrderStatusAssigned || s == OrderStatusInTransit
}
