// Package access содержит правила доступа к заказам в зависимости от роли.
package access

import (
	"github.com/google/uuid"

	"github.com/mmeshcher/gasflow/internal/model"
)

// Allow решает, может ли пользователь с ролью role и идентификатором requesterID
// действовать над ресурсом, принадлежащим ownerID. Администратор может всё,
// водитель только над ресурсами, назначенными ему. Ресурс без владельца
// доступен только администратору.
func Allow(role model.Role, requesterID uuid.UUID, ownerID *uuid.UUID) bool {
	switch role {
	case model.RoleAdmin:
		return true
	case model.RoleDriver:
		return ownerID != nil && *ownerID == requesterID
	default:
		return false
	}
}

// IsAdmin сообщает, обладает ли пользователь правами администратора.
func IsAdmin(id model.Identity) bool {
	return id.Role == model.RoleAdmin
}
