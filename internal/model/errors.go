package model

import "errors"

// Категории ошибок, которые возвращает сервис. Любая ошибка бизнес-операции
// оборачивает ровно одну из них.
var (
	// ErrValidation: некорректный или недопустимый по смыслу ввод.
	ErrValidation = errors.New("validation error")
	// ErrNotFound: запрошенный заказ или пользователь отсутствует.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized: не пройдена проверка роли или владения.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrConflict: нарушение уникальности в хранилище.
	ErrConflict = errors.New("conflict")
	// ErrInfrastructure: сбой хранилища или другой зависимости.
	ErrInfrastructure = errors.New("infrastructure error")
)
