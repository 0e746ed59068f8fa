package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmeshcher/gasflow/internal/model"
)

// MinPasswordLength задаёт минимальную длину пароля нового пользователя.
const MinPasswordLength = 6

var errInvalidCredentials = fmt.Errorf("%w: invalid credentials", model.ErrUnauthorized)

// Authenticate проверяет логин и пароль и возвращает пользователя.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	u, err := s.repo.GetUserByLogin(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if !checkPassword(u.PasswordHash, password) {
		return nil, errInvalidCredentials
	}
	return u, nil
}

// Me возвращает пользователя, от имени которого выполняется запрос.
func (s *Service) Me(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

// CreateUser регистрирует пользователя с bcrypt-хешем пароля.
func (s *Service) CreateUser(ctx context.Context, username, password string, role model.Role) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, validationf("username is required")
	}
	if len(password) < MinPasswordLength {
		return nil, validationf("password must be at least %d characters", MinPasswordLength)
	}
	if !role.IsValid() {
		return nil, validationf("unknown role %q", role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("%w: hash password: %w", model.ErrInfrastructure, err)
	}
	return s.repo.CreateUser(ctx, username, string(hash), role)
}

func isBcryptHash(stored string) bool {
	return strings.HasPrefix(stored, "$2a$") ||
		strings.HasPrefix(stored, "$2b$") ||
		strings.HasPrefix(stored, "$2y$")
}

// checkPassword сверяет пароль с bcrypt-хешем. Старые записи без хеша сравниваются как есть.
func checkPassword(stored, password string) bool {
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
}
