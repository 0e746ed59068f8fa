package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmeshcher/gasflow/internal/model"
)

const userColumns = `id, username, password_hash, role, created_at`

func scanUser(row interface{ Scan(dest ...any) error }) (*model.User, error) {
	var u model.User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func getUserByID(ctx context.Context, q querier, id uuid.UUID) (*model.User, error) {
	u, err := scanUser(q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, mapError(fmt.Sprintf("user %s", id), err)
	}
	return u, nil
}

// GetUserByID возвращает пользователя по идентификатору.
func (r *PostgresRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return getUserByID(ctx, r.pool, id)
}

// GetUserByLogin возвращает пользователя по логину.
func (r *PostgresRepository) GetUserByLogin(ctx context.Context, username string) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if err != nil {
		return nil, mapError(fmt.Sprintf("user %q", username), err)
	}
	return u, nil
}

// CreateUser сохраняет нового пользователя. Занятый логин возвращает model.ErrConflict.
func (r *PostgresRepository) CreateUser(ctx context.Context, username, passwordHash string, role model.Role) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `
		INSERT INTO users (id, username, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns,
		uuid.New(), username, passwordHash, role,
	))
	if err != nil {
		return nil, mapError("create user", err)
	}
	return u, nil
}
