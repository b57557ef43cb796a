package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/student_records/internal/model"
	"github.com/Freeeeeet/student_records/internal/repository/base"
)

const userColumns = `user_id, name, email, phone_number, role_id, status, created_at`

// UserRepository справочник пользователей
type UserRepository struct {
	db *base.Repository
}

func NewUserRepository(db *base.Repository) *UserRepository {
	return &UserRepository{db: db}
}

// Create создаёт нового пользователя
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (name, email, phone_number, role_id, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING user_id, created_at
	`

	err := r.db.QueryRow(
		ctx, query,
		user.Name,
		user.Email,
		user.PhoneNumber,
		user.RoleID,
		user.Status,
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// FindUser получает пользователя по ID независимо от статуса
func (r *UserRepository) FindUser(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil // Пользователь не найден
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	return user, nil
}

// FindActiveUser получает пользователя только если он активен
func (r *UserRepository) FindActiveUser(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1 AND status = 'active'`

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find active user: %w", err)
	}

	return user, nil
}

// UpdateStatus меняет статус пользователя
func (r *UserRepository) UpdateStatus(ctx context.Context, id int64, status model.UserStatus) error {
	affected, err := r.db.ExecAffected(ctx, `UPDATE users SET status = $1 WHERE user_id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("update user status: %w", err)
	}

	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func scanUser(row interface{ Scan(dest ...any) error }) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PhoneNumber,
		&user.RoleID,
		&user.Status,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
