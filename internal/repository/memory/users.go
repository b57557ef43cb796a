package memory

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/student_records/internal/model"
	"github.com/jackc/pgx/v5/pgconn"
)

type UserRepository struct{ s *Store }

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	unlock, err := r.s.begin(ctx, "users.Create")
	if err != nil {
		return err
	}
	defer unlock()

	for _, u := range r.s.d.users {
		if u.Email == user.Email {
			return fmt.Errorf("create user: %w", &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})
		}
	}

	user.ID = r.s.id()
	user.CreatedAt = r.s.Now()
	r.s.d.users[user.ID] = *user
	return r.s.after(ctx, "users.Create")
}

func (r *UserRepository) FindUser(ctx context.Context, id int64) (*model.User, error) {
	unlock, err := r.s.begin(ctx, "users.FindUser")
	if err != nil {
		return nil, err
	}
	defer unlock()

	u, ok := r.s.d.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepository) FindActiveUser(ctx context.Context, id int64) (*model.User, error) {
	unlock, err := r.s.begin(ctx, "users.FindActiveUser")
	if err != nil {
		return nil, err
	}
	defer unlock()

	u, ok := r.s.d.users[id]
	if !ok || u.Status != model.UserStatusActive {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepository) UpdateStatus(ctx context.Context, id int64, status model.UserStatus) error {
	unlock, err := r.s.begin(ctx, "users.UpdateStatus")
	if err != nil {
		return err
	}
	defer unlock()

	u, ok := r.s.d.users[id]
	if !ok {
		return errNotFound
	}
	u.Status = status
	r.s.d.users[id] = u
	return r.s.after(ctx, "users.UpdateStatus")
}
