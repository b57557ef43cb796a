package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/Freeeeeet/student_records/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithinTx_RollbackRestoresState(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithinTx(ctx, func(ctx context.Context) error {
		require.NoError(t, s.Users().Create(ctx, &model.User{Name: "alice", Email: "a@example.com", Status: model.UserStatusActive}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	user, err := s.Users().FindUser(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestWithinTx_CommitKeepsState(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	var id int64
	err := s.WithinTx(ctx, func(ctx context.Context) error {
		u := &model.User{Name: "alice", Email: "a@example.com", Status: model.UserStatusActive}
		if err := s.Users().Create(ctx, u); err != nil {
			return err
		}
		id = u.ID
		// Вложенный вызов идёт в той же транзакции
		return s.WithinTx(ctx, func(ctx context.Context) error {
			return s.Users().UpdateStatus(ctx, id, model.UserStatusInactive)
		})
	})
	require.NoError(t, err)

	user, err := s.Users().FindUser(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, model.UserStatusInactive, user.Status)
}
