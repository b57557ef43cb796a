package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/Freeeeeet/student_records/internal/apperr"
	"github.com/Freeeeeet/student_records/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockUntilDone имитирует зависшее хранилище
func blockUntilDone(op string) func(ctx context.Context, got string) error {
	return func(ctx context.Context, got string) error {
		if got != op {
			return nil
		}
		<-ctx.Done()
		return ctx.Err()
	}
}

func TestRecordService_AppliesTimeout(t *testing.T) {
	e := newEnv(t, options{timeout: 20 * time.Millisecond})
	ctx := context.Background()

	a := e.user(t, "alice", model.UserStatusActive)
	e.member(t, a, 5)

	e.store.Before = blockUntilDone("memberships.ListActive")

	_, err := e.records.ListStudents(ctx, nil)
	require.Error(t, err)
	assert.Equal(t, apperr.KindTimeout, apperr.KindOf(err))
	assert.ErrorIs(t, err, apperr.ErrTimeout)
}

func TestRecordService_TimeoutRollsBackTransfer(t *testing.T) {
	e := newEnv(t, options{timeout: 20 * time.Millisecond})
	ctx := context.Background()

	a := e.user(t, "alice", model.UserStatusActive)
	e.member(t, a, 5)
	before := e.store.Snapshot()

	e.store.After = blockUntilDone("memberships.UpdateBatch")

	_, err := e.records.TransferStudent(ctx, a, 5, 7)
	assert.ErrorIs(t, err, apperr.ErrTimeout)
	assert.Equal(t, before, e.store.Snapshot())
}

func TestRecordService_CallerDeadlineWins(t *testing.T) {
	e := newEnv(t, options{timeout: time.Hour})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	e.store.Before = blockUntilDone("fees.List")

	_, err := e.records.FeeSummary(ctx)
	assert.Equal(t, apperr.KindTimeout, apperr.KindOf(err))
}

func TestRecordService_ExpiredContext(t *testing.T) {
	e := newEnv(t, options{})

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := e.records.Statistics(ctx, 1)
	assert.ErrorIs(t, err, apperr.ErrTimeout)
}
