package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/Freeeeeet/student_records/internal/model"
	"github.com/Freeeeeet/student_records/internal/repository/memory"
	"github.com/Freeeeeet/student_records/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type env struct {
	store   *memory.Store
	records *service.RecordService
	now     time.Time
}

type options struct {
	enforceSingle bool
	enforceUnique bool
	timeout       time.Duration
}

func newEnv(t *testing.T, opts options) *env {
	t.Helper()

	store := memory.NewStore()
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.Local)
	store.Now = func() time.Time { return now }

	logger := zap.NewNop()
	users := store.Users()

	if opts.timeout == 0 {
		opts.timeout = time.Second
	}

	records := service.NewRecordService(
		service.NewUserService(users, logger),
		service.NewBatchService(store, store.Memberships(), users, opts.enforceSingle, logger),
		service.NewFeeService(store, store.Fees(), users, logger).WithClock(func() time.Time { return now }),
		service.NewTestService(store, store.Records(), users, opts.enforceUnique, logger),
		opts.timeout,
	)

	return &env{store: store, records: records, now: now}
}

func (e *env) user(t *testing.T, name string, status model.UserStatus) int64 {
	t.Helper()

	u, err := e.records.CreateUser(context.Background(), &model.User{
		Name:   name,
		Email:  name + "@school.test",
		RoleID: 3,
		Status: status,
	})
	require.NoError(t, err)
	return u.ID
}

func (e *env) member(t *testing.T, studentID, batchID int64) {
	t.Helper()

	require.NoError(t, e.store.Memberships().Create(context.Background(), &model.Membership{
		StudentID: studentID,
		BatchID:   batchID,
	}))
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr[T any](v T) *T { return &v }
