package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Freeeeeet/student_records/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeReporter struct {
	summary model.FeeSummary
	dues    []*model.FeeStatus
	err     error
}

func (f *fakeReporter) FeeSummary(context.Context) (model.FeeSummary, error) {
	return f.summary, f.err
}

func (f *fakeReporter) UpcomingDues(context.Context) ([]*model.FeeStatus, error) {
	return f.dues, f.err
}

func TestScheduler_SendDigest(t *testing.T) {
	due := time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC)
	reporter := &fakeReporter{
		summary: model.FeeSummary{TotalStudents: 2, TotalDueFee: decimal.NewFromInt(700), TotalDueToday: decimal.Zero},
		dues:    []*model.FeeStatus{{StudentID: 3, RemainingFees: decimal.NewFromInt(200), NextDueDate: &due}},
	}

	var got string
	s := NewScheduler(reporter, func(_ context.Context, text string) { got = text }, zap.NewNop())
	s.sendDigest(context.Background())

	assert.Contains(t, got, "Total due: 700.00")
	assert.Contains(t, got, "11.03.2024  user 3  200.00")
}

func TestScheduler_SkipsNotifyOnError(t *testing.T) {
	reporter := &fakeReporter{err: errors.New("db down")}

	called := false
	s := NewScheduler(reporter, func(context.Context, string) { called = true }, zap.NewNop())
	s.sendDigest(context.Background())

	assert.False(t, called)
}

func TestScheduler_StopEndsTask(t *testing.T) {
	s := NewScheduler(&fakeReporter{}, nil, zap.NewNop())

	done := make(chan struct{})
	go func() {
		s.runDigestTask(context.Background())
		close(done)
	}()

	s.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("digest task did not stop")
	}
}

func TestScheduler_StopTwice(t *testing.T) {
	s := NewScheduler(&fakeReporter{}, nil, zap.NewNop())

	assert.NotPanics(t, func() {
		s.Stop()
		s.Stop()
	})
}
