package analytics

import (
	"testing"
	"time"

	"github.com/Freeeeeet/student_records/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func feeRow(id int64, remaining string, due *time.Time) *model.FeeStatus {
	return &model.FeeStatus{
		ID:            id,
		StudentID:     id * 10,
		RemainingFees: decimal.RequireFromString(remaining),
		NextDueDate:   due,
	}
}

func TestSummarizeFees(t *testing.T) {
	now := time.Date(2026, time.March, 10, 15, 30, 0, 0, time.Local)

	rows := []*model.FeeStatus{
		feeRow(1, "100.10", date(2026, time.March, 10)),
		feeRow(2, "0.20", date(2026, time.March, 10)),
		feeRow(3, "999.70", date(2026, time.April, 1)),
		feeRow(4, "50", nil),
	}

	summary := SummarizeFees(rows, now)

	assert.Equal(t, int64(4), summary.TotalStudents)
	assert.True(t, decimal.RequireFromString("1150").Equal(summary.TotalDueFee), summary.TotalDueFee.String())
	assert.True(t, decimal.RequireFromString("100.30").Equal(summary.TotalDueToday), summary.TotalDueToday.String())
}

func TestSummarizeFeesExactDecimal(t *testing.T) {
	rows := make([]*model.FeeStatus, 0, 10)
	for i := int64(1); i <= 10; i++ {
		rows = append(rows, feeRow(i, "0.10", nil))
	}

	summary := SummarizeFees(rows, time.Now())

	assert.Equal(t, "1", summary.TotalDueFee.String())
}

func TestSummarizeFeesEmpty(t *testing.T) {
	summary := SummarizeFees(nil, time.Now())

	assert.Equal(t, int64(0), summary.TotalStudents)
	assert.True(t, summary.TotalDueFee.IsZero())
	assert.True(t, summary.TotalDueToday.IsZero())
}

func TestUpcomingDues(t *testing.T) {
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.Local)

	rows := []*model.FeeStatus{
		feeRow(1, "10", date(2026, time.May, 1)),
		feeRow(2, "10", date(2026, time.March, 10)), // сегодня, ещё не "предстоящий"
		feeRow(3, "10", date(2026, time.February, 1)),
		feeRow(4, "10", date(2026, time.March, 11)),
		feeRow(5, "10", nil),
		feeRow(6, "10", date(2026, time.March, 11)),
	}

	upcoming := UpcomingDues(rows, now)

	require.Len(t, upcoming, 3)
	assert.Equal(t, []int64{4, 6, 1}, []int64{upcoming[0].ID, upcoming[1].ID, upcoming[2].ID})
	for i := 1; i < len(upcoming); i++ {
		assert.False(t, upcoming[i].NextDueDate.Before(*upcoming[i-1].NextDueDate))
	}
}

func TestUpcomingDuesEmpty(t *testing.T) {
	upcoming := UpcomingDues(nil, time.Now())

	assert.NotNil(t, upcoming)
	assert.Empty(t, upcoming)
}
