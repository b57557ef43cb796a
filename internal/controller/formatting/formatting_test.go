package formatting

import (
	"testing"
	"time"

	"github.com/Freeeeeet/student_records/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMoney(t *testing.T) {
	assert.Equal(t, "600.00", Money(decimal.NewFromInt(600)))
	assert.Equal(t, "0.10", Money(decimal.RequireFromString("0.1")))
}

func TestDues(t *testing.T) {
	assert.Equal(t, "✅ No upcoming dues.", Dues(nil, 5))

	d1 := time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC)
	rows := []*model.FeeStatus{
		{StudentID: 1, RemainingFees: decimal.NewFromInt(100), NextDueDate: &d1},
		{StudentID: 2, RemainingFees: decimal.NewFromInt(200), NextDueDate: &d2},
	}

	out := Dues(rows, 1)
	assert.Contains(t, out, "Upcoming dues: 2 rows")
	assert.Contains(t, out, "11.03.2024  user 1  100.00")
	assert.NotContains(t, out, "user 2")
	assert.Contains(t, out, "and 1 more")
}

func TestRankAndStatistics(t *testing.T) {
	rank := Rank(model.StudentRank{TestID: 1, StudentID: 7, Rank: 2, RankedCount: 3, MarksObtained: decimal.NewFromInt(90)})
	assert.Contains(t, rank, "ranked 2 of 3 with 90 marks")

	stats := Statistics(model.TestStatistics{
		TestID:       1,
		RecordCount:  1,
		HighestMarks: decimal.NewFromInt(90),
		LowestMarks:  decimal.NewFromInt(90),
		AverageMarks: decimal.NewFromInt(90),
	})
	assert.Contains(t, stats, "(1 record)")
	assert.Contains(t, stats, "Average: 90.00")
}

func TestBatch(t *testing.T) {
	out := Batch(5, []*model.MembershipDetail{{StudentID: 1, Name: "Alice", Email: "a@school.test"}})
	assert.Contains(t, out, "Batch 5: 1 active student")
	assert.Contains(t, out, "Alice (id 1), a@school.test")
}
