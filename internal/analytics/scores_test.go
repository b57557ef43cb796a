package analytics

import (
	"testing"
	"time"

	"github.com/Freeeeeet/student_records/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, time.January, 5, 8, 0, 0, 0, time.UTC)

func score(id, student int64, marks string, minutes int) *model.TestRecord {
	ts := base.Add(time.Duration(minutes) * time.Minute)
	return &model.TestRecord{
		ID:            id,
		TestID:        42,
		StudentID:     student,
		MarksObtained: decimal.RequireFromString(marks),
		CreatedAt:     ts,
		UpdatedAt:     ts,
	}
}

func TestPositionalRankTiesByEntryOrder(t *testing.T) {
	records := []*model.TestRecord{
		score(1, 101, "90", 0),
		score(2, 102, "90", 1),
		score(3, 103, "80", 2),
	}

	tests := []struct {
		student int64
		want    int
	}{
		{101, 1},
		{102, 2},
		{103, 3},
	}

	for _, tt := range tests {
		rank, ok := PositionalRank(records, tt.student)
		require.True(t, ok)
		assert.Equal(t, tt.want, rank.Rank, "student %d", tt.student)
		assert.Equal(t, 3, rank.RankedCount)
	}
}

func TestPositionalRankIgnoresFetchOrder(t *testing.T) {
	records := []*model.TestRecord{
		score(3, 103, "80", 2),
		score(2, 102, "90", 1),
		score(1, 101, "90", 0),
	}

	rank, ok := PositionalRank(records, 101)
	require.True(t, ok)
	assert.Equal(t, 1, rank.Rank)
}

func TestPositionalRankIsBijection(t *testing.T) {
	records := []*model.TestRecord{
		score(1, 1, "70", 0),
		score(2, 2, "70", 1),
		score(3, 3, "55.5", 2),
		score(4, 4, "99", 3),
		score(5, 5, "70", 4),
		score(6, 6, "0", 5),
	}

	seen := map[int]bool{}
	for _, r := range records {
		rank, ok := PositionalRank(records, r.StudentID)
		require.True(t, ok)
		assert.False(t, seen[rank.Rank], "rank %d assigned twice", rank.Rank)
		seen[rank.Rank] = true
	}
	for i := 1; i <= len(records); i++ {
		assert.True(t, seen[i], "rank %d missing", i)
	}
}

func TestPositionalRankUsesLatestCorrection(t *testing.T) {
	older := score(1, 101, "40", 0)
	newer := score(4, 101, "95", 10)
	records := []*model.TestRecord{
		older,
		score(2, 102, "90", 1),
		newer,
	}

	rank, ok := PositionalRank(records, 101)
	require.True(t, ok)
	assert.Equal(t, 1, rank.Rank)
	assert.Equal(t, 2, rank.RankedCount)
	assert.Equal(t, "95", rank.MarksObtained.String())
}

func TestPositionalRankMissingStudent(t *testing.T) {
	_, ok := PositionalRank([]*model.TestRecord{score(1, 101, "90", 0)}, 999)
	assert.False(t, ok)

	_, ok = PositionalRank(nil, 101)
	assert.False(t, ok)
}

func TestStatistics(t *testing.T) {
	records := []*model.TestRecord{
		score(1, 101, "90", 0),
		score(2, 102, "90", 5),
		score(3, 103, "80", 2),
	}
	records[2].UpdatedAt = base.Add(time.Hour)

	stats, ok := Statistics(42, records)
	require.True(t, ok)

	assert.Equal(t, "90", stats.HighestMarks.String())
	assert.Equal(t, "80", stats.LowestMarks.String())
	assert.True(t, stats.AverageMarks.GreaterThan(decimal.RequireFromString("86.66")))
	assert.True(t, stats.AverageMarks.LessThan(decimal.RequireFromString("86.67")))
	assert.Equal(t, 3, stats.RecordCount)
	assert.Equal(t, base, stats.FirstCreatedAt)
	assert.Equal(t, base.Add(time.Hour), stats.LastUpdatedAt)

	for _, r := range records {
		assert.True(t, stats.HighestMarks.GreaterThanOrEqual(r.MarksObtained))
		assert.True(t, stats.LowestMarks.LessThanOrEqual(r.MarksObtained))
	}
	assert.True(t, stats.AverageMarks.GreaterThanOrEqual(stats.LowestMarks))
	assert.True(t, stats.AverageMarks.LessThanOrEqual(stats.HighestMarks))
}

func TestStatisticsExactAverage(t *testing.T) {
	records := []*model.TestRecord{
		score(1, 1, "70.25", 0),
		score(2, 2, "70.50", 1),
	}

	stats, ok := Statistics(42, records)
	require.True(t, ok)
	assert.True(t, decimal.RequireFromString("70.375").Equal(stats.AverageMarks), stats.AverageMarks.String())
}

func TestStatisticsEmpty(t *testing.T) {
	_, ok := Statistics(42, nil)
	assert.False(t, ok)
}
