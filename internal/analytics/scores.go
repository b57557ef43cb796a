package analytics

import (
	"sort"

	"github.com/Freeeeeet/student_records/internal/model"
	"github.com/shopspring/decimal"
)

// LatestPerStudent оставляет одну запись на студента: последнюю по updated_at,
// при равном времени с большим record_id. Результат упорядочен по record_id.
func LatestPerStudent(records []*model.TestRecord) []*model.TestRecord {
	latest := make(map[int64]*model.TestRecord, len(records))
	for _, r := range records {
		cur, ok := latest[r.StudentID]
		if !ok || r.UpdatedAt.After(cur.UpdatedAt) || (r.UpdatedAt.Equal(cur.UpdatedAt) && r.ID > cur.ID) {
			latest[r.StudentID] = r
		}
	}

	out := make([]*model.TestRecord, 0, len(latest))
	for _, r := range latest {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Standings сортирует по баллам по убыванию.
// При равных баллах выше тот, чей результат внесён раньше (меньший record_id).
func Standings(records []*model.TestRecord) []*model.TestRecord {
	out := LatestPerStudent(records)
	sort.SliceStable(out, func(i, j int) bool {
		cmp := out[i].MarksObtained.Cmp(out[j].MarksObtained)
		if cmp != 0 {
			return cmp > 0
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// PositionalRank место студента в таблице, начиная с 1.
// Студенты с равными баллами получают разные соседние места.
// ok == false если у студента нет записи.
func PositionalRank(records []*model.TestRecord, studentID int64) (rank model.StudentRank, ok bool) {
	standings := Standings(records)
	for i, r := range standings {
		if r.StudentID == studentID {
			return model.StudentRank{
				TestID:        r.TestID,
				StudentID:     studentID,
				Rank:          i + 1,
				MarksObtained: r.MarksObtained,
				RankedCount:   len(standings),
			}, true
		}
	}
	return model.StudentRank{}, false
}

// Statistics агрегаты по одному снимку записей теста.
// Все поля считаются по одному и тому же набору строк. ok == false если записей нет.
func Statistics(testID int64, records []*model.TestRecord) (stats model.TestStatistics, ok bool) {
	rows := LatestPerStudent(records)
	if len(rows) == 0 {
		return model.TestStatistics{}, false
	}

	first := rows[0]
	stats = model.TestStatistics{
		TestID:         testID,
		HighestMarks:   first.MarksObtained,
		LowestMarks:    first.MarksObtained,
		RecordCount:    len(rows),
		FirstCreatedAt: first.CreatedAt,
		LastUpdatedAt:  first.UpdatedAt,
	}

	sum := decimal.Zero
	for _, r := range rows {
		sum = sum.Add(r.MarksObtained)
		if r.MarksObtained.GreaterThan(stats.HighestMarks) {
			stats.HighestMarks = r.MarksObtained
		}
		if r.MarksObtained.LessThan(stats.LowestMarks) {
			stats.LowestMarks = r.MarksObtained
		}
		if r.CreatedAt.Before(stats.FirstCreatedAt) {
			stats.FirstCreatedAt = r.CreatedAt
		}
		if r.UpdatedAt.After(stats.LastUpdatedAt) {
			stats.LastUpdatedAt = r.UpdatedAt
		}
	}
	stats.AverageMarks = sum.Div(decimal.NewFromInt(int64(len(rows))))

	return stats, true
}
