package analytics

import (
	"sort"
	"time"

	"github.com/Freeeeeet/student_records/internal/model"
	"github.com/shopspring/decimal"
)

// SummarizeFees считает все строки журнала и суммирует остатки.
// В TotalDueToday попадают только строки со сроком на календарную дату now.
func SummarizeFees(rows []*model.FeeStatus, now time.Time) model.FeeSummary {
	summary := model.FeeSummary{
		TotalStudents: int64(len(rows)),
		TotalDueFee:   decimal.Zero,
		TotalDueToday: decimal.Zero,
	}

	for _, row := range rows {
		summary.TotalDueFee = summary.TotalDueFee.Add(row.RemainingFees)
		if row.NextDueDate != nil && sameDate(*row.NextDueDate, now) {
			summary.TotalDueToday = summary.TotalDueToday.Add(row.RemainingFees)
		}
	}

	return summary
}

// UpcomingDues строки со сроком строго позже now, ближайшие первыми.
// При равной дате порядок по id.
func UpcomingDues(rows []*model.FeeStatus, now time.Time) []*model.FeeStatus {
	upcoming := make([]*model.FeeStatus, 0, len(rows))
	for _, row := range rows {
		if row.NextDueDate == nil {
			continue
		}
		if startOfDate(*row.NextDueDate, now.Location()).After(now) {
			upcoming = append(upcoming, row)
		}
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		a, b := upcoming[i], upcoming[j]
		if !a.NextDueDate.Equal(*b.NextDueDate) {
			return a.NextDueDate.Before(*b.NextDueDate)
		}
		return a.ID < b.ID
	})

	return upcoming
}

// sameDate сравнивает DATE из базы с календарной датой now.
// У DATE нет часового пояса, поэтому берём только год/месяц/день.
func sameDate(d, now time.Time) bool {
	y1, m1, d1 := d.Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func startOfDate(d time.Time, loc *time.Location) time.Time {
	y, m, day := d.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, loc)
}
