// Package formatting текстовые представления сводок для бота и планировщика
package formatting

import (
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/student_records/internal/model"
	"github.com/shopspring/decimal"
)

const dateLayout = "02.01.2006"

// Money сумма с двумя знаками после запятой
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func Date(t time.Time) string {
	return t.Format(dateLayout)
}

// Plural выбирает форму слова по числу
func Plural(count int, one, many string) string {
	if count == 1 {
		return one
	}
	return many
}

func Summary(s model.FeeSummary) string {
	return fmt.Sprintf(
		"💰 Fee summary\n\n"+
			"📋 Ledger rows: %d\n"+
			"💸 Total due: %s\n"+
			"📅 Due today: %s",
		s.TotalStudents,
		Money(s.TotalDueFee),
		Money(s.TotalDueToday),
	)
}

// Dues список ближайших платежей, не больше limit строк
func Dues(rows []*model.FeeStatus, limit int) string {
	if len(rows) == 0 {
		return "✅ No upcoming dues."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📅 Upcoming dues: %d %s\n", len(rows), Plural(len(rows), "row", "rows"))

	for i, row := range rows {
		if limit > 0 && i == limit {
			fmt.Fprintf(&sb, "\n…and %d more", len(rows)-limit)
			break
		}
		fmt.Fprintf(&sb, "\n%s  user %d  %s", Date(*row.NextDueDate), row.StudentID, Money(row.RemainingFees))
	}

	return sb.String()
}

func Batch(batchID int64, students []*model.MembershipDetail) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "👥 Batch %d: %d active %s\n", batchID, len(students), Plural(len(students), "student", "students"))

	for _, s := range students {
		fmt.Fprintf(&sb, "\n• %s (id %d)", s.Name, s.StudentID)
		if s.Email != "" {
			fmt.Fprintf(&sb, ", %s", s.Email)
		}
	}

	return sb.String()
}

func Rank(r model.StudentRank) string {
	return fmt.Sprintf(
		"🏆 Test %d\n\nUser %d is ranked %d of %d with %s marks",
		r.TestID, r.StudentID, r.Rank, r.RankedCount, r.MarksObtained.String(),
	)
}

func Statistics(s model.TestStatistics) string {
	return fmt.Sprintf(
		"📊 Test %d (%d %s)\n\n"+
			"⬆️ Highest: %s\n"+
			"⬇️ Lowest: %s\n"+
			"➗ Average: %s\n"+
			"🕐 First entry: %s\n"+
			"🕑 Last update: %s",
		s.TestID, s.RecordCount, Plural(s.RecordCount, "record", "records"),
		s.HighestMarks.String(),
		s.LowestMarks.String(),
		s.AverageMarks.StringFixed(2),
		Date(s.FirstCreatedAt),
		Date(s.LastUpdatedAt),
	)
}

// Digest ежедневная сводка: итоги и ближайшие платежи
func Digest(s model.FeeSummary, upcoming []*model.FeeStatus, limit int) string {
	return Summary(s) + "\n\n" + Dues(upcoming, limit)
}
