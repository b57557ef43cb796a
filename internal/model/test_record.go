package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TestRecord результат студента в одном тесте
type TestRecord struct {
	ID            int64           `json:"record_id"`
	TestID        int64           `json:"test_id"`
	StudentID     int64           `json:"user_id"`
	MarksObtained decimal.Decimal `json:"marks_obtained"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// TestRecordPatch поля исправления результата (nil = не менять)
type TestRecordPatch struct {
	TestID        *int64
	StudentID     *int64
	MarksObtained *decimal.Decimal
}

func (p TestRecordPatch) Apply(r *TestRecord) {
	if p.TestID != nil {
		r.TestID = *p.TestID
	}
	if p.StudentID != nil {
		r.StudentID = *p.StudentID
	}
	if p.MarksObtained != nil {
		r.MarksObtained = *p.MarksObtained
	}
}

func (p TestRecordPatch) IsEmpty() bool {
	return p.TestID == nil && p.StudentID == nil && p.MarksObtained == nil
}

type StudentRank struct {
	TestID        int64           `json:"test_id"`
	StudentID     int64           `json:"user_id"`
	Rank          int             `json:"rank"`
	MarksObtained decimal.Decimal `json:"marks_obtained"`
	RankedCount   int             `json:"ranked_count"`
}

type TestStatistics struct {
	TestID         int64           `json:"test_id"`
	HighestMarks   decimal.Decimal `json:"highest_marks"`
	LowestMarks    decimal.Decimal `json:"lowest_marks"`
	AverageMarks   decimal.Decimal `json:"average_marks"`
	RecordCount    int             `json:"record_count"`
	FirstCreatedAt time.Time       `json:"first_created_at"`
	LastUpdatedAt  time.Time       `json:"last_updated_at"`
}
