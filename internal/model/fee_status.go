package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// FeeStatus строка журнала оплат.
// После любой записи RemainingFees == TotalFees - FeesSubmitted.
type FeeStatus struct {
	ID            int64           `json:"id"`
	StudentID     int64           `json:"user_id"`
	AdmissionDate time.Time       `json:"admission_date"`
	TotalFees     decimal.Decimal `json:"total_fees"`
	FeesSubmitted decimal.Decimal `json:"fees_submitted"`
	RemainingFees decimal.Decimal `json:"remaining_fees"`
	NextDueDate   *time.Time      `json:"next_due_date"` // nil если платёж не запланирован
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Recalculate пересчитывает остаток к оплате
func (f *FeeStatus) Recalculate() {
	f.RemainingFees = f.TotalFees.Sub(f.FeesSubmitted)
}

// FeeStatusPatch поля частичного обновления (nil = не менять)
type FeeStatusPatch struct {
	StudentID     *int64
	AdmissionDate *time.Time
	TotalFees     *decimal.Decimal
	FeesSubmitted *decimal.Decimal
	NextDueDate   *time.Time
	ClearDueDate  bool
}

// Apply применяет переданные поля и пересчитывает остаток
func (p FeeStatusPatch) Apply(f *FeeStatus) {
	if p.StudentID != nil {
		f.StudentID = *p.StudentID
	}
	if p.AdmissionDate != nil {
		f.AdmissionDate = *p.AdmissionDate
	}
	if p.TotalFees != nil {
		f.TotalFees = *p.TotalFees
	}
	if p.FeesSubmitted != nil {
		f.FeesSubmitted = *p.FeesSubmitted
	}
	if p.NextDueDate != nil {
		d := *p.NextDueDate
		f.NextDueDate = &d
	}
	if p.ClearDueDate {
		f.NextDueDate = nil
	}
	f.Recalculate()
}

type FeeSummary struct {
	TotalStudents int64           `json:"total_students"`
	TotalDueFee   decimal.Decimal `json:"total_due_fee"`
	TotalDueToday decimal.Decimal `json:"total_due_today"`
}
