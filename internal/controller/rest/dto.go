package rest

import (
	"time"

	"github.com/Freeeeeet/student_records/internal/apperr"
	"github.com/Freeeeeet/student_records/internal/model"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type registerUserRequest struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phone_number"`
	RoleID      int64  `json:"role_id" validate:"required,gt=0"`
	Status      string `json:"status" validate:"omitempty,oneof=active inactive"`
}

func (r registerUserRequest) toModel() *model.User {
	return &model.User{
		Name:        r.Name,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
		RoleID:      r.RoleID,
		Status:      model.UserStatus(r.Status),
	}
}

type userStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive"`
}

type membershipRequest struct {
	StudentID int64 `json:"user_id" validate:"required,gt=0"`
	BatchID   int64 `json:"batch_id" validate:"required,gt=0"`
}

type transferRequest struct {
	StudentID  int64 `json:"user_id" validate:"required,gt=0"`
	OldBatchID int64 `json:"old_batch_id" validate:"required,gt=0"`
	NewBatchID int64 `json:"new_batch_id" validate:"required,gt=0"`
}

type createFeeRequest struct {
	StudentID     int64            `json:"user_id" validate:"required,gt=0"`
	AdmissionDate string           `json:"admission_date" validate:"required,datetime=2006-01-02"`
	TotalFees     *decimal.Decimal `json:"total_fees" validate:"required"`
	FeesSubmitted *decimal.Decimal `json:"fees_submitted"`
	NextDueDate   *string          `json:"next_due_date" validate:"omitempty,datetime=2006-01-02"`
}

func (r createFeeRequest) toModel() (*model.FeeStatus, error) {
	admission, err := parseDate(r.AdmissionDate)
	if err != nil {
		return nil, err
	}

	fee := &model.FeeStatus{
		StudentID:     r.StudentID,
		AdmissionDate: admission,
		TotalFees:     *r.TotalFees,
		FeesSubmitted: decimal.Zero,
	}
	if r.FeesSubmitted != nil {
		fee.FeesSubmitted = *r.FeesSubmitted
	}
	if r.NextDueDate != nil {
		due, err := parseDate(*r.NextDueDate)
		if err != nil {
			return nil, err
		}
		fee.NextDueDate = &due
	}
	return fee, nil
}

type updateFeeRequest struct {
	StudentID     *int64           `json:"user_id" validate:"omitempty,gt=0"`
	AdmissionDate *string          `json:"admission_date" validate:"omitempty,datetime=2006-01-02"`
	TotalFees     *decimal.Decimal `json:"total_fees"`
	FeesSubmitted *decimal.Decimal `json:"fees_submitted"`
	NextDueDate   *string          `json:"next_due_date" validate:"omitempty,datetime=2006-01-02"`
	ClearDueDate  bool             `json:"clear_due_date"`
}

func (r updateFeeRequest) toPatch() (model.FeeStatusPatch, error) {
	patch := model.FeeStatusPatch{
		StudentID:     r.StudentID,
		TotalFees:     r.TotalFees,
		FeesSubmitted: r.FeesSubmitted,
		ClearDueDate:  r.ClearDueDate,
	}
	if r.AdmissionDate != nil {
		d, err := parseDate(*r.AdmissionDate)
		if err != nil {
			return patch, err
		}
		patch.AdmissionDate = &d
	}
	if r.NextDueDate != nil {
		d, err := parseDate(*r.NextDueDate)
		if err != nil {
			return patch, err
		}
		patch.NextDueDate = &d
	}
	return patch, nil
}

type recordScoreRequest struct {
	TestID        int64            `json:"test_id" validate:"required,gt=0"`
	StudentID     int64            `json:"user_id" validate:"required,gt=0"`
	MarksObtained *decimal.Decimal `json:"marks_obtained" validate:"required"`
}

type updateScoreRequest struct {
	TestID        *int64           `json:"test_id" validate:"omitempty,gt=0"`
	StudentID     *int64           `json:"user_id" validate:"omitempty,gt=0"`
	MarksObtained *decimal.Decimal `json:"marks_obtained"`
}

func (r updateScoreRequest) toPatch() model.TestRecordPatch {
	return model.TestRecordPatch{
		TestID:        r.TestID,
		StudentID:     r.StudentID,
		MarksObtained: r.MarksObtained,
	}
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, apperr.Validation("rest", "date %q must be in YYYY-MM-DD format", s)
	}
	return d, nil
}
