package model

import "time"

// Membership связывает студента с его текущим потоком (batch)
type Membership struct {
	ID        int64     `json:"id"`
	StudentID int64     `json:"user_id"`
	BatchID   int64     `json:"batch_id"`
	CreatedAt time.Time `json:"created_at"`
}

// MembershipDetail членство вместе с данными пользователя из справочника
type MembershipDetail struct {
	StudentID   int64      `json:"user_id"`
	BatchID     int64      `json:"batch_id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	PhoneNumber string     `json:"phone_number"`
	Status      UserStatus `json:"status"`
}

type BatchCount struct {
	BatchID      int64 `json:"batch_id"`
	StudentCount int64 `json:"student_count"`
}

// BatchCounts количество студентов по всем потокам
type BatchCounts struct {
	BatchCount int          `json:"batch_count"`
	Batches    []BatchCount `json:"batches"`
}

// DateCount сколько студентов добавлено в поток за один календарный день
type DateCount struct {
	Date         time.Time `json:"date"`
	StudentCount int64     `json:"student_count"`
}
