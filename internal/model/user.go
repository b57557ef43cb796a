package model

import "time"

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

// User запись справочника пользователей, по статусу которой фильтруют все компоненты
type User struct {
	ID          int64      `json:"user_id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	PhoneNumber string     `json:"phone_number"`
	RoleID      int64      `json:"role_id"`
	Status      UserStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (u *User) IsActive() bool {
	return u != nil && u.Status == UserStatusActive
}
