package service

import (
	"context"
	"net/mail"
	"strings"

	"github.com/Freeeeeet/student_records/internal/apperr"
	"github.com/Freeeeeet/student_records/internal/model"
	"github.com/Freeeeeet/student_records/internal/repository"
	"go.uber.org/zap"
)

// UserService простые точки чтения и записи справочника пользователей
type UserService struct {
	userRepo UserRepository
	logger   *zap.Logger
}

func NewUserService(userRepo UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// CreateUser регистрирует пользователя, по умолчанию активным
func (s *UserService) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	const op = "user.Create"

	user.Name = strings.TrimSpace(user.Name)
	user.Email = strings.TrimSpace(user.Email)
	if user.Status == "" {
		user.Status = model.UserStatusActive
	}

	if user.Name == "" {
		return nil, apperr.Validation(op, "name is required")
	}
	if _, err := mail.ParseAddress(user.Email); err != nil {
		return nil, apperr.Validation(op, "email is invalid")
	}
	if err := validateID(op, "role_id", user.RoleID); err != nil {
		return nil, err
	}
	if err := validateStatus(op, user.Status); err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperr.Conflict(op, "user already exists")
		}
		return nil, storageError(s.logger, op, err)
	}

	s.logger.Info("New user registered",
		zap.Int64("user_id", user.ID),
		zap.Int64("role_id", user.RoleID),
	)

	return user, nil
}

// GetUser получает пользователя по ID
func (s *UserService) GetUser(ctx context.Context, id int64) (*model.User, error) {
	const op = "user.Get"

	if err := validateID(op, "user_id", id); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindUser(ctx, id)
	if err != nil {
		return nil, storageError(s.logger, op, err)
	}
	if user == nil {
		return nil, apperr.NotFound(op, "user with id %d not found", id)
	}

	return user, nil
}

// SetStatus активирует или деактивирует пользователя
func (s *UserService) SetStatus(ctx context.Context, id int64, status model.UserStatus) error {
	const op = "user.SetStatus"

	if err := validateID(op, "user_id", id); err != nil {
		return err
	}
	if err := validateStatus(op, status); err != nil {
		return err
	}

	if err := s.userRepo.UpdateStatus(ctx, id, status); err != nil {
		if isNotFound(err) {
			return apperr.NotFound(op, "user with id %d not found", id)
		}
		return storageError(s.logger, op, err)
	}

	s.logger.Info("User status changed",
		zap.Int64("user_id", id),
		zap.String("status", string(status)),
	)

	return nil
}

func validateStatus(op string, status model.UserStatus) error {
	switch status {
	case model.UserStatusActive, model.UserStatusInactive:
		return nil
	default:
		return apperr.Validation(op, "status must be active or inactive")
	}
}
