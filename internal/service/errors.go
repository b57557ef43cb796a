package service

import (
	"context"
	"errors"

	"github.com/Freeeeeet/student_records/internal/apperr"
	"github.com/Freeeeeet/student_records/internal/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// storageError логирует исходную причину и возвращает клиенту общую ошибку.
// Уже типизированные ошибки проходят без изменений.
func storageError(logger *zap.Logger, op string, err error) error {
	var typed *apperr.Error
	if errors.As(err, &typed) {
		return err
	}

	appErr := apperr.Internal(op, err)
	if appErr.Kind == apperr.KindTimeout {
		logger.Warn("Operation timed out", zap.String("op", op), zap.Error(err))
	} else {
		logger.Error("Storage failure", zap.String("op", op), zap.Error(err))
	}
	return appErr
}

// requireActiveUser пропускает только существующего активного пользователя
func requireActiveUser(ctx context.Context, dir Directory, op string, userID int64) error {
	user, err := dir.FindActiveUser(ctx, userID)
	if err != nil {
		return err
	}
	if user != nil {
		return nil
	}

	// Различаем "нет такого" и "неактивен" только в тексте ошибки
	existing, err := dir.FindUser(ctx, userID)
	if err != nil {
		return err
	}
	return apperr.InactiveUser(op, userID, existing != nil)
}

// requireUser пропускает пользователя в любом статусе
func requireUser(ctx context.Context, dir Directory, op string, userID int64) error {
	user, err := dir.FindUser(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.NotFound(op, "user %d not found", userID)
	}
	return nil
}

func validateID(op, name string, id int64) error {
	if id <= 0 {
		return apperr.Validation(op, "%s must be a positive number", name)
	}
	return nil
}

// validateAmount сумма должна помещаться в колонку NUMERIC(p,2) без округления
func validateAmount(op, name string, amount, limit decimal.Decimal) error {
	if amount.IsNegative() {
		return apperr.Validation(op, "%s must not be negative", name)
	}
	if !amount.Equal(amount.Truncate(2)) {
		return apperr.Validation(op, "%s must have at most 2 decimal places", name)
	}
	if amount.GreaterThanOrEqual(limit) {
		return apperr.Validation(op, "%s is out of range", name)
	}
	return nil
}

// isNotFound ошибка репозитория "ни одна строка не затронута"
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
