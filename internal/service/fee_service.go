package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/student_records/internal/analytics"
	"github.com/Freeeeeet/student_records/internal/apperr"
	"github.com/Freeeeeet/student_records/internal/model"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// FeeService журнал оплат и сводки по нему.
// Сводки каждый раз пересчитываются из хранилища: оплаты меняют строки снаружи.
type FeeService struct {
	tx        TxManager
	fees      FeeRepository
	directory Directory
	now       func() time.Time
	logger    *zap.Logger
}

func NewFeeService(tx TxManager, fees FeeRepository, directory Directory, logger *zap.Logger) *FeeService {
	return &FeeService{
		tx:        tx,
		fees:      fees,
		directory: directory,
		now:       time.Now,
		logger:    logger,
	}
}

// WithClock подменяет источник текущего времени
func (s *FeeService) WithClock(now func() time.Time) *FeeService {
	s.now = now
	return s
}

// List получает все строки журнала
func (s *FeeService) List(ctx context.Context) ([]*model.FeeStatus, error) {
	fees, err := s.fees.List(ctx)
	if err != nil {
		return nil, storageError(s.logger, "fee.List", err)
	}
	return fees, nil
}

// Get получает строку журнала по ID
func (s *FeeService) Get(ctx context.Context, id int64) (*model.FeeStatus, error) {
	const op = "fee.Get"

	if err := validateID(op, "id", id); err != nil {
		return nil, err
	}

	fee, err := s.fees.GetByID(ctx, id)
	if err != nil {
		return nil, storageError(s.logger, op, err)
	}
	if fee == nil {
		return nil, apperr.NotFound(op, "fee status not found")
	}

	return fee, nil
}

// Create создаёт строку журнала, остаток считается здесь же
func (s *FeeService) Create(ctx context.Context, fee *model.FeeStatus) (*model.FeeStatus, error) {
	const op = "fee.Create"

	fee.Recalculate()
	if err := validateFee(op, fee); err != nil {
		return nil, err
	}

	if err := requireUser(ctx, s.directory, op, fee.StudentID); err != nil {
		return nil, storageError(s.logger, op, err)
	}

	if err := s.fees.Create(ctx, fee); err != nil {
		return nil, storageError(s.logger, op, err)
	}

	s.logger.Info("Fee status created",
		zap.Int64("fee_id", fee.ID),
		zap.Int64("student_id", fee.StudentID),
		zap.String("remaining", fee.RemainingFees.String()),
	)

	return fee, nil
}

// Update применяет частичное обновление и пересчитывает остаток в одной транзакции
func (s *FeeService) Update(ctx context.Context, id int64, patch model.FeeStatusPatch) (*model.FeeStatus, error) {
	const op = "fee.Update"

	if err := validateID(op, "id", id); err != nil {
		return nil, err
	}

	var updated *model.FeeStatus
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		fee, err := s.fees.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if fee == nil {
			return apperr.NotFound(op, "fee status not found")
		}

		studentChanged := patch.StudentID != nil && *patch.StudentID != fee.StudentID
		patch.Apply(fee)
		if err := validateFee(op, fee); err != nil {
			return err
		}
		if studentChanged {
			if err := requireUser(ctx, s.directory, op, fee.StudentID); err != nil {
				return err
			}
		}

		if err := s.fees.Update(ctx, fee); err != nil {
			if isNotFound(err) {
				return apperr.NotFound(op, "fee status not found")
			}
			return err
		}

		updated = fee
		return nil
	})
	if err != nil {
		return nil, storageError(s.logger, op, err)
	}

	s.logger.Info("Fee status updated",
		zap.Int64("fee_id", id),
		zap.String("submitted", updated.FeesSubmitted.String()),
		zap.String("remaining", updated.RemainingFees.String()),
	)

	return updated, nil
}

// Delete удаляет строку журнала
func (s *FeeService) Delete(ctx context.Context, id int64) error {
	const op = "fee.Delete"

	if err := validateID(op, "id", id); err != nil {
		return err
	}

	if err := s.fees.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return apperr.NotFound(op, "fee status not found")
		}
		return storageError(s.logger, op, err)
	}

	s.logger.Info("Fee status deleted", zap.Int64("fee_id", id))
	return nil
}

// Summary сводка: число строк, сумма остатков, сумма остатков со сроком сегодня
func (s *FeeService) Summary(ctx context.Context) (model.FeeSummary, error) {
	fees, err := s.fees.List(ctx)
	if err != nil {
		return model.FeeSummary{}, storageError(s.logger, "fee.Summary", err)
	}
	return analytics.SummarizeFees(fees, s.now()), nil
}

// UpcomingDues строки со сроком строго в будущем, ближайшие первыми
func (s *FeeService) UpcomingDues(ctx context.Context) ([]*model.FeeStatus, error) {
	fees, err := s.fees.List(ctx)
	if err != nil {
		return nil, storageError(s.logger, "fee.UpcomingDues", err)
	}
	return analytics.UpcomingDues(fees, s.now()), nil
}

// NUMERIC(12,2)
var maxFee = decimal.New(1, 10)

func validateFee(op string, fee *model.FeeStatus) error {
	if err := validateID(op, "user_id", fee.StudentID); err != nil {
		return err
	}
	if fee.AdmissionDate.IsZero() {
		return apperr.Validation(op, "admission_date is required")
	}
	if err := validateAmount(op, "total_fees", fee.TotalFees, maxFee); err != nil {
		return err
	}
	if err := validateAmount(op, "fees_submitted", fee.FeesSubmitted, maxFee); err != nil {
		return err
	}
	if fee.FeesSubmitted.GreaterThan(fee.TotalFees) {
		return apperr.Validation(op, "fees_submitted must not exceed total_fees")
	}
	return nil
}
