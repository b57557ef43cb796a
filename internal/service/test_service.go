package service

import (
	"context"

	"github.com/Freeeeeet/student_records/internal/analytics"
	"github.com/Freeeeeet/student_records/internal/apperr"
	"github.com/Freeeeeet/student_records/internal/model"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TestService результаты тестов, места и статистика
type TestService struct {
	tx        TxManager
	records   TestRecordRepository
	directory Directory
	// Запрещать второй результат студента в том же тесте
	enforceUnique bool
	logger        *zap.Logger
}

func NewTestService(
	tx TxManager,
	records TestRecordRepository,
	directory Directory,
	enforceUnique bool,
	logger *zap.Logger,
) *TestService {
	return &TestService{
		tx:            tx,
		records:       records,
		directory:     directory,
		enforceUnique: enforceUnique,
		logger:        logger,
	}
}

// RecordScore сохраняет результат. Это всегда новая запись, не upsert.
func (s *TestService) RecordScore(ctx context.Context, testID, studentID int64, marks decimal.Decimal) (*model.TestRecord, error) {
	const op = "test.RecordScore"

	if err := validateID(op, "test_id", testID); err != nil {
		return nil, err
	}
	if err := validateID(op, "user_id", studentID); err != nil {
		return nil, err
	}
	if err := validateMarks(op, marks); err != nil {
		return nil, err
	}

	rec := &model.TestRecord{TestID: testID, StudentID: studentID, MarksObtained: marks}

	create := func(ctx context.Context) error {
		if err := requireUser(ctx, s.directory, op, studentID); err != nil {
			return err
		}

		if s.enforceUnique {
			if err := s.records.LockScore(ctx, testID, studentID); err != nil {
				return err
			}
			exists, err := s.records.Exists(ctx, testID, studentID)
			if err != nil {
				return err
			}
			if exists {
				return apperr.Conflict(op, "user %d already has a score for test %d", studentID, testID)
			}
		}

		return s.records.Create(ctx, rec)
	}

	var err error
	if s.enforceUnique {
		err = s.tx.WithinTx(ctx, create)
	} else {
		err = create(ctx)
	}
	if err != nil {
		return nil, storageError(s.logger, op, err)
	}

	s.logger.Info("Score recorded",
		zap.Int64("record_id", rec.ID),
		zap.Int64("test_id", testID),
		zap.Int64("student_id", studentID),
		zap.String("marks", marks.String()),
	)

	return rec, nil
}

// UpdateScore исправляет переданные поля записи
func (s *TestService) UpdateScore(ctx context.Context, recordID int64, patch model.TestRecordPatch) (*model.TestRecord, error) {
	const op = "test.UpdateScore"

	if err := validateID(op, "record_id", recordID); err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return nil, apperr.Validation(op, "nothing to update")
	}
	if patch.TestID != nil {
		if err := validateID(op, "test_id", *patch.TestID); err != nil {
			return nil, err
		}
	}
	if patch.StudentID != nil {
		if err := validateID(op, "user_id", *patch.StudentID); err != nil {
			return nil, err
		}
	}
	if patch.MarksObtained != nil {
		if err := validateMarks(op, *patch.MarksObtained); err != nil {
			return nil, err
		}
	}

	var updated *model.TestRecord
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		rec, err := s.records.GetForUpdate(ctx, recordID)
		if err != nil {
			return err
		}
		if rec == nil {
			return apperr.NotFound(op, "record not found")
		}

		if patch.StudentID != nil && *patch.StudentID != rec.StudentID {
			if err := requireUser(ctx, s.directory, op, *patch.StudentID); err != nil {
				return err
			}
		}

		patch.Apply(rec)
		if err := s.records.Update(ctx, rec); err != nil {
			if isNotFound(err) {
				return apperr.NotFound(op, "record not found")
			}
			return err
		}

		updated = rec
		return nil
	})
	if err != nil {
		return nil, storageError(s.logger, op, err)
	}

	s.logger.Info("Score updated",
		zap.Int64("record_id", recordID),
		zap.String("marks", updated.MarksObtained.String()),
	)

	return updated, nil
}

// ListAll получает все результаты
func (s *TestService) ListAll(ctx context.Context) ([]*model.TestRecord, error) {
	records, err := s.records.List(ctx)
	if err != nil {
		return nil, storageError(s.logger, "test.ListAll", err)
	}
	return records, nil
}

// ListByTest получает результаты теста. Пустой результат это NotFound.
func (s *TestService) ListByTest(ctx context.Context, testID int64) ([]*model.TestRecord, error) {
	const op = "test.ListByTest"

	if err := validateID(op, "test_id", testID); err != nil {
		return nil, err
	}

	records, err := s.records.ListByTest(ctx, testID)
	if err != nil {
		return nil, storageError(s.logger, op, err)
	}
	if len(records) == 0 {
		return nil, apperr.NotFound(op, "no records found for this test")
	}

	return records, nil
}

// ListByStudent получает результаты студента. Пустой результат это NotFound.
func (s *TestService) ListByStudent(ctx context.Context, studentID int64) ([]*model.TestRecord, error) {
	const op = "test.ListByStudent"

	if err := validateID(op, "user_id", studentID); err != nil {
		return nil, err
	}

	records, err := s.records.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, storageError(s.logger, op, err)
	}
	if len(records) == 0 {
		return nil, apperr.NotFound(op, "no records found for this user")
	}

	return records, nil
}

// Rank место студента в тесте (позиционное, см. analytics.PositionalRank)
func (s *TestService) Rank(ctx context.Context, testID, studentID int64) (model.StudentRank, error) {
	const op = "test.Rank"

	if err := validateID(op, "test_id", testID); err != nil {
		return model.StudentRank{}, err
	}
	if err := validateID(op, "user_id", studentID); err != nil {
		return model.StudentRank{}, err
	}

	records, err := s.records.ListByTest(ctx, testID)
	if err != nil {
		return model.StudentRank{}, storageError(s.logger, op, err)
	}
	if len(records) == 0 {
		return model.StudentRank{}, apperr.NotFound(op, "no records found for this test")
	}

	rank, ok := analytics.PositionalRank(records, studentID)
	if !ok {
		return model.StudentRank{}, apperr.NotFound(op, "no records found for user id %d in test id %d", studentID, testID)
	}

	return rank, nil
}

// Statistics максимум, минимум, среднее и границы времени по одному снимку записей теста
func (s *TestService) Statistics(ctx context.Context, testID int64) (model.TestStatistics, error) {
	const op = "test.Statistics"

	if err := validateID(op, "test_id", testID); err != nil {
		return model.TestStatistics{}, err
	}

	records, err := s.records.ListByTest(ctx, testID)
	if err != nil {
		return model.TestStatistics{}, storageError(s.logger, op, err)
	}

	stats, ok := analytics.Statistics(testID, records)
	if !ok {
		return model.TestStatistics{}, apperr.NotFound(op, "no records found for test id %d", testID)
	}

	return stats, nil
}

// NUMERIC(6,2)
var maxMarks = decimal.NewFromInt(10000)

func validateMarks(op string, marks decimal.Decimal) error {
	return validateAmount(op, "marks_obtained", marks, maxMarks)
}
