package service

import (
	"context"

	"github.com/Freeeeeet/student_records/internal/apperr"
	"github.com/Freeeeeet/student_records/internal/model"
	"go.uber.org/zap"
)

// BatchService ведёт членство студентов в потоках
type BatchService struct {
	tx          TxManager
	memberships MembershipRepository
	directory   Directory
	// Запрещать второе членство при добавлении студента
	enforceSingle bool
	logger        *zap.Logger
}

func NewBatchService(
	tx TxManager,
	memberships MembershipRepository,
	directory Directory,
	enforceSingle bool,
	logger *zap.Logger,
) *BatchService {
	return &BatchService{
		tx:            tx,
		memberships:   memberships,
		directory:     directory,
		enforceSingle: enforceSingle,
		logger:        logger,
	}
}

// ListStudents получает пары (студент, поток) активных студентов.
// Пустой результат это NotFound, а не пустой список.
func (s *BatchService) ListStudents(ctx context.Context, batchID *int64) ([]*model.Membership, error) {
	const op = "batch.ListStudents"

	if batchID != nil {
		if err := validateID(op, "batch_id", *batchID); err != nil {
			return nil, err
		}
	}

	memberships, err := s.memberships.ListActive(ctx, batchID)
	if err != nil {
		return nil, storageError(s.logger, op, err)
	}

	if len(memberships) == 0 {
		if batchID != nil {
			return nil, apperr.NotFound(op, "no active students found in batch %d", *batchID)
		}
		return nil, apperr.NotFound(op, "no active students found")
	}

	return memberships, nil
}

// ListStudentsByBatch получает активных студентов потока с контактными данными
func (s *BatchService) ListStudentsByBatch(ctx context.Context, batchID int64) ([]*model.MembershipDetail, error) {
	const op = "batch.ListStudentsByBatch"

	if err := validateID(op, "batch_id", batchID); err != nil {
		return nil, err
	}

	details, err := s.memberships.ListDetailedByBatch(ctx, batchID)
	if err != nil {
		return nil, storageError(s.logger, op, err)
	}

	if len(details) == 0 {
		return nil, apperr.NotFound(op, "no active students found in batch %d", batchID)
	}

	return details, nil
}

// AddStudent добавляет активного студента в поток.
// По умолчанию существующее членство в другом потоке не проверяется.
func (s *BatchService) AddStudent(ctx context.Context, studentID, batchID int64) (*model.Membership, error) {
	const op = "batch.AddStudent"

	if err := validateID(op, "user_id", studentID); err != nil {
		return nil, err
	}
	if err := validateID(op, "batch_id", batchID); err != nil {
		return nil, err
	}

	membership := &model.Membership{StudentID: studentID, BatchID: batchID}

	add := func(ctx context.Context) error {
		if err := requireActiveUser(ctx, s.directory, op, studentID); err != nil {
			return err
		}

		if s.enforceSingle {
			if err := s.memberships.LockStudent(ctx, studentID); err != nil {
				return err
			}
			exists, err := s.memberships.ExistsForStudent(ctx, studentID)
			if err != nil {
				return err
			}
			if exists {
				return apperr.Conflict(op, "user %d already belongs to a batch", studentID)
			}
		}

		return s.memberships.Create(ctx, membership)
	}

	var err error
	if s.enforceSingle {
		err = s.tx.WithinTx(ctx, add)
	} else {
		err = add(ctx)
	}
	if err != nil {
		return nil, storageError(s.logger, op, err)
	}

	s.logger.Info("Student added to batch",
		zap.Int64("membership_id", membership.ID),
		zap.Int64("student_id", studentID),
		zap.Int64("batch_id", batchID),
	)

	return membership, nil
}

// TransferStudent переводит студента из oldBatchID в newBatchID одной транзакцией.
// Строка членства блокируется, поэтому параллельный перевод того же студента
// дождётся коммита и получит NotFound.
func (s *BatchService) TransferStudent(ctx context.Context, studentID, oldBatchID, newBatchID int64) (*model.Membership, error) {
	const op = "batch.TransferStudent"

	if err := validateID(op, "user_id", studentID); err != nil {
		return nil, err
	}
	if err := validateID(op, "old_batch_id", oldBatchID); err != nil {
		return nil, err
	}
	if err := validateID(op, "new_batch_id", newBatchID); err != nil {
		return nil, err
	}

	var membership *model.Membership
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.memberships.GetForUpdate(ctx, studentID, oldBatchID)
		if err != nil {
			return err
		}
		if current == nil {
			return apperr.NotFound(op, "no record found for user %d in batch %d", studentID, oldBatchID)
		}

		if err := requireActiveUser(ctx, s.directory, op, studentID); err != nil {
			return err
		}

		if err := s.memberships.UpdateBatch(ctx, current.ID, newBatchID); err != nil {
			return err
		}

		current.BatchID = newBatchID
		membership = current
		return nil
	})
	if err != nil {
		return nil, storageError(s.logger, op, err)
	}

	s.logger.Info("Student transferred",
		zap.Int64("student_id", studentID),
		zap.Int64("old_batch_id", oldBatchID),
		zap.Int64("new_batch_id", newBatchID),
	)

	return membership, nil
}

// RemoveStudent удаляет студента из потока
func (s *BatchService) RemoveStudent(ctx context.Context, studentID, batchID int64) error {
	const op = "batch.RemoveStudent"

	if err := validateID(op, "user_id", studentID); err != nil {
		return err
	}
	if err := validateID(op, "batch_id", batchID); err != nil {
		return err
	}

	deleted, err := s.memberships.Delete(ctx, studentID, batchID)
	if err != nil {
		return storageError(s.logger, op, err)
	}

	if deleted == 0 {
		return apperr.NotFound(op, "no record found for user %d in batch %d", studentID, batchID)
	}

	s.logger.Info("Student removed from batch",
		zap.Int64("student_id", studentID),
		zap.Int64("batch_id", batchID),
		zap.Int64("rows", deleted),
	)

	return nil
}

// SearchStudent получает все потоки активного студента
func (s *BatchService) SearchStudent(ctx context.Context, studentID int64) ([]*model.MembershipDetail, error) {
	const op = "batch.SearchStudent"

	if err := validateID(op, "user_id", studentID); err != nil {
		return nil, err
	}

	details, err := s.memberships.SearchByStudent(ctx, studentID)
	if err != nil {
		return nil, storageError(s.logger, op, err)
	}

	if len(details) == 0 {
		return nil, apperr.NotFound(op, "no active student found with user id %d", studentID)
	}

	return details, nil
}

// CountByBatch считает активных студентов по всем потокам
func (s *BatchService) CountByBatch(ctx context.Context) (*model.BatchCounts, error) {
	const op = "batch.CountByBatch"

	counts, err := s.memberships.CountByBatch(ctx)
	if err != nil {
		return nil, storageError(s.logger, op, err)
	}

	return &model.BatchCounts{
		BatchCount: len(counts),
		Batches:    counts,
	}, nil
}

// CountForBatch считает активных студентов одного потока
func (s *BatchService) CountForBatch(ctx context.Context, batchID int64) (int64, error) {
	const op = "batch.CountForBatch"

	if err := validateID(op, "batch_id", batchID); err != nil {
		return 0, err
	}

	count, err := s.memberships.CountForBatch(ctx, batchID)
	if err != nil {
		return 0, storageError(s.logger, op, err)
	}

	return count, nil
}

// CountByDate считает активных студентов потока по дням добавления, по возрастанию даты
func (s *BatchService) CountByDate(ctx context.Context, batchID int64) ([]model.DateCount, error) {
	const op = "batch.CountByDate"

	if err := validateID(op, "batch_id", batchID); err != nil {
		return nil, err
	}

	counts, err := s.memberships.CountByDate(ctx, batchID)
	if err != nil {
		return nil, storageError(s.logger, op, err)
	}

	return counts, nil
}
