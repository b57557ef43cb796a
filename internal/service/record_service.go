package service

import (
	"context"
	"errors"
	"time"

	"github.com/Freeeeeet/student_records/internal/apperr"
	"github.com/Freeeeeet/student_records/internal/model"
	"github.com/shopspring/decimal"
)

// RecordService единая точка входа для транспорта (HTTP, бот).
// Каждый вызов получает дедлайн timeout, если у вызывающего его нет.
type RecordService struct {
	users   *UserService
	batches *BatchService
	fees    *FeeService
	tests   *TestService
	timeout time.Duration
}

func NewRecordService(
	users *UserService,
	batches *BatchService,
	fees *FeeService,
	tests *TestService,
	timeout time.Duration,
) *RecordService {
	return &RecordService{
		users:   users,
		batches: batches,
		fees:    fees,
		tests:   tests,
		timeout: timeout,
	}
}

func (s *RecordService) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// finish превращает истёкший дедлайн в Timeout, даже если хранилище вернуло что-то своё
func finish(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) && apperr.KindOf(err) != apperr.KindTimeout {
		return &apperr.Error{Kind: apperr.KindTimeout, Op: op, Message: "operation timed out", Err: err}
	}
	return apperr.Wrap(op, err)
}

// call выполняет операцию с дедлайном и типизирует ошибку
func call[T any](s *RecordService, ctx context.Context, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	ctx, cancel := s.withDeadline(ctx)
	defer cancel()

	v, err := fn(ctx)
	if err != nil {
		var zero T
		return zero, finish(ctx, op, err)
	}
	return v, nil
}

func exec(s *RecordService, ctx context.Context, op string, fn func(ctx context.Context) error) error {
	_, err := call(s, ctx, op, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// Пользователи

func (s *RecordService) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	return call(s, ctx, "records.CreateUser", func(ctx context.Context) (*model.User, error) {
		return s.users.CreateUser(ctx, user)
	})
}

func (s *RecordService) GetUser(ctx context.Context, id int64) (*model.User, error) {
	return call(s, ctx, "records.GetUser", func(ctx context.Context) (*model.User, error) {
		return s.users.GetUser(ctx, id)
	})
}

func (s *RecordService) SetUserStatus(ctx context.Context, id int64, status model.UserStatus) error {
	return exec(s, ctx, "records.SetUserStatus", func(ctx context.Context) error {
		return s.users.SetStatus(ctx, id, status)
	})
}

// Потоки

// ListStudents активные студенты, при batchID != nil только этого потока
func (s *RecordService) ListStudents(ctx context.Context, batchID *int64) ([]*model.Membership, error) {
	return call(s, ctx, "records.ListStudents", func(ctx context.Context) ([]*model.Membership, error) {
		return s.batches.ListStudents(ctx, batchID)
	})
}

func (s *RecordService) ListStudentsByBatch(ctx context.Context, batchID int64) ([]*model.MembershipDetail, error) {
	return call(s, ctx, "records.ListStudentsByBatch", func(ctx context.Context) ([]*model.MembershipDetail, error) {
		return s.batches.ListStudentsByBatch(ctx, batchID)
	})
}

func (s *RecordService) AddStudentToBatch(ctx context.Context, studentID, batchID int64) (*model.Membership, error) {
	return call(s, ctx, "records.AddStudentToBatch", func(ctx context.Context) (*model.Membership, error) {
		return s.batches.AddStudent(ctx, studentID, batchID)
	})
}

func (s *RecordService) TransferStudent(ctx context.Context, studentID, oldBatchID, newBatchID int64) (*model.Membership, error) {
	return call(s, ctx, "records.TransferStudent", func(ctx context.Context) (*model.Membership, error) {
		return s.batches.TransferStudent(ctx, studentID, oldBatchID, newBatchID)
	})
}

func (s *RecordService) RemoveStudentFromBatch(ctx context.Context, studentID, batchID int64) error {
	return exec(s, ctx, "records.RemoveStudentFromBatch", func(ctx context.Context) error {
		return s.batches.RemoveStudent(ctx, studentID, batchID)
	})
}

func (s *RecordService) SearchStudent(ctx context.Context, studentID int64) ([]*model.MembershipDetail, error) {
	return call(s, ctx, "records.SearchStudent", func(ctx context.Context) ([]*model.MembershipDetail, error) {
		return s.batches.SearchStudent(ctx, studentID)
	})
}

func (s *RecordService) CountByBatch(ctx context.Context) (*model.BatchCounts, error) {
	return call(s, ctx, "records.CountByBatch", s.batches.CountByBatch)
}

func (s *RecordService) CountForBatch(ctx context.Context, batchID int64) (int64, error) {
	return call(s, ctx, "records.CountForBatch", func(ctx context.Context) (int64, error) {
		return s.batches.CountForBatch(ctx, batchID)
	})
}

func (s *RecordService) CountByDate(ctx context.Context, batchID int64) ([]model.DateCount, error) {
	return call(s, ctx, "records.CountByDate", func(ctx context.Context) ([]model.DateCount, error) {
		return s.batches.CountByDate(ctx, batchID)
	})
}

// Оплаты

func (s *RecordService) ListFees(ctx context.Context) ([]*model.FeeStatus, error) {
	return call(s, ctx, "records.ListFees", s.fees.List)
}

func (s *RecordService) GetFee(ctx context.Context, id int64) (*model.FeeStatus, error) {
	return call(s, ctx, "records.GetFee", func(ctx context.Context) (*model.FeeStatus, error) {
		return s.fees.Get(ctx, id)
	})
}

func (s *RecordService) CreateFee(ctx context.Context, fee *model.FeeStatus) (*model.FeeStatus, error) {
	return call(s, ctx, "records.CreateFee", func(ctx context.Context) (*model.FeeStatus, error) {
		return s.fees.Create(ctx, fee)
	})
}

func (s *RecordService) UpdateFee(ctx context.Context, id int64, patch model.FeeStatusPatch) (*model.FeeStatus, error) {
	return call(s, ctx, "records.UpdateFee", func(ctx context.Context) (*model.FeeStatus, error) {
		return s.fees.Update(ctx, id, patch)
	})
}

func (s *RecordService) DeleteFee(ctx context.Context, id int64) error {
	return exec(s, ctx, "records.DeleteFee", func(ctx context.Context) error {
		return s.fees.Delete(ctx, id)
	})
}

func (s *RecordService) FeeSummary(ctx context.Context) (model.FeeSummary, error) {
	return call(s, ctx, "records.FeeSummary", s.fees.Summary)
}

func (s *RecordService) UpcomingDues(ctx context.Context) ([]*model.FeeStatus, error) {
	return call(s, ctx, "records.UpcomingDues", s.fees.UpcomingDues)
}

// Тесты

func (s *RecordService) RecordScore(ctx context.Context, testID, studentID int64, marks decimal.Decimal) (*model.TestRecord, error) {
	return call(s, ctx, "records.RecordScore", func(ctx context.Context) (*model.TestRecord, error) {
		return s.tests.RecordScore(ctx, testID, studentID, marks)
	})
}

func (s *RecordService) ListScores(ctx context.Context) ([]*model.TestRecord, error) {
	return call(s, ctx, "records.ListScores", s.tests.ListAll)
}

func (s *RecordService) ListScoresByTest(ctx context.Context, testID int64) ([]*model.TestRecord, error) {
	return call(s, ctx, "records.ListScoresByTest", func(ctx context.Context) ([]*model.TestRecord, error) {
		return s.tests.ListByTest(ctx, testID)
	})
}

func (s *RecordService) ListScoresByStudent(ctx context.Context, studentID int64) ([]*model.TestRecord, error) {
	return call(s, ctx, "records.ListScoresByStudent", func(ctx context.Context) ([]*model.TestRecord, error) {
		return s.tests.ListByStudent(ctx, studentID)
	})
}

func (s *RecordService) UpdateScore(ctx context.Context, recordID int64, patch model.TestRecordPatch) (*model.TestRecord, error) {
	return call(s, ctx, "records.UpdateScore", func(ctx context.Context) (*model.TestRecord, error) {
		return s.tests.UpdateScore(ctx, recordID, patch)
	})
}

func (s *RecordService) Rank(ctx context.Context, testID, studentID int64) (model.StudentRank, error) {
	return call(s, ctx, "records.Rank", func(ctx context.Context) (model.StudentRank, error) {
		return s.tests.Rank(ctx, testID, studentID)
	})
}

func (s *RecordService) Statistics(ctx context.Context, testID int64) (model.TestStatistics, error) {
	return call(s, ctx, "records.Statistics", func(ctx context.Context) (model.TestStatistics, error) {
		return s.tests.Statistics(ctx, testID)
	})
}
