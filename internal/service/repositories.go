package service

import (
	"context"

	"github.com/Freeeeeet/student_records/internal/model"
)

// Directory справочник пользователей, которым пользуются все компоненты.
// FindActiveUser возвращает nil, nil если пользователь не найден или не активен.
type Directory interface {
	FindUser(ctx context.Context, id int64) (*model.User, error)
	FindActiveUser(ctx context.Context, id int64) (*model.User, error)
}

// TxManager выполняет fn как одну единицу работы
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type UserRepository interface {
	Directory
	Create(ctx context.Context, user *model.User) error
	UpdateStatus(ctx context.Context, id int64, status model.UserStatus) error
}

type MembershipRepository interface {
	ListActive(ctx context.Context, batchID *int64) ([]*model.Membership, error)
	ListDetailedByBatch(ctx context.Context, batchID int64) ([]*model.MembershipDetail, error)
	SearchByStudent(ctx context.Context, studentID int64) ([]*model.MembershipDetail, error)
	Create(ctx context.Context, m *model.Membership) error
	GetForUpdate(ctx context.Context, studentID, batchID int64) (*model.Membership, error)
	UpdateBatch(ctx context.Context, id, newBatchID int64) error
	Delete(ctx context.Context, studentID, batchID int64) (int64, error)
	ExistsForStudent(ctx context.Context, studentID int64) (bool, error)
	LockStudent(ctx context.Context, studentID int64) error
	CountByBatch(ctx context.Context) ([]model.BatchCount, error)
	CountForBatch(ctx context.Context, batchID int64) (int64, error)
	CountByDate(ctx context.Context, batchID int64) ([]model.DateCount, error)
}

type FeeRepository interface {
	List(ctx context.Context) ([]*model.FeeStatus, error)
	GetByID(ctx context.Context, id int64) (*model.FeeStatus, error)
	GetForUpdate(ctx context.Context, id int64) (*model.FeeStatus, error)
	Create(ctx context.Context, fee *model.FeeStatus) error
	Update(ctx context.Context, fee *model.FeeStatus) error
	Delete(ctx context.Context, id int64) error
}

type TestRecordRepository interface {
	Create(ctx context.Context, rec *model.TestRecord) error
	GetForUpdate(ctx context.Context, id int64) (*model.TestRecord, error)
	Update(ctx context.Context, rec *model.TestRecord) error
	List(ctx context.Context) ([]*model.TestRecord, error)
	ListByTest(ctx context.Context, testID int64) ([]*model.TestRecord, error)
	ListByStudent(ctx context.Context, studentID int64) ([]*model.TestRecord, error)
	Exists(ctx context.Context, testID, studentID int64) (bool, error)
	LockScore(ctx context.Context, testID, studentID int64) error
}
