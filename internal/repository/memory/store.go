// Package memory хранилище в памяти с теми же контрактами, что и репозитории pgx.
// Используется в тестах сервисов и HTTP-слоя.
//
// Транзакции сериализуются; при ошибке состояние восстанавливается из снимка,
// снятого в начале транзакции.
//
// Изоляции чтения нет: вызов вне WithinTx берёт только mu и видит
// незафиксированные записи идущей транзакции, даже если она потом откатится.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Freeeeeet/student_records/internal/model"
	"github.com/Freeeeeet/student_records/internal/repository"
)

// Hook вызывается до (Before) или после (After) операции с её именем,
// например "memberships.UpdateBatch". Ненулевая ошибка прерывает операцию.
type Hook func(ctx context.Context, op string) error

type data struct {
	users       map[int64]model.User
	memberships map[int64]model.Membership
	fees        map[int64]model.FeeStatus
	records     map[int64]model.TestRecord
	nextID      int64
}

func (d *data) clone() *data {
	c := &data{
		users:       make(map[int64]model.User, len(d.users)),
		memberships: make(map[int64]model.Membership, len(d.memberships)),
		fees:        make(map[int64]model.FeeStatus, len(d.fees)),
		records:     make(map[int64]model.TestRecord, len(d.records)),
		nextID:      d.nextID,
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.memberships {
		c.memberships[k] = v
	}
	for k, v := range d.fees {
		c.fees[k] = copyFee(v)
	}
	for k, v := range d.records {
		c.records[k] = v
	}
	return c
}

type txKey struct{}

// Store общее состояние всех репозиториев
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex
	d    *data

	Now    func() time.Time
	Before Hook
	After  Hook
}

func NewStore() *Store {
	return &Store{
		d: &data{
			users:       map[int64]model.User{},
			memberships: map[int64]model.Membership{},
			fees:        map[int64]model.FeeStatus{},
			records:     map[int64]model.TestRecord{},
		},
		Now: time.Now,
	}
}

// WithinTx выполняет fn; при ошибке всё записанное внутри откатывается
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.d.clone()
	s.mu.Unlock()

	err := fn(context.WithValue(ctx, txKey{}, true))
	if err == nil {
		err = ctx.Err()
		if err != nil {
			err = fmt.Errorf("commit transaction: %w", err)
		}
	}

	if err != nil {
		s.mu.Lock()
		s.d = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) Users() *UserRepository             { return &UserRepository{s} }
func (s *Store) Memberships() *MembershipRepository { return &MembershipRepository{s} }
func (s *Store) Fees() *FeeRepository               { return &FeeRepository{s} }
func (s *Store) Records() *TestRecordRepository     { return &TestRecordRepository{s} }

// begin проверяет контекст и хук Before, затем берёт мьютекс.
// txMu здесь не берётся, поэтому чтение вне транзакции не изолировано.
func (s *Store) begin(ctx context.Context, op string) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if s.Before != nil {
		if err := s.Before(ctx, op); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	s.mu.Lock()
	return s.mu.Unlock, nil
}

// after вызывается после записи: ошибка имитирует сбой уже после изменения данных
func (s *Store) after(ctx context.Context, op string) error {
	if s.After != nil {
		if err := s.After(ctx, op); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}

func (s *Store) id() int64 {
	s.d.nextID++
	return s.d.nextID
}

// Snapshot копии всех членств, упорядоченные по id, для проверок в тестах
func (s *Store) Snapshot() []model.Membership {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Membership, 0, len(s.d.memberships))
	for _, m := range s.d.memberships {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func copyFee(f model.FeeStatus) model.FeeStatus {
	if f.NextDueDate != nil {
		d := *f.NextDueDate
		f.NextDueDate = &d
	}
	return f
}

func isActive(d *data, userID int64) bool {
	u, ok := d.users[userID]
	return ok && u.Status == model.UserStatusActive
}

var errNotFound = repository.ErrNotFound
