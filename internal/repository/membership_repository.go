package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/student_records/internal/model"
	"github.com/Freeeeeet/student_records/internal/repository/base"
	"github.com/jackc/pgx/v5"
)

// MembershipRepository членство студентов в потоках (таблица student_batches).
// Уникальность "один поток на студента" схемой не гарантируется.
type MembershipRepository struct {
	db *base.Repository
}

func NewMembershipRepository(db *base.Repository) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// ListActive получает членства активных студентов, опционально только одного потока
func (r *MembershipRepository) ListActive(ctx context.Context, batchID *int64) ([]*model.Membership, error) {
	query := `
		SELECT sb.id, sb.user_id, sb.batch_id, sb.created_at
		FROM student_batches sb
		JOIN users u ON u.user_id = sb.user_id
		WHERE u.status = 'active'
		  AND ($1::bigint IS NULL OR sb.batch_id = $1)
		ORDER BY sb.id
	`

	rows, err := r.db.Query(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	defer rows.Close()

	var memberships []*model.Membership
	for rows.Next() {
		var m model.Membership
		if err := rows.Scan(&m.ID, &m.StudentID, &m.BatchID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		memberships = append(memberships, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate memberships: %w", err)
	}

	return memberships, nil
}

// ListDetailedByBatch получает активных студентов потока с контактными данными
func (r *MembershipRepository) ListDetailedByBatch(ctx context.Context, batchID int64) ([]*model.MembershipDetail, error) {
	query := `
		SELECT sb.user_id, sb.batch_id, u.name, u.email, u.phone_number, u.status
		FROM student_batches sb
		JOIN users u ON u.user_id = sb.user_id
		WHERE u.status = 'active' AND sb.batch_id = $1
		ORDER BY sb.id
	`

	rows, err := r.db.Query(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("list batch students: %w", err)
	}
	return collectDetails(rows)
}

// SearchByStudent получает все активные членства студента
func (r *MembershipRepository) SearchByStudent(ctx context.Context, studentID int64) ([]*model.MembershipDetail, error) {
	query := `
		SELECT sb.user_id, sb.batch_id, u.name, u.email, u.phone_number, u.status
		FROM student_batches sb
		JOIN users u ON u.user_id = sb.user_id
		WHERE u.status = 'active' AND sb.user_id = $1
		ORDER BY sb.id
	`

	rows, err := r.db.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("search student memberships: %w", err)
	}
	return collectDetails(rows)
}

// Create добавляет студента в поток
func (r *MembershipRepository) Create(ctx context.Context, m *model.Membership) error {
	query := `
		INSERT INTO student_batches (user_id, batch_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, m.StudentID, m.BatchID).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("create membership: %w", err)
	}

	return nil
}

// GetForUpdate находит членство студента в потоке и блокирует строку до конца транзакции
func (r *MembershipRepository) GetForUpdate(ctx context.Context, studentID, batchID int64) (*model.Membership, error) {
	query := `
		SELECT id, user_id, batch_id, created_at
		FROM student_batches
		WHERE user_id = $1 AND batch_id = $2
		ORDER BY id
		LIMIT 1
		FOR UPDATE
	`

	var m model.Membership
	err := r.db.QueryRow(ctx, query, studentID, batchID).Scan(&m.ID, &m.StudentID, &m.BatchID, &m.CreatedAt)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get membership for update: %w", err)
	}

	return &m, nil
}

// UpdateBatch переводит строку членства в другой поток
func (r *MembershipRepository) UpdateBatch(ctx context.Context, id, newBatchID int64) error {
	affected, err := r.db.ExecAffected(ctx, `UPDATE student_batches SET batch_id = $1 WHERE id = $2`, newBatchID, id)
	if err != nil {
		return fmt.Errorf("update membership batch: %w", err)
	}

	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete удаляет студента из потока, возвращает число удалённых строк
func (r *MembershipRepository) Delete(ctx context.Context, studentID, batchID int64) (int64, error) {
	affected, err := r.db.ExecAffected(ctx,
		`DELETE FROM student_batches WHERE user_id = $1 AND batch_id = $2`,
		studentID, batchID,
	)
	if err != nil {
		return 0, fmt.Errorf("delete membership: %w", err)
	}

	return affected, nil
}

// ExistsForStudent проверяет есть ли у студента хоть одно членство
func (r *MembershipRepository) ExistsForStudent(ctx context.Context, studentID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM student_batches WHERE user_id = $1)`,
		studentID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check membership: %w", err)
	}

	return exists, nil
}

// LockStudent сериализует запись членств одного студента внутри транзакции
func (r *MembershipRepository) LockStudent(ctx context.Context, studentID int64) error {
	return r.db.LockKey(ctx, fmt.Sprintf("student_batches:%d", studentID))
}

// CountByBatch считает активных студентов в каждом потоке
func (r *MembershipRepository) CountByBatch(ctx context.Context) ([]model.BatchCount, error) {
	query := `
		SELECT sb.batch_id, COUNT(*)
		FROM student_batches sb
		JOIN users u ON u.user_id = sb.user_id
		WHERE u.status = 'active'
		GROUP BY sb.batch_id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("count by batch: %w", err)
	}
	defer rows.Close()

	counts := []model.BatchCount{}
	for rows.Next() {
		var c model.BatchCount
		if err := rows.Scan(&c.BatchID, &c.StudentCount); err != nil {
			return nil, fmt.Errorf("scan batch count: %w", err)
		}
		counts = append(counts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate batch counts: %w", err)
	}

	return counts, nil
}

// CountForBatch считает активных студентов одного потока
func (r *MembershipRepository) CountForBatch(ctx context.Context, batchID int64) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM student_batches sb
		JOIN users u ON u.user_id = sb.user_id
		WHERE u.status = 'active' AND sb.batch_id = $1
	`

	var count int64
	if err := r.db.QueryRow(ctx, query, batchID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count for batch: %w", err)
	}

	return count, nil
}

// CountByDate считает активных студентов потока по дате добавления
func (r *MembershipRepository) CountByDate(ctx context.Context, batchID int64) ([]model.DateCount, error) {
	query := `
		SELECT sb.created_at::date AS day, COUNT(*)
		FROM student_batches sb
		JOIN users u ON u.user_id = sb.user_id
		WHERE u.status = 'active' AND sb.batch_id = $1
		GROUP BY day
		ORDER BY day ASC
	`

	rows, err := r.db.Query(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("count by date: %w", err)
	}
	defer rows.Close()

	counts := []model.DateCount{}
	for rows.Next() {
		var c model.DateCount
		if err := rows.Scan(&c.Date, &c.StudentCount); err != nil {
			return nil, fmt.Errorf("scan date count: %w", err)
		}
		counts = append(counts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate date counts: %w", err)
	}

	return counts, nil
}

func collectDetails(rows pgx.Rows) ([]*model.MembershipDetail, error) {
	defer rows.Close()

	var details []*model.MembershipDetail
	for rows.Next() {
		var d model.MembershipDetail
		err := rows.Scan(&d.StudentID, &d.BatchID, &d.Name, &d.Email, &d.PhoneNumber, &d.Status)
		if err != nil {
			return nil, fmt.Errorf("scan membership detail: %w", err)
		}
		details = append(details, &d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate membership details: %w", err)
	}

	return details, nil
}
