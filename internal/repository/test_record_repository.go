package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/student_records/internal/model"
	"github.com/Freeeeeet/student_records/internal/repository/base"
	"github.com/jackc/pgx/v5"
)

const recordColumns = `record_id, test_id, user_id, marks_obtained, created_at, updated_at`

// TestRecordRepository результаты тестов (таблица student_test_records).
// Несколько записей на пару (test_id, user_id) схема не запрещает.
type TestRecordRepository struct {
	db *base.Repository
}

func NewTestRecordRepository(db *base.Repository) *TestRecordRepository {
	return &TestRecordRepository{db: db}
}

// Create сохраняет новый результат
func (r *TestRecordRepository) Create(ctx context.Context, rec *model.TestRecord) error {
	query := `
		INSERT INTO student_test_records (test_id, user_id, marks_obtained)
		VALUES ($1, $2, $3)
		RETURNING record_id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query, rec.TestID, rec.StudentID, rec.MarksObtained).
		Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create test record: %w", err)
	}

	return nil
}

// GetForUpdate получает запись и блокирует её до конца транзакции
func (r *TestRecordRepository) GetForUpdate(ctx context.Context, id int64) (*model.TestRecord, error) {
	rec, err := scanRecord(r.db.QueryRow(ctx,
		`SELECT `+recordColumns+` FROM student_test_records WHERE record_id = $1 FOR UPDATE`, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get test record for update: %w", err)
	}

	return rec, nil
}

// Update сохраняет исправленный результат
func (r *TestRecordRepository) Update(ctx context.Context, rec *model.TestRecord) error {
	query := `
		UPDATE student_test_records
		SET test_id = $1, user_id = $2, marks_obtained = $3, updated_at = NOW()
		WHERE record_id = $4
		RETURNING updated_at
	`

	err := r.db.QueryRow(ctx, query, rec.TestID, rec.StudentID, rec.MarksObtained, rec.ID).Scan(&rec.UpdatedAt)
	if err != nil {
		if base.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("update test record: %w", err)
	}

	return nil
}

// List получает все результаты
func (r *TestRecordRepository) List(ctx context.Context) ([]*model.TestRecord, error) {
	rows, err := r.db.Query(ctx, `SELECT `+recordColumns+` FROM student_test_records ORDER BY record_id`)
	if err != nil {
		return nil, fmt.Errorf("list test records: %w", err)
	}
	return collectRecords(rows)
}

// ListByTest получает все результаты одного теста одним запросом
func (r *TestRecordRepository) ListByTest(ctx context.Context, testID int64) ([]*model.TestRecord, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+recordColumns+` FROM student_test_records WHERE test_id = $1 ORDER BY record_id`, testID)
	if err != nil {
		return nil, fmt.Errorf("list test records by test: %w", err)
	}
	return collectRecords(rows)
}

// ListByStudent получает все результаты студента
func (r *TestRecordRepository) ListByStudent(ctx context.Context, studentID int64) ([]*model.TestRecord, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+recordColumns+` FROM student_test_records WHERE user_id = $1 ORDER BY record_id`, studentID)
	if err != nil {
		return nil, fmt.Errorf("list test records by student: %w", err)
	}
	return collectRecords(rows)
}

// Exists проверяет есть ли уже результат студента в тесте
func (r *TestRecordRepository) Exists(ctx context.Context, testID, studentID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM student_test_records WHERE test_id = $1 AND user_id = $2)`,
		testID, studentID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check test record: %w", err)
	}

	return exists, nil
}

// LockScore сериализует запись результатов пары (тест, студент) внутри транзакции
func (r *TestRecordRepository) LockScore(ctx context.Context, testID, studentID int64) error {
	return r.db.LockKey(ctx, fmt.Sprintf("student_test_records:%d:%d", testID, studentID))
}

func collectRecords(rows pgx.Rows) ([]*model.TestRecord, error) {
	defer rows.Close()

	records := []*model.TestRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan test record: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate test records: %w", err)
	}

	return records, nil
}

func scanRecord(row interface{ Scan(dest ...any) error }) (*model.TestRecord, error) {
	var rec model.TestRecord
	err := row.Scan(
		&rec.ID,
		&rec.TestID,
		&rec.StudentID,
		&rec.MarksObtained,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
