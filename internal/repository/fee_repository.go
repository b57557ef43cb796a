package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/student_records/internal/model"
	"github.com/Freeeeeet/student_records/internal/repository/base"
)

const feeColumns = `id, user_id, admission_date, total_fees, fees_submitted, remaining_fees, next_due_date, created_at, updated_at`

// FeeRepository журнал оплат (таблица fee_statuses)
type FeeRepository struct {
	db *base.Repository
}

func NewFeeRepository(db *base.Repository) *FeeRepository {
	return &FeeRepository{db: db}
}

// List получает все строки журнала
func (r *FeeRepository) List(ctx context.Context) ([]*model.FeeStatus, error) {
	rows, err := r.db.Query(ctx, `SELECT `+feeColumns+` FROM fee_statuses ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list fee statuses: %w", err)
	}
	defer rows.Close()

	fees := []*model.FeeStatus{}
	for rows.Next() {
		fee, err := scanFee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan fee status: %w", err)
		}
		fees = append(fees, fee)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fee statuses: %w", err)
	}

	return fees, nil
}

// GetByID получает строку журнала по ID
func (r *FeeRepository) GetByID(ctx context.Context, id int64) (*model.FeeStatus, error) {
	fee, err := scanFee(r.db.QueryRow(ctx, `SELECT `+feeColumns+` FROM fee_statuses WHERE id = $1`, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get fee status by id: %w", err)
	}

	return fee, nil
}

// GetForUpdate получает строку и блокирует её до конца транзакции
func (r *FeeRepository) GetForUpdate(ctx context.Context, id int64) (*model.FeeStatus, error) {
	fee, err := scanFee(r.db.QueryRow(ctx, `SELECT `+feeColumns+` FROM fee_statuses WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get fee status for update: %w", err)
	}

	return fee, nil
}

// Create создаёт строку журнала. remaining_fees должен быть уже посчитан.
func (r *FeeRepository) Create(ctx context.Context, fee *model.FeeStatus) error {
	query := `
		INSERT INTO fee_statuses (user_id, admission_date, total_fees, fees_submitted, remaining_fees, next_due_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		fee.StudentID,
		fee.AdmissionDate,
		fee.TotalFees,
		fee.FeesSubmitted,
		fee.RemainingFees,
		fee.NextDueDate,
	).Scan(&fee.ID, &fee.CreatedAt, &fee.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create fee status: %w", err)
	}

	return nil
}

// Update сохраняет все поля строки журнала
func (r *FeeRepository) Update(ctx context.Context, fee *model.FeeStatus) error {
	query := `
		UPDATE fee_statuses
		SET user_id = $1, admission_date = $2, total_fees = $3, fees_submitted = $4,
		    remaining_fees = $5, next_due_date = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		fee.StudentID,
		fee.AdmissionDate,
		fee.TotalFees,
		fee.FeesSubmitted,
		fee.RemainingFees,
		fee.NextDueDate,
		fee.ID,
	).Scan(&fee.UpdatedAt)

	if err != nil {
		if base.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("update fee status: %w", err)
	}

	return nil
}

// Delete удаляет строку журнала
func (r *FeeRepository) Delete(ctx context.Context, id int64) error {
	affected, err := r.db.ExecAffected(ctx, `DELETE FROM fee_statuses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete fee status: %w", err)
	}

	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func scanFee(row interface{ Scan(dest ...any) error }) (*model.FeeStatus, error) {
	var fee model.FeeStatus
	err := row.Scan(
		&fee.ID,
		&fee.StudentID,
		&fee.AdmissionDate,
		&fee.TotalFees,
		&fee.FeesSubmitted,
		&fee.RemainingFees,
		&fee.NextDueDate,
		&fee.CreatedAt,
		&fee.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &fee, nil
}
