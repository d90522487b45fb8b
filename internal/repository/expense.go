package repository

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adpablos/expense-tracker-backend/internal/common"
	"github.com/adpablos/expense-tracker-backend/internal/entity"
)

type ExpenseRepository interface {
	Insert(ctx context.Context, e *entity.Expense) error
	ListByHousehold(ctx context.Context, householdID uuid.UUID, from, to *time.Time) ([]*entity.Expense, error)
}

type expenseRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewExpenseRepository(pool *pgxpool.Pool, logger *slog.Logger) ExpenseRepository {
	return &expenseRepository{pool: pool, logger: logger}
}

func (r *expenseRepository) Insert(ctx context.Context, e *entity.Expense) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO expenses (id, household_id, expense_datetime, amount, category, subcategory, description, created_by)
		 VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''), $8)
		 RETURNING created_at`,
		e.ID, e.HouseholdID, e.Date, e.Amount, e.Category, e.Subcategory, e.Description, e.CreatedBy,
	).Scan(&e.CreatedAt)
	if err != nil {
		return common.WrapError(err, "insert expense")
	}
	return nil
}

// ListByHousehold returns expenses in the date window, newest first. A nil
// bound leaves that side of the window open.
func (r *expenseRepository) ListByHousehold(ctx context.Context, householdID uuid.UUID, from, to *time.Time) ([]*entity.Expense, error) {
	query := `SELECT id, household_id, expense_datetime, amount, category,
	                 COALESCE(subcategory, ''), COALESCE(description, ''), created_by, created_at
	            FROM expenses WHERE household_id = $1`
	args := []any{householdID}
	if from != nil {
		args = append(args, *from)
		query += ` AND expense_datetime >= $` + strconv.Itoa(len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += ` AND expense_datetime <= $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY expense_datetime DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, common.WrapError(err, "list expenses")
	}
	defer rows.Close()

	var result []*entity.Expense
	for rows.Next() {
		var e entity.Expense
		if err := rows.Scan(&e.ID, &e.HouseholdID, &e.Date, &e.Amount, &e.Category, &e.Subcategory, &e.Description, &e.CreatedBy, &e.CreatedAt); err != nil {
			return nil, common.WrapError(err, "scan expense")
		}
		result = append(result, &e)
	}
	return result, rows.Err()
}
