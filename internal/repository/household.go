package repository

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adpablos/expense-tracker-backend/constants"
	"github.com/adpablos/expense-tracker-backend/internal/common"
	"github.com/adpablos/expense-tracker-backend/internal/entity"
)

type HouseholdRepository interface {
	Create(ctx context.Context, name string, ownerID uuid.UUID) (*entity.Household, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Household, error)
	IsMember(ctx context.Context, householdID, userID uuid.UUID) (bool, error)
}

type householdRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewHouseholdRepository(pool *pgxpool.Pool, logger *slog.Logger) HouseholdRepository {
	return &householdRepository{pool: pool, logger: logger}
}

// Create inserts the household with its owner and seeds the default taxonomy
// in the same transaction.
func (r *householdRepository) Create(ctx context.Context, name string, ownerID uuid.UUID) (*entity.Household, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, common.WrapError(err, "begin")
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var h entity.Household
	err = tx.QueryRow(ctx,
		`INSERT INTO households (name) VALUES ($1) RETURNING id, name, created_at`,
		name).Scan(&h.ID, &h.Name, &h.CreatedAt)
	if err != nil {
		return nil, common.WrapError(err, "insert household")
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO household_members (household_id, user_id, role) VALUES ($1, $2, 'owner')`,
		h.ID, ownerID); err != nil {
		return nil, common.WrapError(err, "insert owner")
	}

	for _, cat := range constants.DefaultTaxonomy {
		var catID uuid.UUID
		err := tx.QueryRow(ctx,
			`INSERT INTO categories (household_id, name) VALUES ($1, $2) RETURNING id`,
			h.ID, cat.Name).Scan(&catID)
		if err != nil {
			return nil, common.WrapError(err, "seed category")
		}
		for _, sub := range cat.Subcategories {
			if _, err := tx.Exec(ctx,
				`INSERT INTO subcategories (category_id, name) VALUES ($1, $2)`,
				catID, sub); err != nil {
				return nil, common.WrapError(err, "seed subcategory")
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, common.WrapError(err, "commit")
	}
	r.logger.Info("household created", "household_id", h.ID, "name", h.Name)
	return &h, nil
}

func (r *householdRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Household, error) {
	var h entity.Household
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, created_at FROM households WHERE id = $1`,
		id).Scan(&h.ID, &h.Name, &h.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NewAppError("HOUSEHOLD_NOT_FOUND", "household "+id.String(), common.ErrNotFound)
	}
	if err != nil {
		return nil, common.WrapError(err, "get household")
	}
	return &h, nil
}

func (r *householdRepository) IsMember(ctx context.Context, householdID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM household_members WHERE household_id = $1 AND user_id = $2)`,
		householdID, userID).Scan(&exists)
	if err != nil {
		return false, common.WrapError(err, "check membership")
	}
	return exists, nil
}
