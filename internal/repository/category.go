package repository

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adpablos/expense-tracker-backend/internal/common"
	"github.com/adpablos/expense-tracker-backend/internal/entity"
)

type CategoryRepository interface {
	ListByHousehold(ctx context.Context, householdID uuid.UUID) ([]*entity.Category, error)
	ListHierarchy(ctx context.Context, householdID uuid.UUID) ([]entity.CategoryWithSubcategories, error)
	FindByName(ctx context.Context, householdID uuid.UUID, name string) (*entity.Category, error)
	Create(ctx context.Context, householdID uuid.UUID, name string, subcategories []string) (*entity.Category, error)
}

type categoryRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewCategoryRepository(pool *pgxpool.Pool, logger *slog.Logger) CategoryRepository {
	return &categoryRepository{pool: pool, logger: logger}
}

func (r *categoryRepository) ListByHousehold(ctx context.Context, householdID uuid.UUID) ([]*entity.Category, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, household_id, name FROM categories WHERE household_id = $1 ORDER BY name`,
		householdID)
	if err != nil {
		return nil, common.WrapError(err, "list categories")
	}
	defer rows.Close()

	var result []*entity.Category
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.HouseholdID, &c.Name); err != nil {
			return nil, common.WrapError(err, "scan category")
		}
		result = append(result, &c)
	}
	return result, rows.Err()
}

// ListHierarchy returns the household's taxonomy as an ordered snapshot,
// categories by name with subcategory names ordered within each.
func (r *categoryRepository) ListHierarchy(ctx context.Context, householdID uuid.UUID) ([]entity.CategoryWithSubcategories, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT c.name, s.name
		   FROM categories c
		   LEFT JOIN subcategories s ON s.category_id = c.id
		  WHERE c.household_id = $1
		  ORDER BY c.name, s.name`,
		householdID)
	if err != nil {
		return nil, common.WrapError(err, "list category hierarchy")
	}
	defer rows.Close()

	var result []entity.CategoryWithSubcategories
	for rows.Next() {
		var catName string
		var subName *string
		if err := rows.Scan(&catName, &subName); err != nil {
			return nil, common.WrapError(err, "scan category hierarchy")
		}
		if len(result) == 0 || result[len(result)-1].Name != catName {
			result = append(result, entity.CategoryWithSubcategories{Name: catName})
		}
		if subName != nil {
			last := &result[len(result)-1]
			last.Subcategories = append(last.Subcategories, *subName)
		}
	}
	return result, rows.Err()
}

func (r *categoryRepository) FindByName(ctx context.Context, householdID uuid.UUID, name string) (*entity.Category, error) {
	var c entity.Category
	err := r.pool.QueryRow(ctx,
		`SELECT id, household_id, name FROM categories WHERE household_id = $1 AND name = $2`,
		householdID, name).Scan(&c.ID, &c.HouseholdID, &c.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NewAppError("CATEGORY_NOT_FOUND", "category "+name, common.ErrNotFound)
	}
	if err != nil {
		return nil, common.WrapError(err, "find category")
	}
	return &c, nil
}

func (r *categoryRepository) Create(ctx context.Context, householdID uuid.UUID, name string, subcategories []string) (*entity.Category, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, common.WrapError(err, "begin")
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var c entity.Category
	err = tx.QueryRow(ctx,
		`INSERT INTO categories (household_id, name) VALUES ($1, $2) RETURNING id, household_id, name`,
		householdID, name).Scan(&c.ID, &c.HouseholdID, &c.Name)
	if err != nil {
		return nil, common.WrapError(err, "insert category")
	}
	for _, sub := range subcategories {
		if _, err := tx.Exec(ctx,
			`INSERT INTO subcategories (category_id, name) VALUES ($1, $2)`,
			c.ID, sub); err != nil {
			return nil, common.WrapError(err, "insert subcategory")
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, common.WrapError(err, "commit")
	}
	r.logger.Debug("category created", "household_id", householdID, "name", name, "subcategories", len(subcategories))
	return &c, nil
}
