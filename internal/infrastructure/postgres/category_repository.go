package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"spendflix/internal/domain/category"
)

type CategoryRepository struct {
	db *DB
}

func NewCategoryRepository(db *DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

const categoryColumns = `id, name, color, parent_category_id, created_at, updated_at`

func (r *CategoryRepository) List(ctx context.Context) ([]*category.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*category.Category
	for rows.Next() {
		cat, err := scanCategory(rows.Scan)
		if err != nil {
			return nil, err
		}
		categories = append(categories, cat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*category.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE id = $1
	`
	return r.getOne(ctx, query, id)
}

func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*category.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE name = $1
	`
	return r.getOne(ctx, query, name)
}

func (r *CategoryRepository) getOne(ctx context.Context, query string, arg any) (*category.Category, error) {
	cat, err := scanCategory(r.db.QueryRowContext(ctx, query, arg).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return cat, nil
}

func scanCategory(scan func(dest ...any) error) (*category.Category, error) {
	var cat category.Category
	var parentID sql.NullString

	err := scan(&cat.ID, &cat.Name, &cat.Color, &parentID, &cat.CreatedAt, &cat.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if parentID.Valid {
		cat.ParentCategoryID = &parentID.String
	}

	return &cat, nil
}
