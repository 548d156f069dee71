package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"spendflix/internal/domain/source"
)

type SourceRepository struct {
	db *DB
}

func NewSourceRepository(db *DB) *SourceRepository {
	return &SourceRepository{db: db}
}

func (r *SourceRepository) Create(ctx context.Context, params source.CreateSourceParams) (*source.Source, error) {
	query := `
		INSERT INTO sources (id, account_id, source_type_id, status)
		VALUES ($1, $2, $3, 'PENDING')
		RETURNING id, account_id, source_type_id, status, created_at, updated_at
	`

	var src source.Source
	err := r.db.QueryRowContext(ctx, query, params.ID, params.AccountID, params.SourceTypeID).Scan(
		&src.ID, &src.AccountID, &src.SourceTypeID, &src.Status, &src.CreatedAt, &src.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create source: %w", err)
	}

	return &src, nil
}

func (r *SourceRepository) GetByID(ctx context.Context, id string) (*source.Source, error) {
	query := `
		SELECT id, account_id, source_type_id, status, created_at, updated_at
		FROM sources
		WHERE id = $1
	`

	var src source.Source
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&src.ID, &src.AccountID, &src.SourceTypeID, &src.Status, &src.CreatedAt, &src.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get source: %w", err)
	}

	return &src, nil
}

func (r *SourceRepository) ListByAccountID(ctx context.Context, accountID string) ([]*source.Source, error) {
	query := `
		SELECT id, account_id, source_type_id, status, created_at, updated_at
		FROM sources
		WHERE account_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	defer rows.Close()

	var sources []*source.Source
	for rows.Next() {
		var src source.Source
		if err := rows.Scan(
			&src.ID, &src.AccountID, &src.SourceTypeID, &src.Status, &src.CreatedAt, &src.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		sources = append(sources, &src)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sources: %w", err)
	}

	return sources, nil
}

func (r *SourceRepository) UpdateStatus(ctx context.Context, id string, status source.Status) error {
	query := `
		UPDATE sources
		SET status = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
	`

	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update source status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return source.ErrSourceNotFound
	}

	return nil
}
