package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"spendflix/internal/domain/account"
)

type AccountRepository struct {
	db *DB
}

func NewAccountRepository(db *DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*account.Account, error) {
	query := `
		SELECT id, user_id, name, bank_number, expected_source_type, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`

	var acct account.Account
	var bankNumber, expectedType sql.NullString

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&acct.ID, &acct.UserID, &acct.Name, &bankNumber,
		&expectedType, &acct.CreatedAt, &acct.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if bankNumber.Valid {
		acct.BankNumber = bankNumber.String
	}
	if expectedType.Valid {
		acct.ExpectedSourceType = expectedType.String
	}

	return &acct, nil
}

func (r *AccountRepository) ListByUserID(ctx context.Context, userID int64) ([]*account.Account, error) {
	query := `
		SELECT id, user_id, name, bank_number, expected_source_type, created_at, updated_at
		FROM accounts
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*account.Account
	for rows.Next() {
		var acct account.Account
		var bankNumber, expectedType sql.NullString

		if err := rows.Scan(
			&acct.ID, &acct.UserID, &acct.Name, &bankNumber,
			&expectedType, &acct.CreatedAt, &acct.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}

		if bankNumber.Valid {
			acct.BankNumber = bankNumber.String
		}
		if expectedType.Valid {
			acct.ExpectedSourceType = expectedType.String
		}

		accounts = append(accounts, &acct)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}

	return accounts, nil
}
