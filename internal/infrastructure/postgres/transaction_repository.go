package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"spendflix/internal/domain/categoryrule"
	"spendflix/internal/domain/transaction"
)

type TransactionRepository struct {
	db *DB
}

func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = `id, account_id, source_id, date, description, amount, checksum,
	category_id, category_rule_id, category_score, notes, is_hidden, created_at, updated_at`

// Create inserts the transaction; the checksum unique index makes concurrent
// imports of the same bank row race-safe, with the loser reporting false.
func (r *TransactionRepository) Create(ctx context.Context, params transaction.CreateTransactionParams) (bool, error) {
	query := `
		INSERT INTO transactions (id, account_id, source_id, date, description, amount, checksum,
			category_id, category_rule_id, category_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (checksum) DO NOTHING
	`

	result, err := r.db.ExecContext(ctx, query,
		params.ID, params.AccountID, params.SourceID, params.Date,
		params.Description, params.Amount, params.Checksum,
		params.CategoryID, params.CategoryRuleID, params.CategoryScore,
	)
	if err != nil {
		return false, fmt.Errorf("failed to create transaction: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows == 1, nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, userID int64, id string) (*transaction.Transaction, error) {
	query := `
		SELECT t.id, t.account_id, t.source_id, t.date, t.description, t.amount, t.checksum,
			t.category_id, t.category_rule_id, t.category_score, t.notes, t.is_hidden, t.created_at, t.updated_at
		FROM transactions t
		JOIN accounts a ON t.account_id = a.id
		WHERE t.id = $1 AND a.user_id = $2
	`

	txn, err := scanTransaction(r.db.QueryRowContext(ctx, query, id, userID).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return txn, nil
}

func (r *TransactionRepository) ListUncategorized(ctx context.Context, userID int64) ([]*transaction.Transaction, error) {
	query := `
		SELECT t.id, t.account_id, t.source_id, t.date, t.description, t.amount, t.checksum,
			t.category_id, t.category_rule_id, t.category_score, t.notes, t.is_hidden, t.created_at, t.updated_at
		FROM transactions t
		JOIN accounts a ON t.account_id = a.id
		WHERE a.user_id = $1 AND t.category_id IS NULL AND t.is_hidden = false
		ORDER BY t.date, t.created_at
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list uncategorized transactions: %w", err)
	}
	defer rows.Close()

	var txns []*transaction.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return txns, nil
}

func (r *TransactionRepository) Counts(ctx context.Context, userID int64) (transaction.Counts, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE t.category_id IS NOT NULL),
			COUNT(*) FILTER (WHERE t.category_id IS NULL)
		FROM transactions t
		JOIN accounts a ON t.account_id = a.id
		WHERE a.user_id = $1
	`

	var counts transaction.Counts
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&counts.Categorized, &counts.Uncategorized); err != nil {
		return transaction.Counts{}, fmt.Errorf("failed to count transactions: %w", err)
	}

	return counts, nil
}

func (r *TransactionRepository) Update(ctx context.Context, userID int64, id string, params transaction.UpdateTransactionParams) (*transaction.Transaction, error) {
	query := `
		UPDATE transactions t
		SET notes = COALESCE($1, t.notes),
		    is_hidden = COALESCE($2, t.is_hidden),
		    updated_at = CURRENT_TIMESTAMP
		FROM accounts a
		WHERE t.account_id = a.id AND t.id = $3 AND a.user_id = $4
		RETURNING t.id, t.account_id, t.source_id, t.date, t.description, t.amount, t.checksum,
			t.category_id, t.category_rule_id, t.category_score, t.notes, t.is_hidden, t.created_at, t.updated_at
	`

	txn, err := scanTransaction(r.db.QueryRowContext(ctx, query, params.Notes, params.IsHidden, id, userID).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	return txn, nil
}

// GetInfo is the learner's narrow read: just enough of the transaction to
// derive a rule keyword, scoped to the user.
func (r *TransactionRepository) GetInfo(ctx context.Context, userID int64, id string) (*categoryrule.TransactionInfo, error) {
	query := `
		SELECT t.id, t.account_id, t.description
		FROM transactions t
		JOIN accounts a ON t.account_id = a.id
		WHERE t.id = $1 AND a.user_id = $2
	`

	var info categoryrule.TransactionInfo
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(&info.ID, &info.AccountID, &info.Description)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction info: %w", err)
	}

	return &info, nil
}

// AssignCategory applies a manual categorization to the batch. Manual picks
// carry full confidence, so category_score is pinned to 1.
func (r *TransactionRepository) AssignCategory(ctx context.Context, userID int64, ids []string, categoryID string, ruleID *string) (int64, error) {
	query := `
		UPDATE transactions t
		SET category_id = $1,
		    category_rule_id = $2,
		    category_score = 1.0,
		    updated_at = CURRENT_TIMESTAMP
		FROM accounts a
		WHERE t.account_id = a.id AND a.user_id = $3 AND t.id = ANY($4)
	`

	result, err := r.db.ExecContext(ctx, query, categoryID, ruleID, userID, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("failed to assign category: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows, nil
}

func scanTransaction(scan func(dest ...any) error) (*transaction.Transaction, error) {
	var txn transaction.Transaction
	var categoryID, ruleID, notes sql.NullString
	var score sql.NullFloat64

	err := scan(
		&txn.ID, &txn.AccountID, &txn.SourceID, &txn.Date, &txn.Description,
		&txn.Amount, &txn.Checksum, &categoryID, &ruleID, &score,
		&notes, &txn.IsHidden, &txn.CreatedAt, &txn.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if categoryID.Valid {
		txn.CategoryID = &categoryID.String
	}
	if ruleID.Valid {
		txn.CategoryRuleID = &ruleID.String
	}
	if score.Valid {
		txn.CategoryScore = &score.Float64
	}
	if notes.Valid {
		txn.Notes = &notes.String
	}

	return &txn, nil
}
