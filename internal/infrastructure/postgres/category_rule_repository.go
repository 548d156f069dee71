package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"spendflix/internal/domain/categoryrule"
)

type CategoryRuleRepository struct {
	db *DB
}

func NewCategoryRuleRepository(db *DB) *CategoryRuleRepository {
	return &CategoryRuleRepository{db: db}
}

// similarityThreshold is the minimum pg_trgm similarity for a rule keyword to
// count as a fuzzy match against a sanitized description.
const similarityThreshold = 0.3

// FindCandidates scores every global or account-scoped rule against the
// sanitized description. A whole-word occurrence of the keyword pins the
// score to 1.0 regardless of trigram similarity; otherwise the similarity is
// the score. Ranking happens in the matcher.
func (r *CategoryRuleRepository) FindCandidates(ctx context.Context, sanitizedDescription, accountID string) ([]categoryrule.Candidate, error) {
	query := `
		SELECT r.id, r.keyword, r.account_id, r.category_id, r.occurrences, r.created_at, r.updated_at,
			GREATEST(
				similarity($1, r.keyword),
				CASE WHEN $1 ~* ('\y' || r.keyword || '\y') THEN 1.0 ELSE 0 END
			) AS score
		FROM category_rules r
		WHERE (r.account_id IS NULL OR r.account_id = $2)
		  AND (similarity($1, r.keyword) > $3 OR $1 ~* ('\y' || r.keyword || '\y'))
	`

	rows, err := r.db.QueryContext(ctx, query, sanitizedDescription, accountID, similarityThreshold)
	if err != nil {
		return nil, fmt.Errorf("failed to find rule candidates: %w", err)
	}
	defer rows.Close()

	var candidates []categoryrule.Candidate
	for rows.Next() {
		var c categoryrule.Candidate
		var ruleAccountID sql.NullString

		if err := rows.Scan(
			&c.Rule.ID, &c.Rule.Keyword, &ruleAccountID, &c.Rule.CategoryID,
			&c.Rule.Occurrences, &c.Rule.CreatedAt, &c.Rule.UpdatedAt, &c.Score,
		); err != nil {
			return nil, fmt.Errorf("failed to scan rule candidate: %w", err)
		}

		if ruleAccountID.Valid {
			c.Rule.AccountID = &ruleAccountID.String
		}

		candidates = append(candidates, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rule candidates: %w", err)
	}

	return candidates, nil
}

// Upsert creates the rule or bumps the existing one. The unique index on
// (keyword, account_id, category_id) treats NULLs as equal, so repeated
// corrections land on the same row instead of multiplying global rules.
func (r *CategoryRuleRepository) Upsert(ctx context.Context, params categoryrule.UpsertRuleParams) (*categoryrule.CategoryRule, error) {
	query := `
		INSERT INTO category_rules (id, keyword, account_id, category_id, occurrences)
		VALUES ($1, $2, $3, $4, 1)
		ON CONFLICT (keyword, account_id, category_id) DO UPDATE SET
		    occurrences = category_rules.occurrences + 1,
		    updated_at = CURRENT_TIMESTAMP
		RETURNING id, keyword, account_id, category_id, occurrences, created_at, updated_at
	`

	var rule categoryrule.CategoryRule
	var ruleAccountID sql.NullString

	err := r.db.QueryRowContext(ctx, query,
		uuid.NewString(), params.Keyword, params.AccountID, params.CategoryID,
	).Scan(
		&rule.ID, &rule.Keyword, &ruleAccountID, &rule.CategoryID,
		&rule.Occurrences, &rule.CreatedAt, &rule.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert category rule: %w", err)
	}

	if ruleAccountID.Valid {
		rule.AccountID = &ruleAccountID.String
	}

	return &rule, nil
}
