package categoryrule

import (
	"context"
	"errors"
	"fmt"
)

var ErrTransactionNotFound = errors.New("transaction not found")

// TransactionInfo is the slice of a transaction the learner needs to derive
// a rule from a correction.
type TransactionInfo struct {
	ID          string
	AccountID   string
	Description string
}

// TransactionStore is the learner's view of transaction persistence. Both
// operations are scoped to the user so corrections can never touch another
// user's data.
type TransactionStore interface {
	GetInfo(ctx context.Context, userID int64, id string) (*TransactionInfo, error)
	AssignCategory(ctx context.Context, userID int64, ids []string, categoryID string, ruleID *string) (int64, error)
}

// Learner turns a user's manual categorization into a reusable rule. The
// first transaction in the batch supplies the keyword; every transaction in
// the batch gets the category.
type Learner struct {
	rules        Repository
	transactions TransactionStore
}

func NewLearner(rules Repository, transactions TransactionStore) *Learner {
	return &Learner{rules: rules, transactions: transactions}
}

// Learn upserts an account-scoped rule from the correction and assigns the
// category to every listed transaction. An empty batch is a no-op. When the
// representative description sanitizes to nothing, the category is still
// assigned but no rule is learned. Repeating the same correction bumps the
// existing rule's occurrences instead of creating a duplicate.
func (l *Learner) Learn(ctx context.Context, userID int64, transactionIDs []string, categoryID string) (*CategoryRule, error) {
	if len(transactionIDs) == 0 {
		return nil, nil
	}

	info, err := l.transactions.GetInfo(ctx, userID, transactionIDs[0])
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction: %w", err)
	}
	if info == nil {
		return nil, ErrTransactionNotFound
	}

	var rule *CategoryRule
	var ruleID *string
	if keyword := Sanitize(info.Description); keyword != "" {
		accountID := info.AccountID
		rule, err = l.rules.Upsert(ctx, UpsertRuleParams{
			Keyword:    keyword,
			AccountID:  &accountID,
			CategoryID: categoryID,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to upsert rule: %w", err)
		}
		ruleID = &rule.ID
	}

	updated, err := l.transactions.AssignCategory(ctx, userID, transactionIDs, categoryID, ruleID)
	if err != nil {
		return nil, fmt.Errorf("failed to assign category: %w", err)
	}

	fields := map[string]interface{}{
		"category_id":  categoryID,
		"transactions": updated,
	}
	if rule != nil {
		fields["rule_id"] = rule.ID
		fields["keyword"] = rule.Keyword
	}
	log.WithFields(fields).Info("categorization learned")

	return rule, nil
}
