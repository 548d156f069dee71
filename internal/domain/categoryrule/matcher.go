package categoryrule

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"spendflix/internal/domain/category"
	"spendflix/internal/shared/logging"
)

var log = logging.ForModule("categorizer")

// Match is the categorization outcome for a single transaction. RuleID is nil
// for the income fallback, which applies no rule.
type Match struct {
	CategoryID string
	RuleID     *string
	AccountID  *string
	Score      float64
}

// Matcher infers a category for a transaction description. Candidate scoring
// happens in the store; ranking and the income fallback happen here.
type Matcher struct {
	rules      Repository
	categories category.Repository
}

func NewMatcher(rules Repository, categories category.Repository) *Matcher {
	return &Matcher{rules: rules, categories: categories}
}

// Infer returns the best match for the description, the income fallback for
// positive amounts with no matching rule, or nil when the transaction stays
// uncategorized. Ranking is deterministic: account-specific rules beat global
// ones, then higher score, more occurrences, and most recently updated.
func (m *Matcher) Infer(ctx context.Context, description, accountID string, amount decimal.Decimal) (*Match, error) {
	sanitized := Sanitize(description)

	var candidates []Candidate
	if sanitized != "" {
		var err error
		candidates, err = m.rules.FindCandidates(ctx, sanitized, accountID)
		if err != nil {
			return nil, fmt.Errorf("failed to find rule candidates: %w", err)
		}
	}

	if len(candidates) > 0 {
		best := rank(candidates)
		ruleID := best.Rule.ID
		return &Match{
			CategoryID: best.Rule.CategoryID,
			RuleID:     &ruleID,
			AccountID:  best.Rule.AccountID,
			Score:      best.Score,
		}, nil
	}

	if amount.IsPositive() {
		income, err := m.categories.GetByName(ctx, category.IncomeName)
		if err != nil {
			return nil, fmt.Errorf("failed to load income category: %w", err)
		}
		if income == nil {
			log.WithField("category", category.IncomeName).Warn("income category missing, leaving transaction uncategorized")
			return nil, nil
		}
		return &Match{CategoryID: income.ID, Score: 0}, nil
	}

	return nil, nil
}

func rank(candidates []Candidate) Candidate {
	sorted := make([]Candidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return moreRelevant(sorted[i], sorted[j])
	})
	return sorted[0]
}

func moreRelevant(a, b Candidate) bool {
	aScoped := a.Rule.AccountID != nil
	bScoped := b.Rule.AccountID != nil
	if aScoped != bScoped {
		return aScoped
	}
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.Rule.Occurrences != b.Rule.Occurrences {
		return a.Rule.Occurrences > b.Rule.Occurrences
	}
	return a.Rule.UpdatedAt.After(b.Rule.UpdatedAt)
}
