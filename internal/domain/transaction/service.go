package transaction

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"spendflix/internal/domain/categoryrule"
)

// Group bundles uncategorized transactions sharing a sanitized description,
// so one correction can cover the whole merchant at once.
type Group struct {
	Key          string            `json:"key"`
	Transactions []string          `json:"transactionIds"`
	Descriptions []string          `json:"descriptions"`
	Values       []decimal.Decimal `json:"values"`
}

// ReviewSummary is the categorization review payload: progress counters plus
// the uncategorized backlog grouped by merchant.
type ReviewSummary struct {
	Counts             Counts  `json:"counts"`
	CategorizedPercent float64 `json:"categorizedPercent"`
	Groups             []Group `json:"groups"`
}

// Service exposes the user-facing transaction operations: the review summary
// and the per-transaction edits.
type Service struct {
	transactions Repository
}

func NewService(transactions Repository) *Service {
	return &Service{transactions: transactions}
}

// Review computes the user's categorization progress and groups the
// uncategorized backlog by sanitized description. Groups keep first-seen
// order; a user with no transactions at all reads as fully categorized.
func (s *Service) Review(ctx context.Context, userID int64) (*ReviewSummary, error) {
	counts, err := s.transactions.Counts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count transactions: %w", err)
	}

	uncategorized, err := s.transactions.ListUncategorized(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list uncategorized transactions: %w", err)
	}

	byKey := make(map[string]int)
	groups := make([]Group, 0)
	for _, txn := range uncategorized {
		key := categoryrule.Sanitize(txn.Description)
		idx, ok := byKey[key]
		if !ok {
			idx = len(groups)
			byKey[key] = idx
			groups = append(groups, Group{Key: key})
		}
		g := &groups[idx]
		g.Transactions = append(g.Transactions, txn.ID)
		if !contains(g.Descriptions, txn.Description) {
			g.Descriptions = append(g.Descriptions, txn.Description)
		}
		g.Values = append(g.Values, txn.Amount)
	}

	total := counts.Categorized + counts.Uncategorized
	percent := 1.0
	if total > 0 {
		percent = float64(counts.Categorized) / float64(total)
	}

	return &ReviewSummary{
		Counts:             counts,
		CategorizedPercent: percent,
		Groups:             groups,
	}, nil
}

// Get returns one of the user's transactions.
func (s *Service) Get(ctx context.Context, userID int64, id string) (*Transaction, error) {
	txn, err := s.transactions.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, ErrTransactionNotFound
	}
	return txn, nil
}

// Update edits the user-owned fields (notes, hidden flag).
func (s *Service) Update(ctx context.Context, userID int64, id string, params UpdateTransactionParams) (*Transaction, error) {
	txn, err := s.transactions.Update(ctx, userID, id, params)
	if err != nil {
		return nil, err
	}
	if txn == nil {
		return nil, ErrTransactionNotFound
	}
	return txn, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
