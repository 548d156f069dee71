package transaction

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type mockTransactionRepository struct {
	CreateFunc             func(ctx context.Context, params CreateTransactionParams) (bool, error)
	GetByIDFunc            func(ctx context.Context, userID int64, id string) (*Transaction, error)
	ListUncategorizedFunc  func(ctx context.Context, userID int64) ([]*Transaction, error)
	CountsFunc             func(ctx context.Context, userID int64) (Counts, error)
	UpdateFunc             func(ctx context.Context, userID int64, id string, params UpdateTransactionParams) (*Transaction, error)
}

func (m *mockTransactionRepository) Create(ctx context.Context, params CreateTransactionParams) (bool, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return true, nil
}

func (m *mockTransactionRepository) GetByID(ctx context.Context, userID int64, id string) (*Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, userID, id)
	}
	return nil, nil
}

func (m *mockTransactionRepository) ListUncategorized(ctx context.Context, userID int64) ([]*Transaction, error) {
	if m.ListUncategorizedFunc != nil {
		return m.ListUncategorizedFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockTransactionRepository) Counts(ctx context.Context, userID int64) (Counts, error) {
	if m.CountsFunc != nil {
		return m.CountsFunc(ctx, userID)
	}
	return Counts{}, nil
}

func (m *mockTransactionRepository) Update(ctx context.Context, userID int64, id string, params UpdateTransactionParams) (*Transaction, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, userID, id, params)
	}
	return nil, nil
}

func txn(id, description string, amount float64) *Transaction {
	return &Transaction{
		ID:          id,
		AccountID:   "acct-1",
		Date:        time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Description: description,
		Amount:      decimal.NewFromFloat(amount),
	}
}

func TestReviewGroupsBySanitizedDescription(t *testing.T) {
	repo := &mockTransactionRepository{
		CountsFunc: func(ctx context.Context, userID int64) (Counts, error) {
			return Counts{Categorized: 6, Uncategorized: 4}, nil
		},
		ListUncategorizedFunc: func(ctx context.Context, userID int64) ([]*Transaction, error) {
			return []*Transaction{
				txn("t1", "UBER *TRIP", -20),
				txn("t2", "Netflix.com", -39.9),
				txn("t3", "Uber Trip", -15),
				txn("t4", "uber *trip", -18),
			}, nil
		},
	}
	svc := NewService(repo)

	summary, err := svc.Review(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(summary.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(summary.Groups))
	}

	uber := summary.Groups[0]
	if uber.Key != "uber trip" {
		t.Errorf("expected first group key %q, got %q", "uber trip", uber.Key)
	}
	if len(uber.Transactions) != 3 {
		t.Errorf("expected 3 uber transactions, got %v", uber.Transactions)
	}
	if len(uber.Descriptions) != 3 {
		t.Errorf("expected the 3 distinct raw descriptions, got %v", uber.Descriptions)
	}
	if len(uber.Values) != 3 {
		t.Errorf("expected 3 values, got %v", uber.Values)
	}

	if summary.Groups[1].Key != "netflixcom" {
		t.Errorf("expected second group key %q, got %q", "netflixcom", summary.Groups[1].Key)
	}
}

func TestReviewDeduplicatesIdenticalDescriptions(t *testing.T) {
	repo := &mockTransactionRepository{
		ListUncategorizedFunc: func(ctx context.Context, userID int64) ([]*Transaction, error) {
			return []*Transaction{
				txn("t1", "Ifood", -30),
				txn("t2", "Ifood", -45),
			}, nil
		},
	}
	svc := NewService(repo)

	summary, err := svc.Review(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(summary.Groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(summary.Groups))
	}
	g := summary.Groups[0]
	if len(g.Descriptions) != 1 {
		t.Errorf("expected identical descriptions collapsed, got %v", g.Descriptions)
	}
	if len(g.Values) != 2 {
		t.Errorf("expected one value per transaction, got %v", g.Values)
	}
}

func TestReviewPercent(t *testing.T) {
	tests := []struct {
		name   string
		counts Counts
		want   float64
	}{
		{"no transactions reads as done", Counts{}, 1.0},
		{"all categorized", Counts{Categorized: 10}, 1.0},
		{"none categorized", Counts{Uncategorized: 10}, 0.0},
		{"partial", Counts{Categorized: 3, Uncategorized: 1}, 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockTransactionRepository{
				CountsFunc: func(ctx context.Context, userID int64) (Counts, error) {
					return tt.counts, nil
				},
			}
			summary, err := NewService(repo).Review(context.Background(), 7)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if summary.CategorizedPercent != tt.want {
				t.Errorf("expected percent %v, got %v", tt.want, summary.CategorizedPercent)
			}
		})
	}
}

func TestUpdateUnknownTransaction(t *testing.T) {
	svc := NewService(&mockTransactionRepository{})

	notes := "groceries"
	if _, err := svc.Update(context.Background(), 7, "missing", UpdateTransactionParams{Notes: &notes}); err != ErrTransactionNotFound {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
}

func TestGetUnknownTransaction(t *testing.T) {
	svc := NewService(&mockTransactionRepository{})

	if _, err := svc.Get(context.Background(), 7, "missing"); err != ErrTransactionNotFound {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
}
