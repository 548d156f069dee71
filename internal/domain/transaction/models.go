package transaction

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrTransactionNotFound = errors.New("transaction not found")

// Transaction is one normalized statement row. Amount is signed: negative
// for expenses, positive for income. Checksum makes re-imports idempotent.
type Transaction struct {
	ID             string          `json:"id"`
	AccountID      string          `json:"accountId"`
	SourceID       string          `json:"sourceId"`
	Date           time.Time       `json:"date"`
	Description    string          `json:"description"`
	Amount         decimal.Decimal `json:"amount"`
	Checksum       string          `json:"-"`
	CategoryID     *string         `json:"categoryId,omitempty"`
	CategoryRuleID *string         `json:"categoryRuleId,omitempty"`
	CategoryScore  *float64        `json:"categoryScore,omitempty"`
	Notes          *string         `json:"notes,omitempty"`
	IsHidden       bool            `json:"isHidden"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

type CreateTransactionParams struct {
	ID             string
	AccountID      string
	SourceID       string
	Date           time.Time
	Description    string
	Amount         decimal.Decimal
	Checksum       string
	CategoryID     *string
	CategoryRuleID *string
	CategoryScore  *float64
}

// UpdateTransactionParams carries the user-editable fields. Nil means leave
// unchanged.
type UpdateTransactionParams struct {
	Notes    *string
	IsHidden *bool
}

type Counts struct {
	Categorized   int64 `json:"categorized"`
	Uncategorized int64 `json:"uncategorized"`
}

type Repository interface {
	// Create inserts the transaction, or reports false without error when a
	// row with the same checksum already exists. The conflict check and the
	// insert are a single statement, so concurrent imports of the same row
	// cannot both succeed.
	Create(ctx context.Context, params CreateTransactionParams) (bool, error)

	GetByID(ctx context.Context, userID int64, id string) (*Transaction, error)

	// ListUncategorized returns the user's visible transactions with no
	// category, oldest first.
	ListUncategorized(ctx context.Context, userID int64) ([]*Transaction, error)

	Counts(ctx context.Context, userID int64) (Counts, error)

	Update(ctx context.Context, userID int64, id string, params UpdateTransactionParams) (*Transaction, error)
}
