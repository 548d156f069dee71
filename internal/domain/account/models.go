package account

import (
	"context"
	"errors"
	"time"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrForbidden       = errors.New("forbidden: account does not belong to user")
)

// Account owns zero or more sources and their transactions.
// ExpectedSourceType pins which statement schema uploads for this account may
// use; empty means any known schema is accepted.
type Account struct {
	ID                 string    `json:"id"`
	UserID             int64     `json:"-"`
	Name               string    `json:"name"`
	BankNumber         string    `json:"bankNumber"`
	ExpectedSourceType string    `json:"expectedSourceType,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

type Repository interface {
	GetByID(ctx context.Context, id string) (*Account, error)
	ListByUserID(ctx context.Context, userID int64) ([]*Account, error)
}
