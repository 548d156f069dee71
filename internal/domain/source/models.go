package source

import (
	"context"
	"errors"
	"time"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

var ErrSourceNotFound = errors.New("source not found")

// Source is one uploaded statement file and its processing state. It moves
// PENDING -> COMPLETED only after every row of the file has settled; a failed
// or interrupted import leaves it at PENDING for a manual re-trigger.
type Source struct {
	ID           string    `json:"id"`
	AccountID    string    `json:"accountId"`
	SourceTypeID string    `json:"sourceTypeId"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type CreateSourceParams struct {
	ID           string
	AccountID    string
	SourceTypeID string
}

type Repository interface {
	Create(ctx context.Context, params CreateSourceParams) (*Source, error)
	GetByID(ctx context.Context, id string) (*Source, error)
	ListByAccountID(ctx context.Context, accountID string) ([]*Source, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
}

// ObjectStore is the object-storage collaborator holding raw statement bytes,
// addressed by "{sourceID}.csv".
type ObjectStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte, contentType string) error
}

// FileKey returns the object-storage key for a source's raw file.
func FileKey(sourceID string) string {
	return sourceID + ".csv"
}
