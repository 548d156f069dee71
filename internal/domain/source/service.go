package source

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"spendflix/internal/domain/account"
	"spendflix/internal/shared/logging"
)

var log = logging.ForModule("sources")

// Service handles statement uploads: schema detection, compatibility
// validation, source creation and raw-file storage. Row processing happens
// afterwards, in the background, via the importer.
type Service struct {
	sources  Repository
	accounts account.Repository
	store    ObjectStore
	types    *TypeRegistry
}

func NewService(sources Repository, accounts account.Repository, store ObjectStore, types *TypeRegistry) *Service {
	return &Service{
		sources:  sources,
		accounts: accounts,
		store:    store,
		types:    types,
	}
}

// Upload validates the file and creates the Source record plus its stored
// bytes. Validation, detection and compatibility failures reject the upload
// before anything is persisted. The returned source is PENDING; the caller
// triggers the background import.
func (s *Service) Upload(ctx context.Context, userID int64, accountID string, file []byte) (*Source, error) {
	headers, rows, err := ParseCSV(file)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}

	cfg, err := s.types.Detect(headers)
	if err != nil {
		return nil, err
	}

	acct, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	if acct == nil {
		return nil, account.ErrAccountNotFound
	}
	if acct.UserID != userID {
		return nil, account.ErrForbidden
	}

	if err := CheckCompatibility(acct, cfg); err != nil {
		return nil, err
	}

	src, err := s.sources.Create(ctx, CreateSourceParams{
		ID:           uuid.NewString(),
		AccountID:    accountID,
		SourceTypeID: cfg.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create source: %w", err)
	}

	if err := s.store.Put(ctx, FileKey(src.ID), file, "text/csv"); err != nil {
		return nil, fmt.Errorf("failed to store source file: %w", err)
	}

	log.WithFields(map[string]interface{}{
		"source_id":   src.ID,
		"account_id":  accountID,
		"source_type": cfg.ID,
		"rows":        len(rows),
	}).Info("source uploaded")

	return src, nil
}

// Get returns a source after verifying it belongs to the user.
func (s *Service) Get(ctx context.Context, userID int64, sourceID string) (*Source, error) {
	src, err := s.sources.GetByID(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	if src == nil {
		return nil, ErrSourceNotFound
	}

	acct, err := s.accounts.GetByID(ctx, src.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	if acct == nil || acct.UserID != userID {
		return nil, account.ErrForbidden
	}

	return src, nil
}
