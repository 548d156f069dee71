package source

import (
	"context"
	"errors"
	"strings"
	"testing"

	"spendflix/internal/domain/account"
)

type mockSourceRepository struct {
	CreateFunc          func(ctx context.Context, params CreateSourceParams) (*Source, error)
	GetByIDFunc         func(ctx context.Context, id string) (*Source, error)
	ListByAccountIDFunc func(ctx context.Context, accountID string) ([]*Source, error)
	UpdateStatusFunc    func(ctx context.Context, id string, status Status) error
}

func (m *mockSourceRepository) Create(ctx context.Context, params CreateSourceParams) (*Source, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return &Source{ID: params.ID, AccountID: params.AccountID, SourceTypeID: params.SourceTypeID, Status: StatusPending}, nil
}

func (m *mockSourceRepository) GetByID(ctx context.Context, id string) (*Source, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockSourceRepository) ListByAccountID(ctx context.Context, accountID string) ([]*Source, error) {
	if m.ListByAccountIDFunc != nil {
		return m.ListByAccountIDFunc(ctx, accountID)
	}
	return nil, nil
}

func (m *mockSourceRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status)
	}
	return nil
}

type mockAccountRepository struct {
	GetByIDFunc      func(ctx context.Context, id string) (*account.Account, error)
	ListByUserIDFunc func(ctx context.Context, userID int64) ([]*account.Account, error)
}

func (m *mockAccountRepository) GetByID(ctx context.Context, id string) (*account.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockAccountRepository) ListByUserID(ctx context.Context, userID int64) ([]*account.Account, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

type mockObjectStore struct {
	GetFunc func(ctx context.Context, key string) ([]byte, error)
	PutFunc func(ctx context.Context, key string, data []byte, contentType string) error
}

func (m *mockObjectStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	return nil, nil
}

func (m *mockObjectStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if m.PutFunc != nil {
		return m.PutFunc(ctx, key, data, contentType)
	}
	return nil
}

func testRegistry(t *testing.T) *TypeRegistry {
	t.Helper()
	r, err := NewTypeRegistry(DefaultConfigs())
	if err != nil {
		t.Fatalf("failed to build registry: %v", err)
	}
	return r
}

func ownedAccount(expectedType string) *account.Account {
	return &account.Account{ID: "acct-1", UserID: 7, ExpectedSourceType: expectedType}
}

var creditCardCSV = []byte(strings.Join([]string{
	"date,title,amount",
	"2024-03-15,Uber,10.00",
}, "\n"))

func TestUploadCreatesPendingSourceAndStoresFile(t *testing.T) {
	accounts := &mockAccountRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*account.Account, error) {
			return ownedAccount(""), nil
		},
	}
	var storedKey string
	store := &mockObjectStore{
		PutFunc: func(ctx context.Context, key string, data []byte, contentType string) error {
			storedKey = key
			if contentType != "text/csv" {
				t.Errorf("expected text/csv, got %s", contentType)
			}
			return nil
		},
	}
	svc := NewService(&mockSourceRepository{}, accounts, store, testRegistry(t))

	src, err := svc.Upload(context.Background(), 7, "acct-1", creditCardCSV)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.Status != StatusPending {
		t.Errorf("expected PENDING source, got %s", src.Status)
	}
	if src.SourceTypeID != TypeNubankCreditCardCSV {
		t.Errorf("expected detected type recorded, got %s", src.SourceTypeID)
	}
	if storedKey != FileKey(src.ID) {
		t.Errorf("expected file stored under %s, got %s", FileKey(src.ID), storedKey)
	}
}

func TestUploadRejectsHeaderOnlyFile(t *testing.T) {
	svc := NewService(&mockSourceRepository{}, &mockAccountRepository{}, &mockObjectStore{}, testRegistry(t))

	if _, err := svc.Upload(context.Background(), 7, "acct-1", []byte("date,title,amount\n")); err != ErrEmptyFile {
		t.Fatalf("expected ErrEmptyFile, got %v", err)
	}
}

func TestUploadRejectsUnknownSchema(t *testing.T) {
	svc := NewService(&mockSourceRepository{}, &mockAccountRepository{}, &mockObjectStore{}, testRegistry(t))

	_, err := svc.Upload(context.Background(), 7, "acct-1", []byte("foo,bar,baz\n1,2,3\n"))
	var detErr *DetectionError
	if !errors.As(err, &detErr) {
		t.Fatalf("expected DetectionError, got %v", err)
	}
	if !strings.Contains(err.Error(), "foo,bar,baz") {
		t.Errorf("expected the offending headers in the message, got %q", err.Error())
	}
}

func TestUploadRejectsForeignAccount(t *testing.T) {
	accounts := &mockAccountRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*account.Account, error) {
			return &account.Account{ID: id, UserID: 99}, nil
		},
	}
	svc := NewService(&mockSourceRepository{}, accounts, &mockObjectStore{}, testRegistry(t))

	if _, err := svc.Upload(context.Background(), 7, "acct-1", creditCardCSV); !errors.Is(err, account.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUploadRejectsIncompatibleType(t *testing.T) {
	accounts := &mockAccountRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*account.Account, error) {
			return ownedAccount(TypeNubankAccountCSV), nil
		},
	}
	sources := &mockSourceRepository{
		CreateFunc: func(ctx context.Context, params CreateSourceParams) (*Source, error) {
			t.Error("no source must be created for an incompatible upload")
			return nil, nil
		},
	}
	svc := NewService(sources, accounts, &mockObjectStore{}, testRegistry(t))

	_, err := svc.Upload(context.Background(), 7, "acct-1", creditCardCSV)
	var compatErr *CompatibilityError
	if !errors.As(err, &compatErr) {
		t.Fatalf("expected CompatibilityError, got %v", err)
	}
}

func TestGetEnforcesOwnership(t *testing.T) {
	sources := &mockSourceRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*Source, error) {
			return &Source{ID: id, AccountID: "acct-1", Status: StatusCompleted}, nil
		},
	}
	accounts := &mockAccountRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*account.Account, error) {
			return &account.Account{ID: id, UserID: 99}, nil
		},
	}
	svc := NewService(sources, accounts, &mockObjectStore{}, testRegistry(t))

	if _, err := svc.Get(context.Background(), 7, "src-1"); !errors.Is(err, account.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
