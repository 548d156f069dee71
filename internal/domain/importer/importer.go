package importer

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"spendflix/internal/domain/categoryrule"
	"spendflix/internal/domain/source"
	"spendflix/internal/domain/transaction"
	"spendflix/internal/shared/concurrency"
	"spendflix/internal/shared/logging"
)

var log = logging.ForModule("importer")

// minColumns is the smallest number of populated cells a row needs to carry
// date, amount and description.
const minColumns = 3

// ConfigurationError means the source references a type the registry no
// longer knows. It is fatal: no row of the file can be interpreted.
type ConfigurationError struct {
	SourceID     string
	SourceTypeID string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("source %s references unknown source type %s", e.SourceID, e.SourceTypeID)
}

// Categorizer infers a category for one normalized row.
type Categorizer interface {
	Infer(ctx context.Context, description, accountID string, amount decimal.Decimal) (*categoryrule.Match, error)
}

// Importer turns a stored statement file into transactions. Rows are
// processed with bounded concurrency; malformed, ignored and duplicate rows
// are skipped without failing the import.
type Importer struct {
	sources      source.Repository
	transactions transaction.Repository
	store        source.ObjectStore
	types        *source.TypeRegistry
	categorizer  Categorizer
	concurrency  int
}

func NewImporter(sources source.Repository, transactions transaction.Repository, store source.ObjectStore, types *source.TypeRegistry, categorizer Categorizer, concurrencyLimit int) *Importer {
	return &Importer{
		sources:      sources,
		transactions: transactions,
		store:        store,
		types:        types,
		categorizer:  categorizer,
		concurrency:  concurrencyLimit,
	}
}

// ImportFromSource processes every row of the source's stored file and, when
// all rows settle, marks the source COMPLETED. Row-level failures are
// collected and returned joined; any failure leaves the source PENDING so the
// import can be re-triggered, with the checksum dedup making the retry safe.
// The returned count is the number of data rows seen, including skips.
func (i *Importer) ImportFromSource(ctx context.Context, src *source.Source) (int, error) {
	started := time.Now()
	log.WithFields(map[string]interface{}{
		"source_id":   src.ID,
		"source_type": src.SourceTypeID,
	}).Info("import started")

	cfg, ok := i.types.ByID(src.SourceTypeID)
	if !ok {
		return 0, &ConfigurationError{SourceID: src.ID, SourceTypeID: src.SourceTypeID}
	}

	data, err := i.store.Get(ctx, source.FileKey(src.ID))
	if err != nil {
		return 0, fmt.Errorf("failed to fetch source file: %w", err)
	}

	_, rows, err := source.ParseCSV(data)
	if err != nil {
		return 0, fmt.Errorf("failed to parse source file: %w", err)
	}

	if err := concurrency.ForEach(ctx, rows, i.concurrency, func(ctx context.Context, row map[string]string) error {
		return i.processRow(ctx, src, cfg, row)
	}); err != nil {
		return len(rows), fmt.Errorf("import of source %s completed with row failures: %w", src.ID, err)
	}

	if err := i.sources.UpdateStatus(ctx, src.ID, source.StatusCompleted); err != nil {
		return len(rows), fmt.Errorf("failed to complete source: %w", err)
	}

	log.WithFields(map[string]interface{}{
		"source_id": src.ID,
		"rows":      len(rows),
		"duration":  time.Since(started).String(),
	}).Info("import completed")

	return len(rows), nil
}

func (i *Importer) processRow(ctx context.Context, src *source.Source, cfg *source.TypeConfig, row map[string]string) error {
	if populatedCells(row) < minColumns {
		return nil
	}

	description := strings.TrimSpace(row[cfg.Mapping.Description])
	if cfg.IsIgnoredDescription(description) {
		return nil
	}

	date, err := parseDate(strings.TrimSpace(row[cfg.Mapping.Date]))
	if err != nil {
		log.WithField("source_id", src.ID).WithError(err).Debug("skipping row with unparseable date")
		return nil
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(row[cfg.Mapping.Amount]))
	if err != nil {
		log.WithField("source_id", src.ID).WithError(err).Debug("skipping row with unparseable amount")
		return nil
	}
	if cfg.InvertAmountSignal {
		amount = amount.Neg()
	}

	match, err := i.categorizer.Infer(ctx, description, src.AccountID, amount)
	if err != nil {
		return fmt.Errorf("failed to categorize row: %w", err)
	}

	params := transaction.CreateTransactionParams{
		ID:          uuid.NewString(),
		AccountID:   src.AccountID,
		SourceID:    src.ID,
		Date:        date,
		Description: description,
		Amount:      amount,
		Checksum:    transaction.Checksum(src.AccountID, date, description, amount),
	}
	if match != nil {
		params.CategoryID = &match.CategoryID
		params.CategoryRuleID = match.RuleID
		score := match.Score
		params.CategoryScore = &score
	}

	created, err := i.transactions.Create(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to store row: %w", err)
	}
	if !created {
		log.WithField("source_id", src.ID).Debug("skipping duplicate row")
	}
	return nil
}

func populatedCells(row map[string]string) int {
	n := 0
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			n++
		}
	}
	return n
}

var (
	isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	brDate  = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
)

func parseDate(s string) (time.Time, error) {
	switch {
	case isoDate.MatchString(s):
		return time.Parse("2006-01-02", s)
	case brDate.MatchString(s):
		return time.Parse("02/01/2006", s)
	default:
		return time.Time{}, fmt.Errorf("unrecognized date format %q", s)
	}
}
