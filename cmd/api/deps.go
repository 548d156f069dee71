package main

import (
	"context"

	"spendflix/internal/domain/categoryrule"
	"spendflix/internal/domain/importer"
	"spendflix/internal/domain/source"
	"spendflix/internal/domain/transaction"
	"spendflix/internal/infrastructure/gcs"
	"spendflix/internal/infrastructure/postgres"
	httphandlers "spendflix/internal/interfaces/http"
	"spendflix/internal/interfaces/jobs"
	"spendflix/internal/shared/auth"
	"spendflix/internal/shared/config"
	"spendflix/internal/shared/logging"
)

var log = logging.ForModule("api")

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB    *postgres.DB
	Store *gcs.Store
	Pool  *jobs.WorkerPool

	// Handlers
	SourceHandler      *httphandlers.SourceHandler
	TransactionHandler *httphandlers.TransactionHandler
	CategoryHandler    *httphandlers.CategoryHandler
	AccountHandler     *httphandlers.AccountHandler

	// Auth
	JWT *auth.JWT
}

// NewDependencies initializes all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}
	log.Info("connected to database")

	store, err := gcs.New(ctx, cfg.Storage.Bucket)
	if err != nil {
		db.Close()
		return nil, err
	}

	types, err := source.LoadTypeRegistry(cfg.SourceTypes.Path)
	if err != nil {
		store.Close()
		db.Close()
		return nil, err
	}

	// Repositories
	accountRepo := postgres.NewAccountRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	ruleRepo := postgres.NewCategoryRuleRepository(db)
	sourceRepo := postgres.NewSourceRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)

	// Domain services
	matcher := categoryrule.NewMatcher(ruleRepo, categoryRepo)
	learner := categoryrule.NewLearner(ruleRepo, transactionRepo)
	sourceService := source.NewService(sourceRepo, accountRepo, store, types)
	transactionService := transaction.NewService(transactionRepo)
	imp := importer.NewImporter(sourceRepo, transactionRepo, store, types, matcher, cfg.Import.Concurrency)

	pool := jobs.NewWorkerPool(cfg.Import.Workers, cfg.Import.QueueSize)

	jwt := auth.NewJWT(cfg.JWT.Secret)

	return &Dependencies{
		DB:                 db,
		Store:              store,
		Pool:               pool,
		SourceHandler:      httphandlers.NewSourceHandler(sourceService, imp, pool),
		TransactionHandler: httphandlers.NewTransactionHandler(transactionService, learner),
		CategoryHandler:    httphandlers.NewCategoryHandler(categoryRepo),
		AccountHandler:     httphandlers.NewAccountHandler(accountRepo, sourceRepo),
		JWT:                jwt,
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.Store != nil {
		d.Store.Close()
	}
	if d.DB != nil {
		d.DB.Close()
	}
}
