package main

import (
	"net/http"

	httphandlers "spendflix/internal/interfaces/http"
	"spendflix/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with
// middleware applied.
func SetupRoutes(deps *Dependencies) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", httphandlers.HandleHealth)

	// Protected routes
	authMiddleware := middleware.Auth(deps.JWT)

	mux.Handle("/api/sources/", authMiddleware(http.HandlerFunc(deps.SourceHandler.HandleSources)))
	mux.Handle("/api/sources/{id}", authMiddleware(http.HandlerFunc(deps.SourceHandler.HandleSourceByID)))
	mux.Handle("/api/accounts/", authMiddleware(http.HandlerFunc(deps.AccountHandler.HandleAccounts)))
	mux.Handle("/api/accounts/{id}/sources", authMiddleware(http.HandlerFunc(deps.AccountHandler.HandleAccountSources)))
	mux.Handle("/api/categories/", authMiddleware(http.HandlerFunc(deps.CategoryHandler.HandleCategories)))
	mux.Handle("/api/transactions/review", authMiddleware(http.HandlerFunc(deps.TransactionHandler.HandleReview)))
	mux.Handle("/api/transactions/categorize", authMiddleware(http.HandlerFunc(deps.TransactionHandler.HandleCategorize)))
	mux.Handle("/api/transactions/{id}", authMiddleware(http.HandlerFunc(deps.TransactionHandler.HandleTransactionByID)))

	return middleware.Logging(mux)
}
