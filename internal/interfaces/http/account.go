package http

import (
	"encoding/json"
	"net/http"

	"spendflix/internal/domain/account"
	"spendflix/internal/domain/source"
	"spendflix/internal/shared/middleware"
)

type AccountHandler struct {
	accounts account.Repository
	sources  source.Repository
}

func NewAccountHandler(accounts account.Repository, sources source.Repository) *AccountHandler {
	return &AccountHandler{accounts: accounts, sources: sources}
}

// HandleAccounts handles GET /api/accounts/ - the user's accounts.
func (h *AccountHandler) HandleAccounts(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	accounts, err := h.accounts.ListByUserID(r.Context(), userID)
	if err != nil {
		log.WithError(err).Error("failed to list accounts")
		http.Error(w, "Failed to list accounts", http.StatusInternalServerError)
		return
	}

	if accounts == nil {
		accounts = []*account.Account{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(accounts)
}

// HandleAccountSources handles GET /api/accounts/{id}/sources - upload
// history for one account.
func (h *AccountHandler) HandleAccountSources(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	accountID := r.PathValue("id")
	if accountID == "" {
		http.Error(w, "Invalid account ID", http.StatusBadRequest)
		return
	}

	acct, err := h.accounts.GetByID(r.Context(), accountID)
	if err != nil {
		log.WithError(err).Error("failed to get account")
		http.Error(w, "Failed to get account", http.StatusInternalServerError)
		return
	}
	if acct == nil {
		http.Error(w, "Account not found", http.StatusNotFound)
		return
	}
	if acct.UserID != userID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	sources, err := h.sources.ListByAccountID(r.Context(), accountID)
	if err != nil {
		log.WithError(err).Error("failed to list sources")
		http.Error(w, "Failed to list sources", http.StatusInternalServerError)
		return
	}

	results := make([]SourceAPIResponse, 0, len(sources))
	for _, src := range sources {
		results = append(results, toSourceAPIResponse(src))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(results)
}
