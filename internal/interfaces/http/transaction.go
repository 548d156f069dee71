package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"spendflix/internal/domain/categoryrule"
	"spendflix/internal/domain/transaction"
	"spendflix/internal/shared/middleware"
)

type TransactionHandler struct {
	transactions *transaction.Service
	learner      *categoryrule.Learner
}

func NewTransactionHandler(transactions *transaction.Service, learner *categoryrule.Learner) *TransactionHandler {
	return &TransactionHandler{
		transactions: transactions,
		learner:      learner,
	}
}

// CategorizeRequest is the request body for applying a category to a batch
// of transactions.
type CategorizeRequest struct {
	TransactionIDs []string `json:"transactionIds"`
	CategoryID     string   `json:"categoryId"`
}

// CategorizeResponse reports the applied correction and the rule learned
// from it, if any.
type CategorizeResponse struct {
	Message     string  `json:"message"`
	RuleID      *string `json:"ruleId,omitempty"`
	RuleKeyword *string `json:"ruleKeyword,omitempty"`
}

// UpdateTransactionRequest is the request body for editing a transaction.
type UpdateTransactionRequest struct {
	Notes    *string `json:"notes,omitempty"`
	IsHidden *bool   `json:"isHidden,omitempty"`
}

// TransactionAPIResponse is the API response format for a transaction.
type TransactionAPIResponse struct {
	ID             string          `json:"id"`
	AccountID      string          `json:"accountId"`
	SourceID       string          `json:"sourceId"`
	Date           string          `json:"date"`
	Description    string          `json:"description"`
	Amount         decimal.Decimal `json:"amount"`
	CategoryID     *string         `json:"categoryId,omitempty"`
	CategoryRuleID *string         `json:"categoryRuleId,omitempty"`
	CategoryScore  *float64        `json:"categoryScore,omitempty"`
	Notes          *string         `json:"notes,omitempty"`
	IsHidden       bool            `json:"isHidden"`
}

// HandleReview handles GET /api/transactions/review - categorization
// progress plus the uncategorized backlog grouped by merchant.
func (h *TransactionHandler) HandleReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	summary, err := h.transactions.Review(r.Context(), userID)
	if err != nil {
		log.WithError(err).Error("failed to build review summary")
		http.Error(w, "Failed to build review", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

// HandleCategorize handles POST /api/transactions/categorize - apply a
// category to a batch and learn a rule from it.
func (h *TransactionHandler) HandleCategorize(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req CategorizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.CategoryID == "" {
		http.Error(w, "categoryId is required", http.StatusBadRequest)
		return
	}
	if len(req.TransactionIDs) == 0 {
		http.Error(w, "transactionIds is required", http.StatusBadRequest)
		return
	}

	rule, err := h.learner.Learn(r.Context(), userID, req.TransactionIDs, req.CategoryID)
	if err != nil {
		if errors.Is(err, categoryrule.ErrTransactionNotFound) {
			http.Error(w, "Transaction not found", http.StatusNotFound)
			return
		}
		log.WithError(err).Error("failed to apply categorization")
		http.Error(w, "Failed to apply categorization", http.StatusInternalServerError)
		return
	}

	resp := CategorizeResponse{Message: "Category applied"}
	if rule != nil {
		resp.RuleID = &rule.ID
		resp.RuleKeyword = &rule.Keyword
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// HandleTransactionByID handles GET/PATCH /api/transactions/{id}.
func (h *TransactionHandler) HandleTransactionByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "Invalid transaction ID", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r, userID, id)
	case http.MethodPatch:
		h.handleUpdate(w, r, userID, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *TransactionHandler) handleGet(w http.ResponseWriter, r *http.Request, userID int64, id string) {
	txn, err := h.transactions.Get(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, transaction.ErrTransactionNotFound) {
			http.Error(w, "Transaction not found", http.StatusNotFound)
			return
		}
		log.WithError(err).Error("failed to get transaction")
		http.Error(w, "Failed to get transaction", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toTransactionAPIResponse(txn))
}

func (h *TransactionHandler) handleUpdate(w http.ResponseWriter, r *http.Request, userID int64, id string) {
	var req UpdateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Notes == nil && req.IsHidden == nil {
		http.Error(w, "No changes provided", http.StatusBadRequest)
		return
	}

	txn, err := h.transactions.Update(r.Context(), userID, id, transaction.UpdateTransactionParams{
		Notes:    req.Notes,
		IsHidden: req.IsHidden,
	})
	if err != nil {
		if errors.Is(err, transaction.ErrTransactionNotFound) {
			http.Error(w, "Transaction not found", http.StatusNotFound)
			return
		}
		log.WithError(err).Error("failed to update transaction")
		http.Error(w, "Failed to update transaction", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toTransactionAPIResponse(txn))
}

func toTransactionAPIResponse(txn *transaction.Transaction) TransactionAPIResponse {
	return TransactionAPIResponse{
		ID:             txn.ID,
		AccountID:      txn.AccountID,
		SourceID:       txn.SourceID,
		Date:           txn.Date.Format("2006-01-02"),
		Description:    txn.Description,
		Amount:         txn.Amount,
		CategoryID:     txn.CategoryID,
		CategoryRuleID: txn.CategoryRuleID,
		CategoryScore:  txn.CategoryScore,
		Notes:          txn.Notes,
		IsHidden:       txn.IsHidden,
	}
}
