package http

import (
	"encoding/json"
	"net/http"

	"spendflix/internal/domain/category"
	"spendflix/internal/shared/middleware"
)

type CategoryHandler struct {
	categories category.Repository
}

func NewCategoryHandler(categories category.Repository) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// HandleCategories handles GET /api/categories/ - the seeded category tree.
func (h *CategoryHandler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	if _, ok := r.Context().Value(middleware.UserIDKey).(int64); !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	categories, err := h.categories.List(r.Context())
	if err != nil {
		log.WithError(err).Error("failed to list categories")
		http.Error(w, "Failed to list categories", http.StatusInternalServerError)
		return
	}

	if categories == nil {
		categories = []*category.Category{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(categories)
}
