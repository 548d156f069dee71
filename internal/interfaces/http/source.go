package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"spendflix/internal/domain/account"
	"spendflix/internal/domain/importer"
	"spendflix/internal/domain/source"
	"spendflix/internal/interfaces/jobs"
	"spendflix/internal/shared/middleware"
)

// maxUploadBytes caps statement uploads. Bank exports are small; anything
// bigger is a mistake.
const maxUploadBytes = 10 << 20

type SourceHandler struct {
	sources  *source.Service
	importer *importer.Importer
	pool     *jobs.WorkerPool
}

func NewSourceHandler(sources *source.Service, imp *importer.Importer, pool *jobs.WorkerPool) *SourceHandler {
	return &SourceHandler{
		sources:  sources,
		importer: imp,
		pool:     pool,
	}
}

// SourceAPIResponse is the API response format for a source.
type SourceAPIResponse struct {
	ID           string `json:"id"`
	AccountID    string `json:"accountId"`
	SourceTypeID string `json:"sourceTypeId"`
	Status       string `json:"status"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
}

// HandleSources handles POST /api/sources/ for statement uploads.
func (h *SourceHandler) HandleSources(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handleUpload(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleSourceByID handles GET /api/sources/{id} for import status polling.
func (h *SourceHandler) HandleSourceByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sourceID := r.PathValue("id")
	if sourceID == "" {
		http.Error(w, "Invalid source ID", http.StatusBadRequest)
		return
	}

	src, err := h.sources.Get(r.Context(), userID, sourceID)
	if err != nil {
		if errors.Is(err, source.ErrSourceNotFound) {
			http.Error(w, "Source not found", http.StatusNotFound)
			return
		}
		if errors.Is(err, account.ErrForbidden) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		log.WithError(err).Error("failed to get source")
		http.Error(w, "Failed to get source", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toSourceAPIResponse(src))
}

// handleUpload accepts a multipart statement upload, validates it and queues
// the import. The response is 202: the source is PENDING until the
// background job finishes.
func (h *SourceHandler) handleUpload(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(int64)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	accountID := r.FormValue("accountId")
	if accountID == "" {
		http.Error(w, "accountId is required", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "Failed to read file", http.StatusBadRequest)
		return
	}

	src, err := h.sources.Upload(r.Context(), userID, accountID, data)
	if err != nil {
		h.writeUploadError(w, err)
		return
	}

	if err := h.pool.Submit(jobs.NewImportJob(src, h.importer)); err != nil {
		// The upload is persisted; the import just has to wait for a
		// re-trigger. Surface that instead of failing the request.
		log.WithError(err).WithField("source_id", src.ID).Warn("import not queued")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(toSourceAPIResponse(src))
}

func (h *SourceHandler) writeUploadError(w http.ResponseWriter, err error) {
	var detErr *source.DetectionError
	var compatErr *source.CompatibilityError

	switch {
	case errors.Is(err, source.ErrEmptyFile):
		http.Error(w, "File has no data rows", http.StatusBadRequest)
	case errors.As(err, &detErr):
		http.Error(w, detErr.Error(), http.StatusBadRequest)
	case errors.As(err, &compatErr):
		http.Error(w, compatErr.Error(), http.StatusBadRequest)
	case errors.Is(err, account.ErrAccountNotFound):
		http.Error(w, "Account not found", http.StatusNotFound)
	case errors.Is(err, account.ErrForbidden):
		http.Error(w, "Forbidden", http.StatusForbidden)
	default:
		log.WithError(err).Error("failed to upload source")
		http.Error(w, "Failed to upload source", http.StatusInternalServerError)
	}
}

func toSourceAPIResponse(src *source.Source) SourceAPIResponse {
	return SourceAPIResponse{
		ID:           src.ID,
		AccountID:    src.AccountID,
		SourceTypeID: src.SourceTypeID,
		Status:       string(src.Status),
		CreatedAt:    src.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:    src.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
