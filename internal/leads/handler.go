package leads

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/kodmani-estates/leadflow/internal/audit"
	"github.com/kodmani-estates/leadflow/pkg/logging"
)

// Auditor receives fire-and-forget audit entries for status changes.
type Auditor interface {
	Enqueue(entry audit.Entry)
}

// Handler serves the operator (admin) lead endpoints.
type Handler struct {
	repo    Repository
	auditor Auditor
	logger  *logging.Logger
}

// NewHandler creates the admin leads handler.
func NewHandler(repo Repository, auditor Auditor, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, auditor: auditor, logger: logger}
}

// ListResponse is the admin lead-listing payload.
type ListResponse struct {
	Leads  []*Lead `json:"leads"`
	Count  int     `json:"count"`
	Offset int     `json:"offset"`
	Limit  int     `json:"limit"`
}

// List handles GET /admin/leads requests.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{Limit: 50}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 && limit <= 100 {
			filter.Limit = limit
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			filter.Offset = offset
		}
	}
	filter.Status = r.URL.Query().Get("status")

	result, err := h.repo.ListRecent(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list leads", "error", err)
		http.Error(w, "failed to list leads", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(ListResponse{
		Leads:  result,
		Count:  len(result),
		Offset: filter.Offset,
		Limit:  filter.Limit,
	})
}

// UpdateStatusRequest is the status-change payload.
type UpdateStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

// UpdateStatus handles PATCH /admin/leads/{leadID}/status requests.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadID")
	if leadID == "" {
		http.Error(w, "missing lead id", http.StatusBadRequest)
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.repo.UpdateStatus(r.Context(), leadID, req.Status, req.Notes); err != nil {
		switch {
		case errors.Is(err, ErrInvalidStatus):
			http.Error(w, "unknown status", http.StatusBadRequest)
		case errors.Is(err, ErrLeadNotFound):
			http.Error(w, "lead not found", http.StatusNotFound)
		default:
			h.logger.Error("failed to update lead status", "error", err, "lead_id", leadID)
			http.Error(w, "failed to update lead", http.StatusInternalServerError)
		}
		return
	}

	if h.auditor != nil {
		h.auditor.Enqueue(audit.Entry{
			EventType: audit.EventLeadStatusChange,
			Status:    audit.StatusSuccess,
			LeadID:    leadID,
			Details:   audit.Details(map[string]string{"status": req.Status}),
		})
	}

	h.logger.Info("lead status updated", "lead_id", leadID, "status", req.Status)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
}
