package audit

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/kodmani-estates/leadflow/pkg/logging"
)

// Lister is the store subset the handler needs.
type Lister interface {
	ListRecent(ctx context.Context, limit int) ([]Entry, error)
}

// Handler serves the admin log feed.
type Handler struct {
	store  Lister
	logger *logging.Logger
}

// NewHandler creates the audit log handler.
func NewHandler(store Lister, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger}
}

// ListResponse wraps the log feed payload.
type ListResponse struct {
	Logs  []Entry `json:"logs"`
	Count int     `json:"count"`
}

// List handles GET /admin/logs.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	entries, err := h.store.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list audit logs", "error", err)
		http.Error(w, "Failed to load logs", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []Entry{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(ListResponse{Logs: entries, Count: len(entries)})
}
