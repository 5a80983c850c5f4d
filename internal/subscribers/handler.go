package subscribers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/kodmani-estates/leadflow/pkg/logging"
)

var validate = validator.New()

// Inserter is the store subset the handler needs.
type Inserter interface {
	Insert(ctx context.Context, sub Subscriber) (string, error)
}

// Handler serves POST /api/subscribers.
type Handler struct {
	store  Inserter
	logger *logging.Logger
}

// NewHandler creates the subscriber handler.
func NewHandler(store Inserter, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger}
}

// SubscribeRequest is the signup payload.
type SubscribeRequest struct {
	Email   string `json:"email"`
	Source  string `json:"source,omitempty"`
	PageURL string `json:"pageUrl,omitempty"`
}

// SubscribeResponse is the signup outcome.
type SubscribeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Subscribe handles a signup. A repeat email is a friendly success.
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := validate.Var(req.Email, "required,email"); err != nil {
		writeJSON(w, http.StatusBadRequest, SubscribeResponse{
			Success: false,
			Message: "Invalid email format",
		})
		return
	}

	source := req.Source
	if source == "" {
		source = SourceExitIntent
	}

	_, err := h.store.Insert(r.Context(), Subscriber{
		Email:     req.Email,
		Source:    source,
		PageURL:   req.PageURL,
		UserAgent: r.Header.Get("User-Agent"),
	})
	switch {
	case errors.Is(err, ErrAlreadySubscribed):
		writeJSON(w, http.StatusOK, SubscribeResponse{
			Success: true,
			Message: "You are already subscribed! شكراً لك",
		})
	case err != nil:
		h.logger.Error("subscriber insert failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, SubscribeResponse{
			Success: false,
			Message: "Failed to subscribe. Please try again.",
		})
	default:
		writeJSON(w, http.StatusCreated, SubscribeResponse{
			Success: true,
			Message: "Successfully subscribed! تم الاشتراك بنجاح",
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
