package intake

import (
	"encoding/json"
	"net"
	"net/http"

	"github.com/kodmani-estates/leadflow/internal/routing"
	"github.com/kodmani-estates/leadflow/pkg/logging"
)

// Handler exposes the public submission endpoints.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates the intake HTTP handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// CaptureLead handles POST /api/leads/capture (showcase funnel).
func (h *Handler) CaptureLead(w http.ResponseWriter, r *http.Request) {
	var req CaptureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode capture request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result := h.service.Capture(r.Context(), req)
	writeResult(w, result)
}

// SubmitLead handles POST /api/leads (landing form).
func (h *Handler) SubmitLead(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode submit request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	meta := Metadata{
		UserAgent: r.Header.Get("User-Agent"),
		IPAddress: clientIP(r.RemoteAddr),
	}
	result := h.service.Submit(r.Context(), req, meta)
	writeResult(w, result)
}

// RouteInquiryRequest is the routing preview payload.
type RouteInquiryRequest struct {
	Budget       int64  `json:"budget"`
	PropertyType string `json:"propertyType"`
	Source       string `json:"source"`
}

// RouteInquiry handles POST /api/routing: a stateless preview of the
// inquiry rule set, kept separate from the capture rules on purpose.
func (h *Handler) RouteInquiry(w http.ResponseWriter, r *http.Request) {
	var req RouteInquiryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	decision := routing.RouteInquiry(req.Budget, req.PropertyType, req.Source)
	writeJSON(w, http.StatusOK, decision)
}

// Health is a simple liveness endpoint.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeResult(w http.ResponseWriter, result Result) {
	status := http.StatusOK
	switch result.Outcome {
	case OutcomeCreated:
		status = http.StatusCreated
	case OutcomeValidationFailed:
		status = http.StatusBadRequest
	case OutcomeStoreFailed:
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, result)
}

// clientIP strips the port net/http appends to RemoteAddr so only the
// host lands on the stored lead. RealIP-rewritten addresses arrive
// without a port and pass through unchanged.
func clientIP(remoteAddr string) string {
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
