package intake

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kodmani-estates/leadflow/internal/leads"
)

func newTestHandler() *Handler {
	svc := newTestService(leads.NewInMemoryRepository(), &recordingAuditor{})
	return NewHandler(svc, nil)
}

func TestSubmitLeadEndpoint(t *testing.T) {
	handler := newTestHandler()

	body, _ := json.Marshal(SubmitRequest{
		FullName:         "Ahmed Ali",
		Phone:            "0501234567",
		PropertyInterest: "Marina Apartment",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/leads", bytes.NewReader(body))
	req.Header.Set("User-Agent", "integration-test")
	w := httptest.NewRecorder()

	handler.SubmitLead(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var result Result
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.LeadID == "" || !strings.HasPrefix(result.WhatsAppLink, "https://wa.me/") {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestSubmitLeadStoresClientIPWithoutPort(t *testing.T) {
	repo := leads.NewInMemoryRepository()
	handler := NewHandler(newTestService(repo, nil), nil)

	body, _ := json.Marshal(SubmitRequest{
		FullName:         "Ahmed Ali",
		Phone:            "0501234567",
		PropertyInterest: "Marina Apartment",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/leads", bytes.NewReader(body))
	req.RemoteAddr = "203.0.113.9:51423"
	w := httptest.NewRecorder()

	handler.SubmitLead(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	stored, err := repo.FindMostRecentByPhone(context.Background(), "+971501234567")
	if err != nil {
		t.Fatalf("lookup stored lead: %v", err)
	}
	if stored.IPAddress != "203.0.113.9" {
		t.Errorf("ip_address = %q, want host without port", stored.IPAddress)
	}
}

func TestSubmitLeadValidationFailure(t *testing.T) {
	handler := newTestHandler()

	body := []byte(`{"fullName":"A","phone":"12","propertyInterest":""}`)
	req := httptest.NewRequest(http.MethodPost, "/api/leads", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.SubmitLead(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var result Result
	_ = json.NewDecoder(w.Body).Decode(&result)
	if result.Success {
		t.Error("expected success=false")
	}
	if len(result.ValidationErrors) == 0 {
		t.Error("expected field-keyed validation errors")
	}
}

func TestSubmitLeadMalformedJSON(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/leads", strings.NewReader("{not json"))
	w := httptest.NewRecorder()

	handler.SubmitLead(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestCaptureLeadEndpoint(t *testing.T) {
	handler := newTestHandler()

	body, _ := json.Marshal(CaptureRequest{
		Name:              "Ahmed Ali",
		Phone:             "0501234567",
		PropertyRef:       "Marina Apartment",
		BudgetRange:       "5M-10M",
		PropertyType:      "Apartment",
		ContactPreference: "whatsapp",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/leads/capture", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.CaptureLead(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDuplicateSubmissionReturns200(t *testing.T) {
	handler := newTestHandler()

	body, _ := json.Marshal(SubmitRequest{
		FullName:         "Ahmed Ali",
		Phone:            "0501234567",
		PropertyInterest: "Marina Apartment",
	})

	first := httptest.NewRecorder()
	handler.SubmitLead(first, httptest.NewRequest(http.MethodPost, "/api/leads", bytes.NewReader(body)))
	if first.Code != http.StatusCreated {
		t.Fatalf("first submission: expected 201, got %d", first.Code)
	}

	second := httptest.NewRecorder()
	handler.SubmitLead(second, httptest.NewRequest(http.MethodPost, "/api/leads", bytes.NewReader(body)))
	if second.Code != http.StatusOK {
		t.Fatalf("duplicate: expected 200, got %d", second.Code)
	}
	var result Result
	_ = json.NewDecoder(second.Body).Decode(&result)
	if !result.IsDuplicate {
		t.Errorf("expected duplicate flag, got %+v", result)
	}
}

func TestRouteInquiryEndpoint(t *testing.T) {
	handler := newTestHandler()

	body := []byte(`{"budget": 5000000, "propertyType": "Villa", "source": "website"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/routing", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.RouteInquiry(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var decision struct {
		Agent struct {
			Name string `json:"name"`
		} `json:"assigned_agent"`
		Priority string `json:"priority"`
	}
	if err := json.NewDecoder(w.Body).Decode(&decision); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decision.Agent.Name != "Omar Hassan" || decision.Priority != "high" {
		t.Errorf("unexpected decision: %+v", decision)
	}
}

func TestHealthEndpoint(t *testing.T) {
	handler := newTestHandler()

	w := httptest.NewRecorder()
	handler.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
