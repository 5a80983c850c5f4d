package leads

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/kodmani-estates/leadflow/internal/audit"
)

type captureAuditor struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (c *captureAuditor) Enqueue(entry audit.Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, entry)
}

func seedLead(t *testing.T, repo *InMemoryRepository, phone string) string {
	t.Helper()
	id, err := repo.Insert(context.Background(), &Lead{
		FullName:         "Ahmed Ali",
		Phone:            phone,
		PropertyInterest: "Marina Apartment",
		Source:           "website_demo",
		AssignedAgent:    "Lina Farouk",
		Priority:         PriorityMedium,
	})
	if err != nil {
		t.Fatalf("seed lead: %v", err)
	}
	return id
}

func TestListLeads(t *testing.T) {
	repo := NewInMemoryRepository()
	seedLead(t, repo, "+971501111111")
	seedLead(t, repo, "+971502222222")
	handler := NewHandler(repo, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/admin/leads?limit=10", nil)
	w := httptest.NewRecorder()
	handler.List(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp ListResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 2 {
		t.Errorf("expected 2 leads, got %d", resp.Count)
	}
}

func TestUpdateStatusEndpoint(t *testing.T) {
	repo := NewInMemoryRepository()
	id := seedLead(t, repo, "+971501111111")
	auditor := &captureAuditor{}
	handler := NewHandler(repo, auditor, nil)

	r := chi.NewRouter()
	r.Patch("/admin/leads/{leadID}/status", handler.UpdateStatus)

	body, _ := json.Marshal(UpdateStatusRequest{Status: StatusContacted, Notes: "left a voicemail"})
	req := httptest.NewRequest(http.MethodPatch, "/admin/leads/"+id+"/status", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	updated, _ := repo.FindMostRecentByPhone(context.Background(), "+971501111111")
	if updated.Status != StatusContacted {
		t.Errorf("expected status contacted, got %s", updated.Status)
	}

	auditor.mu.Lock()
	defer auditor.mu.Unlock()
	if len(auditor.entries) != 1 || auditor.entries[0].EventType != audit.EventLeadStatusChange {
		t.Errorf("expected a LEAD_STATUS_CHANGE entry, got %+v", auditor.entries)
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	repo := NewInMemoryRepository()
	id := seedLead(t, repo, "+971501111111")
	handler := NewHandler(repo, nil, nil)

	r := chi.NewRouter()
	r.Patch("/admin/leads/{leadID}/status", handler.UpdateStatus)

	req := httptest.NewRequest(http.MethodPatch, "/admin/leads/"+id+"/status",
		bytes.NewReader([]byte(`{"status":"archived"}`)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestUpdateStatusMissingLead(t *testing.T) {
	handler := NewHandler(NewInMemoryRepository(), nil, nil)

	r := chi.NewRouter()
	r.Patch("/admin/leads/{leadID}/status", handler.UpdateStatus)

	req := httptest.NewRequest(http.MethodPatch, "/admin/leads/nope/status",
		bytes.NewReader([]byte(`{"status":"contacted"}`)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
