package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/kodmani-estates/leadflow/internal/adminauth"
	"github.com/kodmani-estates/leadflow/internal/audit"
	"github.com/kodmani-estates/leadflow/internal/intake"
	"github.com/kodmani-estates/leadflow/internal/leads"
)

type noopAuditor struct{}

func (noopAuditor) Enqueue(audit.Entry) {}

type emptyLogs struct{}

func (emptyLogs) ListRecent(context.Context, int) ([]audit.Entry, error) {
	return nil, nil
}

func newTestRouter(t *testing.T) (http.Handler, *adminauth.Service, *leads.InMemoryRepository) {
	t.Helper()

	repo := leads.NewInMemoryRepository()
	service := intake.NewService(repo, noopAuditor{}, nil, "971566665560", 7, nil)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	authSvc := adminauth.NewService("topsecret", "signing-key", time.Hour, adminauth.NewSessionStore(client))

	handler := New(&Config{
		IntakeHandler:     intake.NewHandler(service, nil),
		AdminAuthHandler:  adminauth.NewHandler(authSvc, nil),
		AdminAuthService:  authSvc,
		AdminLeadsHandler: leads.NewHandler(repo, noopAuditor{}, nil),
		AdminLogsHandler:  audit.NewHandler(emptyLogs{}, nil),
	})
	return handler, authSvc, repo
}

func TestPublicRoutes(t *testing.T) {
	h, _, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("health status = %d, want 200", rec.Code)
	}

	body := `{"fullName":"Sara Haddad","phone":"0501234567","propertyInterest":"Marina View"}`
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/leads", strings.NewReader(body)))
	if rec.Code != http.StatusCreated {
		t.Errorf("submit status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/routing", strings.NewReader(`{"budget":3000000,"propertyType":"Villa"}`)))
	if rec.Code != http.StatusOK {
		t.Errorf("routing status = %d, want 200", rec.Code)
	}
}

func TestAdminRoutesRequireSession(t *testing.T) {
	h, _, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/leads", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated admin status = %d, want 401", rec.Code)
	}
}

func TestAdminLoginThenList(t *testing.T) {
	h, _, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(`{"password":"topsecret"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var login adminauth.LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &login); err != nil {
		t.Fatalf("decode login: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/leads", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin leads status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/admin/logs", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin logs status = %d, want 200", rec.Code)
	}
}

func TestAdminLogoutRevokes(t *testing.T) {
	h, authSvc, _ := newTestRouter(t)

	token, _, err := authSvc.Login(context.Background(), "topsecret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/admin/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("logout status = %d, want 204", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin/leads", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("revoked token status = %d, want 401", rec.Code)
	}
}

func TestRateLimitOnIntake(t *testing.T) {
	repo := leads.NewInMemoryRepository()
	service := intake.NewService(repo, noopAuditor{}, nil, "971566665560", 7, nil)
	h := New(&Config{
		IntakeHandler:      intake.NewHandler(service, nil),
		RateLimitPerSecond: 1,
		RateLimitBurst:     1,
	})

	req := httptest.NewRequest(http.MethodPost, "/api/routing", strings.NewReader(`{"budget":1,"propertyType":"Apartment"}`))
	req.Header.Set("X-Real-Ip", "203.0.113.7")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/routing", strings.NewReader(`{"budget":1,"propertyType":"Apartment"}`))
	req.Header.Set("X-Real-Ip", "203.0.113.7")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", rec.Code)
	}
}
