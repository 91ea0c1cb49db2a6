package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bdec/jobboard/internal/model"
)

// claimsProbe is a terminal handler that records the identity the guard
// injected, so tests can assert on it.
func claimsProbe(got **Claims) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims, ok := ClaimsFromContext(r.Context()); ok {
			*got = claims
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth_MissingTokenIs401(t *testing.T) {
	ts := newTestTokenService(t)
	var got *Claims
	guard := RequireAuth(ts)(claimsProbe(&got))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rec := httptest.NewRecorder()
	guard.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if got != nil {
		t.Error("handler must not run without a token")
	}
}

func TestRequireAuth_MalformedHeaderIs401(t *testing.T) {
	ts := newTestTokenService(t)
	guard := RequireAuth(ts)(claimsProbe(new(*Claims)))

	for _, header := range []string{"Bearer", "Basic abc123", "bearer lowercase-scheme"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		guard.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("header %q: status = %d, want 401", header, rec.Code)
		}
	}
}

func TestRequireAuth_InvalidTokenIs401(t *testing.T) {
	ts := newTestTokenService(t)
	guard := RequireAuth(ts)(claimsProbe(new(*Claims)))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	rec := httptest.NewRecorder()
	guard.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAuth_ValidTokenInjectsClaims(t *testing.T) {
	ts := newTestTokenService(t)
	token, err := ts.Generate(testUser())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	var got *Claims
	guard := RequireAuth(ts)(claimsProbe(&got))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	guard.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got == nil {
		t.Fatal("handler did not receive claims")
	}
	if got.UserID != 7 || got.Email != "ana@example.com" {
		t.Errorf("claims = %+v, want userID 7 / ana@example.com", got)
	}
}

func TestRequireRole_NonAdminIs403(t *testing.T) {
	ts := newTestTokenService(t)
	token, _ := ts.Generate(testUser()) // role "user"

	handlerRan := false
	chain := RequireAuth(ts)(RequireRole(model.RoleAdmin)(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) { handlerRan = true },
	)))

	req := httptest.NewRequest(http.MethodDelete, "/api/jobs/1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
	if handlerRan {
		t.Error("handler must not run for a non-admin identity")
	}
}

func TestRequireRole_AdminPasses(t *testing.T) {
	ts := newTestTokenService(t)
	admin := &model.User{ID: 1, Name: "Admin", Email: "admin@example.com", Role: model.RoleAdmin}
	token, _ := ts.Generate(admin)

	handlerRan := false
	chain := RequireAuth(ts)(RequireRole(model.RoleAdmin)(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) { handlerRan = true },
	)))

	req := httptest.NewRequest(http.MethodDelete, "/api/jobs/1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, req)

	if !handlerRan {
		t.Error("handler should run for an admin identity")
	}
}

func TestRequireRole_WithoutGuardIs401(t *testing.T) {
	// Misconfigured chain: RequireRole with no RequireAuth before it.
	chain := RequireRole(model.RoleAdmin)(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {},
	))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
