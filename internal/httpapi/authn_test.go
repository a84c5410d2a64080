package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"birlik.org/internal/auth"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireRoleAllowsSufficientRank(t *testing.T) {
	handler := RequireRole(auth.RoleEditor)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/internal", nil)
	req = req.WithContext(auth.ContextWithUser(req.Context(), auth.AuthUser{
		ID: "acc-1", Role: auth.RoleAdmin,
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestRequireRoleRejectsLowerRank(t *testing.T) {
	handler := RequireRole(auth.RoleAdmin)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/internal", nil)
	req = req.WithContext(auth.ContextWithUser(req.Context(), auth.AuthUser{
		ID: "acc-1", Role: auth.RoleViewer,
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}

func TestRequireRoleRejectsMissingUser(t *testing.T) {
	handler := RequireRole(auth.RoleViewer)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/internal", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	if got := rr.Header().Get("WWW-Authenticate"); got == "" {
		t.Fatalf("expected WWW-Authenticate header set")
	}
}

func TestRequireRoleRejectsUnknownRequirement(t *testing.T) {
	// A requirement outside the closed set must never be satisfiable.
	handler := RequireRole(auth.Role("root"))(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/internal", nil)
	req = req.WithContext(auth.ContextWithUser(req.Context(), auth.AuthUser{
		ID: "acc-1", Role: auth.RoleAdmin,
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}

func TestIsPublicRequest(t *testing.T) {
	cases := []struct {
		method string
		path   string
		public bool
	}{
		{http.MethodGet, "/healthz", true},
		{http.MethodGet, "/v1/auth/login", true},
		{http.MethodGet, "/v1/config", true},
		{http.MethodGet, "/v1/board/yonetim", true},
		{http.MethodGet, "/v1/announcements/duyuru", true},
		{http.MethodPost, "/v1/announcements", false},
		{http.MethodPut, "/v1/config/menu", false},
		{http.MethodGet, "/v1/auth/me", false},
		{http.MethodGet, "/v1/accounts", false},
		{http.MethodGet, "/v1/stream", false},
	}
	for _, tc := range cases {
		r := httptest.NewRequest(tc.method, tc.path, nil)
		if got := isPublicRequest(r); got != tc.public {
			t.Errorf("%s %s: public=%v, want %v", tc.method, tc.path, got, tc.public)
		}
	}
}
