package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// fakeAccounts implements AccountStore over a map; err, when set, is
// returned from every call to simulate store outages.
type fakeAccounts struct {
	states map[string]AuthState
	err    error
}

func (f *fakeAccounts) AuthStateByID(ctx context.Context, id string) (AuthState, error) {
	if f.err != nil {
		return AuthState{}, f.err
	}
	state, ok := f.states[id]
	if !ok {
		return AuthState{}, ErrNotFound
	}
	return state, nil
}

func (f *fakeAccounts) Create(ctx context.Context, acc *Account) error { return f.err }
func (f *fakeAccounts) Find(ctx context.Context, id string) (*Account, error) {
	return nil, ErrNotFound
}
func (f *fakeAccounts) FindByEmail(ctx context.Context, email string) (*Account, error) {
	return nil, ErrNotFound
}
func (f *fakeAccounts) List(ctx context.Context) ([]*Account, error) { return nil, f.err }
func (f *fakeAccounts) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	return f.err
}
func (f *fakeAccounts) SetRole(ctx context.Context, id string, role Role) error { return f.err }
func (f *fakeAccounts) SetActive(ctx context.Context, id string, active bool) error {
	return f.err
}

func newTestAuthenticator(t *testing.T, accounts AccountStore) (*Authenticator, *Codec) {
	t.Helper()
	codec := testCodec(t)
	authn, err := NewAuthenticator(codec, accounts)
	if err != nil {
		t.Fatalf("NewAuthenticator: %v", err)
	}
	return authn, codec
}

func issueFor(t *testing.T, codec *Codec, acc *Account) string {
	t.Helper()
	token, _, err := codec.Issue(acc)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return token
}

func TestAuthenticateBearerHeader(t *testing.T) {
	store := &fakeAccounts{states: map[string]AuthState{
		"acc-1": {Active: true, Role: RoleEditor},
	}}
	authn, codec := newTestAuthenticator(t, store)
	token := issueFor(t, codec, &Account{ID: "acc-1", Email: "e@birlik.org", Name: "Editör", Role: RoleEditor})

	req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	user, ok := authn.Authenticate(req)
	if !ok {
		t.Fatalf("expected authenticated user")
	}
	if user.ID != "acc-1" || user.Role != RoleEditor || user.Email != "e@birlik.org" {
		t.Fatalf("unexpected identity: %+v", user)
	}
}

func TestAuthenticateCookieFallback(t *testing.T) {
	store := &fakeAccounts{states: map[string]AuthState{
		"acc-1": {Active: true, Role: RoleViewer},
	}}
	authn, codec := newTestAuthenticator(t, store)
	token := issueFor(t, codec, &Account{ID: "acc-1", Role: RoleViewer})

	req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: token})

	if _, ok := authn.Authenticate(req); !ok {
		t.Fatalf("expected cookie credential to authenticate")
	}
}

func TestAuthenticateNoCredentialIsNotAnError(t *testing.T) {
	authn, _ := newTestAuthenticator(t, &fakeAccounts{})
	req := httptest.NewRequest(http.MethodGet, "/v1/announcements", nil)
	if _, ok := authn.Authenticate(req); ok {
		t.Fatalf("request without credentials must be unauthenticated")
	}
}

func TestAuthenticateRejectsDeactivatedAccount(t *testing.T) {
	store := &fakeAccounts{states: map[string]AuthState{
		"acc-1": {Active: true, Role: RoleAdmin},
	}}
	authn, codec := newTestAuthenticator(t, store)
	token := issueFor(t, codec, &Account{ID: "acc-1", Role: RoleAdmin})

	// Token verifies fine before and after the flip.
	if _, err := codec.Verify(token); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	store.states["acc-1"] = AuthState{Active: false, Role: RoleAdmin}

	req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	if _, ok := authn.Authenticate(req); ok {
		t.Fatalf("deactivated account must be unauthenticated despite a valid token")
	}
}

func TestAuthenticateRejectsUnknownAccount(t *testing.T) {
	authn, codec := newTestAuthenticator(t, &fakeAccounts{states: map[string]AuthState{}})
	token := issueFor(t, codec, &Account{ID: "ghost", Role: RoleAdmin})

	req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	if _, ok := authn.Authenticate(req); ok {
		t.Fatalf("token for a deleted account must not authenticate")
	}
}

func TestAuthenticateFailsClosedOnStoreError(t *testing.T) {
	store := &fakeAccounts{err: errors.New("connection refused")}
	authn, codec := newTestAuthenticator(t, store)
	token := issueFor(t, codec, &Account{ID: "acc-1", Role: RoleAdmin})

	req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	if _, ok := authn.Authenticate(req); ok {
		t.Fatalf("store outage during authentication must fail closed")
	}
}

func TestAuthenticateRejectsMalformedScheme(t *testing.T) {
	authn, codec := newTestAuthenticator(t, &fakeAccounts{states: map[string]AuthState{
		"acc-1": {Active: true, Role: RoleAdmin},
	}})
	token := issueFor(t, codec, &Account{ID: "acc-1", Role: RoleAdmin})

	req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
	req.Header.Set("Authorization", "Basic "+token)
	if _, ok := authn.Authenticate(req); ok {
		t.Fatalf("non-bearer scheme must not authenticate")
	}
}

func TestAuthUserPredicates(t *testing.T) {
	admin := AuthUser{Role: RoleAdmin}
	editor := AuthUser{Role: RoleEditor}
	viewer := AuthUser{Role: RoleViewer}

	if !admin.CanAdmin() || !admin.CanEdit() || !admin.CanView() {
		t.Fatalf("admin must satisfy every predicate")
	}
	if editor.CanAdmin() || !editor.CanEdit() || !editor.CanView() {
		t.Fatalf("editor predicates wrong")
	}
	if viewer.CanAdmin() || viewer.CanEdit() || !viewer.CanView() {
		t.Fatalf("viewer predicates wrong")
	}
}
