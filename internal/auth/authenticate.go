package auth

import (
	"errors"
	"net/http"
	"strings"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "

	// TokenCookie is the fallback credential location for browser
	// sessions that cannot set an Authorization header.
	TokenCookie = "birlik_token"
)

// AuthUser is the authenticated identity for one request. It carries
// the token's embedded claims, not a fresh read of mutable profile
// fields.
type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

// CanView reports whether the user holds any active role.
func (u AuthUser) CanView() bool { return u.Role.Satisfies(RoleViewer) }

// CanEdit reports editor-or-above.
func (u AuthUser) CanEdit() bool { return u.Role.Satisfies(RoleEditor) }

// CanAdmin reports the admin role.
func (u AuthUser) CanAdmin() bool { return u.Role.Satisfies(RoleAdmin) }

// Authenticator resolves an inbound request to an identity. Tokens are
// stateless, so it re-checks the account's live state on every call:
// deactivating an account invalidates all of its outstanding tokens on
// the next request.
type Authenticator struct {
	codec    *Codec
	accounts AccountStore
}

// NewAuthenticator wires the token codec with the account store.
func NewAuthenticator(codec *Codec, accounts AccountStore) (*Authenticator, error) {
	if codec == nil {
		return nil, errors.New("token codec is required")
	}
	if accounts == nil {
		return nil, errors.New("account store is required")
	}
	return &Authenticator{codec: codec, accounts: accounts}, nil
}

// Authenticate extracts and verifies the request credential and
// confirms the account is still active. A missing credential is a
// normal unauthenticated request. Store errors during the liveness
// check fail closed: the caller sees an unauthenticated request, never
// a pass.
func (a *Authenticator) Authenticate(r *http.Request) (AuthUser, bool) {
	token := extractToken(r)
	if token == "" {
		return AuthUser{}, false
	}
	claims, err := a.codec.Verify(token)
	if err != nil {
		return AuthUser{}, false
	}
	state, err := a.accounts.AuthStateByID(r.Context(), claims.Subject)
	if err != nil || !state.Active {
		return AuthUser{}, false
	}
	return AuthUser{
		ID:    claims.Subject,
		Email: claims.Email,
		Name:  claims.Name,
		Role:  claims.Role,
	}, true
}

// extractToken prefers the bearer header, then the session cookie.
func extractToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get(authHeader))
	if header != "" {
		if strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearer)) {
			return strings.TrimSpace(header[len(bearer):])
		}
		return ""
	}
	cookie, err := r.Cookie(TokenCookie)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(cookie.Value)
}
