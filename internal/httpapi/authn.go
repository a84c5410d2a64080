package httpapi

import (
	"net/http"
	"strings"

	"birlik.org/internal/auth"
	"birlik.org/internal/obs"
)

// publicPaths never require a credential.
var publicPaths = []string{
	"/",
	"/healthz",
	"/readyz",
	"/metrics",
	"/openapi.yaml",
	"/v1/info",
	"/v1/auth/login",
}

// publicReadPrefixes are the site-facing resources: GETs pass without a
// credential, writes do not.
var publicReadPrefixes = []string{
	"/v1/config",
	"/v1/board",
	"/v1/announcements",
	"/v1/events",
}

// withAuth resolves the request credential and attaches the identity to
// the context. A request to a protected path without a valid credential
// is rejected here; role checks happen per handler.
func (a *API) withAuth(next http.Handler) http.Handler {
	if a.services.Authn == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		user, ok := a.services.Authn.Authenticate(r)
		if ok {
			ctx := auth.ContextWithUser(r.Context(), user)
			ctx = auth.ContextWithToken(ctx, rawToken(r))
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		if isPublicRequest(r) {
			next.ServeHTTP(w, r)
			return
		}

		if hasCredential(r) {
			obs.CountAuthFailure("rejected")
		} else {
			obs.CountAuthFailure("missing_credential")
		}
		w.Header().Set("WWW-Authenticate", `Bearer realm="birlik-cms"`)
		writeError(w, r, http.StatusUnauthorized, "authentication required")
	})
}

// ensureRole enforces the handler's minimum role. 401 without an
// identity, 403 with an insufficient one.
func (a *API) ensureRole(w http.ResponseWriter, r *http.Request, min auth.Role) bool {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		w.Header().Set("WWW-Authenticate", `Bearer realm="birlik-cms"`)
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return false
	}
	if !user.Role.Satisfies(min) {
		writeError(w, r, http.StatusForbidden, "insufficient role")
		return false
	}
	return true
}

// RequireRole is the standalone middleware form of ensureRole, for
// routes mounted outside the API mux.
func RequireRole(min auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := auth.UserFromContext(r.Context())
			if !ok {
				w.Header().Set("WWW-Authenticate", `Bearer realm="birlik-cms"`)
				writeError(w, r, http.StatusUnauthorized, "authentication required")
				return
			}
			if !user.Role.Satisfies(min) {
				writeError(w, r, http.StatusForbidden, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isPublicRequest(r *http.Request) bool {
	for _, p := range publicPaths {
		if r.URL.Path == p {
			return true
		}
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return false
	}
	for _, prefix := range publicReadPrefixes {
		if r.URL.Path == prefix || strings.HasPrefix(r.URL.Path, prefix+"/") {
			return true
		}
	}
	return false
}

func hasCredential(r *http.Request) bool {
	if strings.TrimSpace(r.Header.Get("Authorization")) != "" {
		return true
	}
	_, err := r.Cookie(auth.TokenCookie)
	return err == nil
}

// rawToken re-reads the credential the Authenticator accepted so it
// can travel with the request context.
func rawToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return strings.TrimSpace(header[len("bearer "):])
	}
	if cookie, err := r.Cookie(auth.TokenCookie); err == nil {
		return strings.TrimSpace(cookie.Value)
	}
	return ""
}
