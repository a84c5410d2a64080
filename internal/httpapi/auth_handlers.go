package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"birlik.org/internal/auth"
	"birlik.org/internal/obs"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	Account   *auth.Account `json:"account"`
}

type createAccountRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

type setRoleRequest struct {
	Role string `json:"role"`
}

type setActiveRequest struct {
	Active bool `json:"active"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	if a.services.Accounts == nil {
		writeError(w, r, http.StatusServiceUnavailable, "accounts service unavailable")
		return
	}

	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	acc, token, expiresAt, err := a.services.Accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			obs.CountAuthFailure("bad_credentials")
			writeError(w, r, http.StatusUnauthorized, "invalid credentials")
		case errors.Is(err, auth.ErrInvalidInput):
			writeError(w, r, http.StatusBadRequest, err.Error())
		default:
			writeError(w, r, http.StatusInternalServerError, "login failed")
		}
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	ctx := auth.ContextWithUser(r.Context(), auth.AuthUser{
		ID: acc.ID, Email: acc.Email, Name: acc.Name, Role: acc.Role,
	})
	a.audit(ctx, "auth.login", map[string]any{
		"email": acc.Email,
	})

	writeJSON(w, http.StatusOK, loginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Account:   acc,
	})
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	a.audit(r.Context(), "auth.logout", nil)
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	if !a.ensureRole(w, r, auth.RoleViewer) {
		return
	}
	user, _ := auth.UserFromContext(r.Context())
	writeJSON(w, http.StatusOK, user)
}

func (a *API) handleAccountsCollection(w http.ResponseWriter, r *http.Request) {
	if a.services.Accounts == nil {
		writeError(w, r, http.StatusServiceUnavailable, "accounts service unavailable")
		return
	}
	if !a.ensureRole(w, r, auth.RoleAdmin) {
		return
	}
	switch r.Method {
	case http.MethodGet:
		accounts, err := a.services.Accounts.ListAccounts(r.Context())
		if err != nil {
			handleAuthError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": accounts})
	case http.MethodPost:
		var req createAccountRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		role, err := auth.ParseRole(req.Role)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		acc, err := a.services.Accounts.CreateAccount(r.Context(), req.Email, req.Password, req.Name, role)
		if err != nil {
			handleAuthError(w, r, err)
			return
		}
		a.audit(r.Context(), "auth.account.create", map[string]any{
			"account_id": acc.ID,
			"email":      acc.Email,
			"role":       string(acc.Role),
		})
		w.Header().Set("Location", "/v1/accounts/"+acc.ID)
		writeJSON(w, http.StatusCreated, acc)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleAccountResource(w http.ResponseWriter, r *http.Request) {
	if a.services.Accounts == nil {
		writeError(w, r, http.StatusServiceUnavailable, "accounts service unavailable")
		return
	}
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/accounts/"), "/")
	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] == "" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	if !a.ensureRole(w, r, auth.RoleAdmin) {
		return
	}
	if r.Method != http.MethodPut {
		methodNotAllowed(w, r, http.MethodPut)
		return
	}
	id := parts[0]
	switch parts[1] {
	case "role":
		var req setRoleRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		role, err := auth.ParseRole(req.Role)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		if err := a.services.Accounts.SetRole(r.Context(), id, role); err != nil {
			handleAuthError(w, r, err)
			return
		}
		a.audit(r.Context(), "auth.account.set_role", map[string]any{
			"account_id": id,
			"role":       req.Role,
		})
		w.WriteHeader(http.StatusNoContent)
	case "active":
		var req setActiveRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		if err := a.services.Accounts.SetActive(r.Context(), id, req.Active); err != nil {
			handleAuthError(w, r, err)
			return
		}
		a.audit(r.Context(), "auth.account.set_active", map[string]any{
			"account_id": id,
			"active":     req.Active,
		})
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, r, http.StatusNotFound, "resource not found")
	}
}

func handleAuthError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrConflict):
		writeError(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, auth.ErrNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	default:
		writeError(w, r, http.StatusInternalServerError, "account operation failed")
	}
}
