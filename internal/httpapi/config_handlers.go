package httpapi

import (
	"net/http"
	"strings"

	"birlik.org/internal/auth"
	"birlik.org/internal/siteconfig"
)

// handleConfig serves the fully normalized configuration tree. The raw
// stored fragment never leaves the service.
func (a *API) handleConfig(w http.ResponseWriter, r *http.Request) {
	if a.services.Config == nil {
		writeError(w, r, http.StatusServiceUnavailable, "config store unavailable")
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	fragment, err := a.services.Config.LoadFragment(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "config load failed")
		return
	}
	writeJSON(w, http.StatusOK, siteconfig.Normalize(fragment))
}

// handleConfigSection reads or replaces one named section of the
// fragment. Section names outside the closed set are rejected before
// touching the store.
func (a *API) handleConfigSection(w http.ResponseWriter, r *http.Request) {
	if a.services.Config == nil {
		writeError(w, r, http.StatusServiceUnavailable, "config store unavailable")
		return
	}
	raw := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/config/"), "/")
	section, err := siteconfig.ParseSection(raw)
	if err != nil {
		writeError(w, r, http.StatusNotFound, err.Error())
		return
	}

	switch r.Method {
	case http.MethodGet:
		fragment, err := a.services.Config.LoadFragment(r.Context())
		if err != nil {
			writeError(w, r, http.StatusInternalServerError, "config load failed")
			return
		}
		writeJSON(w, http.StatusOK, siteconfig.Normalize(fragment)[string(section)])
	case http.MethodPut:
		if !a.ensureRole(w, r, auth.RoleEditor) {
			return
		}
		var value any
		if err := decodeJSON(w, r, &value); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		fragment, err := a.services.Config.LoadFragment(r.Context())
		if err != nil {
			writeError(w, r, http.StatusInternalServerError, "config load failed")
			return
		}
		if fragment == nil {
			fragment = map[string]any{}
		}
		fragment[string(section)] = value
		if err := a.services.Config.SaveFragment(r.Context(), fragment); err != nil {
			writeError(w, r, http.StatusInternalServerError, "config save failed")
			return
		}
		a.audit(r.Context(), "config.section.update", map[string]any{
			"section": string(section),
		})
		writeJSON(w, http.StatusOK, siteconfig.Normalize(fragment)[string(section)])
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut)
	}
}
