package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"birlik.org/internal/auth"
	"birlik.org/internal/content"
)

type announcementRequest struct {
	Title       string     `json:"title"`
	Summary     string     `json:"summary"`
	Body        string     `json:"body"`
	PublishedAt *time.Time `json:"published_at"`
}

type eventRequest struct {
	Title    string     `json:"title"`
	Body     string     `json:"body"`
	Location string     `json:"location"`
	StartsAt time.Time  `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at"`
}

func (a *API) handleAnnouncementsCollection(w http.ResponseWriter, r *http.Request) {
	if a.services.Content == nil {
		writeError(w, r, http.StatusServiceUnavailable, "content service unavailable")
		return
	}
	switch r.Method {
	case http.MethodGet:
		limit := queryLimit(r)
		items, err := a.services.Content.ListAnnouncements(r.Context(), limit)
		if err != nil {
			handleContentError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})
	case http.MethodPost:
		if !a.ensureRole(w, r, auth.RoleEditor) {
			return
		}
		var req announcementRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		item, err := a.services.Content.CreateAnnouncement(r.Context(), req.Title, req.Summary, req.Body, req.PublishedAt)
		if err != nil {
			handleContentError(w, r, err)
			return
		}
		a.audit(r.Context(), "content.announcement.create", map[string]any{
			"id":   item.ID,
			"slug": item.Slug,
		})
		w.Header().Set("Location", "/v1/announcements/"+item.Slug)
		writeJSON(w, http.StatusCreated, item)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleAnnouncementResource(w http.ResponseWriter, r *http.Request) {
	if a.services.Content == nil {
		writeError(w, r, http.StatusServiceUnavailable, "content service unavailable")
		return
	}
	slug := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/announcements/"), "/")
	if slug == "" || strings.Contains(slug, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		item, err := a.services.Content.GetAnnouncement(r.Context(), slug)
		if err != nil {
			handleContentError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, item)
	case http.MethodPut:
		if !a.ensureRole(w, r, auth.RoleEditor) {
			return
		}
		var req announcementRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		item, err := a.services.Content.UpdateAnnouncement(r.Context(), slug, req.Title, req.Summary, req.Body, req.PublishedAt)
		if err != nil {
			handleContentError(w, r, err)
			return
		}
		a.audit(r.Context(), "content.announcement.update", map[string]any{
			"id":   item.ID,
			"slug": item.Slug,
		})
		writeJSON(w, http.StatusOK, item)
	case http.MethodDelete:
		if !a.ensureRole(w, r, auth.RoleEditor) {
			return
		}
		item, err := a.services.Content.GetAnnouncement(r.Context(), slug)
		if err != nil {
			handleContentError(w, r, err)
			return
		}
		if err := a.services.Content.DeleteAnnouncement(r.Context(), item.ID); err != nil {
			handleContentError(w, r, err)
			return
		}
		a.audit(r.Context(), "content.announcement.delete", map[string]any{
			"id":   item.ID,
			"slug": item.Slug,
		})
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

func (a *API) handleEventsCollection(w http.ResponseWriter, r *http.Request) {
	if a.services.Content == nil {
		writeError(w, r, http.StatusServiceUnavailable, "content service unavailable")
		return
	}
	switch r.Method {
	case http.MethodGet:
		limit := queryLimit(r)
		items, err := a.services.Content.ListEvents(r.Context(), limit)
		if err != nil {
			handleContentError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})
	case http.MethodPost:
		if !a.ensureRole(w, r, auth.RoleEditor) {
			return
		}
		var req eventRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		item, err := a.services.Content.CreateEvent(r.Context(), req.Title, req.Body, req.Location, req.StartsAt, req.EndsAt)
		if err != nil {
			handleContentError(w, r, err)
			return
		}
		a.audit(r.Context(), "content.event.create", map[string]any{
			"id":   item.ID,
			"slug": item.Slug,
		})
		w.Header().Set("Location", "/v1/events/"+item.Slug)
		writeJSON(w, http.StatusCreated, item)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleEventResource(w http.ResponseWriter, r *http.Request) {
	if a.services.Content == nil {
		writeError(w, r, http.StatusServiceUnavailable, "content service unavailable")
		return
	}
	slug := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/events/"), "/")
	if slug == "" || strings.Contains(slug, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		item, err := a.services.Content.GetEvent(r.Context(), slug)
		if err != nil {
			handleContentError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, item)
	case http.MethodPut:
		if !a.ensureRole(w, r, auth.RoleEditor) {
			return
		}
		var req eventRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		item, err := a.services.Content.UpdateEvent(r.Context(), slug, req.Title, req.Body, req.Location, req.StartsAt, req.EndsAt)
		if err != nil {
			handleContentError(w, r, err)
			return
		}
		a.audit(r.Context(), "content.event.update", map[string]any{
			"id":   item.ID,
			"slug": item.Slug,
		})
		writeJSON(w, http.StatusOK, item)
	case http.MethodDelete:
		if !a.ensureRole(w, r, auth.RoleEditor) {
			return
		}
		item, err := a.services.Content.GetEvent(r.Context(), slug)
		if err != nil {
			handleContentError(w, r, err)
			return
		}
		if err := a.services.Content.DeleteEvent(r.Context(), item.ID); err != nil {
			handleContentError(w, r, err)
			return
		}
		a.audit(r.Context(), "content.event.delete", map[string]any{
			"id":   item.ID,
			"slug": item.Slug,
		})
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

func queryLimit(r *http.Request) int {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return 0
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return val
}

func handleContentError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, content.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, content.ErrConflict):
		writeError(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, content.ErrNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	default:
		writeError(w, r, http.StatusInternalServerError, "content operation failed")
	}
}
