package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"birlik.org/internal/auth"
	"birlik.org/internal/board"
)

type createMemberRequest struct {
	Group    string `json:"group"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Bio      string `json:"bio"`
	PhotoURL string `json:"photo_url"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Order    int    `json:"order"`
}

func (a *API) handleBoardCollection(w http.ResponseWriter, r *http.Request) {
	if a.services.Roster == nil {
		writeError(w, r, http.StatusServiceUnavailable, "board service unavailable")
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	if !a.ensureRole(w, r, auth.RoleEditor) {
		return
	}
	var req createMemberRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	member, err := a.services.Roster.Create(r.Context(), board.Group(strings.ToLower(strings.TrimSpace(req.Group))), board.Member{
		Name:     req.Name,
		Position: req.Position,
		Bio:      req.Bio,
		PhotoURL: req.PhotoURL,
		Email:    req.Email,
		Phone:    req.Phone,
		Order:    req.Order,
	})
	if err != nil {
		handleBoardError(w, r, err)
		return
	}
	a.audit(r.Context(), "board.member.create", map[string]any{
		"member_id": member.ID,
		"group":     string(member.Group),
		"name":      member.Name,
	})
	w.Header().Set("Location", "/v1/board/"+string(member.Group))
	writeJSON(w, http.StatusCreated, member)
}

func (a *API) handleBoardGroup(w http.ResponseWriter, r *http.Request) {
	if a.services.Roster == nil {
		writeError(w, r, http.StatusServiceUnavailable, "board service unavailable")
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	raw := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/board/"), "/")
	if raw == "" || strings.Contains(raw, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	members, err := a.services.Roster.ListByGroup(r.Context(), board.Group(strings.ToLower(raw)))
	if err != nil {
		handleBoardError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": members})
}

func handleBoardError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, board.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, board.ErrNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	default:
		writeError(w, r, http.StatusInternalServerError, "board operation failed")
	}
}
